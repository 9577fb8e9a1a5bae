package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"
)

// Prober проверяет доступность сервера
type Prober interface {
	HealthCheck(ctx context.Context) error
}

// NetworkMonitor хранит последнее известное состояние связи и оповещает
// подписчиков о его смене
type NetworkMonitor struct {
	prober   Prober
	log      *slog.Logger
	interval time.Duration
	timeout  time.Duration

	online atomic.Bool

	mu     sync.Mutex
	subs   map[int]func(online bool)
	nextID int
}

func NewNetworkMonitor(prober Prober, interval, timeout time.Duration, log *slog.Logger) *NetworkMonitor {
	return &NetworkMonitor{
		prober:   prober,
		log:      log.With(slog.String("component", "network")),
		interval: interval,
		timeout:  timeout,
		subs:     make(map[int]func(bool)),
	}
}

// IsOnline последнее известное состояние. До первой проверки false.
func (n *NetworkMonitor) IsOnline() bool {
	return n.online.Load()
}

// CheckConnection опрашивает сервер и обновляет состояние
func (n *NetworkMonitor) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	err := n.prober.HealthCheck(ctx)
	if err != nil {
		n.log.Debug("Сервер недоступен", "error", err)
	}

	online := err == nil
	n.SetOnline(online)
	return online
}

// SetOnline принудительно выставляет состояние
func (n *NetworkMonitor) SetOnline(online bool) {
	if n.online.Swap(online) == online {
		return
	}

	if online {
		n.log.Info("Связь с сервером восстановлена")
	} else {
		n.log.Warn("Связь с сервером потеряна")
	}
	n.notify(online)
}

// Subscribe регистрирует обработчик смены состояния, возвращает функцию отписки
func (n *NetworkMonitor) Subscribe(fn func(online bool)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *NetworkMonitor) notify(online bool) {
	n.mu.Lock()
	handlers := make([]func(bool), 0, len(n.subs))
	for _, fn := range n.subs {
		handlers = append(handlers, fn)
	}
	n.mu.Unlock()

	for _, fn := range handlers {
		fn(online)
	}
}

// Run периодически проверяет связь до отмены ctx
func (n *NetworkMonitor) Run(ctx context.Context) {
	n.CheckConnection(ctx)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.log.Info("Мониторинг сети остановлен")
			return
		case <-ticker.C:
			n.CheckConnection(ctx)
		}
	}
}
