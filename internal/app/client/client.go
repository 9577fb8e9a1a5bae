package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"

	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/client/config"
)

type App struct {
	config      *config.Config
	log         *slog.Logger
	httpClient  *httpClient
	storage     *SQLiteStorage
	network     *NetworkMonitor
	syncService *SyncService
	gateway     *Gateway
	reader      *Reader
	identity    Identity
	wg          gosync.WaitGroup
	cancel      context.CancelFunc
	mu          gosync.RWMutex
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога конфигурации: %w", err)
	}

	httpCl := NewHTTPClient(cfg, log)

	storage, err := NewSQLiteStorage(context.Background(), cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации локального хранилища: %w", err)
	}

	network := NewNetworkMonitor(httpCl, cfg.NetworkCheckInterval, cfg.RequestTimeout, log)

	syncCfg := &SyncConfig{
		Enabled:       !cfg.Offline,
		Interval:      cfg.SyncInterval,
		MaxRetries:    cfg.MaxRetries,
		ArticleWindow: cfg.ArticleWindow,
	}

	app := &App{
		config:      cfg,
		log:         log,
		httpClient:  httpCl,
		storage:     storage,
		network:     network,
		syncService: NewSyncService(storage, httpCl, syncCfg, cfg.ConfigDir, log),
		gateway:     NewGateway(storage, httpCl, network, log),
		reader:      NewReader(storage, httpCl, network, cfg.ArticleWindow, log),
	}

	id, err := loadIdentity(cfg.IdentityPath)
	switch {
	case err == nil:
		app.identity = id
		log.Debug("Учётные данные загружены из файла", "login", id.Login)
	case !errors.Is(err, os.ErrNotExist):
		log.Warn("Не удалось загрузить учётные данные", "error", err)
	}

	return app, nil
}

// Run запускает мониторинг сети и автосинхронизацию до сигнала завершения
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go a.handleSignals()

	unsubscribe := func() {}
	if a.config.Offline {
		a.log.Info("Клиент работает в автономном режиме")
	} else {
		unsubscribe = a.network.Subscribe(func(online bool) {
			if !online {
				return
			}
			a.wg.Add(1)
			go func() {
				defer a.wg.Done()
				a.syncOnReconnect(ctx)
			}()
		})

		a.wg.Add(2)
		go func() {
			defer a.wg.Done()
			a.network.Run(ctx)
		}()
		go func() {
			defer a.wg.Done()
			a.syncService.StartAutoSync(ctx, a.Identity, a.network.IsOnline)
		}()
	}

	a.log.Info("Клиент запущен",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
	)

	<-ctx.Done()
	unsubscribe()
	a.wg.Wait()
	return nil
}

func (a *App) syncOnReconnect(ctx context.Context) {
	id := a.Identity()
	if !id.Valid() {
		return
	}

	_, err := a.syncService.FullSync(ctx, id)
	switch {
	case err == nil, errors.Is(err, ErrSyncInProgress):
	default:
		a.log.Error("Ошибка синхронизации после восстановления связи", "error", err)
	}
}

func (a *App) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigChan
	a.log.Info("Получен сигнал завершения", "signal", sig.String())

	if a.cancel != nil {
		a.cancel()
	}
}

// Shutdown останавливает фоновые задачи
func (a *App) Shutdown() {
	a.log.Info("Завершение работы клиента...")

	if a.cancel != nil {
		a.cancel()
	}

	a.wg.Wait()
	a.log.Info("Клиент завершил работу")
}

// Close освобождает локальное хранилище
func (a *App) Close() error {
	return a.storage.Close()
}

// CheckConnection проверяет соединение с сервером и обновляет состояние сети
func (a *App) CheckConnection(ctx context.Context) bool {
	if a.config.Offline {
		return false
	}
	return a.network.CheckConnection(ctx)
}

// Identity текущие учётные данные
func (a *App) Identity() Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.identity
}

// IsAuthenticated проверяет, выполнен ли вход
func (a *App) IsAuthenticated() bool {
	return a.Identity().Valid()
}

// Register регистрирует нового пользователя
func (a *App) Register(ctx context.Context, login, password string) error {
	if _, err := a.httpClient.Register(ctx, login, password); err != nil {
		return err
	}

	a.log.Info("Пользователь успешно зарегистрирован", "login", login)
	return nil
}

// Login выполняет вход и сохраняет учётные данные
func (a *App) Login(ctx context.Context, login, password string) (Identity, error) {
	id, err := a.httpClient.Login(ctx, login, password)
	if err != nil {
		return Identity{}, err
	}

	if err := saveIdentity(a.config.IdentityPath, id); err != nil {
		return Identity{}, err
	}

	a.mu.Lock()
	a.identity = id
	a.mu.Unlock()

	a.log.Info("Вход выполнен успешно", "login", login)
	return id, nil
}

// Logout удаляет учётные данные и локальное зеркало.
// Возвращает число неотправленных операций, которые были потеряны.
func (a *App) Logout(ctx context.Context) (int, error) {
	a.mu.Lock()
	a.identity = Identity{}
	a.mu.Unlock()

	if err := os.Remove(a.config.IdentityPath); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("ошибка удаления учётных данных: %w", err)
	}

	if err := a.storage.ClearAll(ctx); err != nil {
		return 0, err
	}

	dropped, err := a.storage.ClearQueue(ctx)
	if err != nil {
		return 0, err
	}
	if dropped > 0 {
		a.log.Warn("При выходе удалены неотправленные изменения", "count", dropped)
	}

	a.log.Info("Выход выполнен")
	return dropped, nil
}

func (a *App) Gateway() *Gateway { return a.gateway }
func (a *App) Reader() *Reader { return a.reader }
func (a *App) Sync() *SyncService { return a.syncService }
func (a *App) Storage() *SQLiteStorage { return a.storage }
func (a *App) Network() *NetworkMonitor { return a.network }
func (a *App) Config() *config.Config { return a.config }

func loadIdentity(path string) (Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Identity{}, err
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return Identity{}, fmt.Errorf("ошибка парсинга учётных данных: %w", err)
	}
	if !id.Valid() {
		return Identity{}, fmt.Errorf("учётные данные неполные")
	}
	return id, nil
}

func saveIdentity(path string, id Identity) error {
	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("ошибка сохранения учётных данных: %w", err)
	}
	return nil
}
