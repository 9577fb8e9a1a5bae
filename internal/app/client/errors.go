package client

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("пользователь не аутентифицирован")
	ErrSyncInProgress   = errors.New("синхронизация уже выполняется")
	ErrSyncDisabled     = errors.New("синхронизация отключена")
	ErrUnknownOperation = errors.New("неизвестная операция очереди")
	ErrSourceNotFound   = errors.New("источник не найден")
	ErrThemeNotFound    = errors.New("тема не найдена")
)

// RemoteError ответ сервера с кодом ошибки
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ошибка сервера (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ошибка сервера: статус %d", e.StatusCode)
}

// IsClientError ошибка вызвана самим запросом (4xx)
func (e *RemoteError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
