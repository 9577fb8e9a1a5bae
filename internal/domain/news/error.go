package news

import "errors"

var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidSourceType = errors.New("unknown source type")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrEmptyURL          = errors.New("url must not be empty")
)
