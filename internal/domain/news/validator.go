package news

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	MaxNameLen       = 128
	DefaultArticles  = 100
	MaxArticlesLimit = 1000
)

// ParseSourceType проверяет и приводит строку к SourceType
func ParseSourceType(s string) (SourceType, error) {
	switch t := SourceType(strings.ToLower(strings.TrimSpace(s))); t {
	case SourceTypeFeed, SourceTypePage, SourceTypeVideoChannel:
		return t, nil
	case "":
		return SourceTypeFeed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSourceType, s)
	}
}

// ValidateSource проверяет поля источника, которые задаёт пользователь
func ValidateSource(s Source) error {
	if strings.TrimSpace(s.URL) == "" {
		return ErrEmptyURL
	}
	u, err := url.Parse(s.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: malformed url %q", ErrInvalidInput, s.URL)
	}
	if err := validateName(s.Name); err != nil {
		return err
	}
	if _, err := ParseSourceType(string(s.Type)); err != nil {
		return err
	}
	return nil
}

// ValidateTheme проверяет поля темы
func ValidateTheme(t Theme) error {
	return validateName(t.Name)
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: name longer than %d", ErrInvalidInput, MaxNameLen)
	}
	return nil
}

// ClampLimit ограничивает размер окна статей
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultArticles
	}
	if limit > MaxArticlesLimit {
		return MaxArticlesLimit
	}
	return limit
}
