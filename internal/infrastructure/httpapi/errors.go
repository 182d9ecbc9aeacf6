package httpapi

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveConfiguration = errors.New("httpapi: no active server configuration")
	ErrMissingHostname       = errors.New("httpapi: server name is not configured")
	ErrInvalidServerURL      = errors.New("httpapi: server URL is invalid")
	ErrUnexpectedStatus      = errors.New("httpapi: unexpected HTTP status")
	ErrEmptyToken            = errors.New("httpapi: server returned an empty token")
)

// ConfigErrorKind различает ошибки конфигурации
type ConfigErrorKind int

const (
	KindNoActiveConfiguration ConfigErrorKind = iota
	KindMissingHostname
	KindInvalidServerURL
)

func (k ConfigErrorKind) sentinel() error {
	switch k {
	case KindMissingHostname:
		return ErrMissingHostname
	case KindInvalidServerURL:
		return ErrInvalidServerURL
	default:
		return ErrNoActiveConfiguration
	}
}

// ConfigError - ошибка конфигурации сервера, обнаруженная до отправки запроса.
// Message предназначено для показа оператору.
type ConfigError struct {
	Kind    ConfigErrorKind
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind.sentinel(), e.Message)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrNoActiveConfiguration) и т.п.
func (e *ConfigError) Unwrap() error {
	return e.Kind.sentinel()
}

// StatusError - ответ сервера с кодом вне 2xx
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("httpapi: HTTP %d", e.Code)
	}
	return fmt.Sprintf("httpapi: HTTP %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
