package pax

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBaseURL   = errors.New("pax: terminal base URL is empty")
	ErrInvalidAmount    = errors.New("pax: amount is out of range")
	ErrNotAnObject      = errors.New("pax: terminal response is not a JSON object")
	ErrMissingRespCode  = errors.New("pax: terminal response has no respcode")
	ErrTerminalRequest  = errors.New("pax: terminal request failed")
	ErrUnexpectedStatus = errors.New("pax: unexpected HTTP status from terminal")
)

// StatusError описывает HTTP-ответ терминала с кодом, отличным от 2xx
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pax: terminal responded %d %s", e.StatusCode, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
