package zpl

import "errors"

var (
	ErrUnknownConnection = errors.New("zpl: unknown printer connection type")
	ErrShortWrite        = errors.New("zpl: printer accepted incomplete data")
	ErrEmptyPayload      = errors.New("zpl: nothing to send")
)
