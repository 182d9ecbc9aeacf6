package pax

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Client определяет интерфейс клиента платежного терминала
type Client interface {
	// Charge выполняет продажу на сумму в минимальных единицах валюты POS.
	// Результат всегда возвращается, ошибки связи и разбора в нем.
	Charge(ctx context.Context, baseURL string, amountMinorUnits int64) Result
}

// New создает клиент с HTTP транспортом
func New(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &paxClient{
		cfg:       cfg,
		transport: NewHTTPTransport(cfg.Timeout, cfg.Logger),
	}
}

// NewWithTransport создает клиент с пользовательским транспортом (для тестов)
func NewWithTransport(cfg Config, transport Transport) Client {
	return &paxClient{
		cfg:       cfg,
		transport: transport,
	}
}

type paxClient struct {
	cfg       Config
	transport Transport
}

// Charge реализует продажу
func (c *paxClient) Charge(ctx context.Context, baseURL string, amountMinorUnits int64) Result {
	if strings.TrimSpace(baseURL) == "" {
		return failed(ErrMissingBaseURL.Error())
	}
	if amountMinorUnits <= 0 || amountMinorUnits > MaxAmountMinorUnits {
		return failed(fmt.Sprintf("%v: %d", ErrInvalidAmount, amountMinorUnits))
	}

	target := BuildRequestTarget(baseURL, amountMinorUnits)
	if c.cfg.Logger != nil {
		c.cfg.Logger(fmt.Sprintf("Charging %d via %s", amountMinorUnits, target))
	}

	body, err := c.transport.Get(ctx, target)
	if err != nil {
		return failed(err.Error())
	}

	res := ParseResponse(body)
	if c.cfg.Logger != nil {
		code := "<none>"
		if res.ResponseCode != nil {
			code = *res.ResponseCode
		}
		c.cfg.Logger(fmt.Sprintf("Terminal result: success=%t code=%s", res.Success, code))
	}
	return res
}
