// Package terminal выбирает реализацию платежного терминала по тегу провайдера
// из активной конфигурации.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poslink/internal/domain/models"
	"poslink/internal/domain/ports"
)

// ErrUnknownProvider возвращается, если для тега нет зарегистрированного провайдера
var ErrUnknownProvider = errors.New("terminal: unknown payment terminal provider")

// ErrNoTerminalURL возвращается, если в конфигурации не задан адрес терминала
var ErrNoTerminalURL = errors.New("terminal: datafono URL is not configured")

// Provider - драйвер терминала конкретного производителя
type Provider interface {
	// ID возвращает тег, под которым провайдер хранится в конфигурации
	ID() string
	BuildRequestTarget(baseURL string, amountMinorUnits int64) string
	ParseResponse(raw []byte) models.PaymentTerminalResult
	Charge(ctx context.Context, baseURL string, amountMinorUnits int64) models.PaymentTerminalResult
}

// Registry хранит провайдеров и реализует ports.PaymentTerminal
type Registry struct {
	providers map[string]Provider
	fallback  string
	log       ports.Logger
}

// NewRegistry создает реестр. Первый провайдер используется, если тег в конфигурации пуст.
func NewRegistry(log ports.Logger, providers ...Provider) *Registry {
	if log == nil {
		log = ports.NopLogger{}
	}
	r := &Registry{providers: make(map[string]Provider), log: log}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register добавляет провайдера, заменяя существующего с тем же тегом
func (r *Registry) Register(p Provider) {
	id := normalizeTag(p.ID())
	if r.fallback == "" {
		r.fallback = id
	}
	r.providers[id] = p
}

// Resolve находит провайдера по тегу
func (r *Registry) Resolve(tag string) (Provider, error) {
	id := normalizeTag(tag)
	if id == "" {
		id = r.fallback
	}
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, tag)
	}
	return p, nil
}

// Charge выполняет продажу через терминал из конфигурации.
// Ошибку возвращает только неверная конфигурация, остальное - в результате.
func (r *Registry) Charge(ctx context.Context, cfg *models.ServerConfiguration, amountMinorUnits int64) (models.PaymentTerminalResult, error) {
	if cfg == nil {
		return models.PaymentTerminalResult{}, ErrNoTerminalURL
	}
	p, err := r.Resolve(cfg.DatafonoProvider)
	if err != nil {
		return models.PaymentTerminalResult{}, err
	}
	if strings.TrimSpace(cfg.DatafonURL) == "" {
		return models.PaymentTerminalResult{}, ErrNoTerminalURL
	}

	r.log.Info("[TERMINAL] %s: продажа на %d", p.ID(), amountMinorUnits)
	res := p.Charge(ctx, cfg.DatafonURL, amountMinorUnits)
	switch {
	case res.Success:
		r.log.Info("[TERMINAL] одобрено, авторизация %s", deref(res.AuthorizationCode))
	case res.Declined():
		r.log.Warn("[TERMINAL] отклонено: %s", deref(res.ErrorMessage))
	default:
		r.log.Error("[TERMINAL] ошибка: %s", deref(res.ErrorMessage))
	}
	return res, nil
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
