// Package checkout связывает шаги продажи: маркер восстановления, списание через
// терминал и печать чека. Решение о восстановлении незавершенной транзакции
// принимает вызывающий код по результату Pending.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"poslink/internal/devicestate"
	"poslink/internal/domain/models"
	"poslink/internal/domain/ports"
	"poslink/internal/packaging"
	"poslink/pkg/pax"
)

var (
	ErrStationClosed   = errors.New("checkout: station is closed")
	ErrNoConfiguration = errors.New("checkout: no active server configuration")
	ErrInvalidAmount   = errors.New("checkout: amount is out of range")
)

// Deps - зависимости сервиса
type Deps struct {
	Configs  ports.ServerConfigRepository
	Recovery ports.RecoveryRepository
	Terminal ports.PaymentTerminal
	Printer  ports.ReceiptPrinter
	State    *devicestate.Registry
	Logger   ports.Logger
}

// Service - сценарий продажи
type Service struct {
	configs  ports.ServerConfigRepository
	recovery ports.RecoveryRepository
	terminal ports.PaymentTerminal
	printer  ports.ReceiptPrinter
	state    *devicestate.Registry
	log      ports.Logger

	newID func() string
	now   func() time.Time
}

// NewService создает сервис продажи
func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Service{
		configs:  d.Configs,
		recovery: d.Recovery,
		terminal: d.Terminal,
		printer:  d.Printer,
		state:    d.State,
		log:      log,
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
	}
}

// Begin открывает транзакцию и сохраняет маркер. Существующий маркер заменяется.
func (s *Service) Begin(ctx context.Context) (string, error) {
	id := s.newID()
	if err := s.recovery.Save(ctx, id); err != nil {
		return "", fmt.Errorf("checkout: сохранение маркера: %w", err)
	}
	s.log.Info("[RECOVERY] начата транзакция %s", id)
	return id, nil
}

// Pending возвращает маркер незавершенной транзакции или nil
func (s *Service) Pending(ctx context.Context) (*models.ActiveTransactionMarker, error) {
	m, err := s.recovery.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout: чтение маркера: %w", err)
	}
	return m, nil
}

// Complete завершает транзакцию
func (s *Service) Complete(ctx context.Context) error {
	if err := s.recovery.Clear(ctx); err != nil {
		return fmt.Errorf("checkout: удаление маркера: %w", err)
	}
	s.log.Info("[RECOVERY] транзакция завершена")
	return nil
}

// Abandon отменяет незавершенную транзакцию
func (s *Service) Abandon(ctx context.Context) error {
	if err := s.recovery.Clear(ctx); err != nil {
		return fmt.Errorf("checkout: удаление маркера: %w", err)
	}
	s.log.Warn("[RECOVERY] транзакция отменена")
	return nil
}

// Charge списывает сумму через терминал активной конфигурации.
// Отказ банка - это результат, а не ошибка.
func (s *Service) Charge(ctx context.Context, amountMinorUnits int64) (models.PaymentTerminalResult, error) {
	if amountMinorUnits <= 0 || amountMinorUnits > pax.MaxAmountMinorUnits {
		return models.PaymentTerminalResult{}, fmt.Errorf("%w: %d", ErrInvalidAmount, amountMinorUnits)
	}
	if !s.state.Station.IsOpen() {
		return models.PaymentTerminalResult{}, ErrStationClosed
	}

	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return models.PaymentTerminalResult{}, err
	}

	res, err := s.terminal.Charge(ctx, cfg, amountMinorUnits)
	if err != nil {
		return models.PaymentTerminalResult{}, err
	}

	if res.TerminalID != nil && strings.TrimSpace(*res.TerminalID) != "" {
		s.state.TerminalID.Set(strings.TrimSpace(*res.TerminalID))
	}
	return res, nil
}

// Sale выполняет продажу целиком: маркер, списание и его закрытие.
// Если терминал не был вызван (ошибка конфигурации или валидации), маркер
// удаляется. Если исход платежа неизвестен (сбой связи), маркер остается
// для восстановления. Возвращает ID транзакции.
func (s *Service) Sale(ctx context.Context, amountMinorUnits int64) (string, models.PaymentTerminalResult, error) {
	id, err := s.Begin(ctx)
	if err != nil {
		return "", models.PaymentTerminalResult{}, err
	}

	res, err := s.Charge(ctx, amountMinorUnits)
	if err != nil {
		if abandonErr := s.Abandon(ctx); abandonErr != nil {
			return id, models.PaymentTerminalResult{}, errors.Join(err, abandonErr)
		}
		return id, models.PaymentTerminalResult{}, err
	}

	if !res.Success && !res.Declined() {
		s.log.Warn("[RECOVERY] исход транзакции %s неизвестен, маркер сохранен", id)
		return id, res, nil
	}
	return id, res, s.Complete(ctx)
}

// ReceiptText собирает текст чека из видимых строк
func ReceiptText(items []models.InvoiceItem, header string) (string, error) {
	visible, err := packaging.VisibleItems(items)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if h := strings.TrimSpace(header); h != "" {
		b.WriteString(h)
		b.WriteString("\n")
	}
	for _, it := range visible {
		fmt.Fprintf(&b, "%d x %s\n", it.Quantity, it.ItemID)
	}
	fmt.Fprintf(&b, "Unidades: %d\n", packaging.TotalVisibleQuantity(visible))
	if packaging.HasPackagingItems(visible) {
		fmt.Fprintf(&b, "Envases: %d\n", len(packaging.PackagingItemIDs(visible)))
	}
	return b.String(), nil
}

// RenderReceipt возвращает поток команд принтера для чека
func (s *Service) RenderReceipt(ctx context.Context, items []models.InvoiceItem, header string) ([]byte, error) {
	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return nil, err
	}
	text, err := ReceiptText(items, header)
	if err != nil {
		return nil, err
	}
	return s.printer.Encode(cfg, text)
}

// PrintReceipt печатает чек на принтере активной конфигурации
func (s *Service) PrintReceipt(ctx context.Context, items []models.InvoiceItem, header string) error {
	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return err
	}
	text, err := ReceiptText(items, header)
	if err != nil {
		return err
	}
	return s.printer.Print(ctx, cfg, text)
}

// PrintTestReceipt печатает тестовую страницу
func (s *Service) PrintTestReceipt(ctx context.Context) error {
	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("PRUEBA DE IMPRESION\n%s\n%s\n%s",
		cfg.ServerName,
		cfg.PrinterModel,
		s.now().Format("2006-01-02 15:04:05"))
	return s.printer.PrintTest(ctx, cfg, text)
}

func (s *Service) activeConfig(ctx context.Context) (*models.ServerConfiguration, error) {
	cfg, err := s.configs.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout: чтение конфигурации: %w", err)
	}
	if cfg == nil {
		return nil, ErrNoConfiguration
	}
	return cfg, nil
}
