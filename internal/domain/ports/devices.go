package ports

import (
	"context"

	"poslink/internal/domain/models"
)

// PaymentTerminal выполняет списание через платежный терминал.
// Ошибки связи и разбора возвращаются внутри результата, а не как error.
type PaymentTerminal interface {
	Charge(ctx context.Context, cfg *models.ServerConfiguration, amountMinorUnits int64) (models.PaymentTerminalResult, error)
}

// ReceiptPrinter кодирует и печатает чеки на принтере из конфигурации.
type ReceiptPrinter interface {
	Encode(cfg *models.ServerConfiguration, text string) ([]byte, error)
	Print(ctx context.Context, cfg *models.ServerConfiguration, text string) error
	PrintTest(ctx context.Context, cfg *models.ServerConfiguration, text string) error
}
