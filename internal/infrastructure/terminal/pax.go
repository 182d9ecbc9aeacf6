package terminal

import (
	"context"

	"poslink/internal/domain/models"
	"poslink/pkg/pax"
)

// PaxProvider адаптирует клиент pax к интерфейсу Provider
type PaxProvider struct {
	client pax.Client
}

// NewPaxProvider создает провайдер PAX поверх клиента
func NewPaxProvider(client pax.Client) *PaxProvider {
	return &PaxProvider{client: client}
}

func (p *PaxProvider) ID() string { return pax.ProviderID }

func (p *PaxProvider) BuildRequestTarget(baseURL string, amountMinorUnits int64) string {
	return pax.BuildRequestTarget(baseURL, amountMinorUnits)
}

func (p *PaxProvider) ParseResponse(raw []byte) models.PaymentTerminalResult {
	return ConvertPaxResult(pax.ParseResponse(raw))
}

func (p *PaxProvider) Charge(ctx context.Context, baseURL string, amountMinorUnits int64) models.PaymentTerminalResult {
	return ConvertPaxResult(p.client.Charge(ctx, baseURL, amountMinorUnits))
}

// ConvertPaxResult преобразует pax.Result в доменную модель
func ConvertPaxResult(r pax.Result) models.PaymentTerminalResult {
	return models.PaymentTerminalResult{
		Success:                  r.Success,
		ResponseCode:             r.ResponseCode,
		AuthorizationCode:        r.AuthorizationCode,
		MaskedCardNumber:         r.MaskedCardNumber,
		CardholderName:           r.CardholderName,
		IssuerName:               r.IssuerName,
		TerminalID:               r.TerminalID,
		ReceiptNumber:            r.ReceiptNumber,
		RetrievalReferenceNumber: r.RetrievalReferenceNumber,
		SystemTraceAuditNumber:   r.SystemTraceAuditNumber,
		TicketText:               r.TicketText,
		TotalAmount:              r.TotalAmount,
		ErrorMessage:             r.ErrorMessage,
	}
}
