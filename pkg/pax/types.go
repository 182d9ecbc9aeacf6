package pax

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovedCode - код ответа одобренной операции
const ApprovedCode = "00"

// ProviderID - тег провайдера в конфигурации
const ProviderID = "PAX"

// saleResponse - ответ терминала в его собственном формате
type saleResponse struct {
	RespCode     *string          `json:"respcode"`
	Autorizacion *string          `json:"autorizacion"`
	PanMasked    *string          `json:"panmasked"`
	Cardholder   *string          `json:"cardholder"`
	IssuerName   *string          `json:"issuername"`
	TerminalID   *string          `json:"terminalid"`
	Recibo       *string          `json:"recibo"`
	RRN          *string          `json:"rrn"`
	Stan         *string          `json:"stan"`
	Ticket       *string          `json:"ticket"`
	TotalAmount  *decimal.Decimal `json:"totalAmount"`
}

// Result - нормализованный результат одного запроса к терминалу
type Result struct {
	Success                  bool
	ResponseCode             *string
	AuthorizationCode        *string
	MaskedCardNumber         *string
	CardholderName           *string
	IssuerName               *string
	TerminalID               *string
	ReceiptNumber            *string
	RetrievalReferenceNumber *string
	SystemTraceAuditNumber   *string
	TicketText               *string
	TotalAmount              *decimal.Decimal
	ErrorMessage             *string
}

// Config - конфигурация клиента
type Config struct {
	Timeout time.Duration // Ожидание ответа терминала (держатель карты вводит PIN)
	Logger  func(string)  // Опциональный логгер
}
