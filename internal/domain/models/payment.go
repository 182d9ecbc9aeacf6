package models

import "github.com/shopspring/decimal"

// PaymentTerminalResult - нормализованный результат одного запроса к терминалу.
// При ошибке разбора ответа все доменные поля равны nil, заполнены только
// Success=false и ErrorMessage.
type PaymentTerminalResult struct {
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

// Declined сообщает, что терминал ответил, но платеж отклонен.
func (r PaymentTerminalResult) Declined() bool {
	return !r.Success && r.ResponseCode != nil
}

// FailedResult строит результат без доменных полей.
func FailedResult(msg string) PaymentTerminalResult {
	return PaymentTerminalResult{Success: false, ErrorMessage: &msg}
}
