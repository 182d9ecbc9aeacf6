package pax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	salePath    = "/venta"
	amountParam = "monto"
	// Терминал считает сумму в сотых долях минимальной единицы валюты
	amountScale = 100
)

// MaxAmountMinorUnits - наибольшая сумма, для которой monto помещается в int64
const MaxAmountMinorUnits = math.MaxInt64 / amountScale

// BuildRequestTarget формирует адрес запроса продажи для терминала.
func BuildRequestTarget(baseURL string, amountMinorUnits int64) string {
	q := url.Values{}
	q.Set(amountParam, strconv.FormatInt(amountMinorUnits*amountScale, 10))
	return strings.TrimRight(baseURL, "/") + salePath + "?" + q.Encode()
}

// ParseResponse разбирает ответ терминала. Функция никогда не паникует и не
// возвращает ошибку: сбой разбора дает Result только с Success=false и ErrorMessage.
func ParseResponse(raw []byte) Result {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return failed(ErrNotAnObject.Error())
	}

	var resp saleResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return failed(fmt.Sprintf("pax: failed to decode terminal response: %v", err))
	}
	if resp.RespCode == nil {
		return failed(ErrMissingRespCode.Error())
	}

	res := Result{
		Success:                  *resp.RespCode == ApprovedCode,
		ResponseCode:             resp.RespCode,
		AuthorizationCode:        resp.Autorizacion,
		MaskedCardNumber:         resp.PanMasked,
		CardholderName:           resp.Cardholder,
		IssuerName:               resp.IssuerName,
		TerminalID:               resp.TerminalID,
		ReceiptNumber:            resp.Recibo,
		RetrievalReferenceNumber: trimPtr(resp.RRN),
		SystemTraceAuditNumber:   resp.Stan,
		TicketText:               resp.Ticket,
		TotalAmount:              resp.TotalAmount,
	}
	if !res.Success {
		msg := fmt.Sprintf("Transaction declined: code %s", *resp.RespCode)
		res.ErrorMessage = &msg
	}
	return res
}

func failed(msg string) Result {
	return Result{Success: false, ErrorMessage: &msg}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
