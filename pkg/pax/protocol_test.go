package pax

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const approvedJSON = `{
	"respcode": "00",
	"autorizacion": "123456",
	"panmasked": "************4242",
	"cardholder": "JUAN PEREZ",
	"issuername": "VISA",
	"terminalid": "TERM0001",
	"recibo": "000123",
	"rrn": "  912345678901  ",
	"stan": "000045",
	"ticket": "COMPRA APROBADA",
	"totalAmount": 100000
}`

func TestBuildRequestTarget(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		amount   int64
		expected string
	}{
		{"Plain base", "http://10.0.0.5:8080", 1000, "http://10.0.0.5:8080/venta?monto=100000"},
		{"Trailing slash", "http://10.0.0.5:8080/", 1, "http://10.0.0.5:8080/venta?monto=100"},
		{"Base with path", "http://10.0.0.5/pax", 2599, "http://10.0.0.5/pax/venta?monto=259900"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, BuildRequestTarget(tt.baseURL, tt.amount))
		})
	}

	require.True(t, strings.HasSuffix(BuildRequestTarget("http://x", 1000), "monto=100000"))
}

func TestParseResponse_Approved(t *testing.T) {
	res := ParseResponse([]byte(approvedJSON))

	require.True(t, res.Success)
	require.Nil(t, res.ErrorMessage)
	require.Equal(t, "00", *res.ResponseCode)
	require.Equal(t, "123456", *res.AuthorizationCode)
	require.Equal(t, "************4242", *res.MaskedCardNumber)
	require.Equal(t, "JUAN PEREZ", *res.CardholderName)
	require.Equal(t, "VISA", *res.IssuerName)
	require.Equal(t, "TERM0001", *res.TerminalID)
	require.Equal(t, "000123", *res.ReceiptNumber)
	require.Equal(t, "912345678901", *res.RetrievalReferenceNumber)
	require.Equal(t, "000045", *res.SystemTraceAuditNumber)
	require.Equal(t, "COMPRA APROBADA", *res.TicketText)
	require.True(t, decimal.NewFromInt(100000).Equal(*res.TotalAmount))
}

func TestParseResponse_Declined(t *testing.T) {
	res := ParseResponse([]byte(`{"respcode":"05","autorizacion":null,"terminalid":"TERM0001","rrn":" 77 ","totalAmount":10.5}`))

	require.False(t, res.Success)
	require.NotNil(t, res.ErrorMessage)
	require.Contains(t, *res.ErrorMessage, "05")
	require.Equal(t, "Transaction declined: code 05", *res.ErrorMessage)
	// Отказ - не ошибка разбора: поля заполнены
	require.Equal(t, "05", *res.ResponseCode)
	require.Equal(t, "TERM0001", *res.TerminalID)
	require.Equal(t, "77", *res.RetrievalReferenceNumber)
	require.Nil(t, res.AuthorizationCode)
	require.Equal(t, "10.5", res.TotalAmount.String())
}

func TestParseResponse_DecodeFailures(t *testing.T) {
	inputs := map[string]string{
		"Invalid JSON":     `{"respcode": "00"`,
		"Not JSON":         `<html>busy</html>`,
		"Empty":            ``,
		"Null":             `null`,
		"Array":            `[{"respcode":"00"}]`,
		"Missing respcode": `{"autorizacion":"1"}`,
		"Wrong type":       `{"respcode": 0}`,
		"Bad amount":       `{"respcode":"00","totalAmount":"abc"}`,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			res := ParseResponse([]byte(raw))

			require.False(t, res.Success)
			require.NotNil(t, res.ErrorMessage)
			require.NotEmpty(t, *res.ErrorMessage)
			require.Nil(t, res.ResponseCode)
			require.Nil(t, res.AuthorizationCode)
			require.Nil(t, res.MaskedCardNumber)
			require.Nil(t, res.CardholderName)
			require.Nil(t, res.IssuerName)
			require.Nil(t, res.TerminalID)
			require.Nil(t, res.ReceiptNumber)
			require.Nil(t, res.RetrievalReferenceNumber)
			require.Nil(t, res.SystemTraceAuditNumber)
			require.Nil(t, res.TicketText)
			require.Nil(t, res.TotalAmount)
		})
	}
}
