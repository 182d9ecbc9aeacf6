package simulator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poslink/pkg/pax"
)

func TestTerminal_ApprovesSale(t *testing.T) {
	srv := httptest.NewServer(NewTerminal("SIM-1", nil).Handler())
	defer srv.Close()

	res := pax.New(pax.Config{}).Charge(context.Background(), srv.URL, 1250)
	require.True(t, res.Success)
	require.NotNil(t, res.TerminalID)
	assert.Equal(t, "SIM-1", *res.TerminalID)
	require.NotNil(t, res.RetrievalReferenceNumber)
	assert.Equal(t, "000000000001", *res.RetrievalReferenceNumber)
	require.NotNil(t, res.TotalAmount)
	assert.Equal(t, "12.5", res.TotalAmount.String())
}

func TestTerminal_DeclinesBySuffix(t *testing.T) {
	srv := httptest.NewServer(NewTerminal("SIM-1", nil).Handler())
	defer srv.Close()

	res := pax.New(pax.Config{}).Charge(context.Background(), srv.URL, 105)
	assert.False(t, res.Success)
	require.NotNil(t, res.ErrorMessage)
	assert.Contains(t, *res.ErrorMessage, "05")
	assert.Nil(t, res.AuthorizationCode)
}

func TestTerminal_InvalidAmount(t *testing.T) {
	h := NewTerminal("SIM-1", nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/venta?monto=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/venta?monto=100", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
