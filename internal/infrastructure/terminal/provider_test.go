package terminal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poslink/internal/domain/models"
	"poslink/pkg/pax"
)

type paxTransport struct {
	target string
	body   string
}

func (t *paxTransport) Get(_ context.Context, target string) ([]byte, error) {
	t.target = target
	return []byte(t.body), nil
}

const approved = `{"respcode":"00","autorizacion":"A1B2","panmasked":"************4242",` +
	`"terminalid":"T-900","rrn":" 123456789012 ","totalAmount":12.50}`

func newPaxRegistry(body string) (*Registry, *paxTransport) {
	tr := &paxTransport{body: body}
	return NewRegistry(nil, NewPaxProvider(pax.NewWithTransport(pax.Config{}, tr))), tr
}

func TestRegistry_ChargeDispatchesByTag(t *testing.T) {
	reg, tr := newPaxRegistry(approved)
	cfg := &models.ServerConfiguration{DatafonURL: "http://10.0.0.9:8080/", DatafonoProvider: "pax"}

	res, err := reg.Charge(context.Background(), cfg, 1250)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.9:8080/venta?monto=125000", tr.target)
	assert.True(t, res.Success)
	require.NotNil(t, res.TerminalID)
	assert.Equal(t, "T-900", *res.TerminalID)
	require.NotNil(t, res.RetrievalReferenceNumber)
	assert.Equal(t, "123456789012", *res.RetrievalReferenceNumber)
	require.NotNil(t, res.TotalAmount)
	assert.True(t, decimal.RequireFromString("12.5").Equal(*res.TotalAmount))
}

func TestRegistry_EmptyTagUsesFirstProvider(t *testing.T) {
	reg, _ := newPaxRegistry(approved)

	p, err := reg.Resolve("  ")
	require.NoError(t, err)
	assert.Equal(t, pax.ProviderID, p.ID())
}

func TestRegistry_UnknownProvider(t *testing.T) {
	reg, tr := newPaxRegistry(approved)
	cfg := &models.ServerConfiguration{DatafonURL: "http://10.0.0.9", DatafonoProvider: "VERIFONE"}

	_, err := reg.Charge(context.Background(), cfg, 100)
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Equal(t, "", tr.target)
}

func TestRegistry_MissingTerminalURL(t *testing.T) {
	reg, _ := newPaxRegistry(approved)

	_, err := reg.Charge(context.Background(), &models.ServerConfiguration{DatafonoProvider: "PAX"}, 100)
	assert.ErrorIs(t, err, ErrNoTerminalURL)

	_, err = reg.Charge(context.Background(), nil, 100)
	assert.ErrorIs(t, err, ErrNoTerminalURL)
}

func TestRegistry_DeclineIsResult(t *testing.T) {
	reg, _ := newPaxRegistry(`{"respcode":"05","terminalid":"T-900"}`)
	cfg := &models.ServerConfiguration{DatafonURL: "http://10.0.0.9"}

	res, err := reg.Charge(context.Background(), cfg, 100)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.Declined())
	assert.Contains(t, *res.ErrorMessage, "05")
}

func TestPaxProvider_Capabilities(t *testing.T) {
	p := NewPaxProvider(pax.NewWithTransport(pax.Config{}, &paxTransport{}))

	assert.Equal(t, "http://h/venta?monto=100000", p.BuildRequestTarget("http://h", 1000))

	res := p.ParseResponse([]byte("not json"))
	assert.False(t, res.Success)
	assert.Nil(t, res.ResponseCode)
	assert.Nil(t, res.TotalAmount)
	require.NotNil(t, res.ErrorMessage)
}
