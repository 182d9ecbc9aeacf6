package pax

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// MockTransport - мок-транспорт для тестирования
type MockTransport struct {
	OnGet func(ctx context.Context, target string) ([]byte, error)
}

func (m *MockTransport) Get(ctx context.Context, target string) ([]byte, error) {
	if m.OnGet != nil {
		return m.OnGet(ctx, target)
	}
	return nil, nil
}

func TestClientCharge(t *testing.T) {
	mockTransport := &MockTransport{}
	client := NewWithTransport(Config{}, mockTransport)

	t.Run("Approved", func(t *testing.T) {
		var captured string
		mockTransport.OnGet = func(ctx context.Context, target string) ([]byte, error) {
			captured = target
			return []byte(approvedJSON), nil
		}

		res := client.Charge(context.Background(), "http://10.0.0.5:8080", 1000)
		require.True(t, res.Success)
		require.Equal(t, "http://10.0.0.5:8080/venta?monto=100000", captured)
	})

	t.Run("Transport failure becomes result", func(t *testing.T) {
		mockTransport.OnGet = func(ctx context.Context, target string) ([]byte, error) {
			return nil, errors.New("connection refused")
		}

		res := client.Charge(context.Background(), "http://10.0.0.5:8080", 1000)
		require.False(t, res.Success)
		require.Nil(t, res.ResponseCode)
		require.Contains(t, *res.ErrorMessage, "connection refused")
	})

	t.Run("Empty base URL", func(t *testing.T) {
		called := false
		mockTransport.OnGet = func(ctx context.Context, target string) ([]byte, error) {
			called = true
			return nil, nil
		}

		res := client.Charge(context.Background(), " ", 1000)
		require.False(t, res.Success)
		require.False(t, called)
	})

	t.Run("Amount out of range", func(t *testing.T) {
		tests := []struct {
			name   string
			amount int64
		}{
			{"zero", 0},
			{"negative", -100},
			{"overflows monto", MaxAmountMinorUnits + 1},
			{"max int64", math.MaxInt64},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				called := false
				mockTransport.OnGet = func(ctx context.Context, target string) ([]byte, error) {
					called = true
					return []byte(approvedJSON), nil
				}

				res := client.Charge(context.Background(), "http://10.0.0.5:8080", tt.amount)
				require.False(t, res.Success)
				require.False(t, called)
				require.Contains(t, *res.ErrorMessage, ErrInvalidAmount.Error())
			})
		}
	})

	t.Run("Largest amount is sent exactly", func(t *testing.T) {
		var captured string
		mockTransport.OnGet = func(ctx context.Context, target string) ([]byte, error) {
			captured = target
			return []byte(approvedJSON), nil
		}

		res := client.Charge(context.Background(), "http://t", MaxAmountMinorUnits)
		require.True(t, res.Success)
		require.Equal(t, "http://t/venta?monto="+strconv.FormatInt(MaxAmountMinorUnits*100, 10), captured)
	})
}

func TestHTTPTransport(t *testing.T) {
	t.Run("Decodes Latin-1 body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/venta", r.URL.Path)
			require.Equal(t, "250000", r.URL.Query().Get("monto"))
			w.Header().Set("Content-Type", "application/json; charset=ISO-8859-1")
			// "MUÑOZ" в ISO-8859-1
			w.Write([]byte("{\"respcode\":\"00\",\"cardholder\":\"MU\xd1OZ\"}"))
		}))
		defer srv.Close()

		client := New(Config{Timeout: 2 * time.Second})
		res := client.Charge(context.Background(), srv.URL, 2500)

		require.True(t, res.Success)
		require.Equal(t, "MUÑOZ", *res.CardholderName)
	})

	t.Run("Non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		transport := NewHTTPTransport(2*time.Second, nil)
		_, err := transport.Get(context.Background(), srv.URL+"/venta?monto=100")

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		require.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res := New(Config{Timeout: 2 * time.Second}).Charge(ctx, srv.URL, 100)
		require.False(t, res.Success)
		require.NotNil(t, res.ErrorMessage)
	})
}
