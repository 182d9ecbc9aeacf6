// Package simulator эмулирует HTTP-протокол терминала PAX для стендовой
// проверки без реального устройства.
package simulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"poslink/internal/domain/ports"
)

// DeclineSuffix - суммы, у которых последние две цифры дают этот остаток, отклоняются с кодом 05
const DeclineSuffix = 5

// Terminal - состояние эмулятора
type Terminal struct {
	ID  string
	log ports.Logger
	seq atomic.Int64
}

// NewTerminal создает эмулятор с идентификатором id
func NewTerminal(id string, log ports.Logger) *Terminal {
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Terminal{ID: id, log: log}
}

// Handler возвращает маршруты эмулятора
func (t *Terminal) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/venta", t.handleSale)
	return r
}

type saleResponse struct {
	RespCode     string      `json:"respcode"`
	Autorizacion string      `json:"autorizacion,omitempty"`
	PanMasked    string      `json:"panmasked,omitempty"`
	Cardholder   string      `json:"cardholder,omitempty"`
	IssuerName   string      `json:"issuername,omitempty"`
	TerminalID   string      `json:"terminalid"`
	Recibo       string      `json:"recibo"`
	RRN          string      `json:"rrn"`
	Stan         string      `json:"stan"`
	Ticket       string      `json:"ticket,omitempty"`
	TotalAmount  json.Number `json:"totalAmount"`
}

func (t *Terminal) handleSale(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("monto")
	monto, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || monto <= 0 {
		http.Error(w, "monto inválido", http.StatusBadRequest)
		return
	}

	n := t.seq.Add(1)
	// monto приходит умноженным на 100 относительно суммы POS
	amount := decimal.New(monto, -4)
	resp := saleResponse{
		RespCode:    "00",
		TerminalID:  t.ID,
		Recibo:      fmt.Sprintf("%06d", n),
		RRN:         fmt.Sprintf("%012d ", n),
		Stan:        fmt.Sprintf("%06d", n),
		TotalAmount: json.Number(amount.String()),
	}

	if (monto/100)%100 == DeclineSuffix {
		resp.RespCode = "05"
	} else {
		resp.Autorizacion = fmt.Sprintf("A%05d", n)
		resp.PanMasked = "************4242"
		resp.Cardholder = "CLIENTE PRUEBA"
		resp.IssuerName = "VISA"
		resp.Ticket = fmt.Sprintf("VENTA\nTOTAL %s\nAUT A%05d", amount.StringFixed(2), n)
	}

	t.log.Info("[SIM] %s monto=%d respcode=%s", middleware.GetReqID(r.Context()), monto, resp.RespCode)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(resp)
}
