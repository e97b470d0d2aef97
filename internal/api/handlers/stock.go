package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/report"
	"github.com/wonny/niftyscreen/pkg/logger"
)

// StockLoader returns one symbol's snapshot
type StockLoader interface {
	Stock(ctx context.Context, symbol contracts.Symbol) (*contracts.StockSnapshot, error)
}

// StockHandler handles the per-stock drill-down endpoint
type StockHandler struct {
	loader StockLoader
	suffix string
	logger *logger.Logger
}

// NewStockHandler creates a new stock handler; suffix is stripped from provider-style tickers
func NewStockHandler(loader StockLoader, suffix string, log *logger.Logger) *StockHandler {
	return &StockHandler{
		loader: loader,
		suffix: suffix,
		logger: log.WithModule("api.stock"),
	}
}

// GetStock returns fundamentals and chart series for a stock
// GET /api/stocks/{symbol}?days=365
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := contracts.NormalizeSymbol(mux.Vars(r)["symbol"], h.suffix)
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	days := 365
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	snap, err := h.loader.Stock(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to load stock")
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondData(w, report.Detail(snap, days))
}
