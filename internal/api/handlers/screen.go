package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/internal/pipeline"
	"github.com/wonny/niftyscreen/internal/quotes"
	"github.com/wonny/niftyscreen/internal/report"
	"github.com/wonny/niftyscreen/internal/strategy"
	"github.com/wonny/niftyscreen/pkg/logger"
)

// Screener runs a full screening pass
type Screener interface {
	Collect(ctx context.Context, progress quotes.Progress) (*pipeline.Collection, error)
	Evaluate(collection *pipeline.Collection, name strategy.Name, params strategy.Params) (*pipeline.Report, error)
}

// ScreenHandler handles strategy screening endpoints
// SSOT: screening API handlers live in this struct only
type ScreenHandler struct {
	screener Screener
	defaults strategy.Params
	logger   *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(screener Screener, defaults strategy.Params, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		screener: screener,
		defaults: defaults,
		logger:   log.WithModule("api.screen"),
	}
}

// ScreenResponse is one strategy run
type ScreenResponse struct {
	Strategy    string                  `json:"strategy"`
	Description strategy.Description    `json:"description"`
	Result      *contracts.ScreenResult `json:"result"`
	Table       *report.Table           `json:"table"`
	RawData     *report.Table           `json:"raw_data,omitempty"`
	Notice      string                  `json:"notice,omitempty"`
	Warnings    []string                `json:"warnings,omitempty"`
	Failed      int                     `json:"failed"`
	Fallback    bool                    `json:"fallback_universe"`
}

// GetStrategies lists the available strategies with their current criteria
// GET /api/strategies
func (h *ScreenHandler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	out := make([]map[string]interface{}, 0, len(strategy.All))
	for _, name := range strategy.All {
		out = append(out, map[string]interface{}{
			"name":        name,
			"description": strategy.Describe(name, h.defaults),
		})
	}
	respondData(w, out)
}

// GetScreen runs one strategy over the universe
// GET /api/screen/{strategy}?max_de=1.5&min_roe=0.12&limit=15&raw=true
func (h *ScreenHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	name, err := strategy.Parse(mux.Vars(r)["strategy"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	params, err := h.parseParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	collection, err := h.screener.Collect(r.Context(), nil)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("Failed to collect data")
		respondError(w, statusFor(err), "Could not fetch data for any stocks. Please try again later.")
		return
	}

	rep, err := h.screener.Evaluate(collection, name, params)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	table, err := report.Results(rep.Result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ScreenResponse{
		Strategy:    string(name),
		Description: rep.Description,
		Result:      rep.Result,
		Table:       table,
		Notice:      rep.Notice,
		Warnings:    rep.Warnings,
		Failed:      rep.Failed,
		Fallback:    rep.FallbackUniverse,
	}

	if raw, _ := strconv.ParseBool(r.URL.Query().Get("raw")); raw {
		resp.RawData, err = report.RawData(collection.Dataset, name)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	respondData(w, resp)
}

// parseParams overlays query parameters on the configured defaults
func (h *ScreenHandler) parseParams(r *http.Request) (strategy.Params, error) {
	params := h.defaults
	q := r.URL.Query()

	if v := q.Get("max_de"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, contracts.ValidationError{Field: "max_de", Message: "must be a number"}
		}
		params.MaxDebtToEquity = f
	}
	if v := q.Get("min_roe"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, contracts.ValidationError{Field: "min_roe", Message: "must be a number"}
		}
		params.MinROE = f
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, contracts.ValidationError{Field: "limit", Message: "must be an integer"}
		}
		params.MaxResults = n
	}

	return params, nil
}
