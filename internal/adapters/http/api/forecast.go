// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/tci/internal/domain/forecast"
)

// maxForecastMonths caps GET /forecast?months.
const maxForecastMonths = 120

// ForecastDependencies defines the interface for forecast operations.
type ForecastDependencies interface {
	Forecast(ctx context.Context, months int) ([]forecast.BandPoint, forecast.Summary, error)
}

// ForecastHandler handles forecast band requests.
type ForecastHandler struct {
	deps ForecastDependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// forecastResponse bundles the band series with its summary statistics.
type forecastResponse struct {
	Series  []forecast.BandPoint `json:"series"`
	Summary forecast.Summary     `json:"summary"`
}

// HandleGetForecast handles GET /forecast?months=H requests. Omitting
// months uses the service's configured horizon. Too few data points
// yield an empty series, not an error.
func (h *ForecastHandler) HandleGetForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_forecast"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	months := 0
	if monthsStr := r.URL.Query().Get("months"); monthsStr != "" {
		var err error
		months, err = strconv.Atoi(monthsStr)
		if err != nil || months < 1 || months > maxForecastMonths {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	series, summary, err := h.deps.Forecast(r.Context(), months)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if series == nil {
		series = []forecast.BandPoint{}
	}
	writeJSON(w, http.StatusOK, forecastResponse{Series: series, Summary: summary})
}
