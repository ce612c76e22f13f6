// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/tci/internal/domain/types"
)

// TrendDependencies defines the interface for trend operations.
type TrendDependencies interface {
	Trend(ctx context.Context) (types.Trend, error)
}

// TrendHandler handles trend summary requests.
type TrendHandler struct {
	deps TrendDependencies
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(deps TrendDependencies) *TrendHandler {
	return &TrendHandler{deps: deps}
}

// HandleGetTrend handles GET /trend requests. A trend over too few data
// points is all zeros, not an error.
func (h *TrendHandler) HandleGetTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trend"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	trend, err := h.deps.Trend(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, trend)
}
