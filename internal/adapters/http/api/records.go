// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/tci/internal/domain/model"
)

// RecordsHandler handles benchmark record ingestion.
type RecordsHandler struct {
	deps Dependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps Dependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// recordRequest mirrors the wire schema for POST /records.
type recordRequest struct {
	Model       string                  `json:"model"`
	Provider    string                  `json:"provider"`
	ReleaseDate string                  `json:"release_date,omitempty"`
	Scores      map[string]*model.Score `json:"scores"`
	TCI         float64                 `json:"tci,omitempty"`
	TCIStdErr   float64                 `json:"tci_stderr,omitempty"`
}

func (r recordRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Model) == "":
		return errors.New("missing model")
	case strings.TrimSpace(r.Provider) == "":
		return errors.New("missing provider")
	case len(r.Scores) == 0:
		return errors.New("missing scores")
	}
	for key, s := range r.Scores {
		if s == nil {
			continue
		}
		if s.Value < model.MinScore || s.Value > model.MaxScore {
			return errors.New("score out of range for " + key)
		}
		if s.StdErr < 0 {
			return errors.New("negative stderr for " + key)
		}
	}
	if r.ReleaseDate != "" {
		if _, err := time.Parse("2006-01-02", r.ReleaseDate); err != nil {
			if _, err := time.Parse(time.RFC3339, r.ReleaseDate); err != nil {
				return errors.New("invalid release_date; must be ISO-8601")
			}
		}
	}
	return nil
}

func (r recordRequest) toModel() model.BenchmarkRecord {
	return model.BenchmarkRecord{
		Model:       r.Model,
		Provider:    r.Provider,
		ReleaseDate: r.ReleaseDate,
		Scores:      r.Scores,
		TCI:         r.TCI,
		TCIStdErr:   r.TCIStdErr,
	}
}

// HandlePostRecords handles POST /records requests carrying a batch of
// benchmark records.
func (h *RecordsHandler) HandlePostRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_records"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var reqs []recordRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	recs := make([]model.BenchmarkRecord, 0, len(reqs))
	for _, req := range reqs {
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		recs = append(recs, req.toModel())
	}

	accepted, err := h.deps.Ingest(r.Context(), recs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ingestResponse{
		Status:   "accepted",
		Accepted: accepted,
		Rejected: len(recs) - accepted,
	})
}
