// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/dedupe"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/model"
)

// EstimateDependencies defines the interface for job submission.
type EstimateDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, j model.EstimateJob) bool
	DefaultSampleSize() int
}

// EstimatesHandler handles estimation job submissions.
type EstimatesHandler struct {
	deps EstimateDependencies
}

// NewEstimatesHandler creates a new estimates handler.
func NewEstimatesHandler(deps EstimateDependencies) *EstimatesHandler {
	return &EstimatesHandler{deps: deps}
}

// HandlePostEstimate handles POST /estimates requests.
func (h *EstimatesHandler) HandlePostEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_estimate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	job := model.EstimateJob{
		JobID:      uuid.NewString(),
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Season:     req.Season,
		SampleSize: req.Games,
	}
	if job.SampleSize == 0 {
		job.SampleSize = h.deps.DefaultSampleSize()
	}

	// Idempotency: one in-flight estimate per player/season pair.
	if h.deps.SeenAndRecord(r.Context(), job.Key()) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), job); !ok {
		// Roll back the in-flight record so a retry can get through.
		h.deps.Unrecord(r.Context(), job.Key())
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false, JobID: job.JobID})
}
