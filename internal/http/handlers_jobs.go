// Package httpx provides HTTP handlers and utilities for the poliza job system API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/contaflow/poliza-api/internal/domain/model"
	"github.com/contaflow/poliza-api/internal/service"
)

// JobHandlers provides HTTP handlers for invoice submission and job queries.
type JobHandlers struct {
	Svc *service.JobService
}

// SubmitInvoice handles HTTP requests to enqueue an invoice for processing.
// Validation failures return 400 synchronously; accepted invoices return
// 202 with the job id to poll.
func (h *JobHandlers) SubmitInvoice(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitInvoiceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, resp)
}

// JobStatus handles HTTP requests for the status of a single job.
func (h *JobHandlers) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	resp, err := h.Svc.Status(jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// JobStats handles HTTP requests for aggregate job counts.
func (h *JobHandlers) JobStats(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Svc.Stats())
}
