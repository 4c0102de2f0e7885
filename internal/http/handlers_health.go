package httpx

import (
	"net/http"

	"github.com/contaflow/poliza-api/internal/service"
)

// HealthHandlers exposes readiness information for the service.
type HealthHandlers struct {
	Svc *service.JobService
}

// Health reports service status, backend readiness, and queue depth.
// The endpoint stays 200 while submissions are accepted; backend readiness
// is informational because initialization is lazy.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, h.Svc.Health())
}
