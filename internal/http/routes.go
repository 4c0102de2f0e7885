package httpx

import (
	"log/slog"
	"net/http"

	"github.com/contaflow/poliza-api/internal/service"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Jobs   *service.JobService
	Logger *slog.Logger // Logger for request logging and panic reports (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs}
	healthHandlers := &HealthHandlers{Svc: services.Jobs}

	mux.HandleFunc("POST /api/invoices", jobHandlers.SubmitInvoice)
	mux.HandleFunc("GET /api/jobs/stats", jobHandlers.JobStats)
	mux.HandleFunc("GET /api/jobs/{id}", jobHandlers.JobStatus)
	mux.HandleFunc("GET /healthz", healthHandlers.Health)
	mux.HandleFunc("HEAD /healthz", healthHandlers.Health)

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
