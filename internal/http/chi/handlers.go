package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/segurnet/claims-relay/delivery"
	"github.com/segurnet/claims-relay/dispatch"
	"github.com/segurnet/claims-relay/endpoint"
	"github.com/segurnet/claims-relay/storage"
)

// Dispatcher is the slice of the dispatch engine the HTTP layer uses
type Dispatcher interface {
	Trigger(ctx context.Context, event string, data any) ([]dispatch.Result, error)
	Retry(ctx context.Context, attemptID string) (delivery.Attempt, error)
	TestEndpoint(ctx context.Context, id string) (delivery.Attempt, error)
}

// Prober performs ad hoc connectivity tests without touching the log
type Prober interface {
	TestURL(ctx context.Context, url string) (dispatch.ProbeResult, error)
}

// Deps are the injected collaborators for the HTTP surface
type Deps struct {
	Endpoints  endpoint.UseCase
	Attempts   delivery.Reader
	Dispatcher Dispatcher
	Prober     Prober
	Signer     storage.Signer

	// PublicBaseURL is used to build the permanent links handed to the CRM
	PublicBaseURL string

	// Metrics is the Prometheus-format metrics handler; nil disables /metrics
	Metrics http.Handler
}

// Handlers sets up the API routes
func Handlers(ctx context.Context, deps Deps) *chi.Mux {
	logger := httplog.NewLogger("claims-relay", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// Permanent-link proxy, consumed by the CRM
	r.Route("/api/ghl", func(r chi.Router) {
		r.Get("/health", getHealth())
		r.Get("/file/{claimID}/{fileType}/{fileName}", getFile(deps.Signer))
		r.Get("/claim/{claimID}/files", getClaimFiles(deps.PublicBaseURL))
		r.Get("/info/{claimID}/{fileType}/{fileName}", getFileInfo(deps.Signer, deps.PublicBaseURL))
	})

	// Operator API
	r.Route("/v1", func(r chi.Router) {
		r.Get("/webhooks", listWebhooks(deps.Endpoints))
		r.Post("/webhooks", postWebhook(deps.Endpoints))
		r.Post("/webhooks/test-url", postTestURL(deps.Prober))
		r.Get("/webhooks/{id}", getWebhook(deps.Endpoints))
		r.Put("/webhooks/{id}", putWebhook(deps.Endpoints))
		r.Delete("/webhooks/{id}", deleteWebhook(deps.Endpoints))
		r.Patch("/webhooks/{id}/enabled", patchEnabled(deps.Endpoints))
		r.Post("/webhooks/{id}/test", postTestWebhook(deps.Dispatcher))

		r.Get("/logs", getLogs(deps.Attempts))
		r.Post("/logs/{id}/retry", postRetry(deps.Dispatcher))

		r.Post("/events/{event}", postEvent(deps.Dispatcher))
	})

	return r
}
