package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segurnet/claims-relay/delivery"
	"github.com/segurnet/claims-relay/endpoint"
)

/* HTTP layer DTOs for the operator API
 * Separate from domain entities to avoid leaking internal structure
 */

type endpointResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	URL              string            `json:"url"`
	Enabled          bool              `json:"enabled"`
	SubscribedEvents []string          `json:"subscribed_events"`
	CustomHeaders    map[string]string `json:"custom_headers,omitempty"`
	Description      string            `json:"description,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type createEndpointRequest struct {
	Name             string            `json:"name"`
	URL              string            `json:"url"`
	Enabled          *bool             `json:"enabled"`
	SubscribedEvents []string          `json:"subscribed_events"`
	CustomHeaders    map[string]string `json:"custom_headers"`
	Description      string            `json:"description"`
}

type updateEndpointRequest struct {
	Name             *string           `json:"name"`
	URL              *string           `json:"url"`
	Enabled          *bool             `json:"enabled"`
	SubscribedEvents []string          `json:"subscribed_events"`
	CustomHeaders    map[string]string `json:"custom_headers"`
	Description      *string           `json:"description"`
}

type attemptResponse struct {
	ID           string    `json:"id"`
	WebhookID    string    `json:"webhook_id"`
	Event        string    `json:"event"`
	StatusCode   int       `json:"status_code"`
	Success      bool      `json:"success"`
	ResponseBody string    `json:"response_body,omitempty"`
	Payload      string    `json:"payload,omitempty"`
	SentAt       time.Time `json:"sent_at"`
	RetryCount   int       `json:"retry_count"`
}

func toEndpointResponse(e endpoint.Endpoint) endpointResponse {
	return endpointResponse{
		ID:               e.ID,
		Name:             e.Name,
		URL:              e.URL,
		Enabled:          e.Enabled,
		SubscribedEvents: e.SubscribedEvents,
		CustomHeaders:    e.CustomHeaders,
		Description:      e.Description,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toAttemptResponse(a delivery.Attempt) attemptResponse {
	return attemptResponse{
		ID:           a.ID,
		WebhookID:    a.WebhookID,
		Event:        a.Event,
		StatusCode:   a.StatusCode,
		Success:      a.Success,
		ResponseBody: a.ResponseBody,
		Payload:      a.Payload,
		SentAt:       a.SentAt,
		RetryCount:   a.RetryCount,
	}
}

// writeError maps domain errors onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	var ve endpoint.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": ve.Message,
			"field": ve.Field,
		})
	case errors.Is(err, endpoint.ErrNotFound), errors.Is(err, delivery.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// listWebhooks handles GET /v1/webhooks
func listWebhooks(uc endpoint.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := uc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		responses := make([]endpointResponse, 0, len(all))
		for _, e := range all {
			responses = append(responses, toEndpointResponse(e))
		}
		writeJSON(w, http.StatusOK, responses)
	}
}

// postWebhook handles POST /v1/webhooks
func postWebhook(uc endpoint.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEndpointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		enabled := true
		if req.Enabled != nil {
			enabled = *req.Enabled
		}

		created, err := uc.Create(r.Context(), endpoint.Input{
			Name:             req.Name,
			URL:              req.URL,
			Enabled:          enabled,
			SubscribedEvents: req.SubscribedEvents,
			CustomHeaders:    req.CustomHeaders,
			Description:      req.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEndpointResponse(created))
	}
}

// getWebhook handles GET /v1/webhooks/{id}
func getWebhook(uc endpoint.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := uc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEndpointResponse(e))
	}
}

// putWebhook handles PUT /v1/webhooks/{id} as a partial update
func putWebhook(uc endpoint.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEndpointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		updated, err := uc.Update(r.Context(), chi.URLParam(r, "id"), endpoint.Patch{
			Name:             req.Name,
			URL:              req.URL,
			Enabled:          req.Enabled,
			SubscribedEvents: req.SubscribedEvents,
			CustomHeaders:    req.CustomHeaders,
			Description:      req.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEndpointResponse(updated))
	}
}

// deleteWebhook handles DELETE /v1/webhooks/{id}
func deleteWebhook(uc endpoint.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// patchEnabled handles PATCH /v1/webhooks/{id}/enabled
func patchEnabled(uc endpoint.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Enabled *bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "enabled flag is required"})
			return
		}
		if err := uc.SetEnabled(r.Context(), chi.URLParam(r, "id"), *req.Enabled); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// postTestURL handles POST /v1/webhooks/test-url for ad hoc connectivity probes
func postTestURL(p Prober) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
			return
		}
		result, err := p.TestURL(r.Context(), req.URL)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// postTestWebhook handles POST /v1/webhooks/{id}/test: a full end-to-end
// check against one registered endpoint, including delivery logging
func postTestWebhook(d Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempt, err := d.TestEndpoint(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttemptResponse(attempt))
	}
}

// getLogs handles GET /v1/logs with optional AND-combined filters
func getLogs(attempts delivery.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := delivery.Filter{
			WebhookID:  r.URL.Query().Get("webhook_id"),
			Event:      r.URL.Query().Get("event"),
			TextSearch: r.URL.Query().Get("q"),
		}
		if raw := r.URL.Query().Get("success"); raw != "" {
			success, err := strconv.ParseBool(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "success must be a boolean"})
				return
			}
			f.Success = &success
		}
		if raw := r.URL.Query().Get("from"); raw != "" {
			from, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from must be RFC 3339"})
				return
			}
			f.From = from
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			to, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "to must be RFC 3339"})
				return
			}
			f.To = to
		}

		rows, err := attempts.Query(r.Context(), f)
		if err != nil {
			writeError(w, err)
			return
		}
		responses := make([]attemptResponse, 0, len(rows))
		for _, a := range rows {
			responses = append(responses, toAttemptResponse(a))
		}
		writeJSON(w, http.StatusOK, responses)
	}
}

// postRetry handles POST /v1/logs/{id}/retry: exactly one additional send
// appending a new attempt row with the retry count incremented
func postRetry(d Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempt, err := d.Retry(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttemptResponse(attempt))
	}
}

/* postEvent handles POST /v1/events/{event}: the claim-submission flow
 * hands the normalized payload here and must not block on delivery, so
 * the fan-out runs in the background and the request gets a 202
 */
func postEvent(d Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := chi.URLParam(r, "event")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
			return
		}
		defer r.Body.Close()

		if len(body) == 0 {
			body = []byte("{}")
		}
		if !json.Valid(body) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be valid JSON"})
			return
		}

		// Detached from the request lifecycle: claim submission succeeds
		// independently of webhook delivery outcome
		ctx := context.WithoutCancel(r.Context())
		go func() {
			_, _ = d.Trigger(ctx, event, json.RawMessage(body))
		}()

		writeJSON(w, http.StatusAccepted, map[string]any{
			"event":    event,
			"accepted": true,
		})
	}
}
