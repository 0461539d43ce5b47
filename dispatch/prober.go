package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/segurnet/claims-relay/delivery"
	"github.com/segurnet/claims-relay/dispatch/envelope"
)

// ProbeTimeout bounds a user-triggered connectivity test
const ProbeTimeout = 15 * time.Second

// ProbeResult is the outcome of a single-shot connectivity test
type ProbeResult struct {
	Success      bool   `json:"success"`
	StatusCode   int    `json:"status_code"`
	ResponseBody string `json:"response_body,omitempty"`
	Error        string `json:"error,omitempty"`
}

/* Prober is the lightweight, synchronous sibling of the engine for
 * user-triggered "test this URL" actions. It shares the header-shaping
 * rules but writes nothing to the delivery log and needs no registered
 * endpoint, which makes it usable before a URL is saved to the registry.
 */
type Prober struct {
	client *http.Client
}

// NewProber creates a connectivity prober; a nil client gets a default
func NewProber(client *http.Client) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	return &Prober{client: client}
}

// TestURL sends one synthetic connectivity_test envelope to an ad hoc URL
func (p *Prober) TestURL(ctx context.Context, url string) (ProbeResult, error) {
	env, err := envelope.New(EventConnectivityTest, map[string]any{
		"message": "connectivity test from claims-relay",
	})
	if err != nil {
		return ProbeResult{}, fmt.Errorf("building probe envelope: %w", err)
	}
	body, err := env.Bytes()
	if err != nil {
		return ProbeResult{}, fmt.Errorf("encoding probe envelope: %w", err)
	}

	statusCode, responseBody := doPost(ctx, p.client, url, EventConnectivityTest, nil, body, ProbeTimeout)

	result := ProbeResult{
		Success:    statusCode >= 200 && statusCode <= 299,
		StatusCode: statusCode,
	}
	if statusCode == delivery.StatusTransportError || statusCode == delivery.StatusTimeout {
		result.Error = responseBody
	} else {
		result.ResponseBody = delivery.Truncate(responseBody, delivery.MaxResponseBodyLen)
	}
	return result, nil
}

/* TestEndpoint performs an operator-initiated end-to-end check of one
 * registered endpoint: a fabricated sample claim goes through the full
 * send path, including header shaping and delivery logging.
 */
func (e *Engine) TestEndpoint(ctx context.Context, id string) (delivery.Attempt, error) {
	ep, err := e.endpoints.Get(ctx, id)
	if err != nil {
		return delivery.Attempt{}, fmt.Errorf("loading endpoint %s: %w", id, err)
	}

	env, err := envelope.New(EventFormSubmitted, SampleClaim())
	if err != nil {
		return delivery.Attempt{}, fmt.Errorf("building test envelope: %w", err)
	}
	body, err := env.Bytes()
	if err != nil {
		return delivery.Attempt{}, fmt.Errorf("encoding test envelope: %w", err)
	}

	return e.send(ctx, ep, EventFormSubmitted, body, 0), nil
}

// SampleClaim fabricates a realistic-shaped claim payload for
// operator-initiated endpoint tests
func SampleClaim() map[string]any {
	return map[string]any{
		"submission_id": fmt.Sprintf("test-%d", time.Now().Unix()),
		"insurer":       "Mapfre",
		"claim_type":    "accidente",
		"service_type":  "asistencia-sanitaria",
		"claimant": map[string]any{
			"name":  "Prueba Automática",
			"email": "pruebas@segurnet.example",
			"phone": "+34 600 000 000",
		},
		"documents": []string{"informe-medico", "dni-anverso"},
		"test":      true,
	}
}
