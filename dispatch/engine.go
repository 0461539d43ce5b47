package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segurnet/claims-relay/delivery"
	"github.com/segurnet/claims-relay/dispatch/envelope"
	"github.com/segurnet/claims-relay/endpoint"
)

// Domain events dispatched by the claims intake flow
const (
	EventFormSubmitted    = "form_submitted"
	EventFormUpdated      = "form_updated"
	EventDocumentUploaded = "document_uploaded"
	EventConnectivityTest = "connectivity_test"
)

// DispatchTimeout bounds each production delivery attempt
const DispatchTimeout = 30 * time.Second

// LogStore is the slice of the delivery log the engine needs:
// append for every attempt, read back for manual retries
type LogStore interface {
	delivery.Reader
	delivery.Writer
}

// Recorder receives delivery metrics; the metrics package implements it
type Recorder interface {
	Delivery(event string, success bool, elapsed time.Duration)
}

/* Engine fans a domain event out to every enabled, subscribed endpoint.
 * Each destination's outcome is independent: one endpoint failing, timing
 * out or refusing the connection never blocks or aborts the others, and
 * every attempt is logged on its own.
 */
type Engine struct {
	endpoints endpoint.Reader
	log       LogStore
	client    *http.Client
	timeout   time.Duration
	logger    zerolog.Logger
	metrics   Recorder
}

// Result tags one settled delivery with its originating endpoint,
// so outcomes are correlated by id rather than by position
type Result struct {
	EndpointID string
	Attempt    delivery.Attempt
}

// Option configures an Engine
type Option func(*Engine)

// WithHTTPClient replaces the outbound HTTP client (used in tests)
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// WithRecorder attaches a metrics recorder
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithTimeout overrides the per-destination delivery timeout (used in tests)
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine creates a dispatch engine with dependency injection
func NewEngine(endpoints endpoint.Reader, log LogStore, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		endpoints: endpoints,
		log:       log,
		client:    &http.Client{},
		timeout:   DispatchTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

/* Trigger resolves the subscribed, enabled endpoints and performs one
 * delivery attempt per endpoint, concurrently. It returns an error only
 * if the registry query or envelope construction fails; individual
 * delivery failures are captured per-attempt, never propagated.
 */
func (e *Engine) Trigger(ctx context.Context, event string, data any) ([]Result, error) {
	targets, err := e.endpoints.SelectForEvent(ctx, event)
	if err != nil {
		e.logger.Error().Err(err).Str("event", event).Msg("registry query failed")
		return nil, fmt.Errorf("resolving endpoints for event %s: %w", event, err)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	// One envelope per trigger: every destination sees the same timestamp
	env, err := envelope.New(event, data)
	if err != nil {
		return nil, fmt.Errorf("building envelope: %w", err)
	}
	body, err := env.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}

	results := make([]Result, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, ep endpoint.Endpoint) {
			defer wg.Done()
			results[i] = Result{
				EndpointID: ep.ID,
				Attempt:    e.send(ctx, ep, event, body, 0),
			}
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Attempt.Success {
			succeeded++
		}
	}
	e.logger.Info().
		Str("event", event).
		Int("endpoints", len(targets)).
		Int("succeeded", succeeded).
		Msg("webhook fan-out settled")

	return results, nil
}

/* Retry re-sends the exact payload bytes stored on a prior attempt and
 * appends a new attempt row with the retry count incremented. The prior
 * row is never mutated. The stored bytes are the source of truth even
 * when the original payload was cut at the log's truncation bound, so a
 * retry of such an attempt delivers the truncated form.
 */
func (e *Engine) Retry(ctx context.Context, attemptID string) (delivery.Attempt, error) {
	prior, err := e.log.Get(ctx, attemptID)
	if err != nil {
		return delivery.Attempt{}, fmt.Errorf("loading attempt %s: %w", attemptID, err)
	}

	ep, err := e.endpoints.Get(ctx, prior.WebhookID)
	if err != nil {
		if errors.Is(err, endpoint.ErrNotFound) {
			return delivery.Attempt{}, fmt.Errorf("retrying attempt %s: endpoint deleted", attemptID)
		}
		return delivery.Attempt{}, fmt.Errorf("loading endpoint for retry: %w", err)
	}

	return e.send(ctx, ep, prior.Event, []byte(prior.Payload), prior.RetryCount+1), nil
}

/* send performs one delivery attempt and always appends a log row.
 * Transport failures become status 0, local timeouts 408; a log write
 * failure is reported to the operational log channel and never
 * propagated, so the original outcome is preserved.
 */
func (e *Engine) send(ctx context.Context, ep endpoint.Endpoint, event string, payload []byte, retryCount int) delivery.Attempt {
	attempt := delivery.Attempt{
		ID:         uuid.New().String(),
		WebhookID:  ep.ID,
		Event:      event,
		Payload:    delivery.Truncate(string(payload), delivery.MaxPayloadLen),
		SentAt:     time.Now().UTC(),
		RetryCount: retryCount,
	}

	start := time.Now()
	statusCode, responseBody := doPost(ctx, e.client, ep.URL, event, ep.CustomHeaders, payload, e.timeout)
	elapsed := time.Since(start)

	attempt.StatusCode = statusCode
	attempt.Success = statusCode >= 200 && statusCode <= 299
	attempt.ResponseBody = delivery.Truncate(responseBody, delivery.MaxResponseBodyLen)

	if e.metrics != nil {
		e.metrics.Delivery(event, attempt.Success, elapsed)
	}

	/* The append must survive the trigger context being cancelled after
	 * the sends settle, and its failure must not mask the delivery outcome
	 */
	if err := e.log.Append(context.WithoutCancel(ctx), attempt); err != nil {
		e.logger.Error().
			Err(err).
			Str("webhook_id", ep.ID).
			Str("event", event).
			Msg("appending delivery attempt failed")
	}

	if !attempt.Success {
		e.logger.Warn().
			Str("webhook_id", ep.ID).
			Str("url", ep.URL).
			Str("event", event).
			Int("status_code", attempt.StatusCode).
			Msg("webhook delivery failed")
	}

	return attempt
}

/* doPost issues one outbound request and classifies the outcome.
 * Returns the HTTP status (or a sentinel) and the captured response
 * body or error message. Shared by the engine and the prober.
 */
func doPost(ctx context.Context, client *http.Client, url, event string, customHeaders map[string]string, payload []byte, timeout time.Duration) (int, string) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return delivery.StatusTransportError, fmt.Sprintf("building request: %v", err)
	}
	req.Header = BuildHeaders(url, event, customHeaders)

	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(err), err.Error()
	}
	defer resp.Body.Close()

	// Best effort: an unreadable body degrades to a placeholder,
	// it does not fail the attempt
	body, err := io.ReadAll(io.LimitReader(resp.Body, delivery.MaxResponseBodyLen+1))
	if err != nil {
		return resp.StatusCode, "(unreadable response body)"
	}
	return resp.StatusCode, string(body)
}

func classifyTransportError(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return delivery.StatusTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return delivery.StatusTimeout
	}
	return delivery.StatusTransportError
}
