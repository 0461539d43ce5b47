package envelope

import (
	"encoding/json"
	"fmt"
	"time"
)

/* Envelope is the JSON object sent to every destination for one
 * triggered event. The timestamp is generated once per trigger so
 * every destination in a fan-out sees the same logical time.
 */
type Envelope struct {
	// Event is the domain event name, e.g. "form_submitted"
	Event string `json:"event"`

	// Timestamp is the ISO 8601 time the event was triggered
	Timestamp time.Time `json:"timestamp"`

	// Data is the event payload, copied by value into the envelope
	Data json.RawMessage `json:"data"`
}

// Validate checks the envelope is complete before it is sent anywhere
func (e Envelope) Validate() error {
	if e.Event == "" {
		return fmt.Errorf("event is required")
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("data is required")
	}
	if !json.Valid(e.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}

// MarshalJSON returns the JSON encoding with an RFC 3339 timestamp
func (e Envelope) MarshalJSON() ([]byte, error) {
	type Alias Envelope
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Alias:     (*Alias)(&e),
	})
}

// New builds and validates an envelope for the given event and data
func New(event string, data any) (Envelope, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling data: %w", err)
	}

	env := Envelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
	}

	if err := env.Validate(); err != nil {
		return Envelope{}, fmt.Errorf("validating envelope: %w", err)
	}
	return env, nil
}

// Bytes returns the JSON-encoded envelope
func (e Envelope) Bytes() ([]byte, error) {
	return json.Marshal(e)
}
