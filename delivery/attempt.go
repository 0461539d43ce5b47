package delivery

import "time"

/* Attempt is an immutable record of one dispatch outcome
 * Once appended it is never mutated, only superseded by a
 * new row when an operator triggers a manual retry
 */

// Sentinel status codes for transport-level outcomes
const (
	StatusTransportError = 0   // DNS failure, connection refused, TLS error
	StatusTimeout        = 408 // local timeout, request aborted
)

// Truncation bounds for captured request/response text
const (
	MaxPayloadLen      = 10000
	MaxResponseBodyLen = 5000
)

type Attempt struct {
	ID        string
	WebhookID string // soft reference; may dangle after endpoint deletion
	Event     string
	// StatusCode is the destination HTTP status, or a sentinel:
	// 0 for transport failure, 408 for local timeout
	StatusCode   int
	Success      bool
	ResponseBody string
	Payload      string
	SentAt       time.Time
	RetryCount   int
}

// Filter holds the optional, AND-combined query filters for the log view
type Filter struct {
	WebhookID string
	Success   *bool
	Event     string
	From      time.Time
	To        time.Time
	// TextSearch matches substrings of event, response body or payload,
	// case-insensitively
	TextSearch string
}

// Truncate bounds s to max bytes, never erroring
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
