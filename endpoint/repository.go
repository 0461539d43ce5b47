package endpoint

import "context"

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Reader provides read operations for webhook endpoints
type Reader interface {
	Get(ctx context.Context, id string) (Endpoint, error)
	// SelectAll returns every configured endpoint, newest first
	SelectAll(ctx context.Context) ([]Endpoint, error)
	/* SelectForEvent returns the endpoints the dispatch engine fans out to:
	 * enabled and subscribed to the given event
	 */
	SelectForEvent(ctx context.Context, event string) ([]Endpoint, error)
}

// Writer provides write operations for webhook endpoints
type Writer interface {
	Insert(ctx context.Context, e Endpoint) error
	Update(ctx context.Context, e Endpoint) error
	// Delete removes the endpoint; existing delivery log rows are kept
	Delete(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
