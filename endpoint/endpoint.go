package endpoint

import "time"

/* Endpoint represents an operator-configured webhook destination
 * Uses value semantics as it represents data, not behavior
 */
type Endpoint struct {
	ID               string
	Name             string
	URL              string
	Enabled          bool
	SubscribedEvents []string
	CustomHeaders    map[string]string
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Subscribed reports whether the endpoint listens for the given event
func (e Endpoint) Subscribed(event string) bool {
	for _, ev := range e.SubscribedEvents {
		if ev == event {
			return true
		}
	}
	return false
}
