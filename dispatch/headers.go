package dispatch

import (
	"net/http"
	"strings"
)

/* Header-shaping policy
 *
 * Every outbound request carries Content-Type, Accept and a fixed
 * User-Agent. Generic destinations additionally get the X-Webhook-*
 * origin headers plus the endpoint's custom headers merged verbatim.
 * Destinations on the automation platform's domain get a reduced set:
 * its inbound listener rejects unrecognized headers, so only an
 * allow-list of custom headers is honored. The allow-list is a
 * compatibility shim, not a security boundary.
 */

// UserAgent identifies this system on every outbound request
const UserAgent = "ClaimsRelay-Webhook/1.0"

// SourceName is the X-Webhook-Source value for generic destinations
const SourceName = "claims-relay"

// automationPlatformDomain matches the hosted automation platform's
// inbound webhook listeners, e.g. https://h.albato.com/wh/...
const automationPlatformDomain = "albato.com"

// shimAllowedHeaders are the only custom headers forwarded to
// compatibility-shim targets
var shimAllowedHeaders = map[string]bool{
	"Content-Type":  true,
	"Accept":        true,
	"User-Agent":    true,
	"Authorization": true,
}

// IsCompatibilityShimTarget reports whether the URL points at the
// automation platform and must receive the reduced header set
func IsCompatibilityShimTarget(url string) bool {
	return strings.Contains(strings.ToLower(url), automationPlatformDomain)
}

// BuildHeaders applies the shaping policy for one destination
func BuildHeaders(url, event string, customHeaders map[string]string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("User-Agent", UserAgent)

	if IsCompatibilityShimTarget(url) {
		for key, value := range customHeaders {
			if shimAllowedHeaders[http.CanonicalHeaderKey(key)] {
				h.Set(key, value)
			}
		}
		return h
	}

	h.Set("X-Webhook-Event", event)
	h.Set("X-Webhook-Source", SourceName)
	// operator-supplied headers override defaults on key collision
	for key, value := range customHeaders {
		h.Set(key, value)
	}
	return h
}
