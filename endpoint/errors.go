package endpoint

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an endpoint id is unknown
var ErrNotFound = errors.New("endpoint not found")

/* ValidationError carries field-level detail so the operator UI
 * can surface it verbatim next to the offending input
 */
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
