package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

/* The object store only issues URLs that expire; the permanent-link
 * proxy defers signing to fetch time through this interface
 */

// ErrObjectNotFound is returned when the storage object does not exist.
// "file not yet uploaded" is an expected, common condition
var ErrObjectNotFound = errors.New("object not found")

// Signer issues a time-limited URL for a bucket-relative object path
type Signer interface {
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

/* ObjectPath composes the bucket-relative path for a claim document:
 * {claimId}/{documentType}/{fileName}
 */
func ObjectPath(claimID, documentType, fileName string) (string, error) {
	for _, part := range []string{claimID, documentType, fileName} {
		if part == "" {
			return "", fmt.Errorf("object path parts cannot be empty")
		}
		if strings.Contains(part, "/") || strings.Contains(part, "..") {
			return "", fmt.Errorf("invalid object path part: %s", part)
		}
	}
	return claimID + "/" + documentType + "/" + fileName, nil
}
