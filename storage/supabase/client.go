package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segurnet/claims-relay/storage"
)

/* HTTP client for the hosted storage platform's URL-signing API
 *
 * POST {base}/storage/v1/object/sign/{bucket}/{path} {"expiresIn": n}
 * responds {"signedURL": "/object/sign/{bucket}/{path}?token=..."}
 * The returned path is relative to the storage API root.
 */

type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	http       *http.Client
}

// NewClient creates a signing client for one bucket
func NewClient(baseURL, serviceKey, bucket string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

type signRequest struct {
	ExpiresIn int `json:"expiresIn"`
}

type signResponse struct {
	SignedURL string `json:"signedURL"`
}

// SignedURL issues a time-limited URL for the given bucket-relative path
func (c *Client) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	body, err := json.Marshal(signRequest{ExpiresIn: int(ttl.Seconds())})
	if err != nil {
		return "", fmt.Errorf("marshaling sign request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s",
		c.baseURL, c.bucket, escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling signing API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return "", storage.ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("signing API returned %d: %s", resp.StatusCode, msg)
	}

	var signed signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("decoding sign response: %w", err)
	}
	if signed.SignedURL == "" {
		return "", storage.ErrObjectNotFound
	}

	return c.baseURL + "/storage/v1" + signed.SignedURL, nil
}

// escapePath escapes each path segment while keeping the separators
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
