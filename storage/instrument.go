package storage

import (
	"context"
	"time"
)

// Recorder receives signing outcomes; the metrics package implements it
type Recorder interface {
	SignedURL(ok bool)
}

// InstrumentedSigner counts issuance outcomes around another Signer
type InstrumentedSigner struct {
	next Signer
	rec  Recorder
}

func Instrument(next Signer, rec Recorder) *InstrumentedSigner {
	return &InstrumentedSigner{next: next, rec: rec}
}

func (s *InstrumentedSigner) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	signed, err := s.next.SignedURL(ctx, path, ttl)
	s.rec.SignedURL(err == nil)
	return signed, err
}
