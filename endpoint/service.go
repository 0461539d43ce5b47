package endpoint

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

/* Service represents the registry business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// Input holds the operator-supplied fields for a new endpoint
type Input struct {
	Name             string
	URL              string
	Enabled          bool
	SubscribedEvents []string
	CustomHeaders    map[string]string
	Description      string
}

// Patch holds a partial update; nil fields are left untouched
type Patch struct {
	Name             *string
	URL              *string
	Enabled          *bool
	SubscribedEvents []string
	CustomHeaders    map[string]string
	Description      *string
}

// UseCase defines the business operations for registry management
type UseCase interface {
	List(ctx context.Context) ([]Endpoint, error)
	Get(ctx context.Context, id string) (Endpoint, error)
	Create(ctx context.Context, in Input) (Endpoint, error)
	Update(ctx context.Context, id string, p Patch) (Endpoint, error)
	Delete(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
}

type Service struct {
	Repo Repository
}

// NewService creates a new registry service with dependency injection
func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
	}
}

// List returns every configured endpoint, newest first
func (s *Service) List(ctx context.Context) ([]Endpoint, error) {
	all, err := s.Repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("selecting endpoints: %w", err)
	}
	return all, nil
}

// Get returns a single endpoint by id
func (s *Service) Get(ctx context.Context, id string) (Endpoint, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Endpoint{}, fmt.Errorf("selecting endpoint: %w", err)
	}
	return e, nil
}

// Create validates the input, assigns id and timestamps, and persists
func (s *Service) Create(ctx context.Context, in Input) (Endpoint, error) {
	if err := validate(in.Name, in.URL, in.SubscribedEvents); err != nil {
		return Endpoint{}, err
	}

	now := time.Now().UTC()
	e := Endpoint{
		ID:               uuid.New().String(),
		Name:             in.Name,
		URL:              in.URL,
		Enabled:          in.Enabled,
		SubscribedEvents: in.SubscribedEvents,
		CustomHeaders:    in.CustomHeaders,
		Description:      in.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Repo.Insert(ctx, e); err != nil {
		return Endpoint{}, fmt.Errorf("inserting endpoint: %w", err)
	}
	return e, nil
}

// Update applies a partial update and re-validates the result
func (s *Service) Update(ctx context.Context, id string, p Patch) (Endpoint, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Endpoint{}, fmt.Errorf("selecting endpoint: %w", err)
	}

	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.URL != nil {
		e.URL = *p.URL
	}
	if p.Enabled != nil {
		e.Enabled = *p.Enabled
	}
	if p.SubscribedEvents != nil {
		e.SubscribedEvents = p.SubscribedEvents
	}
	if p.CustomHeaders != nil {
		e.CustomHeaders = p.CustomHeaders
	}
	if p.Description != nil {
		e.Description = *p.Description
	}

	if err := validate(e.Name, e.URL, e.SubscribedEvents); err != nil {
		return Endpoint{}, err
	}

	e.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, e); err != nil {
		return Endpoint{}, fmt.Errorf("updating endpoint: %w", err)
	}
	return e, nil
}

// Delete hard-deletes the endpoint; delivery log rows are not cascaded
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting endpoint: %w", err)
	}
	return nil
}

// SetEnabled flips the enabled flag without touching the rest of the config
func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.Repo.SetEnabled(ctx, id, enabled); err != nil {
		return fmt.Errorf("setting endpoint enabled flag: %w", err)
	}
	return nil
}

func validate(name, rawURL string, events []string) error {
	if name == "" {
		return ValidationError{Field: "name", Message: "cannot be empty"}
	}
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{Field: "url", Message: "must be a well-formed absolute http(s) URL"}
	}
	if len(events) == 0 {
		return ValidationError{Field: "subscribed_events", Message: "cannot be empty"}
	}
	for _, ev := range events {
		if ev == "" {
			return ValidationError{Field: "subscribed_events", Message: "event names cannot be empty"}
		}
	}
	return nil
}
