package endpoint

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Seed file support: a webhooks.yaml declaring endpoints to ensure at boot
 * Useful for environments where the initial CRM destination is provisioned
 * together with the deployment instead of through the operator UI
 */

// SeedFile represents the structure of webhooks.yaml
type SeedFile struct {
	Webhooks []SeedEntry `yaml:"webhooks"`
}

// SeedEntry represents a single endpoint in the YAML file
type SeedEntry struct {
	Name             string            `yaml:"name"`
	URL              string            `yaml:"url"`
	Enabled          *bool             `yaml:"enabled"` // default: true
	SubscribedEvents []string          `yaml:"subscribed_events"`
	CustomHeaders    map[string]string `yaml:"custom_headers"`
	Description      string            `yaml:"description"`
}

// LoadSeedFile reads and parses a webhooks.yaml file
func LoadSeedFile(path string) ([]Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing seed YAML: %w", err)
	}

	inputs := make([]Input, 0, len(file.Webhooks))
	for _, entry := range file.Webhooks {
		enabled := true
		if entry.Enabled != nil {
			enabled = *entry.Enabled
		}
		inputs = append(inputs, Input{
			Name:             entry.Name,
			URL:              entry.URL,
			Enabled:          enabled,
			SubscribedEvents: entry.SubscribedEvents,
			CustomHeaders:    entry.CustomHeaders,
			Description:      entry.Description,
		})
	}
	return inputs, nil
}

/* Seed ensures each entry exists in the registry, matching by name
 * Already-present endpoints are left untouched so operator edits survive restarts
 */
func Seed(ctx context.Context, uc UseCase, inputs []Input) error {
	existing, err := uc.List(ctx)
	if err != nil {
		return fmt.Errorf("listing endpoints for seeding: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.Name] = true
	}

	for _, in := range inputs {
		if known[in.Name] {
			continue
		}
		if _, err := uc.Create(ctx, in); err != nil {
			return fmt.Errorf("seeding endpoint %q: %w", in.Name, err)
		}
	}
	return nil
}
