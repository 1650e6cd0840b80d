package driven

import "github.com/civika-labs/faqd/internal/core/domain"

// ConfigStore loads and persists the application configuration.
// Implementations merge file contents over built-in defaults so a partial
// configuration file is always valid.
type ConfigStore interface {
	// Load returns the effective configuration.
	Load() (domain.Config, error)

	// Save persists the configuration.
	Save(cfg domain.Config) error

	// Path returns the backing file path, for diagnostics.
	Path() string
}
