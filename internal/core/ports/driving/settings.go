package driving

import "github.com/Oikawa124/ItsuNani/internal/core/domain"

// SettingsService resolves and persists application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then the environment.
	Get() (*domain.Settings, error)

	// SetDataDir changes the directory holding the database file.
	SetDataDir(dir string) error

	// SetSchemaVersion changes the expected schema version.
	// Raising it recreates the entry table on next open, dropping all entries.
	SetSchemaVersion(version int) error

	// SetVerbose toggles debug logging.
	SetVerbose(verbose bool) error

	// DatabasePath returns the database file path for the given settings.
	DatabasePath(s *domain.Settings) (string, error)

	// ConfigPath returns the path of the backing config file.
	ConfigPath() string
}
