package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
	"github.com/Oikawa124/ItsuNani/internal/core/ports/driven"
	"github.com/Oikawa124/ItsuNani/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir       = "store.data_dir"
	keyFileName      = "store.file_name"
	keySchemaVersion = "store.schema_version"
	keyVerbose       = "log.verbose"
)

// Environment variables that override the config file.
const (
	EnvDataDir = "ITSUNANI_DATA_DIR"
	EnvVerbose = "ITSUNANI_VERBOSE"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get resolves settings from defaults, then the config store, then the environment.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	if v := s.configStore.GetString(keyDataDir); v != "" {
		settings.Store.DataDir = v
	}
	if v := s.configStore.GetString(keyFileName); v != "" {
		settings.Store.FileName = v
	}
	if _, ok := s.configStore.Get(keySchemaVersion); ok {
		settings.Store.SchemaVersion = s.configStore.GetInt(keySchemaVersion)
	}
	settings.Log.Verbose = s.configStore.GetBool(keyVerbose)

	if v, ok := s.lookupEnv(EnvDataDir); ok && v != "" {
		settings.Store.DataDir = v
	}
	if v, ok := s.lookupEnv(EnvVerbose); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a boolean", domain.ErrInvalidInput, EnvVerbose, v)
		}
		settings.Log.Verbose = b
	}

	if err := validateStruct(settings); err != nil {
		return nil, fmt.Errorf("settings from %s: %w", s.configStore.Path(), err)
	}
	return &settings, nil
}

// SetDataDir persists the data directory. The path is made absolute.
func (s *SettingsService) SetDataDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: data directory is required", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}
	if err := s.configStore.Set(keyDataDir, abs); err != nil {
		return fmt.Errorf("save data directory: %w", err)
	}
	return nil
}

// SetSchemaVersion persists the expected schema version.
func (s *SettingsService) SetSchemaVersion(version int) error {
	if version < 1 {
		return fmt.Errorf("%w: schema version must be at least 1, got %d", domain.ErrInvalidInput, version)
	}
	if err := s.configStore.Set(keySchemaVersion, version); err != nil {
		return fmt.Errorf("save schema version: %w", err)
	}
	return nil
}

// SetVerbose persists the debug logging switch.
func (s *SettingsService) SetVerbose(verbose bool) error {
	if err := s.configStore.Set(keyVerbose, verbose); err != nil {
		return fmt.Errorf("save verbose: %w", err)
	}
	return nil
}

// DatabasePath returns the database file for settings.
// An empty data directory resolves to ~/.itsunani/data.
func (s *SettingsService) DatabasePath(settings *domain.Settings) (string, error) {
	dir := settings.Store.DataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".itsunani", "data")
	}
	name := settings.Store.FileName
	if name == "" {
		name = domain.DefaultFileName
	}
	return filepath.Join(dir, name), nil
}

// ConfigPath returns the path of the backing config file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// LoadEnvFile loads KEY=value lines from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
