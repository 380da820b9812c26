package domain

// Store defaults.
const (
	// DefaultFileName is the database file created inside the data directory.
	DefaultFileName = "itsunani.db"

	// DefaultSchemaVersion is the schema version the code expects.
	// Opening a file tagged with an older version recreates the entry table.
	DefaultSchemaVersion = 1
)

// StoreSettings locates the entry database.
type StoreSettings struct {
	// DataDir is the directory holding the database file.
	// Empty means ~/.itsunani/data.
	DataDir string

	// FileName is the database file name.
	FileName string `validate:"required,excludesall=/\\"`

	// SchemaVersion is the expected schema version.
	SchemaVersion int `validate:"gte=1"`
}

// LogSettings controls diagnostic output.
type LogSettings struct {
	// Verbose enables debug logging to stderr.
	Verbose bool
}

// Settings holds all application settings.
type Settings struct {
	// Store holds database location settings.
	Store StoreSettings

	// Log holds logging settings.
	Log LogSettings
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Store: StoreSettings{
			FileName:      DefaultFileName,
			SchemaVersion: DefaultSchemaVersion,
		},
	}
}
