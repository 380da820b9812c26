// Package cli implements the itsunani command line.
//
// Commands are package-level cobra values registered in init, and drive the
// core through the driving ports held in entryService and settingsService.
// Those are populated by the Bootstrap passed to Execute once flags are
// parsed, or directly by tests.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Oikawa124/ItsuNani/internal/core/ports/driving"
	"github.com/Oikawa124/ItsuNani/internal/logger"
)

// version is set at build time via -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// annotationNoStore marks commands that must work without an open database.
const annotationNoStore = "itsunani/no-store"

var (
	entryService    driving.EntryService
	settingsService driving.SettingsService
)

// Persistent flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Options carries the persistent flags to the Bootstrap.
type Options struct {
	// ConfigDir overrides the config directory (default ~/.itsunani).
	ConfigDir string

	// DataDir overrides the configured data directory for this run only.
	DataDir string

	// Verbose is the --verbose flag.
	Verbose bool

	// NoStore is set for commands that do not touch entries.
	// The Bootstrap should not open the database.
	NoStore bool
}

// Services are the ports the commands drive.
type Services struct {
	Entry    driving.EntryService
	Settings driving.SettingsService
}

// Bootstrap builds the services for one invocation. The returned cleanup
// func, if non-nil, runs after the command finishes.
type Bootstrap func(opts Options) (*Services, func(), error)

var (
	bootstrap Bootstrap
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "itsunani",
	Short: "Timestamped notes in a local SQLite database",
	Long: `itsunani ("when, what") keeps short notes in a single SQLite file.

Each entry records its text and the moment it was created. Editing an
entry changes its text but never its timestamp.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default ~/.itsunani)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the database for this run")
}

// Execute runs the root command using b to build services.
func Execute(b Bootstrap) error {
	bootstrap = b
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.Execute()
}

// SetServices installs the ports used by commands.
func SetServices(s *Services) {
	if s == nil {
		entryService, settingsService = nil, nil
		return
	}
	entryService = s.Entry
	settingsService = s.Settings
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}
	if cmd.Annotations[annotationNoStore] == "skip" {
		return nil
	}

	svcs, done, err := bootstrap(Options{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Verbose:   verbose,
		NoStore:   cmd.Annotations[annotationNoStore] != "",
	})
	if err != nil {
		return err
	}
	SetServices(svcs)
	cleanup = done
	return nil
}
