// Command itsunani keeps timestamped notes in a local SQLite database.
package main

import (
	"fmt"
	"os"

	"github.com/Oikawa124/ItsuNani/internal/adapters/driven/config/file"
	"github.com/Oikawa124/ItsuNani/internal/adapters/driven/storage/sqlite"
	"github.com/Oikawa124/ItsuNani/internal/adapters/driving/cli"
	"github.com/Oikawa124/ItsuNani/internal/core/services"
	"github.com/Oikawa124/ItsuNani/internal/logger"
)

// envFile is read from the working directory before settings are resolved.
const envFile = ".env"

func main() {
	if err := cli.Execute(bootstrap); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires adapters to services for one invocation.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	if err := services.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	svcs := &cli.Services{Settings: settingsService}
	if opts.NoStore {
		return svcs, nil, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}
	if opts.DataDir != "" {
		settings.Store.DataDir = opts.DataDir
	}
	if settings.Log.Verbose {
		logger.SetVerbose(true)
	}

	dbPath, err := settingsService.DatabasePath(settings)
	if err != nil {
		return nil, nil, err
	}
	handle, err := sqlite.Open(dbPath, sqlite.WithSchemaVersion(settings.Store.SchemaVersion))
	if err != nil {
		return nil, nil, err
	}

	svcs.Entry = services.NewEntryService(handle.EntryStore())
	closeStore := func() {
		if err := handle.Close(); err != nil {
			logger.Error("closing store", "path", dbPath, "error", err)
		}
	}
	return svcs, closeStore, nil
}
