package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or change settings",
	Long:        `Show or change where entries are stored and how the store is opened.`,
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runConfigShow,
}

var configSetDirCmd = &cobra.Command{
	Use:         "set-dir [dir]",
	Short:       "Set the directory holding the database",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runConfigSetDir,
}

var configSetVersionCmd = &cobra.Command{
	Use:   "set-version [n]",
	Short: "Set the expected schema version",
	Long: `Set the schema version the store is opened with.

Raising the version drops and recreates the entry table the next time the
store is opened. ALL EXISTING ENTRIES ARE LOST. Lowering it below the
version recorded in the database makes the store refuse to open.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runConfigSetVersion,
}

var configSetVerboseCmd = &cobra.Command{
	Use:         "set-verbose [true|false]",
	Short:       "Turn debug logging on or off by default",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE:        runConfigSetVerbose,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetDirCmd)
	configCmd.AddCommand(configSetVersionCmd)
	configCmd.AddCommand(configSetVerboseCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	dbPath, err := settingsService.DatabasePath(settings)
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}

	cmd.Printf("Config file:    %s\n", settingsService.ConfigPath())
	cmd.Printf("Database:       %s\n", dbPath)
	cmd.Printf("Schema version: %d\n", settings.Store.SchemaVersion)
	cmd.Printf("Verbose:        %t\n", settings.Log.Verbose)
	return nil
}

func runConfigSetDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetDataDir(args[0]); err != nil {
		return fmt.Errorf("failed to set data directory: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Data directory set to %s\n", settings.Store.DataDir)
	return nil
}

func runConfigSetVersion(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	v, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid schema version %q", args[0])
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settingsService.SetSchemaVersion(v); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	cmd.Printf("Schema version set to %d\n", v)
	if v > current.Store.SchemaVersion {
		cmd.Println("Warning: all entries will be deleted the next time the store is opened.")
	}
	return nil
}

func runConfigSetVerbose(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	on, err := strconv.ParseBool(args[0])
	if err != nil {
		return fmt.Errorf("invalid value %q: want true or false", args[0])
	}
	if err := settingsService.SetVerbose(on); err != nil {
		return fmt.Errorf("failed to set verbose: %w", err)
	}
	cmd.Printf("Verbose set to %t\n", on)
	return nil
}
