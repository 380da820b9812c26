package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
)

// timeLayout formats entry timestamps for display.
const timeLayout = "2006-01-02 15:04:05"

// stdinIsTerminal reports whether stdin is interactive. Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add an entry",
	Long: `Add an entry stamped with the current time.

The text is taken from the arguments, or read from stdin when no
arguments are given and stdin is not a terminal:

  itsunani add bought more coffee
  git log -1 --format=%s | itsunani add`,
	RunE: runAdd,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var editCmd = &cobra.Command{
	Use:   "edit [id] [text...]",
	Short: "Replace an entry's text",
	Long:  `Replace the text of an entry. Its original timestamp is kept.`,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:     "delete [id...]",
	Aliases: []string{"rm"},
	Short:   "Delete entries",
	Long: `Delete one or more entries by ID. IDs that do not exist are skipped.

Entries are deleted one at a time. If a deletion fails, the entries
before it stay deleted and the rest are left alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List entries, newest first",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

// Flags for the list command.
var (
	listLimit  int
	listOffset int
	listSearch string
	listOldest bool
)

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of entries (0 for all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Skip this many entries (requires --limit)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only entries containing this text")
	listCmd.Flags().BoolVar(&listOldest, "oldest", false, "Oldest first")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	body := strings.Join(args, " ")
	if len(args) == 0 {
		if stdinIsTerminal() {
			return errors.New("nothing to add: pass text as arguments or pipe it on stdin")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		body = strings.TrimRight(string(data), "\r\n")
	}
	return addEntry(cmd, body)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return showEntry(cmd, id)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return editEntry(cmd, id, strings.Join(args[1:], " "))
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	return deleteEntries(cmd, ids)
}

func runList(cmd *cobra.Command, _ []string) error {
	return listEntries(cmd, domain.EntryQuery{
		Search: listSearch,
		Limit:  listLimit,
		Offset: listOffset,
		Oldest: listOldest,
	})
}

// The functions below are shared by the cobra commands and the shell.

func addEntry(cmd *cobra.Command, body string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("entry text is empty")
	}

	id, err := entryService.Add(context.Background(), body)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}
	cmd.Printf("Added entry %d\n", id)
	return nil
}

func showEntry(cmd *cobra.Command, id int64) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	e, err := entryService.Get(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	cmd.Printf("Entry %d\n", e.ID)
	cmd.Printf("  Created: %s\n\n", e.Time().Format(timeLayout))
	cmd.Println(e.Body)
	return nil
}

func editEntry(cmd *cobra.Command, id int64, body string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("entry text is empty")
	}

	if err := entryService.Edit(context.Background(), id, body); err != nil {
		return fmt.Errorf("failed to edit entry: %w", err)
	}
	cmd.Printf("Updated entry %d\n", id)
	return nil
}

func deleteEntries(cmd *cobra.Command, ids []int64) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	n, err := entryService.Delete(context.Background(), ids)
	cmd.Printf("Deleted %d of %d entries\n", n, len(ids))
	if err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

func listEntries(cmd *cobra.Command, q domain.EntryQuery) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	entries, err := entryService.List(context.Background(), q)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No entries found")
		return nil
	}

	for i := range entries {
		cmd.Printf("%6d  %s  %s\n", entries[i].ID, entries[i].Time().Format(timeLayout), entries[i].Title())
	}
	cmd.Printf("\nTotal: %d entries\n", len(entries))
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
