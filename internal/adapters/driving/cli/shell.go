package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
)

// shellCommands lists the words the shell understands, for completion.
var shellCommands = []string{"add", "show", "edit", "delete", "list", "search", "help", "exit", "quit"}

// lineReader is the subset of *liner.State the shell uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
	Close() error
}

// newLineReader opens the terminal line editor. Replaced in tests.
var newLineReader = func() lineReader {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	l.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range shellCommands {
			if strings.HasPrefix(c, strings.ToLower(line)) {
				out = append(out, c)
			}
		}
		return out
	})
	return l
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive prompt",
	Long: `Start an interactive prompt for adding and browsing entries.

Type 'help' at the prompt for the list of commands. History is kept in
~/.itsunani/shell_history.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// historyFile returns the path to the shell history file.
func historyFile() string {
	dir := configDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".itsunani")
	}
	return filepath.Join(dir, "shell_history")
}

func runShell(cmd *cobra.Command, _ []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	lr := newLineReader()
	defer lr.Close()

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = lr.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(lr)

	cmd.Println("itsunani shell. Type 'help' for commands.")

	for {
		line, err := lr.Prompt("itsunani> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				cmd.Println()
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lr.AppendHistory(line)

		word, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(word) {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			printShellHelp(cmd)
			continue
		}

		if err := runShellLine(cmd, strings.ToLower(word), rest); err != nil {
			cmd.Printf("Error: %v\n", err)
		}
	}
}

// runShellLine executes one shell command. rest is the text after the
// command word, with its inner spacing preserved for add and edit.
func runShellLine(cmd *cobra.Command, word, rest string) error {
	switch word {
	case "add", "a":
		return addEntry(cmd, rest)

	case "show", "get":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		return showEntry(cmd, id)

	case "edit":
		idArg, body, _ := strings.Cut(rest, " ")
		id, err := parseID(idArg)
		if err != nil {
			return err
		}
		return editEntry(cmd, id, strings.TrimSpace(body))

	case "delete", "del", "rm":
		ids, err := parseIDs(strings.Fields(rest))
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return errors.New("usage: delete <id>...")
		}
		return deleteEntries(cmd, ids)

	case "list", "ls":
		q := domain.EntryQuery{}
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return fmt.Errorf("invalid limit %q", rest)
			}
			q.Limit = n
		}
		return listEntries(cmd, q)

	case "search", "find":
		if rest == "" {
			return errors.New("usage: search <text>")
		}
		return listEntries(cmd, domain.EntryQuery{Search: rest})

	default:
		return fmt.Errorf("unknown command %q (type 'help' for commands)", word)
	}
}

func printShellHelp(cmd *cobra.Command) {
	cmd.Println(`Commands:
  add <text>          Add an entry
  show <id>           Show an entry
  edit <id> <text>    Replace an entry's text
  delete <id>...      Delete entries
  list [n]            List entries, newest first
  search <text>       List entries containing text
  help                Show this help
  exit                Leave the shell`)
}

// saveHistory persists command history to disk.
func saveHistory(lr lineReader) {
	path := historyFile()
	if path == "" {
		return
	}
	if f, err := os.Create(path); err == nil {
		_, _ = lr.WriteHistory(f)
		f.Close()
	}
}
