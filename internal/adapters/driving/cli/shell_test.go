package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
)

// scriptedReader feeds fixed lines to the shell, then ends with final.
type scriptedReader struct {
	lines   []string
	final   error
	history []string
	closed  bool
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", r.final
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) { r.history = append(r.history, item) }

func (r *scriptedReader) ReadHistory(io.Reader) (int, error) { return 0, nil }

func (r *scriptedReader) WriteHistory(w io.Writer) (int, error) {
	n := 0
	for _, h := range r.history {
		if _, err := io.WriteString(w, h+"\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func runScript(t *testing.T, final error, lines ...string) (*scriptedReader, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	reader := &scriptedReader{lines: lines, final: final}
	old := newLineReader
	newLineReader = func() lineReader { return reader }
	defer func() { newLineReader = old }()

	out, err := execute(t, "shell")
	return reader, out, err
}

func TestShellCmd_Session(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	reader, out, err := runScript(t, io.EOF,
		"add  spaced   out text",
		"add second",
		"",
		"edit 2 second, revised",
		"list",
		"show 1",
		"delete 2",
		"search spaced",
		"exit",
		"add never runs",
	)

	require.NoError(t, err)
	assert.True(t, reader.closed)
	assert.Contains(t, out, "Added entry 1")
	assert.Contains(t, out, "Added entry 2")
	assert.Contains(t, out, "Updated entry 2")
	assert.Contains(t, out, "Total: 2 entries")
	assert.Contains(t, out, "spaced   out text")
	assert.Contains(t, out, "Deleted 1 of 1 entries")
	assert.Contains(t, out, "Total: 1 entries")
	assert.Len(t, reader.history, 8, "blank lines are not recorded")

	entries, err := entryService.List(context.Background(), domain.EntryQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "spaced   out text", entries[0].Body)
}

func TestShellCmd_ErrorsDoNotEndSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, out, err := runScript(t, io.EOF,
		"show 5",
		"frobnicate",
		"delete",
		"list lots",
		"add still alive",
	)

	require.NoError(t, err)
	assert.Contains(t, out, "Error: failed to get entry")
	assert.Contains(t, out, `Error: unknown command "frobnicate"`)
	assert.Contains(t, out, "Error: usage: delete <id>...")
	assert.Contains(t, out, `Error: invalid limit "lots"`)
	assert.Contains(t, out, "Added entry 1")
}

func TestShellCmd_CtrlCExits(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, _, err := runScript(t, liner.ErrPromptAborted)

	assert.NoError(t, err)
}

func TestShellCmd_ReadError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	boom := errors.New("tty gone")
	_, _, err := runScript(t, boom)

	assert.ErrorIs(t, err, boom)
}

func TestShellCmd_Help(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, out, err := runScript(t, io.EOF, "help")

	require.NoError(t, err)
	for _, c := range []string{"add <text>", "show <id>", "edit <id> <text>", "delete <id>...", "search <text>"} {
		assert.Contains(t, out, c)
	}
}

func TestShellCmd_SavesHistory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	configDir = dir

	_, _, err := runScript(t, io.EOF, "add remembered", "list")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "shell_history"))
	require.NoError(t, err)
	assert.Equal(t, "add remembered\nlist\n", string(data))
}

func TestShellCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	entryService = nil

	_, err := execute(t, "shell")

	assert.ErrorContains(t, err, "entry service not configured")
}
