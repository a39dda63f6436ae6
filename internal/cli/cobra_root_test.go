package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
)

// isolateEnv keeps the developer's own configuration out of the tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"TASKBOARD_CONFIG", "TASKBOARD_DB_DIR", "TASKBOARD_DB_FILENAME",
		"TASKBOARD_STORAGE", "TASKBOARD_SEED_DEMO", "TASKBOARD_DISPLAY_SORT",
		"TASKBOARD_APP_TIMEOUT", "TASKBOARD_LOG_LEVEL", "TASKBOARD_LOG_FORMAT",
		"TASKBOARD_VALIDATION_TITLE_MIN", "TASKBOARD_VALIDATION_DESCRIPTION_MIN",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, open Opener, args ...string) (*RootCommand, string, error) {
	t.Helper()
	root := NewRootCommand(open)
	var out bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(&out)
	root.Command().SetArgs(args)
	err := root.Execute()
	return root, out.String(), err
}

func TestRootCommand_MemoryStorageFlags(t *testing.T) {
	isolateEnv(t)
	fixTime(t)

	_, out, err := execute(t, nil, "--storage", "memory", "--seed-demo", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Active (3)")
	assert.Contains(t, out, "Completed (2)")
}

func TestRootCommand_PersistsWithSQLite(t *testing.T) {
	isolateEnv(t)
	fixTime(t)
	dbDir := t.TempDir()

	_, out, err := execute(t, nil, "--db-dir", dbDir,
		"add", "Water", "the", "plants",
		"-d", "Both balconies and the kitchen",
		"--due", "tomorrow", "-p", "low", "-t", "home")
	require.NoError(t, err)
	assert.Contains(t, out, ": Water the plants")

	_, out, err = execute(t, nil, "--db-dir", dbDir, "list", "--search", "balcon")
	require.NoError(t, err)
	assert.Contains(t, out, "Water the plants")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "#home")
}

func TestRootCommand_ConfigResolution(t *testing.T) {
	isolateEnv(t)
	fixTime(t)
	t.Setenv("TASKBOARD_STORAGE", "memory")
	t.Setenv("TASKBOARD_VALIDATION_TITLE_MIN", "8")

	var seen *config.Config
	open := func(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*App, error) {
		seen = cfg
		return Build(ctx, cfg, nil, stdout, stderr)
	}

	root, _, err := execute(t, open, "--title-min-length", "4", "--app-timeout", "5s", "stats")
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Same(t, root.Config(), seen)
	assert.Equal(t, config.StorageMemory, seen.Storage.Mode, "env applies")
	assert.Equal(t, 4, seen.Validation.TitleMinLength, "flag beats env")
	assert.Equal(t, 5*time.Second, seen.Application.Timeout)
	assert.Equal(t, 0, seen.Validation.TitleMaxLength, "defaults stay")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, nil, "--storage", "memory", "--log-level", "loud", "stats")
	require.Error(t, err)

	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRootCommand_EditOnlyChangedFlags(t *testing.T) {
	isolateEnv(t)
	fixTime(t)
	dbDir := t.TempDir()

	_, _, err := execute(t, nil, "--db-dir", dbDir, "seed")
	require.NoError(t, err)

	_, out, err := execute(t, nil, "--db-dir", dbDir, "edit", "2", "--priority", "high")
	require.NoError(t, err)
	assert.Equal(t, "Updated task 2: Landing Page Design for TravelDays\n", out)

	_, out, err = execute(t, nil, "--db-dir", dbDir, "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Priority:    High")
	assert.Contains(t, out, "Status:      In Progress")
	assert.Contains(t, out, "Get the work done by EOD")
}

func TestRootCommand_ArgumentValidation(t *testing.T) {
	isolateEnv(t)

	tests := [][]string{
		{"--storage", "memory", "show"},
		{"--storage", "memory", "cycle", "1", "2"},
		{"--storage", "memory", "add"},
		{"--storage", "memory", "stats", "extra"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[2:], " "), func(t *testing.T) {
			_, _, err := execute(t, nil, args...)
			assert.Error(t, err)
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand(nil)

	var names []string
	for _, c := range root.Command().Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"add", "list", "show", "edit", "delete", "cycle", "restore", "color", "stats", "export", "seed"} {
		assert.Contains(t, names, want)
	}
}
