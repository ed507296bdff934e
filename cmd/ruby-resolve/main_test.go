package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunPrintsResolution(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", writeConfig(t, ""), "--no-llm", "what", "time", "is", "it"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "get_time\tphrase\tskipped\n", stdout.String())
}

func TestRunPrintsDashWhenUnmatched(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", writeConfig(t, ""), "--no-llm", "sing me a song"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "-\tnone\tskipped\n", stdout.String())
}

func TestRunRejectsInvalidIntents(t *testing.T) {
	path := writeConfig(t, "[[intents]]\nname = \"unknown\"\nphrases = [\"x\"]\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", path, "--no-llm", "x"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Invalid config")
}

func TestRunRequiresUtterance(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"--no-llm"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage:")
}
