package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestAttachmentCommands(t *testing.T) {
	root := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("STORAGE_ROOT", root)
	t.Setenv("LOG_LEVEL", "error")

	src := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	_, err := runRoot(t, "attachment", "put", "notes/note.txt", src)
	require.NoError(t, err)
	assert.FileExists(t, src, "put must not consume the caller's file")

	out, err := runRoot(t, "attachment", "get", "notes/note.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = runRoot(t, "attachment", "ls", "notes")
	require.NoError(t, err)
	assert.Equal(t, "note.txt\n", out)

	_, err = runRoot(t, "attachment", "rm", "notes/note.txt")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "notes", "note.txt"))

	out, err = runRoot(t, "attachment", "health")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, err = runRoot(t, "attachment", "get", "../escape")
	assert.Error(t, err)
}
