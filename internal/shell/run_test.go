package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommands(t *testing.T) {
	dir := t.TempDir()

	t.Run("runs in order in the given directory", func(t *testing.T) {
		err := RunCommands(dir, []string{
			"echo one > out.txt",
			"echo two >> out.txt",
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", string(data))
	})

	t.Run("failure includes the command and its output", func(t *testing.T) {
		err := RunCommands(dir, []string{"echo broken >&2; exit 3"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "echo broken")
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		err := RunCommands(dir, []string{"false", "touch never.txt"})
		require.Error(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "never.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		require.NoError(t, RunCommands(dir, nil))
	})
}

func TestRunCommandsOutput(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, RunCommandsOutput(dir, []string{"true"}))

	err := RunCommandsOutput(dir, []string{"exit 7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit 7")
}
