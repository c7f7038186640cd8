// Package shell hands actions back to the shell function wrapping wkfl.
// The binary cannot change the parent shell's directory or spawn its
// editor, so it writes "op,path" lines to a handoff file the wrapper
// executes after wkfl exits.
package shell

import (
	"bufio"
	"fmt"
	"os"
)

// ActionsFileEnvVar names the handoff file. When unset no wrapper is
// listening and actions are silently dropped.
const ActionsFileEnvVar = "WKFL_SHELL_ACTIONS_FILE"

// Action is a single instruction for the wrapping shell.
type Action struct {
	Op   Op
	Path string
}

// Op identifies what the wrapper should do with the path.
type Op string

const (
	OpCd       Op = "cd"
	OpEditFile Op = "edit_file"
)

// Cd requests a directory change in the calling shell.
func Cd(path string) Action { return Action{Op: OpCd, Path: path} }

// EditFile requests the user's editor on a file.
func EditFile(path string) Action { return Action{Op: OpEditFile, Path: path} }

// Write serializes actions to the given file, one "op,path" line each.
func Write(actions []Action, filepath string) error {
	f, err := os.Create(filepath) //nolint:gosec // G304: path comes from the wrapper's env var
	if err != nil {
		return fmt.Errorf("creating shell actions file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, action := range actions {
		if _, err := fmt.Fprintf(w, "%s,%s\n", action.Op, action.Path); err != nil {
			return fmt.Errorf("writing shell action: %w", err)
		}
	}
	return w.Flush()
}

// WriteToEnvFile writes actions to the file named by ActionsFileEnvVar.
// It is a no-op when the variable is unset or no actions are queued.
func WriteToEnvFile(actions []Action) error {
	path, ok := os.LookupEnv(ActionsFileEnvVar)
	if !ok || len(actions) == 0 {
		return nil
	}
	return Write(actions, path)
}
