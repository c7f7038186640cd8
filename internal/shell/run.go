package shell

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kdeal/misc/internal/log"
)

// RunCommands runs each command through "sh -c", capturing output. Used
// for repo hook commands where output only matters on failure.
func RunCommands(dir string, commands []string) error {
	for _, command := range commands {
		log.Debug(log.CatShell, "Running hook command", "command", command)
		cmd := exec.Command("sh", "-c", command) //nolint:gosec // G204: commands come from the user's repo config
		cmd.Dir = dir
		output, err := cmd.CombinedOutput()
		if err != nil {
			trimmed := strings.TrimSpace(string(output))
			if trimmed != "" {
				return fmt.Errorf("running %q: %w\n%s", command, err, trimmed)
			}
			return fmt.Errorf("running %q: %w", command, err)
		}
	}
	return nil
}

// RunCommandsOutput runs each command through "sh -c" with stdout and
// stderr attached, stopping at the first failure.
func RunCommandsOutput(dir string, commands []string) error {
	for _, command := range commands {
		log.Debug(log.CatShell, "Running command", "command", command)
		cmd := exec.Command("sh", "-c", command) //nolint:gosec // G204: commands come from the user's repo config
		cmd.Dir = dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("running %q: %w", command, err)
		}
	}
	return nil
}
