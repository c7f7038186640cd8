package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveSecret turns a secret reference into its value. Three forms
// are accepted:
//
//	literal       used as-is
//	env:NAME      read from the environment
//	cmd:program   stdout of the program, run through the shell
func ResolveSecret(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "env:"):
		name := strings.TrimPrefix(ref, "env:")
		value, ok := os.LookupEnv(name)
		if !ok {
			return "", fmt.Errorf("environment variable %q is not set", name)
		}
		return value, nil
	case strings.HasPrefix(ref, "cmd:"):
		command := strings.TrimPrefix(ref, "cmd:")
		out, err := exec.Command("sh", "-c", command).Output() //nolint:gosec // G204: command comes from the user's own config
		if err != nil {
			return "", fmt.Errorf("running secret command: %w", err)
		}
		return strings.TrimSpace(string(out)), nil
	default:
		return ref, nil
	}
}
