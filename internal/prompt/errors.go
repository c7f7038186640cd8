package prompt

import "errors"

// ErrInterrupted is returned when the user aborts a prompt with ctrl-c.
// Callers should treat it as a request to stop the whole operation, not
// as a failure of the prompt itself.
var ErrInterrupted = errors.New("prompt interrupted")
