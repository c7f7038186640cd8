// Package term is the terminal driver used by the interactive prompts.
// It owns raw mode, key decoding, and cursor/screen control on stderr.
package term

// KeyType identifies the kind of key that was pressed.
type KeyType int

const (
	// KeyRune is a printable character key.
	KeyRune KeyType = iota
	// KeyEnter is the return key.
	KeyEnter
	// KeyBackspace is the backspace/delete-left key.
	KeyBackspace
	// KeyEsc is the escape key.
	KeyEsc
)

// Mod is a set of modifier keys held during a key press.
type Mod int

const (
	// ModNone means no modifier was held.
	ModNone Mod = 0
	// ModShift is set for shifted printable characters.
	ModShift Mod = 1 << iota
	// ModCtrl is set for control-modified characters.
	ModCtrl
)

// Key is a single decoded keyboard event.
type Key struct {
	Type KeyType
	Rune rune // valid when Type == KeyRune
	Mod  Mod
}
