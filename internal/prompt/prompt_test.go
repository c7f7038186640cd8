package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdeal/misc/internal/term"
)

func TestBasic_ReturnsTypedLine(t *testing.T) {
	script := term.NewScript(term.Keys("hello world\r")...)

	got, err := Basic(script, "Name:")

	assert.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.False(t, script.RawActive, "raw mode must be released")
	assert.Equal(t, 1, script.RawEnters)
	assert.Contains(t, script.Output(), "Name: ")
}

func TestBasic_ModalEditing(t *testing.T) {
	script := term.NewScript(term.Keys("helo\x1bccworld\r")...)

	got, err := Basic(script, ">")

	assert.NoError(t, err)
	assert.Equal(t, "world", got)
}

func TestBasic_CtrlCReleasesRawMode(t *testing.T) {
	script := term.NewScript(term.Keys("abc\x03")...)

	_, err := Basic(script, ">")

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.False(t, script.RawActive, "raw mode must be released on abort")
	assert.Equal(t, 1, script.RawExits)
}

func TestBasic_CursorShapeFollowsMode(t *testing.T) {
	script := term.NewScript(term.Keys("a\x1b\r")...)

	_, err := Basic(script, ">")

	assert.NoError(t, err)
	assert.Equal(t, term.ShapeBlock, script.Shape, "normal mode shows a block cursor")
}

func TestSelect_DefaultsToFirstOption(t *testing.T) {
	options := []string{"apple", "banana", "cherry"}
	script := term.NewScript(term.Keys("\r")...)

	got, err := Select(script, "Fruit:", options)

	assert.NoError(t, err)
	assert.Equal(t, "apple", got)
	assert.False(t, script.RawActive)
	assert.Contains(t, script.Output(), "> ")
}

func TestSelect_NormalModeNavigation(t *testing.T) {
	options := []string{"apple", "banana", "cherry"}
	script := term.NewScript(term.Keys("\x1bj\r")...)

	got, err := Select(script, "Fruit:", options)

	assert.NoError(t, err)
	assert.Equal(t, "banana", got)
}

func TestSelect_CtrlNNavigatesWhileInserting(t *testing.T) {
	options := []string{"apple", "banana", "cherry"}
	keys := append(term.Keys(""),
		term.Key{Type: term.KeyRune, Rune: 'n', Mod: term.ModCtrl},
		term.Key{Type: term.KeyRune, Rune: 'n', Mod: term.ModCtrl},
		term.Key{Type: term.KeyRune, Rune: 'p', Mod: term.ModCtrl},
		term.Key{Type: term.KeyEnter},
	)
	script := term.NewScript(keys...)

	got, err := Select(script, "Fruit:", options)

	assert.NoError(t, err)
	assert.Equal(t, "banana", got)
}

func TestSelect_FilterNarrowsOptions(t *testing.T) {
	options := []string{"apple", "banana", "cherry"}
	script := term.NewScript(term.Keys("ch\r")...)

	got, err := Select(script, "Fruit:", options)

	assert.NoError(t, err)
	assert.Equal(t, "cherry", got)
}

func TestSelect_EnterWaitsForMatches(t *testing.T) {
	options := []string{"apple", "banana", "cherry"}
	// Enter while nothing matches is swallowed; deleting the filter
	// restores the full list.
	script := term.NewScript(term.Keys("zz\r\b\b\r")...)

	got, err := Select(script, "Fruit:", options)

	assert.NoError(t, err)
	assert.Equal(t, "apple", got)
}

func TestSelect_CtrlCClearsAndReleases(t *testing.T) {
	options := []string{"apple", "banana"}
	script := term.NewScript(term.Keys("\x03")...)

	_, err := Select(script, "Fruit:", options)

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.False(t, script.RawActive, "raw mode must be released on abort")
}

func TestSelect_NoOptionsFails(t *testing.T) {
	script := term.NewScript()

	_, err := Select(script, "Fruit:", nil)

	assert.Error(t, err)
	assert.False(t, script.RawActive)
}

func TestBoolean_DefaultOnEnter(t *testing.T) {
	script := term.NewScript(term.Keys("\r")...)

	got, err := Boolean(script, "Continue?", true)

	assert.NoError(t, err)
	assert.True(t, got)
	assert.False(t, script.RawActive)
	assert.False(t, script.CursorHidden, "cursor must be shown again")
}

func TestBoolean_ToggleKeys(t *testing.T) {
	tests := []struct {
		name         string
		keys         string
		defaultValue bool
		want         bool
	}{
		{"n picks no", "n\r", true, false},
		{"f picks no", "f\r", true, false},
		{"l picks no", "l\r", true, false},
		{"y picks yes", "y\r", false, true},
		{"t picks yes", "t\r", false, true},
		{"h picks yes", "h\r", false, true},
		{"last key wins", "nty\r", false, true},
		{"unknown keys ignored", "qz\r", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := term.NewScript(term.Keys(tt.keys)...)

			got, err := Boolean(script, "Continue?", tt.defaultValue)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoolean_CtrlCRestoresCursor(t *testing.T) {
	script := term.NewScript(term.Keys("\x03")...)

	_, err := Boolean(script, "Continue?", true)

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.False(t, script.RawActive)
	assert.False(t, script.CursorHidden)
}
