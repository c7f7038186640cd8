package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdeal/misc/internal/term"
)

// feedKeys runs a key sequence through a fresh editor and returns the
// resulting state. The sequence must not contain Enter or ctrl-c.
func feedKeys(t *testing.T, keys string) *editorState {
	t.Helper()
	state := newEditorState(0, 0)
	for _, key := range term.Keys(keys) {
		done, err := state.handleKey(key)
		assert.NoError(t, err)
		assert.False(t, done, "sequence should not finish the prompt")
	}
	return state
}

func TestEditor_InsertTyping(t *testing.T) {
	state := feedKeys(t, "hello")

	assert.Equal(t, "hello", state.text())
	assert.Equal(t, 5, state.cursor)
	assert.Equal(t, modeInsert, state.mode)
}

func TestEditor_EscEntersNormalAndStepsBack(t *testing.T) {
	state := feedKeys(t, "hello\x1b")

	assert.Equal(t, modeNormal, state.mode)
	assert.Equal(t, 4, state.cursor)
}

func TestEditor_BackspaceAtEnd(t *testing.T) {
	state := feedKeys(t, "hello\b")

	assert.Equal(t, "hell", state.text())
	assert.Equal(t, 4, state.cursor)
}

func TestEditor_BackspaceMidLine(t *testing.T) {
	// Re-enter insert at index 1 and delete the rune before it.
	state := feedKeys(t, "abc\x1bhi\b")

	assert.Equal(t, "bc", state.text())
	assert.Equal(t, 0, state.cursor)
}

func TestEditor_BackspaceAtStartIsNoop(t *testing.T) {
	state := feedKeys(t, "abc\x1bhhi\b")

	assert.Equal(t, "abc", state.text())
	assert.Equal(t, 0, state.cursor)
}

func TestEditor_EnterFinishes(t *testing.T) {
	state := newEditorState(0, 0)
	done, err := state.handleKey(term.Key{Type: term.KeyEnter})

	assert.NoError(t, err)
	assert.True(t, done)
}

func TestEditor_CtrlCInterrupts(t *testing.T) {
	state := newEditorState(0, 0)
	done, err := state.handleKey(term.Key{Type: term.KeyRune, Rune: 'c', Mod: term.ModCtrl})

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.False(t, done)
}

func TestEditor_OtherControlChordsIgnored(t *testing.T) {
	state := feedKeys(t, "ab")
	done, err := state.handleKey(term.Key{Type: term.KeyRune, Rune: 'w', Mod: term.ModCtrl})

	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "ab", state.text())
}

func TestEditor_NormalModeMovement(t *testing.T) {
	tests := []struct {
		name       string
		keys       string
		wantCursor int
	}{
		{"h moves left", "abc\x1bh", 1},
		{"l moves right", "abc\x1bhhl", 1},
		{"l stops at last rune", "abc\x1bll", 2},
		{"backspace moves left", "abc\x1b\b", 1},
		{"b to word start", "foo bar\x1bb", 4},
		{"bb across words", "foo bar\x1bbb", 0},
		{"w to next word", "foo bar\x1bbbw", 4},
		{"w at last word goes to end", "foo bar\x1bbw", 6},
		{"e to word end", "foo bar\x1bbbe", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := feedKeys(t, tt.keys)
			assert.Equal(t, tt.wantCursor, state.cursor)
			assert.Equal(t, modeNormal, state.mode)
		})
	}
}

func TestEditor_InsertEntryKeys(t *testing.T) {
	tests := []struct {
		name       string
		keys       string
		wantCursor int
	}{
		{"i stays in place", "abc\x1bhi", 1},
		{"I jumps to start", "abc\x1bI", 0},
		{"a steps right", "abc\x1bha", 2},
		{"A jumps past end", "abc\x1bA", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := feedKeys(t, tt.keys)
			assert.Equal(t, tt.wantCursor, state.cursor)
			assert.Equal(t, modeInsert, state.mode)
		})
	}
}

func TestEditor_DeleteChar(t *testing.T) {
	tests := []struct {
		name       string
		keys       string
		wantText   string
		wantCursor int
	}{
		{"x deletes under cursor", "abc\x1bx", "ab", 1},
		{"X deletes before cursor", "abc\x1bX", "ac", 1},
		{"x on empty line", "\x1bx", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := feedKeys(t, tt.keys)
			assert.Equal(t, tt.wantText, state.text())
			assert.Equal(t, tt.wantCursor, state.cursor)
		})
	}
}

func TestEditor_Operators(t *testing.T) {
	tests := []struct {
		name       string
		keys       string
		wantText   string
		wantCursor int
		wantMode   editorMode
	}{
		{"ciw deletes inner word", "foo bar baz\x1bbbciw", "foo  baz", 4, modeInsert},
		{"diw deletes inner word", "foo bar baz\x1bbbdiw", "foo  baz", 4, modeNormal},
		{"caw spans trailing gap", "foo bar baz\x1bbbcaw", "foo baz", 4, modeInsert},
		{"daw spans trailing gap", "foo bar baz\x1bbbdaw", "foo baz", 4, modeNormal},
		{"dw from word start", "foo bar\x1bbbdw", "bar", 0, modeNormal},
		{"dw on last word", "foo bar\x1bbdw", "foo ", 3, modeNormal},
		{"cw keeps next word start", "foo bar\x1bbbcw", "bar", 0, modeInsert},
		{"ce to word end", "foo bar\x1bbbce", " bar", 0, modeInsert},
		{"de to word end", "foo bar\x1bbbde", " bar", 0, modeNormal},
		{"db back to word start", "foo bar\x1bbdb", "bar", 0, modeNormal},
		{"cc clears the line", "foo bar\x1bcc", "", 0, modeInsert},
		{"dd clears the line", "foo bar\x1bdd", "", 0, modeNormal},
		{"unknown motion cancels", "abc\x1bcx", "abc", 2, modeNormal},
		{"esc cancels operator", "abc\x1bd\x1b", "abc", 2, modeNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := feedKeys(t, tt.keys)
			assert.Equal(t, tt.wantText, state.text())
			assert.Equal(t, tt.wantCursor, state.cursor)
			assert.Equal(t, tt.wantMode, state.mode)
		})
	}
}

func TestEditor_ChangeThenRetype(t *testing.T) {
	state := feedKeys(t, "hello\x1bccworld")

	assert.Equal(t, "world", state.text())
	assert.Equal(t, modeInsert, state.mode)
}
