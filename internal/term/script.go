package term

import (
	"errors"
	"strings"
)

// Script is an in-memory Driver for tests. It replays a fixed sequence of
// key events and records every operation so tests can assert on raw-mode
// handling and rendered output.
type Script struct {
	keys []Key

	// RawActive reports whether raw mode is currently enabled.
	RawActive bool
	// RawEnters and RawExits count mode transitions.
	RawEnters int
	RawExits  int

	// Shape is the last cursor shape set.
	Shape CursorShape
	// CursorHidden reports the current visibility state.
	CursorHidden bool

	writes []string
}

var _ Driver = (*Script)(nil)

// NewScript builds a Script that replays keys in order.
func NewScript(keys ...Key) *Script {
	return &Script{keys: keys}
}

// Keys builds a key sequence from a compact notation: each rune becomes a
// KeyRune event, except '\r' (Enter), '\x1b' (Esc), '\b' (Backspace) and
// '\x03' (ctrl-c).
func Keys(s string) []Key {
	var keys []Key
	for _, r := range s {
		switch r {
		case '\r':
			keys = append(keys, Key{Type: KeyEnter})
		case '\x1b':
			keys = append(keys, Key{Type: KeyEsc})
		case '\b':
			keys = append(keys, Key{Type: KeyBackspace})
		case '\x03':
			keys = append(keys, Key{Type: KeyRune, Rune: 'c', Mod: ModCtrl})
		default:
			mod := ModNone
			if r >= 'A' && r <= 'Z' {
				mod = ModShift
			}
			keys = append(keys, Key{Type: KeyRune, Rune: r, Mod: mod})
		}
	}
	return keys
}

// Output returns everything written through WriteText.
func (s *Script) Output() string {
	return strings.Join(s.writes, "")
}

// EnterRaw records the transition into raw mode.
func (s *Script) EnterRaw() error {
	s.RawActive = true
	s.RawEnters++
	return nil
}

// ExitRaw records the transition out of raw mode.
func (s *Script) ExitRaw() error {
	if s.RawActive {
		s.RawActive = false
		s.RawExits++
	}
	return nil
}

// ReadKey pops the next scripted key.
func (s *Script) ReadKey() (Key, error) {
	if len(s.keys) == 0 {
		return Key{}, errors.New("script exhausted")
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

// CursorPosition reports a fixed origin.
func (s *Script) CursorPosition() (int, int, error) { return 0, 0, nil }

// MoveTo validates coordinates like the real driver.
func (s *Script) MoveTo(col, row int) error {
	if err := checkCoord(col); err != nil {
		return err
	}
	return checkCoord(row)
}

// MoveToNextLine is recorded as a newline in the output.
func (s *Script) MoveToNextLine(int) error {
	s.writes = append(s.writes, "\n")
	return nil
}

// MoveUp is a no-op.
func (s *Script) MoveUp(int) error { return nil }

// SaveCursor is a no-op.
func (s *Script) SaveCursor() error { return nil }

// RestoreCursor is a no-op.
func (s *Script) RestoreCursor() error { return nil }

// SetCursorShape records the shape.
func (s *Script) SetCursorShape(shape CursorShape) error {
	s.Shape = shape
	return nil
}

// HideCursor records visibility.
func (s *Script) HideCursor() error {
	s.CursorHidden = true
	return nil
}

// ShowCursor records visibility.
func (s *Script) ShowCursor() error {
	s.CursorHidden = false
	return nil
}

// ClearToLineEnd is a no-op.
func (s *Script) ClearToLineEnd() error { return nil }

// ClearBelow is a no-op.
func (s *Script) ClearBelow() error { return nil }

// WriteText records the text.
func (s *Script) WriteText(text string) error {
	s.writes = append(s.writes, text)
	return nil
}

// Flush is a no-op.
func (s *Script) Flush() error { return nil }
