package term

import "errors"

// CursorShape selects the cursor glyph reported to the terminal.
type CursorShape int

const (
	// ShapeBlock is a steady block cursor.
	ShapeBlock CursorShape = iota
	// ShapeBar is a steady vertical bar cursor.
	ShapeBar
)

// ErrCoordOverflow indicates a cursor or viewport index could not be
// represented as a terminal coordinate.
var ErrCoordOverflow = errors.New("coordinate exceeds terminal range")

// Driver abstracts the terminal operations the prompts need. The real
// implementation is TTY; tests use Script.
type Driver interface {
	// EnterRaw switches the terminal to raw (unbuffered, no-echo) mode.
	EnterRaw() error
	// ExitRaw restores the mode saved by EnterRaw. Safe to call when raw
	// mode is not active.
	ExitRaw() error

	// ReadKey blocks until the next key event is available.
	ReadKey() (Key, error)

	// CursorPosition reports the cursor location, zero based.
	CursorPosition() (col, row int, err error)
	// MoveTo places the cursor at an absolute location, zero based.
	MoveTo(col, row int) error
	// MoveToNextLine moves the cursor to the start of the line n rows down.
	MoveToNextLine(n int) error
	// MoveUp moves the cursor up n rows in the same column.
	MoveUp(n int) error
	SaveCursor() error
	RestoreCursor() error

	SetCursorShape(shape CursorShape) error
	HideCursor() error
	ShowCursor() error

	// ClearToLineEnd erases from the cursor to the end of the line.
	ClearToLineEnd() error
	// ClearBelow erases from the cursor to the end of the screen.
	ClearBelow() error

	// WriteText writes already-styled text at the cursor.
	WriteText(s string) error
	Flush() error
}
