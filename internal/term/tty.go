package term

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Escape sequences termenv has no helper for.
const (
	seqSteadyBlockCursor = "\x1b[2 q"
	seqSteadyBarCursor   = "\x1b[6 q"
	seqEraseBelow        = "\x1b[J"
	seqRequestCursorPos  = "\x1b[6n"
)

// TTY drives the controlling terminal. Prompts render on stderr so that
// command output on stdout stays pipeable.
type TTY struct {
	in       *bufio.Reader
	out      *bufio.Writer
	output   *termenv.Output
	inFd     int
	rawState *term.State
}

var _ Driver = (*TTY)(nil)

// NewTTY returns a driver reading keys from stdin and drawing on stderr.
func NewTTY() *TTY {
	out := bufio.NewWriter(os.Stderr)
	return &TTY{
		in:     bufio.NewReader(os.Stdin),
		out:    out,
		output: termenv.NewOutput(out),
		inFd:   int(os.Stdin.Fd()),
	}
}

// EnterRaw switches stdin to raw mode, saving the previous state.
func (t *TTY) EnterRaw() error {
	if t.rawState != nil {
		return nil
	}
	state, err := term.MakeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	t.rawState = state
	return nil
}

// ExitRaw restores the terminal state saved by EnterRaw.
func (t *TTY) ExitRaw() error {
	if t.rawState == nil {
		return nil
	}
	state := t.rawState
	t.rawState = nil
	if err := term.Restore(t.inFd, state); err != nil {
		return fmt.Errorf("restoring terminal mode: %w", err)
	}
	return nil
}

// ReadKey blocks until a key event is decoded. Unrecognized escape
// sequences (arrow keys, function keys) are consumed and skipped.
func (t *TTY) ReadKey() (Key, error) {
	for {
		r, _, err := t.in.ReadRune()
		if err != nil {
			return Key{}, fmt.Errorf("reading key: %w", err)
		}

		switch {
		case r == '\r' || r == '\n':
			return Key{Type: KeyEnter}, nil
		case r == 0x7f || r == 0x08:
			return Key{Type: KeyBackspace}, nil
		case r == 0x1b:
			if t.in.Buffered() == 0 {
				return Key{Type: KeyEsc}, nil
			}
			// CSI or SS3 sequence: swallow it and wait for the next key.
			t.discardEscapeSequence()
		case r < 0x20:
			// Control byte: ctrl-a .. ctrl-z map to 0x01 .. 0x1a.
			return Key{Type: KeyRune, Rune: rune('a' + r - 1), Mod: ModCtrl}, nil
		default:
			mod := ModNone
			if r >= 'A' && r <= 'Z' {
				mod = ModShift
			}
			return Key{Type: KeyRune, Rune: r, Mod: mod}, nil
		}
	}
}

func (t *TTY) discardEscapeSequence() {
	b, err := t.in.ReadByte()
	if err != nil {
		return
	}
	if b != '[' && b != 'O' {
		// Alt-modified key; drop the pair.
		return
	}
	for {
		b, err = t.in.ReadByte()
		if err != nil {
			return
		}
		// CSI final bytes are in the 0x40-0x7e range.
		if b >= 0x40 && b <= 0x7e {
			return
		}
	}
}

// CursorPosition queries the terminal with DSR and parses the report.
// Requires raw mode, since the reply arrives on stdin without a newline.
func (t *TTY) CursorPosition() (int, int, error) {
	if _, err := t.out.WriteString(seqRequestCursorPos); err != nil {
		return 0, 0, fmt.Errorf("requesting cursor position: %w", err)
	}
	if err := t.out.Flush(); err != nil {
		return 0, 0, fmt.Errorf("requesting cursor position: %w", err)
	}

	// Reply has the form ESC [ row ; col R.
	if _, err := t.in.ReadBytes('['); err != nil {
		return 0, 0, fmt.Errorf("reading cursor report: %w", err)
	}
	row, col := 0, 0
	field := &row
	for {
		b, err := t.in.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("reading cursor report: %w", err)
		}
		switch {
		case b >= '0' && b <= '9':
			*field = *field*10 + int(b-'0')
		case b == ';':
			field = &col
		case b == 'R':
			return col - 1, row - 1, nil
		default:
			return 0, 0, fmt.Errorf("unexpected byte %q in cursor report", b)
		}
	}
}

func checkCoord(v int) error {
	if v < 0 || v > math.MaxUint16 {
		return fmt.Errorf("%w: %d", ErrCoordOverflow, v)
	}
	return nil
}

// MoveTo places the cursor at a zero-based column and row.
func (t *TTY) MoveTo(col, row int) error {
	if err := checkCoord(col); err != nil {
		return err
	}
	if err := checkCoord(row); err != nil {
		return err
	}
	t.output.MoveCursor(row+1, col+1)
	return nil
}

// MoveToNextLine moves to the first column n rows down.
func (t *TTY) MoveToNextLine(n int) error {
	t.output.CursorNextLine(n)
	return nil
}

// MoveUp moves the cursor up n rows.
func (t *TTY) MoveUp(n int) error {
	t.output.CursorUp(n)
	return nil
}

// SaveCursor records the cursor position in the terminal.
func (t *TTY) SaveCursor() error {
	t.output.SaveCursorPosition()
	return nil
}

// RestoreCursor returns to the position recorded by SaveCursor.
func (t *TTY) RestoreCursor() error {
	t.output.RestoreCursorPosition()
	return nil
}

// SetCursorShape switches between the block and bar cursor glyphs.
func (t *TTY) SetCursorShape(shape CursorShape) error {
	seq := seqSteadyBlockCursor
	if shape == ShapeBar {
		seq = seqSteadyBarCursor
	}
	_, err := t.out.WriteString(seq)
	return err
}

// HideCursor makes the cursor invisible until ShowCursor.
func (t *TTY) HideCursor() error {
	t.output.HideCursor()
	return nil
}

// ShowCursor makes the cursor visible again.
func (t *TTY) ShowCursor() error {
	t.output.ShowCursor()
	return nil
}

// ClearToLineEnd erases from the cursor to the end of the line.
func (t *TTY) ClearToLineEnd() error {
	t.output.ClearLineRight()
	return nil
}

// ClearBelow erases from the cursor to the end of the screen.
func (t *TTY) ClearBelow() error {
	_, err := t.out.WriteString(seqEraseBelow)
	return err
}

// WriteText writes styled text at the cursor.
func (t *TTY) WriteText(s string) error {
	_, err := t.out.WriteString(s)
	return err
}

// Flush pushes buffered output to the terminal.
func (t *TTY) Flush() error {
	return t.out.Flush()
}
