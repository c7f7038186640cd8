package prompt

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/kdeal/misc/internal/term"
)

var (
	selectedMarkerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	selectedOptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	resultStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	toggleOnStyle       = lipgloss.NewStyle().Background(lipgloss.Color("2")).Bold(true)
	toggleOffStyle      = lipgloss.NewStyle().Background(lipgloss.Color("1")).Bold(true)
	toggleDimStyle      = lipgloss.NewStyle().Faint(true)
)

// Basic reads a single line of input with the modal editor. The typed
// line stays visible after the prompt completes.
func Basic(d term.Driver, label string) (string, error) {
	state, err := basicLoop(d, label)
	if err != nil {
		return "", err
	}
	if err := d.WriteText("\n"); err != nil {
		return "", err
	}
	if err := d.Flush(); err != nil {
		return "", err
	}
	return state.text(), nil
}

func basicLoop(d term.Driver, label string) (*editorState, error) {
	if err := writeLabel(d, label); err != nil {
		return nil, err
	}

	if err := d.EnterRaw(); err != nil {
		return nil, err
	}
	defer d.ExitRaw()

	col, row, err := d.CursorPosition()
	if err != nil {
		return nil, err
	}
	state := newEditorState(col, row)

	if err := d.SetCursorShape(term.ShapeBar); err != nil {
		return nil, err
	}
	if err := d.Flush(); err != nil {
		return nil, err
	}

	for {
		key, err := d.ReadKey()
		if err != nil {
			return nil, err
		}
		done, err := state.handleKey(key)
		if err != nil {
			return nil, err
		}
		if done {
			return state, nil
		}

		if err := renderInput(d, state); err != nil {
			return nil, err
		}
		if err := updateCursor(d, state); err != nil {
			return nil, err
		}
		if err := d.Flush(); err != nil {
			return nil, err
		}
	}
}

// Select shows a fuzzy-filterable option list below the prompt line and
// returns the chosen option. The list region is cleared on every exit
// path and the chosen value is echoed where the list used to be.
func Select(d term.Driver, label string, options []string) (string, error) {
	result, err := selectLoop(d, label, options)
	if err != nil {
		return "", err
	}
	if err := d.WriteText(resultStyle.Render(result) + "\n"); err != nil {
		return "", err
	}
	if err := d.Flush(); err != nil {
		return "", err
	}
	return result, nil
}

func selectLoop(d term.Driver, label string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("select prompt needs at least one option")
	}

	if err := writeLabel(d, label); err != nil {
		return "", err
	}

	if err := d.EnterRaw(); err != nil {
		return "", err
	}

	col, _, err := d.CursorPosition()
	if err != nil {
		d.ExitRaw()
		return "", err
	}

	itemsShown := min(maxOptionsShown, len(options))
	state := newSelectionState(itemsShown, len(options)-1, col, 0)

	// Reserve rows for the list, then step back up to the input line.
	// Querying the row afterwards accounts for any scrolling the
	// reservation caused at the bottom of the screen.
	for i := 0; i < itemsShown; i++ {
		if err := d.WriteText("\n"); err != nil {
			d.ExitRaw()
			return "", err
		}
	}
	if err := d.MoveUp(itemsShown); err != nil {
		d.ExitRaw()
		return "", err
	}
	_, row, err := d.CursorPosition()
	if err != nil {
		d.ExitRaw()
		return "", err
	}
	state.editor.originRow = row

	defer func() {
		d.MoveTo(state.editor.originCol, state.editor.originRow)
		d.ClearBelow()
		d.Flush()
		d.ExitRaw()
	}()

	if err := d.MoveToNextLine(1); err != nil {
		return "", err
	}
	if err := renderOptions(d, state, options); err != nil {
		return "", err
	}
	if err := updateCursor(d, state.editor); err != nil {
		return "", err
	}
	if err := d.Flush(); err != nil {
		return "", err
	}

	for {
		key, err := d.ReadKey()
		if err != nil {
			return "", err
		}
		done, err := state.handleKey(key)
		if err != nil {
			return "", err
		}
		if done {
			break
		}

		filtered := filterOptions(state.editor.text(), options)
		if len(filtered) == 0 {
			state.updateMaxIndex(0, false)
		} else {
			state.updateMaxIndex(len(filtered)-1, true)
		}

		if err := renderInput(d, state.editor); err != nil {
			return "", err
		}
		if err := d.MoveToNextLine(1); err != nil {
			return "", err
		}
		if err := renderOptions(d, state, filtered); err != nil {
			return "", err
		}
		if err := updateCursor(d, state.editor); err != nil {
			return "", err
		}
		if err := d.Flush(); err != nil {
			return "", err
		}
	}

	filtered := filterOptions(state.editor.text(), options)
	return filtered[state.selected], nil
}

// Boolean asks a yes/no question rendered as a highlighted toggle.
// h/t/y pick yes, l/f/n pick no, enter confirms.
func Boolean(d term.Driver, label string, defaultValue bool) (bool, error) {
	value, err := booleanLoop(d, label, defaultValue)
	if err != nil {
		return false, err
	}
	if err := d.WriteText("\n"); err != nil {
		return false, err
	}
	if err := d.Flush(); err != nil {
		return false, err
	}
	return value, nil
}

func booleanLoop(d term.Driver, label string, value bool) (bool, error) {
	if err := writeLabel(d, label); err != nil {
		return false, err
	}

	if err := d.EnterRaw(); err != nil {
		return false, err
	}
	defer func() {
		d.ShowCursor()
		d.Flush()
		d.ExitRaw()
	}()

	if err := d.SaveCursor(); err != nil {
		return false, err
	}
	if err := d.HideCursor(); err != nil {
		return false, err
	}
	if err := renderToggle(d, value); err != nil {
		return false, err
	}
	if err := d.Flush(); err != nil {
		return false, err
	}

	for {
		key, err := d.ReadKey()
		if err != nil {
			return false, err
		}
		if key.Mod&term.ModCtrl != 0 {
			if key.Type == term.KeyRune && key.Rune == 'c' {
				return false, ErrInterrupted
			}
			continue
		}
		if key.Type == term.KeyEnter {
			return value, nil
		}
		if key.Type == term.KeyRune {
			switch key.Rune {
			case 'h', 't', 'y':
				value = true
			case 'l', 'f', 'n':
				value = false
			}
		}

		if err := d.RestoreCursor(); err != nil {
			return false, err
		}
		if err := renderToggle(d, value); err != nil {
			return false, err
		}
		if err := d.Flush(); err != nil {
			return false, err
		}
	}
}

func writeLabel(d term.Driver, label string) error {
	if err := d.WriteText(label + " "); err != nil {
		return err
	}
	return d.Flush()
}

// renderInput repaints the editable line at its fixed origin.
func renderInput(d term.Driver, e *editorState) error {
	if err := d.MoveTo(e.originCol, e.originRow); err != nil {
		return err
	}
	if err := d.ClearToLineEnd(); err != nil {
		return err
	}
	return d.WriteText(e.text())
}

// updateCursor places the terminal cursor on the editor cursor and sets
// the shape for the current mode: a bar while inserting, a block
// otherwise.
func updateCursor(d term.Driver, e *editorState) error {
	if err := d.MoveTo(e.originCol+e.cursor, e.originRow); err != nil {
		return err
	}
	shape := term.ShapeBlock
	if e.mode == modeInsert {
		shape = term.ShapeBar
	}
	return d.SetCursorShape(shape)
}

func renderOptions(d term.Driver, s *selectionState, options []string) error {
	if err := d.ClearBelow(); err != nil {
		return err
	}
	last := min(s.firstItem+maxOptionsShown, len(options))
	for i, option := range options[min(s.firstItem, len(options)):last] {
		if i > 0 {
			if err := d.MoveToNextLine(1); err != nil {
				return err
			}
		}
		var line string
		if i+s.firstItem == s.selected {
			line = selectedMarkerStyle.Render("> ") + selectedOptionStyle.Render(option)
		} else {
			line = "  " + option
		}
		if err := d.WriteText(line); err != nil {
			return err
		}
	}
	return nil
}

func renderToggle(d term.Driver, value bool) error {
	var text string
	if value {
		text = toggleOnStyle.Render(" y ") + " | " + toggleDimStyle.Render(" n ")
	} else {
		text = toggleDimStyle.Render(" y ") + " | " + toggleOffStyle.Render(" n ")
	}
	return d.WriteText(text)
}
