// Package prompt implements the interactive terminal prompts: a modal
// (vi-style) single-line editor, a fuzzy-filtered selection list, and a
// boolean toggle. All drawing goes through a term.Driver; the state
// machines here never touch the screen directly.
package prompt

import (
	"github.com/kdeal/misc/internal/term"
)

// editorMode is the current editing mode of a line editor.
type editorMode int

const (
	modeInsert editorMode = iota
	modeNormal
	modeOperatorPending
)

// opKind is the operator awaiting a motion in operator-pending mode.
type opKind int

const (
	opChange opKind = iota
	opDelete
)

// rangeAdjust refines how an operator's range is computed.
type rangeAdjust int

const (
	// adjustEmpty means no qualifier was given: ranges run from the
	// cursor to the next word start.
	adjustEmpty rangeAdjust = iota
	// adjustInner covers the word under the cursor, excluding trailing
	// whitespace.
	adjustInner
	// adjustAround starts at the word start like adjustInner but keeps
	// the to-next-word end boundary.
	adjustAround
)

// editorState is a single-line modal editor. The cursor is a rune index;
// rendering assumes one terminal column per rune.
type editorState struct {
	cursor int
	line   []rune
	mode   editorMode

	// pendingOp and pendingAdjust are only meaningful while mode is
	// modeOperatorPending.
	pendingOp     opKind
	pendingAdjust rangeAdjust

	// originCol and originRow are the fixed screen position where the
	// text begins.
	originCol int
	originRow int
}

func newEditorState(originCol, originRow int) *editorState {
	return &editorState{mode: modeInsert, originCol: originCol, originRow: originRow}
}

// maxCursor is the rightmost position the cursor may occupy in the
// current mode. Insert mode allows resting one past the end.
func (e *editorState) maxCursor() int {
	if e.mode == modeInsert {
		return len(e.line)
	}
	return max(len(e.line)-1, 0)
}

func (e *editorState) insertMode() { e.mode = modeInsert }
func (e *editorState) normalMode() { e.mode = modeNormal }

func (e *editorState) operatorPendingMode(op opKind, adjust rangeAdjust) {
	e.mode = modeOperatorPending
	e.pendingOp = op
	e.pendingAdjust = adjust
}

func (e *editorState) moveToStart() { e.cursor = 0 }
func (e *editorState) moveToEnd()   { e.cursor = e.maxCursor() }

func (e *editorState) moveLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *editorState) moveRight() {
	if e.cursor < e.maxCursor() {
		e.cursor++
	}
}

func (e *editorState) moveToCurrentWordEnd() {
	if e.cursor < e.maxCursor() {
		e.cursor = currentWordEnd(e.line, e.cursor)
	}
}

func (e *editorState) moveToCurrentWordStart() {
	if e.cursor > 0 {
		e.cursor = currentWordStart(e.line, e.cursor)
	}
}

func (e *editorState) moveToNextWordStart() {
	if e.cursor < e.maxCursor() {
		e.cursor = nextWordStart(e.line, e.cursor)
	}
}

// deleteRange removes the half-open rune range [start, end) and leaves
// the cursor at start.
func (e *editorState) deleteRange(start, end int) {
	start = min(max(start, 0), len(e.line))
	end = min(max(end, start), len(e.line))
	e.line = append(e.line[:start], e.line[end:]...)
	e.cursor = start
}

// deleteWord resolves an operator range against the word under the
// cursor and deletes it. This is the only place operator ranges are
// computed.
func (e *editorState) deleteWord(adjust rangeAdjust) {
	start := e.cursor
	if adjust != adjustEmpty {
		start = currentWordStart(e.line, e.cursor)
	}

	var end int
	if adjust == adjustInner {
		end = currentWordEnd(e.line, e.cursor)
	} else {
		// Fold in the run of whitespace after the word, stopping one
		// short of the next word unless the text ends first.
		wordStart := nextWordStart(e.line, e.cursor)
		if wordStart == max(len(e.line)-1, 0) {
			end = wordStart
		} else {
			end = wordStart - 1
		}
	}
	e.deleteRange(start, end+1)
}

func (e *editorState) deleteCurrentChar() {
	if e.cursor < len(e.line) {
		e.line = append(e.line[:e.cursor], e.line[e.cursor+1:]...)
	}
}

func (e *editorState) deleteAll() {
	e.line = nil
	e.cursor = 0
}

func (e *editorState) insertChar(r rune) {
	if e.cursor < e.maxCursor() {
		e.line = append(e.line[:e.cursor], append([]rune{r}, e.line[e.cursor:]...)...)
	} else {
		e.line = append(e.line, r)
	}
}

// clampCursor re-establishes the cursor bound for the current mode.
func (e *editorState) clampCursor() {
	if e.cursor > e.maxCursor() {
		e.cursor = e.maxCursor()
	}
}

func (e *editorState) text() string { return string(e.line) }

// handleKey interprets one key event. It reports done=true when the
// prompt should finish and returns ErrInterrupted on ctrl-c.
func (e *editorState) handleKey(key term.Key) (bool, error) {
	if key.Mod&term.ModCtrl != 0 {
		if key.Type == term.KeyRune && key.Rune == 'c' {
			return false, ErrInterrupted
		}
		// Other control chords are ignored in every mode.
		return false, nil
	}

	defer e.clampCursor()

	if key.Type == term.KeyEnter {
		return true, nil
	}

	switch e.mode {
	case modeInsert:
		e.handleInsertKey(key)
	case modeNormal:
		e.handleNormalKey(key)
	case modeOperatorPending:
		e.handleOperatorKey(key)
	}
	return false, nil
}

func (e *editorState) handleInsertKey(key term.Key) {
	switch key.Type {
	case term.KeyEsc:
		// Leaving insert steps the cursor back, like vi.
		e.normalMode()
		e.moveLeft()
	case term.KeyBackspace:
		if e.cursor < e.maxCursor() {
			if e.cursor != 0 {
				e.moveLeft()
				e.deleteCurrentChar()
			}
		} else if len(e.line) > 0 {
			e.line = e.line[:len(e.line)-1]
			e.moveLeft()
		}
	case term.KeyRune:
		e.insertChar(key.Rune)
		e.moveRight()
	}
}

func (e *editorState) handleNormalKey(key term.Key) {
	if key.Type == term.KeyBackspace {
		e.moveLeft()
		return
	}
	if key.Type != term.KeyRune {
		return
	}
	switch key.Rune {
	case 'i':
		e.insertMode()
	case 'I':
		e.insertMode()
		e.moveToStart()
	case 'a':
		e.insertMode()
		e.moveRight()
	case 'A':
		e.insertMode()
		e.moveToEnd()
	case 'x':
		e.deleteCurrentChar()
	case 'X':
		e.moveLeft()
		e.deleteCurrentChar()
	case 'h':
		e.moveLeft()
	case 'l':
		e.moveRight()
	case 'c':
		e.operatorPendingMode(opChange, adjustEmpty)
	case 'd':
		e.operatorPendingMode(opDelete, adjustEmpty)
	case 'e':
		e.moveToCurrentWordEnd()
	case 'b':
		e.moveToCurrentWordStart()
	case 'w':
		e.moveToNextWordStart()
	}
}

func (e *editorState) handleOperatorKey(key term.Key) {
	if key.Type != term.KeyRune {
		e.normalMode()
		return
	}

	op, adjust := e.pendingOp, e.pendingAdjust
	switch {
	case key.Rune == 'i' && adjust == adjustEmpty:
		e.operatorPendingMode(op, adjustInner)
	case key.Rune == 'a' && adjust == adjustEmpty:
		e.operatorPendingMode(op, adjustAround)
	case key.Rune == 'w':
		e.deleteWord(adjust)
		e.finishOperator(op)
	case key.Rune == 'e' && adjust == adjustEmpty:
		end := currentWordEnd(e.line, e.cursor)
		e.deleteRange(e.cursor, end+1)
		e.finishOperator(op)
	case key.Rune == 'b' && adjust == adjustEmpty:
		start := currentWordStart(e.line, e.cursor)
		e.deleteRange(start, e.cursor)
		e.finishOperator(op)
	case key.Rune == 'c' && op == opChange && adjust == adjustEmpty:
		e.deleteAll()
		e.insertMode()
	case key.Rune == 'd' && op == opDelete && adjust == adjustEmpty:
		e.deleteAll()
		e.normalMode()
	default:
		// Any other key cancels the pending operator.
		e.normalMode()
	}
}

// finishOperator leaves the editor in the mode the operator implies:
// change keeps editing, delete returns to normal.
func (e *editorState) finishOperator(op opKind) {
	if op == opChange {
		e.insertMode()
	} else {
		e.normalMode()
	}
}
