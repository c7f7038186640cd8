package prompt

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/kdeal/misc/internal/term"
)

// maxOptionsShown caps the number of option rows rendered below the
// input line.
const maxOptionsShown = 10

// selectionState tracks the highlighted option and the visible window
// of a select prompt, alongside the filter line editor.
type selectionState struct {
	selected   int
	firstItem  int
	itemsShown int
	maxIndex   int
	hasMatches bool
	editor     *editorState
}

func newSelectionState(itemsShown, maxIndex, originCol, originRow int) *selectionState {
	return &selectionState{
		itemsShown: itemsShown,
		maxIndex:   maxIndex,
		hasMatches: true,
		editor:     newEditorState(originCol, originRow),
	}
}

// updateMaxIndex re-clamps the highlight and window after the filtered
// list changed size.
func (s *selectionState) updateMaxIndex(maxIndex int, hasMatches bool) {
	s.hasMatches = hasMatches
	s.maxIndex = maxIndex
	if s.selected > s.maxIndex {
		s.selected = s.maxIndex
	}
	if s.firstItem+s.itemsShown > s.maxIndex {
		s.firstItem = max(s.maxIndex-s.itemsShown+1, 0)
	}
}

func (s *selectionState) nextItem() {
	if s.selected >= s.maxIndex {
		return
	}
	s.selected++
	// Scroll one early so the row after the highlight stays visible.
	if s.firstItem+s.itemsShown-2 < s.selected && s.firstItem+s.itemsShown-1 < s.maxIndex {
		s.firstItem++
	}
}

func (s *selectionState) previousItem() {
	if s.selected <= 0 {
		return
	}
	s.selected--
	if s.firstItem+1 > s.selected && s.firstItem > 0 {
		s.firstItem--
	}
}

// handleKey routes list-navigation chords and hands everything else to
// the line editor. Enter only completes while at least one option
// matches the filter.
func (s *selectionState) handleKey(key term.Key) (bool, error) {
	if key.Type == term.KeyEnter && key.Mod == term.ModNone {
		return s.hasMatches, nil
	}
	if s.editor.mode == modeNormal && key.Mod == term.ModNone && key.Type == term.KeyRune {
		switch key.Rune {
		case 'j':
			s.nextItem()
			return false, nil
		case 'k':
			s.previousItem()
			return false, nil
		}
	}
	if s.editor.mode == modeInsert && key.Mod == term.ModCtrl && key.Type == term.KeyRune {
		switch key.Rune {
		case 'n':
			s.nextItem()
			return false, nil
		case 'p':
			s.previousItem()
			return false, nil
		}
	}
	return s.editor.handleKey(key)
}

// filterOptions keeps the options fuzzy-matched by every whitespace
// separated term of the filter, best combined score first. Ties keep
// their original order.
func filterOptions(filter string, options []string) []string {
	terms := strings.Fields(filter)
	if len(terms) == 0 {
		return options
	}

	scores := make([]int, len(options))
	excluded := make([]bool, len(options))
	for _, fterm := range terms {
		found := make(map[int]int, len(options))
		for _, m := range fuzzy.Find(fterm, options) {
			found[m.Index] = m.Score
		}
		for i := range options {
			if score, ok := found[i]; ok {
				scores[i] += score
			} else {
				excluded[i] = true
			}
		}
	}

	type scored struct {
		score  int
		option string
	}
	matched := make([]scored, 0, len(options))
	for i, option := range options {
		if !excluded[i] {
			matched = append(matched, scored{scores[i], option})
		}
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].score > matched[b].score
	})

	result := make([]string, len(matched))
	for i, m := range matched {
		result[i] = m.option
	}
	return result
}
