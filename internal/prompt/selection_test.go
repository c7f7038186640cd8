package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdeal/misc/internal/term"
)

func TestSelection_NextItemScrollsNearBottom(t *testing.T) {
	s := newSelectionState(10, 14, 0, 0)

	for i := 0; i < 14; i++ {
		s.nextItem()
	}

	assert.Equal(t, 14, s.selected)
	assert.Equal(t, 5, s.firstItem, "window should end on the last option")
}

func TestSelection_NextItemStopsAtLast(t *testing.T) {
	s := newSelectionState(3, 2, 0, 0)

	for i := 0; i < 5; i++ {
		s.nextItem()
	}

	assert.Equal(t, 2, s.selected)
	assert.Equal(t, 0, s.firstItem, "short lists never scroll")
}

func TestSelection_PreviousItemScrollsNearTop(t *testing.T) {
	s := newSelectionState(10, 14, 0, 0)
	for i := 0; i < 14; i++ {
		s.nextItem()
	}

	for i := 0; i < 9; i++ {
		s.previousItem()
	}

	assert.Equal(t, 5, s.selected)
	assert.Equal(t, 4, s.firstItem)
}

func TestSelection_PreviousItemStopsAtFirst(t *testing.T) {
	s := newSelectionState(10, 14, 0, 0)

	s.previousItem()

	assert.Equal(t, 0, s.selected)
	assert.Equal(t, 0, s.firstItem)
}

func TestSelection_UpdateMaxIndexClamps(t *testing.T) {
	s := newSelectionState(10, 14, 0, 0)
	for i := 0; i < 14; i++ {
		s.nextItem()
	}

	s.updateMaxIndex(3, true)

	assert.Equal(t, 3, s.selected)
	assert.Equal(t, 0, s.firstItem)
	assert.True(t, s.hasMatches)
}

func TestSelection_UpdateMaxIndexKeepsWindowWhenListGrows(t *testing.T) {
	s := newSelectionState(10, 3, 0, 0)
	s.updateMaxIndex(3, true)

	s.updateMaxIndex(40, true)

	assert.Equal(t, 0, s.selected)
	assert.Equal(t, 0, s.firstItem)
}

func TestSelection_EnterIgnoredWithoutMatches(t *testing.T) {
	s := newSelectionState(3, 2, 0, 0)
	s.updateMaxIndex(0, false)

	done, err := s.handleKey(term.Key{Type: term.KeyEnter})

	assert.NoError(t, err)
	assert.False(t, done, "enter must not finish while nothing matches")

	s.updateMaxIndex(2, true)
	done, err = s.handleKey(term.Key{Type: term.KeyEnter})
	assert.NoError(t, err)
	assert.True(t, done)
}

func TestSelection_NavigationKeys(t *testing.T) {
	s := newSelectionState(10, 5, 0, 0)

	// ctrl-n / ctrl-p work while inserting.
	_, err := s.handleKey(term.Key{Type: term.KeyRune, Rune: 'n', Mod: term.ModCtrl})
	assert.NoError(t, err)
	assert.Equal(t, 1, s.selected)
	_, err = s.handleKey(term.Key{Type: term.KeyRune, Rune: 'p', Mod: term.ModCtrl})
	assert.NoError(t, err)
	assert.Equal(t, 0, s.selected)

	// j/k only navigate in normal mode.
	for _, key := range term.Keys("\x1bjjk") {
		_, err = s.handleKey(key)
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, s.selected)
}

func TestSelection_TypingFiltersNotNavigates(t *testing.T) {
	s := newSelectionState(10, 5, 0, 0)

	// j and k are plain input while inserting.
	for _, key := range term.Keys("jk") {
		_, err := s.handleKey(key)
		assert.NoError(t, err)
	}

	assert.Equal(t, 0, s.selected)
	assert.Equal(t, "jk", s.editor.text())
}

func TestFilterOptions(t *testing.T) {
	options := []string{"apple", "cherry", "chocolate"}

	t.Run("empty filter keeps original order", func(t *testing.T) {
		assert.Equal(t, options, filterOptions("", options))
	})

	t.Run("whitespace only filter keeps everything", func(t *testing.T) {
		assert.Equal(t, options, filterOptions("  ", options))
	})

	t.Run("subsequence match", func(t *testing.T) {
		got := filterOptions("ch", options)
		assert.ElementsMatch(t, []string{"cherry", "chocolate"}, got)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		assert.Empty(t, filterOptions("zz", options))
	})

	t.Run("better score ranks first", func(t *testing.T) {
		got := filterOptions("ch", []string{"xcxhx", "choice"})
		assert.Equal(t, []string{"choice", "xcxhx"}, got)
	})

	t.Run("every term must match", func(t *testing.T) {
		got := filterOptions("app pie", []string{"apple pie", "apple", "pie"})
		assert.Equal(t, []string{"apple pie"}, got)
	})
}
