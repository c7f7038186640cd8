// Package notes manages the notes tree: daily notes, topic notes,
// person notes and the todo list.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DailyDay selects which daily note to open relative to today.
type DailyDay int

const (
	Yesterday DailyDay = iota - 1
	Today
	Tomorrow
)

// Note identifies a note by kind and name.
type Note struct {
	kind string
	name string
	date time.Time
}

// Daily returns the daily note for the given day at time now.
func Daily(day DailyDay, now time.Time) Note {
	return Note{kind: "daily", date: now.AddDate(0, 0, int(day))}
}

// Topic returns a topic note.
func Topic(name string) Note { return Note{kind: "topic", name: name} }

// Person returns a person note.
func Person(who string) Note { return Note{kind: "person", name: who} }

// sundayWeek returns the week number with weeks starting on Sunday,
// the first Sunday of the year beginning week 1.
func sundayWeek(t time.Time) int {
	return (t.YearDay() + 6 - int(t.Weekday())) / 7
}

// Path returns the note's path relative to the notes directory.
// Daily notes land in daily/<yy>/<week>/<Day>_<Mon>_<dd>.md; topic and
// person notes under topics/ and people/.
func (n Note) Path() string {
	switch n.kind {
	case "daily":
		return filepath.Join(
			"daily",
			n.date.Format("06"),
			fmt.Sprintf("%02d", sundayWeek(n.date)),
			n.date.Format("Mon_Jan_02")+".md",
		)
	case "topic":
		return filepath.Join("topics", slugify(n.name)+".md")
	default:
		return filepath.Join("people", slugify(n.name)+".md")
	}
}

// Template returns the initial content for a new note file.
func (n Note) Template() string {
	switch n.kind {
	case "daily":
		return fmt.Sprintf("# %s\n\n## Notes\n\n## Tasks\n", n.date.Format("Monday Jan 2, 2006"))
	case "topic":
		return fmt.Sprintf("# %s\n", n.name)
	default:
		return fmt.Sprintf("# %s\n\n## Topics\n\n## Follow ups\n", n.name)
	}
}

// slugify makes a note name filesystem friendly.
func slugify(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
}

// Open ensures the note file exists under notesDir, writing the
// template on first use, and returns its absolute path.
func Open(notesDir string, note Note) (string, error) {
	path := filepath.Join(notesDir, note.Path())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating notes directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(note.Template()), 0o644); err != nil {
			return "", fmt.Errorf("writing note template: %w", err)
		}
	}
	return path, nil
}
