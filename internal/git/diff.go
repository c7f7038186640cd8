package git

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DiffSide is the side of a unified diff a line belongs to.
type DiffSide int

const (
	// DiffContext lines are unchanged and exist on both sides.
	DiffContext DiffSide = iota
	// DiffLeft lines are deletions.
	DiffLeft
	// DiffRight lines are additions.
	DiffRight
)

// ParseDiffSide maps the GitHub API side strings onto a DiffSide.
func ParseDiffSide(s string) (DiffSide, error) {
	switch s {
	case "LEFT":
		return DiffLeft, nil
	case "RIGHT":
		return DiffRight, nil
	default:
		return DiffContext, fmt.Errorf("unknown diff side %q", s)
	}
}

// Symbol is the single-character marker used when rendering the line.
func (s DiffSide) Symbol() string {
	switch s {
	case DiffLeft:
		return "-"
	case DiffRight:
		return "+"
	default:
		return " "
	}
}

// DiffLine is one line of a parsed diff hunk. Line numbers count on
// the old file for deletions and the new file otherwise.
type DiffLine struct {
	Line    int
	Side    DiffSide
	Content string
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// ParseDiffHunk parses a unified diff hunk as returned in review
// comment payloads. The hunk header sets the starting line numbers.
func ParseDiffHunk(hunk string) ([]DiffLine, error) {
	var lines []DiffLine
	leftLine, rightLine := 0, 0
	sawHeader := false

	for _, raw := range strings.Split(hunk, "\n") {
		if matches := hunkHeaderRe.FindStringSubmatch(raw); matches != nil {
			leftLine, _ = strconv.Atoi(matches[1])
			rightLine, _ = strconv.Atoi(matches[2])
			sawHeader = true
			continue
		}
		if !sawHeader {
			return nil, fmt.Errorf("diff hunk does not start with a @@ header: %q", raw)
		}
		if raw == "" {
			continue
		}

		switch raw[0] {
		case '-':
			lines = append(lines, DiffLine{Line: leftLine, Side: DiffLeft, Content: raw[1:]})
			leftLine++
		case '+':
			lines = append(lines, DiffLine{Line: rightLine, Side: DiffRight, Content: raw[1:]})
			rightLine++
		case ' ':
			lines = append(lines, DiffLine{Line: rightLine, Side: DiffContext, Content: raw[1:]})
			leftLine++
			rightLine++
		case '\\':
			// "\ No newline at end of file"
		default:
			return nil, fmt.Errorf("unexpected diff hunk line: %q", raw)
		}
	}
	return lines, nil
}
