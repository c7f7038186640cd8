package github

import (
	"fmt"
	"strings"

	"github.com/kdeal/misc/internal/git"
)

// CommentFilter controls which PR comments are rendered.
type CommentFilter struct {
	SkipTimeline bool
	SkipBots     bool
	SkipDiff     bool
}

// FormatCommentsMarkdown renders PR comments as a markdown document.
func FormatCommentsMarkdown(comments PrComments, filter CommentFilter) (string, error) {
	var b strings.Builder
	b.WriteString("# PR Comments\n\n")

	if !filter.SkipTimeline {
		timeline := comments.IssueComments
		if filter.SkipBots {
			timeline = filterIssueComments(timeline)
		}
		if len(timeline) > 0 {
			b.WriteString("## Timeline Comments\n\n")
			for _, comment := range timeline {
				fmt.Fprintf(&b, "### @%s - %s\n", comment.User.Login, comment.CreatedAt)
				b.WriteString(comment.Body + "\n\n")
				b.WriteString("---\n\n")
			}
		}
	}

	if !filter.SkipDiff {
		diff := comments.ReviewComments
		if filter.SkipBots {
			diff = filterReviewComments(diff)
		}
		if len(diff) > 0 {
			b.WriteString("## Review Comments\n\n")
			for _, comment := range diff {
				marker := ""
				if comment.IsResolved != nil {
					if *comment.IsResolved {
						marker = " [resolved]"
					} else {
						marker = " [unresolved]"
					}
				}
				fmt.Fprintf(&b, "### @%s - %s (%s:%d)%s\n",
					comment.User.Login, comment.CreatedAt,
					comment.Path, intOrZero(comment.OriginalLine), marker)

				context, err := extractCodeContext(
					comment.DiffHunk,
					comment.OriginalStartLine,
					comment.StartSide,
					comment.OriginalLine,
					comment.Side,
				)
				if err != nil {
					return "", err
				}
				b.WriteString("\n**Code Context:**\n")
				b.WriteString("```\n")
				b.WriteString(context + "\n")
				b.WriteString("```\n\n")

				b.WriteString("**Comment:**\n")
				b.WriteString(comment.Body + "\n\n")
				b.WriteString("---\n\n")
			}
		}
	}

	return b.String(), nil
}

func filterIssueComments(comments []IssueComment) []IssueComment {
	var kept []IssueComment
	for _, c := range comments {
		if !IsBotUser(c.User.Login, c.User.Type) {
			kept = append(kept, c)
		}
	}
	return kept
}

func filterReviewComments(comments []ReviewComment) []ReviewComment {
	var kept []ReviewComment
	for _, c := range comments {
		if !IsBotUser(c.User.Login, c.User.Type) {
			kept = append(kept, c)
		}
	}
	return kept
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func formatContextLines(diffLines []git.DiffLine) string {
	if len(diffLines) == 0 {
		return ""
	}

	maxLine := 0
	for _, line := range diffLines {
		if line.Line > maxLine {
			maxLine = line.Line
		}
	}
	width := len(fmt.Sprintf("%d", maxLine))

	formatted := make([]string, 0, len(diffLines))
	for _, line := range diffLines {
		formatted = append(formatted, fmt.Sprintf("%*d | %s %s", width, line.Line, line.Side.Symbol(), line.Content))
	}
	return strings.Join(formatted, "\n")
}

// extractCodeContextFallback handles comments that point past the
// hunk, which happens for outdated comments. It shows the hunk tail.
func extractCodeContextFallback(parsedDiff []git.DiffLine, startLine *int, endLinePos int) string {
	rangeSize := 4
	if startLine != nil && *startLine > endLinePos {
		rangeSize = max(*startLine-endLinePos, 4)
	}

	firstLine := max(len(parsedDiff)-rangeSize, 0)
	return formatContextLines(parsedDiff[firstLine:])
}

// extractCodeContext pulls the commented range out of the diff hunk.
// Single-line comments get up to four lines of leading context.
func extractCodeContext(diffHunk string, startLine *int, startSide *string, line *int, side string) (string, error) {
	if line == nil {
		return "", nil
	}

	endLinePos := *line
	endLineSide, err := git.ParseDiffSide(side)
	if err != nil {
		return "", err
	}
	parsedDiff, err := git.ParseDiffHunk(diffHunk)
	if err != nil {
		return "", err
	}

	lastLine := 0
	if len(parsedDiff) > 0 {
		lastLine = parsedDiff[len(parsedDiff)-1].Line
	}
	if endLinePos > lastLine {
		return extractCodeContextFallback(parsedDiff, startLine, endLinePos), nil
	}

	startLinePos := 0
	if startLine != nil {
		startLinePos = *startLine
	}
	startLineSide := git.DiffContext
	if startSide != nil {
		startLineSide, err = git.ParseDiffSide(*startSide)
		if err != nil {
			return "", err
		}
	}

	var contextLines []git.DiffLine
	inContext := false
	for i := len(parsedDiff) - 1; i >= 0; i-- {
		diffLine := parsedDiff[i]
		if diffLine.Line == endLinePos && diffLine.Side == endLineSide {
			inContext = true
		}
		if inContext {
			contextLines = append(contextLines, diffLine)
			if diffLine.Line == startLinePos && diffLine.Side == startLineSide {
				break
			}
			if startLinePos == 0 && len(contextLines) >= 4 {
				break
			}
		}
	}

	for i, j := 0, len(contextLines)-1; i < j; i, j = i+1, j-1 {
		contextLines[i], contextLines[j] = contextLines[j], contextLines[i]
	}
	return formatContextLines(contextLines), nil
}
