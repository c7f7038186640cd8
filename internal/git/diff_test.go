package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiffSide(t *testing.T) {
	side, err := ParseDiffSide("LEFT")
	require.NoError(t, err)
	assert.Equal(t, DiffLeft, side)

	side, err = ParseDiffSide("RIGHT")
	require.NoError(t, err)
	assert.Equal(t, DiffRight, side)

	_, err = ParseDiffSide("MIDDLE")
	assert.Error(t, err)
}

func TestDiffSideSymbol(t *testing.T) {
	assert.Equal(t, "-", DiffLeft.Symbol())
	assert.Equal(t, "+", DiffRight.Symbol())
	assert.Equal(t, " ", DiffContext.Symbol())
}

func TestParseDiffHunk(t *testing.T) {
	hunk := "@@ -10,3 +20,4 @@ func main() {\n context\n-removed\n+added one\n+added two"

	lines, err := ParseDiffHunk(hunk)
	require.NoError(t, err)
	require.Equal(t, []DiffLine{
		{Line: 20, Side: DiffContext, Content: "context"},
		{Line: 11, Side: DiffLeft, Content: "removed"},
		{Line: 21, Side: DiffRight, Content: "added one"},
		{Line: 22, Side: DiffRight, Content: "added two"},
	}, lines)
}

func TestParseDiffHunk_HeaderWithoutCounts(t *testing.T) {
	lines, err := ParseDiffHunk("@@ -5 +5 @@\n same")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, DiffLine{Line: 5, Side: DiffContext, Content: "same"}, lines[0])
}

func TestParseDiffHunk_NoNewlineMarker(t *testing.T) {
	lines, err := ParseDiffHunk("@@ -1 +1 @@\n-old\n\\ No newline at end of file\n+new")
	require.NoError(t, err)
	require.Len(t, lines, 2)
}

func TestParseDiffHunk_Errors(t *testing.T) {
	_, err := ParseDiffHunk("not a hunk")
	assert.Error(t, err)

	_, err = ParseDiffHunk("@@ -1 +1 @@\ngarbage line")
	assert.Error(t, err)
}
