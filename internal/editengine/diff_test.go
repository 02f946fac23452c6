package editengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lineforge/lineforge/internal/editengine"
)

func TestChangeFromFullText_SingleLineEdit(t *testing.T) {
	t.Parallel()

	change := editengine.ChangeFromFullText("a\nb\nc", "a\nB\nc", "\n")

	assert.Equal(t, 2, change.StartLine)
	assert.Equal(t, 2, change.EndLine)
	assert.Equal(t, "B", change.LineText)
	assert.Equal(t, "b", change.OriginalStartLine)
}

func TestChangeFromFullText_NoDifference(t *testing.T) {
	t.Parallel()

	change := editengine.ChangeFromFullText("a\nb", "a\nb", "\n")

	assert.Equal(t, 1, change.StartLine)
	assert.Equal(t, 1, change.EndLine)
	assert.Empty(t, change.InsertedText)
}

func TestChangeFromFullText_InsertedLines(t *testing.T) {
	t.Parallel()

	change := editengine.ChangeFromFullText("a\nd", "a\nb\nc\nd", "\n")

	assert.Equal(t, 2, change.StartLine)
	assert.Contains(t, change.LineText, "b")
	assert.Contains(t, change.LineText, "c")
}

func TestChangeFromFullText_DeletedLines(t *testing.T) {
	t.Parallel()

	change := editengine.ChangeFromFullText("a\nb\nc", "a\nc", "\n")

	assert.Equal(t, 2, change.StartLine)
	assert.GreaterOrEqual(t, change.EndLine, change.StartLine)
}
