package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineforge/lineforge/internal/block"
	"github.com/lineforge/lineforge/internal/coreerr"
	"github.com/lineforge/lineforge/internal/editengine"
	"github.com/lineforge/lineforge/internal/lineio"
)

func newTestRoot(t *testing.T, lines ...string) (*lineio.File, *block.Block) {
	t.Helper()

	f := lineio.NewFile("f1", "\n", nil)
	f.Import(lines)

	return f, block.NewRoot(f)
}

func TestNewRoot_ClaimsEveryImportedLine(t *testing.T) {
	t.Parallel()

	f, root := newTestRoot(t, "a", "b", "c")

	assert.Equal(t, block.KindRoot, root.Kind)
	assert.Equal(t, 3, root.GetActiveLineCount())
	assert.Equal(t, "a\nb\nc", root.GetText())

	for _, l := range f.LinesInOrder() {
		assert.True(t, root.Claims(l.ID))
	}
}

func TestCreateChild_ClaimsExactRange(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b", "c", "d")

	child, err := root.CreateChild(2, 3)
	require.NoError(t, err)
	assert.Equal(t, block.KindInline, child.Kind)
	assert.Equal(t, "b\nc", child.GetText())

	start, end := child.RangeInParent()
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)
}

func TestCreateChild_OverlapRejected(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b", "c", "d")

	_, err := root.CreateChild(1, 2)
	require.NoError(t, err)

	_, err = root.CreateChild(2, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerr.ErrOverlap)
}

func TestCreateChild_OutOfRange(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b")

	_, err := root.CreateChild(2, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerr.ErrOutOfRange)
}

func TestInsertLineAt_PropagatesToClaimingBlocks(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b", "d")

	child, err := root.CreateChild(1, 3)
	require.NoError(t, err)

	line, err := root.InsertLineAt(3, "c")
	require.NoError(t, err)

	assert.True(t, root.Claims(line.ID))
	assert.True(t, child.Claims(line.ID), "sibling claiming the neighbor should gain the new line")
	assert.Equal(t, "a\nb\nc\nd", root.GetText())
}

func TestInsertLineAt_Prepend(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "b")

	_, err := root.InsertLineAt(1, "a")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", root.GetText())
}

func TestInsertLineAt_Append(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a")

	_, err := root.InsertLineAt(2, "b")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", root.GetText())
}

func TestInsertLineAt_OutOfRange(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a")

	_, err := root.InsertLineAt(5, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerr.ErrOutOfRange)
}

func TestUpdateLine_OutOfRange(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a")

	_, err := root.UpdateLine(9, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerr.ErrOutOfRange)
}

func TestUpdateLine_ChangesContentAndAdvancesTimestamp(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b")

	before := root.Timestamp()

	_, err := root.UpdateLine(2, "B")
	require.NoError(t, err)

	assert.Equal(t, "a\nB", root.GetText())
	assert.Greater(t, root.Timestamp(), before)
}

func TestCopy_SnapshotsClaimsIndependently(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b")

	clone := root.Copy()
	assert.Equal(t, block.KindClone, clone.Kind)
	assert.Equal(t, root.GetText(), clone.GetText())

	_, err := root.UpdateLine(1, "A")
	require.NoError(t, err)

	assert.Equal(t, "A\nb", root.GetText())
	assert.Equal(t, "a\nb", clone.GetText(), "clone's own timestamp should not observe edits made after the fork")
}

func TestDelete_RemovesFromParentAndChildrenRecursively(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b", "c")

	child, err := root.CreateChild(1, 3)
	require.NoError(t, err)

	grandchild, err := child.CreateChild(1, 2)
	require.NoError(t, err)

	child.Delete()

	assert.True(t, child.IsDeleted())
	assert.True(t, grandchild.IsDeleted())
	assert.Empty(t, root.Children())
}

func TestTimeline_CollapsesImportedVersionsToOneAnchor(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b", "c")

	entries := root.Timeline()
	require.Len(t, entries, 1, "three imported lines collapse to one anchor entry")

	_, err := root.UpdateLine(1, "A")
	require.NoError(t, err)

	entries = root.Timeline()
	assert.Len(t, entries, 2)
}

func TestApplyIndex_CurrentIndexIsIdempotent(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b")

	_, err := root.UpdateLine(1, "A")
	require.NoError(t, err)
	_, err = root.UpdateLine(2, "B")
	require.NoError(t, err)

	current := root.CurrentIndex()
	text := root.GetText()

	err = root.ApplyIndex(current)
	require.NoError(t, err)
	assert.Equal(t, current, root.CurrentIndex())
	assert.Equal(t, text, root.GetText())
}

func TestApplyIndex_OutOfRange(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a")

	err := root.ApplyIndex(99)
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerr.ErrOutOfRange)
}

func TestApplyIndex_ScrubbingBackHidesInsertedLine(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "c")

	_, err := root.InsertLineAt(2, "b")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", root.GetText())

	entries := root.Timeline()

	// Find the PRE_INSERTION entry for the newly born line; the step
	// immediately before it is where scrubbing back hides the line (rule
	// 2 fires: next == latest, currently released, so v = next).
	var preIdx = -1

	for i, e := range entries {
		if e.Version.Kind == lineio.KindPreInsertion {
			preIdx = i
		}
	}

	require.Greater(t, preIdx, 0)

	err = root.ApplyIndex(preIdx - 1)
	require.NoError(t, err)
	assert.Equal(t, "a\nc", root.GetText(), "scrubbing back past the insertion moment hides the line")

	// Landing directly on the PRE_INSERTION step snaps forward through it
	// (rule 3), so the line is visible again rather than stuck invisible.
	err = root.ApplyIndex(preIdx)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", root.GetText())
}

func TestChildScrubbing_DoesNotDisturbParent(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "x", "y")

	child, err := root.CreateChild(1, 1)
	require.NoError(t, err)

	for _, content := range []string{"b", "c", "d"} {
		_, err = child.UpdateLine(1, content)
		require.NoError(t, err)
	}

	assert.Equal(t, "d", child.GetText())

	rootText := root.GetText()
	rootTS := root.Timestamp()

	// Scrub the child back two steps; only the child's view moves.
	err = child.ApplyIndex(child.CurrentIndex() - 2)
	require.NoError(t, err)

	assert.Equal(t, "b", child.GetText())
	assert.Equal(t, rootText, root.GetText())
	assert.Equal(t, rootTS, root.Timestamp())
}

func TestUserVersionCount_CollapsesImportButCountsEdits(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b")

	base := root.UserVersionCount()
	assert.Equal(t, 1, base)

	_, err := root.UpdateLine(1, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, root.UserVersionCount())

	_, err = root.UpdateLine(2, "B")
	require.NoError(t, err)
	assert.Equal(t, 3, root.UserVersionCount())
}

func TestChangeLines_SurplusLinesInsertRest(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "d")

	change := editengine.MultiLineChange{
		StartLine:         2,
		StartCol:          0,
		EndLine:           2,
		EndCol:            0,
		InsertedText:      "b\nc\nd",
		LineText:          "b\nc\nd",
		OriginalStartLine: "d",
	}

	affected, err := root.ChangeLines(change)
	require.NoError(t, err)
	assert.NotEmpty(t, affected)
	assert.Equal(t, "a\nb\nc\nd", root.GetText())
}

func TestChangeLines_DeletesSurplusVcsLines(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b", "c")

	change := editengine.MultiLineChange{
		StartLine:         1,
		StartCol:          0,
		EndLine:           3,
		EndCol:            1,
		InsertedText:      "x",
		LineText:          "x",
		OriginalStartLine: "a",
	}

	_, err := root.ChangeLines(change)
	require.NoError(t, err)
	assert.Equal(t, "x", root.GetText())
}

func TestAsBlockInfo_ReportsRangeAndVersionCount(t *testing.T) {
	t.Parallel()

	_, root := newTestRoot(t, "a", "b", "c")

	child, err := root.CreateChild(2, 3)
	require.NoError(t, err)

	info := child.AsBlockInfo("f1")
	assert.Equal(t, "f1", info.FileID)
	assert.Equal(t, child.ID, info.BlockID)
	assert.Equal(t, 2, info.RangeStart)
	assert.Equal(t, 3, info.RangeEnd)
	assert.Empty(t, info.Tags)
}
