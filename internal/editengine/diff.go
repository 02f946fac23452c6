package editengine

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeFromFullText builds a MultiLineChange from two full-buffer
// snapshots, so a collaborator that only tracks "the whole document
// changed to this" doesn't need to track cursor-level edits itself. It
// diffs line-by-line (DiffLinesToRunes collapses each line to a single
// rune, so the main diff runs over "lines" rather than characters, then
// DiffCleanupMerge folds adjacent delete/insert pairs into one edit
// region), matching the line-oriented diff pipeline's usage of
// diffmatchpatch.
func ChangeFromFullText(before, after, eol string) MultiLineChange {
	dmp := diffmatchpatch.New()

	beforeRunes, afterRunes, lineArray := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(beforeRunes, afterRunes, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	beforeLines := strings.Split(before, eol)

	lineNum := 0
	startLine, endLine := -1, -1

	var insertedLines []string

	for _, d := range diffs {
		count := utf8.RuneCountInString(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if startLine != -1 {
				// A later, separate edit region exists; ChangeFromFullText
				// only represents the first one found (the common case
				// for "apply this whole-buffer replacement" is a single
				// contiguous change).
				goto built
			}

			lineNum += count
		case diffmatchpatch.DiffDelete:
			if startLine == -1 {
				startLine = lineNum + 1
			}

			lineNum += count
			endLine = lineNum
		case diffmatchpatch.DiffInsert:
			if startLine == -1 {
				startLine = lineNum + 1
				endLine = lineNum
			}

			insertedLines = append(insertedLines, linesOf(d.Text, lineArray)...)
		}
	}

built:
	if startLine == -1 {
		// No difference at all: line 1 is rewritten with its own content.
		first := firstOr(beforeLines, "")

		return MultiLineChange{StartLine: 1, EndLine: 1, LineText: first, OriginalStartLine: first}
	}

	originalStart := lineAt(beforeLines, startLine)

	if endLine < startLine {
		// Pure insertion: an eol-terminated insert at column 0 of startLine,
		// which Classify reads as a push-down, so that line survives below
		// the new ones.
		insertedText := strings.Join(insertedLines, eol) + eol

		return MultiLineChange{
			StartLine:         startLine,
			EndLine:           startLine,
			InsertedText:      insertedText,
			LineText:          insertedText + originalStart,
			OriginalStartLine: originalStart,
		}
	}

	if len(insertedLines) == 0 {
		// Pure deletion: widen the region by one surviving neighbor and
		// carry its content through, since an empty LineText would still
		// leave one empty line behind.
		if endLine < len(beforeLines) {
			endLine++
			insertedLines = []string{lineAt(beforeLines, endLine)}
		} else if startLine > 1 {
			startLine--
			originalStart = lineAt(beforeLines, startLine)
			insertedLines = []string{originalStart}
		}
	}

	originalEnd := lineAt(beforeLines, endLine)

	// DiffLinesToRunes only ever equates or differs whole lines, so this
	// helper's edit region always spans complete lines: StartCol is
	// always 0 and EndCol always consumes the whole end line.
	insertedText := strings.Join(insertedLines, eol)

	return MultiLineChange{
		StartLine:         startLine,
		StartCol:          0,
		EndLine:           endLine,
		EndCol:            len(originalEnd),
		InsertedText:      insertedText,
		LineText:          insertedText,
		OriginalStartLine: originalStart,
	}
}

// linesOf reconstructs the original line strings a DiffLinesToRunes chunk
// represents: each rune in text indexes one entry of lineArray.
func linesOf(text string, lineArray []string) []string {
	lines := make([]string, 0, utf8.RuneCountInString(text))

	for _, r := range text {
		line := lineArray[r]
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}

	return lines
}

func lineAt(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}

	return lines[n-1]
}

func firstOr(lines []string, fallback string) string {
	if len(lines) == 0 {
		return fallback
	}

	return lines[0]
}
