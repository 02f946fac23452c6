package editengine

import "strings"

// Classify applies the change_lines classification rules to change. eol is
// the File's line terminator.
//
// ends_with_eol is deliberately the strict variant: true only if the
// literal last rune sequence is eol with no trailing filler. A looser,
// trim-then-compare variant would misfile a plain single-line edit that
// happens to end in trailing whitespace before a newline as a "push"
// edit.
func Classify(change MultiLineChange, eol string) Classification {
	startsWithEOL := strings.HasPrefix(change.InsertedText, eol)
	endsWithEOL := strings.HasSuffix(change.InsertedText, eol)

	leading := safePrefix(change.OriginalStartLine, change.StartCol)
	insertedAtStart := strings.TrimSpace(leading) == ""

	trimmedLen := len(strings.TrimRight(change.OriginalStartLine, " \t"))
	insertedAtEnd := change.StartCol >= trimmedLen

	oneLineInsertOnly := change.StartLine == change.EndLine && change.StartCol == change.EndCol

	pushDown := insertedAtStart && endsWithEOL
	pushUp := insertedAtEnd && startsWithEOL

	modifiedLines := strings.Split(change.LineText, eol)
	startLine, endLine := change.StartLine, change.EndLine

	if pushUp && len(modifiedLines) > 0 {
		modifiedLines = modifiedLines[1:]
		startLine++
	}

	if pushDown && len(modifiedLines) > 0 {
		modifiedLines = modifiedLines[:len(modifiedLines)-1]
		endLine--
	}

	return Classification{
		StartsWithEOL:              startsWithEOL,
		EndsWithEOL:                endsWithEOL,
		InsertedAtStartOfStartLine: insertedAtStart,
		InsertedAtEndOfStartLine:   insertedAtEnd,
		OneLineInsertOnly:          oneLineInsertOnly,
		PushStartLineDown:          pushDown,
		PushStartLineUp:            pushUp,
		ModifiedLines:              modifiedLines,
		StartLine:                  startLine,
		EndLine:                    endLine,
	}
}

func safePrefix(s string, n int) string {
	if n < 0 {
		return ""
	}

	if n > len(s) {
		n = len(s)
	}

	return s[:n]
}
