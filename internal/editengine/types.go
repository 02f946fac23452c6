// Package editengine classifies a raw multi-line text edit into the shape
// the Block insertion/update primitives need: which lines were purely
// deleted, which were changed in place, and which content is entirely new.
package editengine

// MultiLineChange describes one edit against a Block's active-line view.
// StartLine/EndLine are 1-based, inclusive, and address the pre-edit
// buffer; StartCol/EndCol are 0-based byte offsets into their respective
// lines. InsertedText is the literal text the editor surface received
// (used only for eol classification); LineText is the already-spliced
// replacement content for the whole [StartLine, EndLine] span (pre-edit
// start-line prefix up to StartCol, then InsertedText, then pre-edit
// end-line suffix from EndCol on) — callers build LineText before calling
// in, Classify only re-splits it.
type MultiLineChange struct {
	StartLine, StartCol int
	EndLine, EndCol     int
	InsertedText        string
	LineText            string
	OriginalStartLine   string
}

// Classification is the result of classifying a MultiLineChange.
type Classification struct {
	StartsWithEOL              bool
	EndsWithEOL                bool
	InsertedAtStartOfStartLine bool
	InsertedAtEndOfStartLine   bool
	OneLineInsertOnly          bool
	PushStartLineDown          bool
	PushStartLineUp            bool
	ModifiedLines              []string
	StartLine, EndLine         int
}
