package block

import (
	"strings"

	"github.com/lineforge/lineforge/internal/coreerr"
	"github.com/lineforge/lineforge/internal/editengine"
	"github.com/lineforge/lineforge/internal/lineio"
	"github.com/lineforge/lineforge/pkg/mathutil"
)

// GetText returns the active concatenated content of this Block at its
// current timestamp. clonesToConsider are CLONEs of this Block (or of its
// descendants, during recursive traversal) whose own, possibly later,
// timestamps should override the line heads they share with the Block being
// rendered: per line, the clone with the latest matching head wins over this
// Block's own timestamp. A Block that isn't this Block's CLONE is ignored.
func (b *Block) GetText(clonesToConsider ...*Block) string {
	active := b.ActiveLines()
	ts := b.Timestamp()

	overrides := cloneOverridesOf(b, clonesToConsider)

	contents := make([]string, len(active))

	for i, line := range active {
		headTS := ts
		if ots, ok := overrides[line.ID]; ok && ots > headTS {
			headTS = ots
		}

		contents[i] = line.HeadAt(headTS).Content
	}

	return strings.Join(contents, b.File.EOL)
}

// cloneOverridesOf collects, for every Line b claims, the latest timestamp
// among clones (CLONEs whose Origin is b) that also claim that Line. Lines
// with no overriding clone are absent from the result.
func cloneOverridesOf(b *Block, clones []*Block) map[uint32]int64 {
	if len(clones) == 0 {
		return nil
	}

	overrides := make(map[uint32]int64)

	for _, clone := range clones {
		if clone == nil || clone.Origin != b {
			continue
		}

		cloneTS := clone.Timestamp()

		for _, line := range clone.ClaimedLines() {
			if cur, ok := overrides[line.ID]; !ok || cloneTS > cur {
				overrides[line.ID] = cloneTS
			}
		}
	}

	return overrides
}

// GetActiveLineCount returns the number of active lines at this Block's
// current timestamp.
func (b *Block) GetActiveLineCount() int {
	return len(b.ActiveLines())
}

// InsertLineAt inserts a new Line between active positions n-1 and n
// (1 <= n <= active_count+1; n==1 prepends, n==active_count+1 appends).
// Every Block currently claiming a File-adjacent neighbor line gets the
// new Line added to its own claim set, so it stays hidden for them (via
// head_at) until they scrub forward past its PRE_INSERTION moment; this
// Block's timestamp advances to the new Line's INSERTION moment, so it is
// immediately visible here.
func (b *Block) InsertLineAt(n int, content string) (*lineio.Line, error) {
	active := b.ActiveLines()

	if n < 1 || n > len(active)+1 {
		return nil, coreerr.OutOfRange(opName("InsertLineAt"), nil)
	}

	var prev, next *lineio.Line

	if n > 1 {
		prev = active[n-2]
	}

	if n <= len(active) {
		next = active[n-1]
	}

	line := b.File.InsertBetween(prev, next, content)

	claimers := map[string]*Block{b.ID: b}

	if prev != nil {
		for _, blk := range b.registry.claimersOf(prev.ID) {
			claimers[blk.ID] = blk
		}
	}

	if next != nil {
		for _, blk := range b.registry.claimersOf(next.ID) {
			claimers[blk.ID] = blk
		}
	}

	propagateInsertion(mapValues(claimers), line.ID)

	b.advanceTimestamp(line.Last().Timestamp)

	return line, nil
}

func mapValues(m map[string]*Block) []*Block {
	blocks := make([]*Block, 0, len(m))
	for _, blk := range m {
		blocks = append(blocks, blk)
	}

	return blocks
}

// UpdateLine appends a CHANGE Version to the active line at 1-based
// position n and advances this Block's timestamp to it.
func (b *Block) UpdateLine(n int, content string) (*lineio.Version, error) {
	active := b.ActiveLines()

	line, ok := nthActiveLine(active, n)
	if !ok {
		return nil, coreerr.OutOfRange(opName("UpdateLine"), nil)
	}

	v := line.UpdateContent(b.File.Clock, b.ID, content)
	b.advanceTimestamp(v.Timestamp)

	return v, nil
}

// ChangeLines applies a classified multi-line edit: in-place CHANGE
// Versions for lines that still exist, DELETION Versions for lines the
// edit removed, and fresh inserted Lines (via InsertLineAt) for surplus
// content. It returns the union of Block ids claiming any touched Line.
func (b *Block) ChangeLines(change editengine.MultiLineChange) ([]string, error) {
	cls := editengine.Classify(change, b.File.EOL)

	active := b.ActiveLines()

	startIdx := mathutil.Max(cls.StartLine-1, 0)
	endIdx := mathutil.Max(cls.EndLine-1, startIdx-1)

	var vcsLines []*lineio.Line

	for i := startIdx; i <= endIdx && i >= 0 && i < len(active); i++ {
		vcsLines = append(vcsLines, active[i])
	}

	affected := make(map[string]bool)

	for _, id := range b.lineClaimersUnion(vcsLines) {
		affected[id] = true
	}

	for i := len(cls.ModifiedLines); i < len(vcsLines); i++ {
		line := vcsLines[i]
		line.Delete(b.File.Clock, b.ID)
		b.advanceTimestamp(line.Last().Timestamp)
	}

	overlap := mathutil.Min(len(vcsLines), len(cls.ModifiedLines))
	for i := 0; i < overlap; i++ {
		v := vcsLines[i].UpdateContent(b.File.Clock, b.ID, cls.ModifiedLines[i])
		b.advanceTimestamp(v.Timestamp)
	}

	for i := overlap; i < len(cls.ModifiedLines); i++ {
		line, err := b.InsertLineAt(startIdx+i+1, cls.ModifiedLines[i])
		if err != nil {
			return nil, err
		}

		affected[b.ID] = true

		for _, blk := range b.registry.claimersOf(line.ID) {
			affected[blk.ID] = true
		}
	}

	result := make([]string, 0, len(affected))
	for id := range affected {
		result = append(result, id)
	}

	return result, nil
}

// lineClaimersUnion returns the distinct ids of every Block claiming any
// of lines.
func (b *Block) lineClaimersUnion(lines []*lineio.Line) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(lines))

	for _, line := range lines {
		for _, blk := range b.registry.claimersOf(line.ID) {
			if !seen[blk.ID] {
				seen[blk.ID] = true
				ids = append(ids, blk.ID)
			}
		}
	}

	return ids
}
