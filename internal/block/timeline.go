package block

import (
	"sort"

	"github.com/lineforge/lineforge/internal/lineio"
)

// TimelineEntry pairs a Version with the Line it belongs to, so the
// PRE_INSERTION/INSERTION pairing rules in ApplyIndex can find a Version's
// paired successor without a second pass over the claimed lines.
type TimelineEntry struct {
	Version *lineio.Version
	Line    *lineio.Line
}

// Timeline returns every Version on this Block's claimed Lines except
// KindClone ones, ascending by timestamp. Per-line KindImported Versions
// are collapsed into a single anchor entry: only the latest-timestamped
// IMPORTED Version among all claimed lines survives, representing "the
// original state" as one timeline step.
func (b *Block) Timeline() []TimelineEntry {
	lines := b.ClaimedLines()

	entries := make([]TimelineEntry, 0, len(lines)*2)

	var anchor *TimelineEntry

	for _, line := range lines {
		for _, v := range line.Versions() {
			if v.Kind == lineio.KindClone {
				continue
			}

			if v.Kind == lineio.KindImported {
				if anchor == nil || v.Timestamp > anchor.Version.Timestamp {
					anchor = &TimelineEntry{Version: v, Line: line}
				}

				continue
			}

			entries = append(entries, TimelineEntry{Version: v, Line: line})
		}
	}

	if anchor != nil {
		entries = append(entries, *anchor)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Version.Timestamp < entries[j].Version.Timestamp
	})

	return entries
}

// CurrentVersion returns the claimed-line head with the maximum timestamp
// that is not PRE_INSERTION, at block.timestamp.
func (b *Block) CurrentVersion() *lineio.Version {
	ts := b.Timestamp()

	var current *lineio.Version

	for _, line := range b.ClaimedLines() {
		head := line.HeadAt(ts)
		if head.Kind == lineio.KindPreInsertion {
			continue
		}

		if current == nil || head.Timestamp > current.Timestamp {
			current = head
		}
	}

	return current
}

// CurrentIndex returns the position of CurrentVersion in Timeline. If the
// current head is an INSERTION whose Line's immediately preceding Version
// is its paired PRE_INSERTION, the index points at that PRE_INSERTION
// entry instead, matching ApplyIndex's snap convention.
func (b *Block) CurrentIndex() int {
	entries := b.Timeline()

	return b.currentIndexIn(entries)
}

func (b *Block) currentIndexIn(entries []TimelineEntry) int {
	current := b.CurrentVersion()
	if current == nil {
		return -1
	}

	for i, e := range entries {
		if e.Version != current {
			continue
		}

		if e.Version.Kind == lineio.KindInsertion {
			if pre, ok := pairedPreInsertion(e.Line, e.Version); ok {
				if j, found := indexOfVersion(entries, pre); found {
					return j
				}
			}
		}

		return i
	}

	return -1
}

// pairedPreInsertion returns the PRE_INSERTION Version immediately
// preceding ins in its own Line's history, if ins is itself the paired
// INSERTION Version (always the second entry on a Line born mid-editing).
func pairedPreInsertion(line *lineio.Line, ins *lineio.Version) (*lineio.Version, bool) {
	versions := line.Versions()
	if len(versions) < 2 || versions[1] != ins {
		return nil, false
	}

	if versions[0].Kind != lineio.KindPreInsertion {
		return nil, false
	}

	return versions[0], true
}

func indexOfVersion(entries []TimelineEntry, v *lineio.Version) (int, bool) {
	for i, e := range entries {
		if e.Version == v {
			return i, true
		}
	}

	return 0, false
}

// UserVersionCount collapses the IMPORTED origins of all claimed lines into
// a single "original" step while preserving every user edit as its own
// step: non-CLONE Versions on claimed lines, minus one per line whose first
// Version is IMPORTED, plus one if any such line exists. Other origins
// (PRE_INSERTION) each count as their own step.
func (b *Block) UserVersionCount() int {
	lines := b.ClaimedLines()

	var total, imported int

	for _, line := range lines {
		for _, v := range line.Versions() {
			if v.Kind != lineio.KindClone {
				total++
			}
		}

		if line.First().Kind == lineio.KindImported {
			imported++
		}
	}

	if imported == 0 {
		return total
	}

	return total - imported + 1
}
