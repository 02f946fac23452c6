package lineio

import (
	"errors"
	"sort"

	"github.com/lineforge/lineforge/internal/clock"
)

// ErrNonIncreasingTimestamp is returned by Append when the given Version's
// timestamp does not strictly exceed the Line's current last timestamp.
var ErrNonIncreasingTimestamp = errors.New("lineio: version timestamp does not strictly increase")

// Line is a node in a File's ordered line list. It owns an append-only,
// timestamp-ascending history of Versions and never disappears once
// created: "deletion" is recorded as an inactive Version, not removal.
type Line struct {
	ID    uint32
	Order uint32

	versions []*Version
}

func newLine(id, order uint32, first *Version) *Line {
	return &Line{ID: id, Order: order, versions: []*Version{first}}
}

// Versions returns the Line's full history in timestamp-ascending order.
// The returned slice must not be mutated by callers.
func (l *Line) Versions() []*Version {
	return l.versions
}

// First returns the Line's earliest Version (its IMPORTED or PRE_INSERTION
// origin).
func (l *Line) First() *Version {
	return l.versions[0]
}

// Last returns the Line's most recently appended Version.
func (l *Line) Last() *Version {
	return l.versions[len(l.versions)-1]
}

// HeadAt returns the last Version with timestamp <= t. If no such Version
// exists (the line had not yet been born at t), it returns the earliest
// Version on the line, which is the convention that makes "before I
// existed" observable as "hidden" for a PRE_INSERTION line.
func (l *Line) HeadAt(t int64) *Version {
	versions := l.versions

	idx := sort.Search(len(versions), func(i int) bool {
		return versions[i].Timestamp > t
	})

	if idx == 0 {
		return versions[0]
	}

	return versions[idx-1]
}

// Append adds v to the Line's history. v's timestamp must strictly exceed
// the current last timestamp.
func (l *Line) Append(v *Version) error {
	if v.Timestamp <= l.Last().Timestamp {
		return ErrNonIncreasingTimestamp
	}

	l.versions = append(l.versions, v)

	return nil
}

// UpdateContent appends a CHANGE Version stamped by clk, attributed to
// blockID.
func (l *Line) UpdateContent(clk *clock.Provider, blockID, content string) *Version {
	v := &Version{
		Timestamp:   clk.Next(),
		Content:     content,
		IsActive:    true,
		Kind:        KindChange,
		SourceBlock: blockID,
	}

	// clk.Next() is strictly increasing by construction, so Append cannot
	// fail here.
	_ = l.Append(v)

	return v
}

// Delete appends a DELETION Version stamped by clk, attributed to blockID.
func (l *Line) Delete(clk *clock.Provider, blockID string) *Version {
	v := &Version{
		Timestamp:   clk.Next(),
		IsActive:    false,
		Kind:        KindDeletion,
		SourceBlock: blockID,
	}

	_ = l.Append(v)

	return v
}
