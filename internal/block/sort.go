package block

import (
	"sort"

	"github.com/lineforge/lineforge/internal/lineio"
)

// orderedSortByOrder sorts lines in place by their File order key.
func orderedSortByOrder(lines []*lineio.Line) {
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Order < lines[j].Order
	})
}
