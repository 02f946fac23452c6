package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/lineforge/lineforge/internal/block"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var errUnsupportedFormat = fmt.Errorf("unsupported format")

// writeBlockInfo renders one Block's summary in the requested format.
func writeBlockInfo(w io.Writer, format string, info block.Info) error {
	switch format {
	case formatTable, "":
		printBlockInfo(w, info)

		return nil
	case formatJSON:
		return marshalAndWrite(info, json.Marshal, w, "json")
	case formatYAML:
		return marshalAndWrite(info, yaml.Marshal, w, "yaml")
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFormat, format)
	}
}

// writeBlockInfoList renders a children listing in the requested format.
func writeBlockInfoList(w io.Writer, format string, infos []block.Info) error {
	switch format {
	case formatTable, "":
		printBlockInfoList(w, infos)

		return nil
	case formatJSON:
		return marshalAndWrite(infos, json.Marshal, w, "json")
	case formatYAML:
		return marshalAndWrite(infos, yaml.Marshal, w, "yaml")
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFormat, format)
	}
}

// marshalAndWrite marshals data and writes the result to w.
func marshalAndWrite(data any, marshal func(any) ([]byte, error), w io.Writer, label string) error {
	encoded, err := marshal(data)
	if err != nil {
		return fmt.Errorf("%s encode: %w", label, err)
	}

	if _, writeErr := w.Write(encoded); writeErr != nil {
		return fmt.Errorf("%s write: %w", label, writeErr)
	}

	return nil
}

// printKV renders a field/value table for a small, fixed set of results
// (e.g. the ids a command just created).
func printKV(w io.Writer, pairs ...string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	for i := 0; i+1 < len(pairs); i += 2 {
		t.AppendRow(table.Row{color.CyanString(pairs[i]), pairs[i+1]})
	}

	t.Render()
}

// printBlockInfo renders one Block's summary.
func printBlockInfo(w io.Writer, info block.Info) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"BlockID", info.BlockID})
	t.AppendRow(table.Row{"FileID", info.FileID})
	t.AppendRow(table.Row{"Range", fmt.Sprintf("%d-%d", info.RangeStart, info.RangeEnd)})
	t.AppendRow(table.Row{"Versions", info.UserVersionCount})
	t.AppendRow(table.Row{"CurrentIndex", info.CurrentVersionIndex})
	t.AppendRow(table.Row{"Tags", tagNames(info.Tags)})
	t.Render()
}

// printBlockInfoList renders a row per Block, for children listings.
func printBlockInfoList(w io.Writer, infos []block.Info) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"BlockID", "Range", "Versions", "Index", "Tags"})

	for _, info := range infos {
		t.AppendRow(table.Row{
			info.BlockID,
			fmt.Sprintf("%d-%d", info.RangeStart, info.RangeEnd),
			info.UserVersionCount,
			info.CurrentVersionIndex,
			tagNames(info.Tags),
		})
	}

	t.Render()
}

func tagNames(refs []block.TagRef) string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}

	return strings.Join(names, ", ")
}
