package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineforge/lineforge/internal/editengine"
)

// NewEditCommand creates the edit subcommand.
func NewEditCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "edit <file> <block-id>",
		Short: "Replace a Block's active content, diffed against its current text",
		Long: `edit reads replacement content (from --from, or stdin if omitted),
diffs it against the Block's current text, classifies the result into a
MultiLineChange, and applies it via change_lines. Only the first
contiguous region that differs is applied; later differing regions are
left as they were.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runEdit(cobraCmd, args[0], args[1], fromFile)
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "file containing the replacement content (default: stdin)")

	return cmd
}

func runEdit(cobraCmd *cobra.Command, filePath, blockID, fromFile string) error {
	after, err := readReplacement(cobraCmd, fromFile)
	if err != nil {
		return fmt.Errorf("read replacement content: %w", err)
	}

	ctx := cobraCmd.Context()

	sess, providers, err := openSession()
	if err != nil {
		return err
	}
	defer shutdown(providers)

	fileID, err := resumeFile(ctx, sess, filePath)
	if err != nil {
		return err
	}

	before, err := sess.GetText(ctx, blockID, nil)
	if err != nil {
		return fmt.Errorf("read current text: %w", err)
	}

	afterText := strings.TrimSuffix(string(after), eol)

	change := editengine.ChangeFromFullText(before, afterText, eol)

	affected, err := sess.ChangeLines(ctx, blockID, change)
	if err != nil {
		return fmt.Errorf("change lines: %w", err)
	}

	if err := sess.Checkpoint(ctx, fileID); err != nil {
		return fmt.Errorf("checkpoint after edit: %w", err)
	}

	fmt.Fprintln(cobraCmd.OutOrStdout(), strings.Join(affected, "\n"))

	return nil
}

func readReplacement(cobraCmd *cobra.Command, fromFile string) ([]byte, error) {
	if fromFile == "" {
		return io.ReadAll(cobraCmd.InOrStdin())
	}

	return os.ReadFile(fromFile)
}
