package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewChildCommand creates the child subcommand.
func NewChildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "child <file> <block-id> <start-line> <end-line>",
		Short: "Carve a child Block out of a 1-based inclusive line range",
		Args:  cobra.ExactArgs(4),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			start, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("parse start-line: %w", err)
			}

			end, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("parse end-line: %w", err)
			}

			ctx := cobraCmd.Context()

			sess, providers, err := openSession()
			if err != nil {
				return err
			}
			defer shutdown(providers)

			fileID, err := resumeFile(ctx, sess, args[0])
			if err != nil {
				return err
			}

			child, err := sess.CreateChild(ctx, args[1], start, end)
			if err != nil {
				return fmt.Errorf("create child: %w", err)
			}

			if err := sess.Checkpoint(ctx, fileID); err != nil {
				return fmt.Errorf("checkpoint after create child: %w", err)
			}

			printKV(cobraCmd.OutOrStdout(), "ChildBlockID", child)

			return nil
		},
	}
}
