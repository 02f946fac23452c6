package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete subcommand.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file> <block-id>",
		Short: "Remove a Block from its parent's child map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
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

			if err := sess.DeleteBlock(ctx, args[1]); err != nil {
				return fmt.Errorf("delete block: %w", err)
			}

			if err := sess.Checkpoint(ctx, fileID); err != nil {
				return fmt.Errorf("checkpoint after delete: %w", err)
			}

			fmt.Fprintln(cobraCmd.OutOrStdout(), "deleted")

			return nil
		},
	}
}
