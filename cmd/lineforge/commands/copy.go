package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCopyCommand creates the copy subcommand.
func NewCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <file> <block-id>",
		Short: "Fork a Block into a CLONE sharing its claimed lines",
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

			clone, err := sess.Copy(ctx, args[1])
			if err != nil {
				return fmt.Errorf("copy: %w", err)
			}

			if err := sess.Checkpoint(ctx, fileID); err != nil {
				return fmt.Errorf("checkpoint after copy: %w", err)
			}

			printKV(cobraCmd.OutOrStdout(), "CloneBlockID", clone)

			return nil
		},
	}
}
