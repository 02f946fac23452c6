package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewIndexCommand creates the index subcommand group.
func NewIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Move a Block along its own timeline",
	}

	cmd.AddCommand(newIndexApplyCommand(), newIndexTimestampCommand())

	return cmd
}

func newIndexApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file> <block-id> <index>",
		Short: "Snap a Block to the Version selected by a timeline index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("parse index: %w", err)
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

			if err := sess.ApplyIndex(ctx, args[1], i); err != nil {
				return fmt.Errorf("apply index: %w", err)
			}

			return checkpointAndPrintText(ctx, sess, fileID, args[1], cobraCmd.OutOrStdout())
		},
	}
}

func newIndexTimestampCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "timestamp <file> <block-id> <timestamp>",
		Short: "Set a Block's timestamp directly",
		Args:  cobra.ExactArgs(3),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			ts, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("parse timestamp: %w", err)
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

			if err := sess.ApplyTimestamp(ctx, args[1], ts); err != nil {
				return fmt.Errorf("apply timestamp: %w", err)
			}

			return checkpointAndPrintText(ctx, sess, fileID, args[1], cobraCmd.OutOrStdout())
		},
	}
}
