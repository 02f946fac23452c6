package commands

import (
	"github.com/spf13/cobra"
)

// NewResumeCommand creates the resume subcommand: a diagnostic restore that
// prints a file's current checkpointed state without mutating it.
func NewResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <file>",
		Short: "Restore and print a file's checkpointed state",
		Args:  cobra.ExactArgs(1),
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

			root, err := sess.GetRootBlock(ctx, fileID)
			if err != nil {
				return err
			}

			children, err := sess.GetChildrenInfo(ctx, root)
			if err != nil {
				return err
			}

			printKV(cobraCmd.OutOrStdout(), "FileID", fileID, "RootBlockID", root)
			printBlockInfoList(cobraCmd.OutOrStdout(), children)

			return nil
		},
	}
}
