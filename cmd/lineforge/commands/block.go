package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBlockCommand creates the block subcommand group.
func NewBlockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Inspect Block metadata",
	}

	cmd.AddCommand(newBlockRootCommand(), newBlockInfoCommand(), newBlockChildrenCommand())

	return cmd
}

func newBlockRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "root <file>",
		Short: "Print a file's ROOT block id",
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

			fmt.Fprintln(cobraCmd.OutOrStdout(), root)

			return nil
		},
	}
}

func newBlockInfoCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info <file> <block-id>",
		Short: "Summarize a Block's range, version count, and tags",
		Args:  cobra.ExactArgs(2),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			ctx := cobraCmd.Context()

			sess, providers, err := openSession()
			if err != nil {
				return err
			}
			defer shutdown(providers)

			if _, err := resumeFile(ctx, sess, args[0]); err != nil {
				return err
			}

			info, err := sess.GetBlockInfo(ctx, args[1])
			if err != nil {
				return fmt.Errorf("get block info: %w", err)
			}

			return writeBlockInfo(cobraCmd.OutOrStdout(), format, info)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json, or yaml")

	return cmd
}

func newBlockChildrenCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "children <file> <block-id>",
		Short: "List a Block's live children",
		Args:  cobra.ExactArgs(2),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			ctx := cobraCmd.Context()

			sess, providers, err := openSession()
			if err != nil {
				return err
			}
			defer shutdown(providers)

			if _, err := resumeFile(ctx, sess, args[0]); err != nil {
				return err
			}

			children, err := sess.GetChildrenInfo(ctx, args[1])
			if err != nil {
				return fmt.Errorf("get children info: %w", err)
			}

			return writeBlockInfoList(cobraCmd.OutOrStdout(), format, children)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json, or yaml")

	return cmd
}
