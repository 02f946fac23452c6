package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTagCommand creates the tag subcommand group.
func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Create, load, or peek a named Block bookmark",
	}

	cmd.AddCommand(newTagCreateCommand(), newTagLoadCommand(), newTagPeekCommand())

	return cmd
}

func newTagCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <file> <block-id> <name>",
		Short: "Tag a Block's current timestamp under name",
		Args:  cobra.ExactArgs(3),
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

			tagID, err := sess.CreateTag(ctx, args[1], args[2])
			if err != nil {
				return fmt.Errorf("create tag: %w", err)
			}

			if err := sess.Checkpoint(ctx, fileID); err != nil {
				return fmt.Errorf("checkpoint after create tag: %w", err)
			}

			printKV(cobraCmd.OutOrStdout(), "TagID", tagID)

			return nil
		},
	}
}

func newTagLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file> <tag-id>",
		Short: "Move a tag's Block to its tagged timestamp and print its text",
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

			text, err := sess.LoadTag(ctx, args[1])
			if err != nil {
				return fmt.Errorf("load tag: %w", err)
			}

			if err := sess.Checkpoint(ctx, fileID); err != nil {
				return fmt.Errorf("checkpoint after load tag: %w", err)
			}

			fmt.Fprintln(cobraCmd.OutOrStdout(), text)

			return nil
		},
	}
}

func newTagPeekCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "peek <file> <tag-id>",
		Short: "Read a tag's text without moving its Block",
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

			text, err := sess.GetTextForVersion(ctx, args[1])
			if err != nil {
				return fmt.Errorf("get text for version: %w", err)
			}

			fmt.Fprintln(cobraCmd.OutOrStdout(), text)

			return nil
		},
	}
}
