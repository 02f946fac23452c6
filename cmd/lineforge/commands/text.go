package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTextCommand creates the text subcommand.
func NewTextCommand() *cobra.Command {
	var clones []string

	cmd := &cobra.Command{
		Use:   "text <file> <block-id>",
		Short: "Render a Block's active content at its current timestamp",
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

			text, err := sess.GetText(ctx, args[1], clones)
			if err != nil {
				return fmt.Errorf("get text: %w", err)
			}

			fmt.Fprintln(cobraCmd.OutOrStdout(), text)

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&clones, "clone", nil,
		"CLONE block id whose line heads should override this block's reads (repeatable)")

	return cmd
}
