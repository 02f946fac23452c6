// Package main is the entry point for the lineforge CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lineforge/lineforge/cmd/lineforge/commands"
	"github.com/lineforge/lineforge/internal/coreerr"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lineforge",
		Short: "lineforge - per-line version history and block timeline engine",
		Long: `lineforge tracks per-line edit history for a source file, organizes
lines into a hierarchy of Blocks (root, nested regions, and clones), and
lets a caller navigate any Block's timeline independently.

Every command but "load" and "version" resumes session state from the
on-disk checkpoint written by a prior command against the same file, and
re-checkpoints after any mutation, so each invocation is a standalone
process over durable state.

Commands:
  load        Import a file into a fresh session
  resume      Restore and print a file's checkpointed state
  text        Render a Block's active content
  block       Inspect a Block's range, version count, and tags
  child       Carve a child Block out of a range
  copy        Fork a Block into a CLONE
  delete      Remove a Block from its parent
  edit        Diff and apply a text change to a Block
  index       Move a Block along its own timeline
  tag         Create, load, or peek a named tag`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.RegisterPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewLoadCommand(),
		commands.NewResumeCommand(),
		commands.NewTextCommand(),
		commands.NewBlockCommand(),
		commands.NewChildCommand(),
		commands.NewCopyCommand(),
		commands.NewDeleteCommand(),
		commands.NewEditCommand(),
		commands.NewIndexCommand(),
		commands.NewTagCommand(),
		commands.NewVersionCommand(),
	)

	if err := dispatch(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dispatch is the single recovery boundary named by coreerr.Recover's own
// doc comment: every other package lets an InvariantViolation panic through.
func dispatch(rootCmd *cobra.Command) (err error) {
	defer coreerr.Recover(&err)

	return rootCmd.Execute()
}
