package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lineforge/lineforge/pkg/textutil"
)

var errBinaryFile = errors.New("binary file, refusing to import")

// NewLoadCommand creates the load subcommand.
func NewLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <path>",
		Short: "Import a source file into a fresh checkpointed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runLoad(cobraCmd, args[0])
		},
	}
}

func runLoad(cobraCmd *cobra.Command, path string) error {
	ctx := cobraCmd.Context()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if textutil.IsBinary(content) {
		return fmt.Errorf("%s: %w", path, errBinaryFile)
	}

	sess, providers, err := openSession()
	if err != nil {
		return err
	}
	defer shutdown(providers)

	fileID, err := sess.LoadFile(ctx, path, eol, string(content))
	if err != nil {
		return fmt.Errorf("load file: %w", err)
	}

	if err := sess.Checkpoint(ctx, fileID); err != nil {
		return fmt.Errorf("checkpoint after load: %w", err)
	}

	root, err := sess.GetRootBlock(ctx, fileID)
	if err != nil {
		return err
	}

	printKV(cobraCmd.OutOrStdout(),
		"FileID", fileID,
		"RootBlockID", root,
		"Lines", strconv.Itoa(textutil.CountLines(content)),
	)

	return nil
}
