package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/nasher/internal/engine"
)

var unpackDir string

var unpackCmd = &cobra.Command{
	Use:   "unpack <file>",
	Short: "Unpack a module, hakpak or erf into the source tree",
	Long: `Extract file and lay its contents out as sources.

Game resources are converted to JSON and placed under <dir>/<extension>/,
scripts under <dir>/sources/. Files whose content did not change are left
untouched; changed files are only replaced after confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnpack,
}

func init() {
	unpackCmd.Flags().StringVarP(&unpackDir, "dir", "d", "",
		"Destination directory (default: src under the project root)")
}

func runUnpack(cmd *cobra.Command, args []string) error {
	s := newSession(cmd)
	root, _, err := s.loadProject()
	if err != nil {
		return err
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	dir := unpackDir
	if dir == "" {
		dir = filepath.Join(root, "src")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.newEngine().Unpack(ctx, &engine.UnpackRequest{Root: root, File: file, Dir: dir})
	if err != nil {
		return err
	}

	if len(result.Kept) > 0 {
		PrintWarning(fmt.Sprintf("Kept %s with local changes", PrintCount(len(result.Kept), "file", "files")))
		PrintList(result.Kept, 1)
	}
	return nil
}
