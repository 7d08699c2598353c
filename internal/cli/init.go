package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/nasher/internal/config"
	"github.com/danieljhkim/nasher/internal/engine"
)

var initCmd = &cobra.Command{
	Use:   "init [dir] [file]",
	Short: "Create a new nasher project",
	Long: `Create a nasher.cfg package config in dir (default: the current directory).

The settings are asked for interactively; use --default to accept every
default answer. If file is given, the module, hakpak or erf it names is
unpacked into the new project's src directory.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	s := newSession(cmd)
	paths := config.ProjectPaths(root)

	exists, err := s.fs.Exists(paths.Package)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s already exists", paths.Package)
	}
	if err := s.fs.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", root, err)
	}

	// Loading generates both the global and the package config when missing.
	if _, err := s.loadConfig(root); err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("Created %s", paths.Package))

	if len(args) > 1 {
		file, err := filepath.Abs(args[1])
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if _, err := s.newEngine().Unpack(ctx, &engine.UnpackRequest{
			Root: root,
			File: file,
			Dir:  filepath.Join(root, "src"),
		}); err != nil {
			return err
		}
	}

	fmt.Println()
	PrintInfo("Next steps:")
	fmt.Println("  1. Review targets:   nasher list")
	fmt.Println("  2. Build a target:   nasher pack [target]")
	fmt.Println("  3. Install it:       nasher install [target]")

	if wd, err := os.Getwd(); err == nil && wd != root {
		PrintInfo(fmt.Sprintf("Run nasher commands from inside %s.", root))
	}
	return nil
}
