package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/nasher/internal/engine"
)

var compileCmd = newBuildCmd(engine.OpCompile,
	"Compile a target's scripts",
	`Stage the target's sources into its build directory and compile scripts.

With no target, the first target in the package config is used.`)

var packCmd = newBuildCmd(engine.OpPack,
	"Compile and pack a target",
	`Stage, compile and convert the target's sources, then pack them into the
target's output file.

The packed file is stamped with the modification time of the newest source.
If the existing file is newer than the sources, you are asked before it is
overwritten, defaulting to no.`)

var installCmd = newBuildCmd(engine.OpInstall,
	"Compile, pack and install a target",
	`Pack the target and copy the packed file into the game's user directory.

Modules go to modules/, hakpaks to hak/ and erfs to erf/.`)

func newBuildCmd(op engine.Op, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   op.String() + " [target]",
		Short: short,
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, op, args)
		},
	}
}

func runBuild(cmd *cobra.Command, op engine.Op, args []string) error {
	s := newSession(cmd)
	root, m, err := s.loadProject()
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	target, err := m.ResolveTarget(name)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.newEngine().Build(ctx, &engine.BuildRequest{
		Root:   root,
		Model:  m,
		Target: target,
		Op:     op,
	})
	if err != nil {
		return err
	}

	if result.Declined {
		PrintWarning(fmt.Sprintf("%s of %s stopped; nothing was overwritten", op, target.Name))
		return nil
	}
	PrintSuccess(fmt.Sprintf("%s %s finished in %s", op, target.Name, result.Elapsed))
	return nil
}
