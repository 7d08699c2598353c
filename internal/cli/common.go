package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/nasher/internal/clock"
	"github.com/danieljhkim/nasher/internal/config"
	"github.com/danieljhkim/nasher/internal/engine"
	"github.com/danieljhkim/nasher/internal/fsops"
	"github.com/danieljhkim/nasher/internal/hash"
	"github.com/danieljhkim/nasher/internal/tools"
	"github.com/danieljhkim/nasher/internal/ui"
)

// newPrompter builds the prompter for a command run. Tests replace it with
// scripted answers.
var newPrompter = func() ui.Prompter {
	return ui.NewTerminalPrompter(answerPolicy())
}

// answerPolicy maps the --yes/--no/--default flags to a prompt policy.
func answerPolicy() ui.Policy {
	switch {
	case answerYes:
		return ui.PolicyYes
	case answerNo:
		return ui.PolicyNo
	case answerDefault:
		return ui.PolicyDefault
	default:
		return ui.PolicyAsk
	}
}

// logLevel maps the --verbose/--quiet flags to a log threshold.
func logLevel() ui.Level {
	switch {
	case verbose:
		return ui.LevelDebug
	case quiet:
		return ui.LevelWarn
	default:
		return ui.LevelInfo
	}
}

// session bundles the collaborators shared by one command run.
type session struct {
	fs       fsops.FS
	prompter ui.Prompter
	log      *ui.Console
}

func newSession(cmd *cobra.Command) *session {
	log := ui.NewConsole(logLevel())
	log.Out = cmd.OutOrStdout()
	log.Err = cmd.ErrOrStderr()
	return &session{
		fs:       fsops.NewRealFS(),
		prompter: newPrompter(),
		log:      log,
	}
}

// newEngine creates a new engine with real implementations of all dependencies.
func (s *session) newEngine() *engine.Engine {
	runner := &tools.Runner{Stderr: s.log.Err}
	if s.log.Threshold <= ui.LevelInfo {
		runner.Stdout = s.log.Out
	}

	return engine.New(
		s.fs,
		tools.NewERF(os.Getenv("NASHER_ERF"), runner),
		tools.NewGFF(os.Getenv("NASHER_GFF"), runner),
		tools.NewExecCompiler(runner),
		hash.NewBlake3Hasher(),
		s.prompter,
		s.log,
		&clock.RealClock{},
	)
}

// loadConfig loads the config cascade for the project rooted at root,
// asking for any config file that does not exist yet.
func (s *session) loadConfig(root string) (*config.Model, error) {
	loader := config.NewLoader(s.fs, config.NewPromptGenerator(s.prompter, s.fs, s.log))
	return loader.LoadProject(root)
}

// loadProject finds the project containing the working directory and loads
// its configuration.
func (s *session) loadProject() (string, *config.Model, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	root, err := config.FindProjectRoot(s.fs, cwd)
	if err != nil {
		return "", nil, err
	}

	m, err := s.loadConfig(root)
	if err != nil {
		return "", nil, err
	}
	return root, m, nil
}
