package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's targets",
	Long:  `Display every target in the package config, in declaration order.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, m, err := newSession(cmd).loadProject()
		if err != nil {
			return err
		}

		targets := m.Targets.All()
		if len(targets) == 0 {
			PrintEmptyState("No targets found")
			return nil
		}

		PrintSection("Targets (" + PrintCount(len(targets), "target", "targets") + ")")
		for i, t := range targets {
			if i > 0 {
				PrintInfo("")
			}
			name := t.Name
			if i == 0 {
				name += " (default)"
			}
			_, _ = headerColor.Println(name)
			if t.Description != "" {
				PrintLabelValue("Description", t.Description)
			}
			PrintLabelValue("File", t.File)
			if len(t.Sources) > 0 {
				PrintLabelValue("Sources", strings.Join(t.Sources, ", "))
			}
		}
		return nil
	},
}
