package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/precheckout/internal/app"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a project's pre-checkout command can be executed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, _ := cmd.Flags().GetString("project")
			return c.app.Validate(cmd.Context(), app.ValidateOptions{Project: project})
		},
	}
	cmd.Flags().StringP("project", "p", "", "Name of the project to check")
	return cmd
}
