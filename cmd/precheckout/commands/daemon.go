package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/precheckout/internal/app"
)

func (c *CLI) newControllerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "controller",
		Short: "Manage the controller daemon",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the controller daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			idle, _ := cmd.Flags().GetDuration("idle-timeout")
			return c.app.ServeController(cmd.Context(), app.ControllerOptions{
				Listen:      listen,
				IdleTimeout: idle,
			})
		},
	}
	serve.Flags().String("listen", "", "Listen address (default: controller.listen setting)")
	serve.Flags().Duration("idle-timeout", 0, "Stop after this long without calls (0 never stops)")

	cmd.AddCommand(serve)
	return cmd
}

func (c *CLI) newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage the agent daemon",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start an agent daemon that runs scripts for the controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			listen, _ := cmd.Flags().GetString("listen")
			tty, _ := cmd.Flags().GetBool("tty")
			idle, _ := cmd.Flags().GetDuration("idle-timeout")
			return c.app.ServeAgent(cmd.Context(), app.AgentOptions{
				Name:        name,
				Listen:      listen,
				TTY:         tty,
				IdleTimeout: idle,
			})
		},
	}
	serve.Flags().String("name", "", "Agent identity reported to the controller (default: hostname)")
	serve.Flags().String("listen", "", "Listen address (default: a socket in the temp directory)")
	serve.Flags().Bool("tty", false, "Run scripts under a pseudo-terminal")
	serve.Flags().Duration("idle-timeout", 0, "Stop after this long without calls (0 never stops)")

	cmd.AddCommand(serve)
	return cmd
}
