package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/precheckout/internal/app"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Invoke the pre-checkout hook in process",
		Long: "Invoke the pre-checkout hook for one build in this process. " +
			"Without --agent the command runs on this machine.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := requestOptions(cmd)
			if err != nil {
				return err
			}
			invocations, _ := cmd.Flags().GetInt("invocations")
			tty, _ := cmd.Flags().GetBool("tty")

			_, err = c.app.Run(cmd.Context(), app.RunOptions{
				RequestOptions: req,
				Invocations:    invocations,
				TTY:            tty,
			}, cmd.OutOrStdout())
			return err
		},
	}
	addRequestFlags(cmd)
	cmd.Flags().Int("invocations", 1, "Number of hook calls for the build (the host calls it twice)")
	cmd.Flags().Bool("tty", false, "Run the command under a pseudo-terminal")
	return cmd
}

func (c *CLI) newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Send one hook call to a controller daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := requestOptions(cmd)
			if err != nil {
				return err
			}
			controller, _ := cmd.Flags().GetString("controller")

			_, err = c.app.Setup(cmd.Context(), app.SetupOptions{
				RequestOptions: req,
				Controller:     controller,
			}, cmd.OutOrStdout())
			return err
		},
	}
	addRequestFlags(cmd)
	cmd.Flags().String("controller", "", "Controller daemon address (default: controller.listen setting)")
	return cmd
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("project", "p", "", "Name of the project being built")
	cmd.Flags().String("matrix-parent", "", "Matrix job the project is a sub-configuration of")
	cmd.Flags().String("build-id", "1", "Build id")
	cmd.Flags().String("display-name", "", "Build display name (default: <project> #<build-id>)")
	cmd.Flags().StringP("executor", "e", "", "Executor slot running the build")
	cmd.Flags().String("node", "local", "Name of the node the build is assigned to")
	cmd.Flags().String("agent", "", "Agent daemon address of the node (default: in-process agent)")
	cmd.Flags().StringArray("env", nil, "Build variable as KEY=VALUE (repeatable)")
}

func requestOptions(cmd *cobra.Command) (app.RequestOptions, error) {
	project, _ := cmd.Flags().GetString("project")
	matrixParent, _ := cmd.Flags().GetString("matrix-parent")
	buildID, _ := cmd.Flags().GetString("build-id")
	displayName, _ := cmd.Flags().GetString("display-name")
	executor, _ := cmd.Flags().GetString("executor")
	node, _ := cmd.Flags().GetString("node")
	agent, _ := cmd.Flags().GetString("agent")
	pairs, _ := cmd.Flags().GetStringArray("env")

	env, err := parseEnv(pairs)
	if err != nil {
		return app.RequestOptions{}, err
	}

	return app.RequestOptions{
		Project:      project,
		MatrixParent: matrixParent,
		BuildID:      buildID,
		DisplayName:  displayName,
		Executor:     executor,
		Node:         node,
		Agent:        agent,
		Env:          env,
	}, nil
}

// parseEnv turns KEY=VALUE pairs into a map. Later pairs win.
func parseEnv(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidEnvPair, "invalid --env value"), "value", pair)
		}
		env[key] = value
	}
	return env, nil
}
