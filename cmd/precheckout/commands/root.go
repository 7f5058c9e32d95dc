// Package commands implements the CLI commands for precheckout.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/precheckout/internal/app"
	"go.trai.ch/precheckout/internal/build"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/zerr"
)

// skipConfigure marks commands that run without loading settings.
const skipConfigure = "skip-configure"

// CLI represents the command line interface for precheckout.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(cwd string, opts app.GlobalOptions) error
	Run(ctx context.Context, opts app.RunOptions, console io.Writer) ([]domain.SetUpResult, error)
	Setup(ctx context.Context, opts app.SetupOptions, console io.Writer) (domain.SetUpResult, error)
	ServeController(ctx context.Context, opts app.ControllerOptions) error
	ServeAgent(ctx context.Context, opts app.AgentOptions) error
	Validate(ctx context.Context, opts app.ValidateOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "precheckout",
		Short:         "Run a shell command on the build agent before checkout",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("config", "", "Path to the settings file (default: discovered "+domain.SettingsFileName+")")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: auto, pretty or json")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newSetupCmd())
	rootCmd.AddCommand(c.newControllerCmd())
	rootCmd.AddCommand(c.newAgentCmd())
	rootCmd.AddCommand(c.newValidateCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[skipConfigure]; ok {
		return nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logLevel, _ := cmd.Flags().GetString("log-level")

	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to resolve working directory")
	}

	return c.app.Configure(cwd, app.GlobalOptions{
		ConfigPath: configPath,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
