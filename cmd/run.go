package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/engine"
	"github.com/sarth-shah20/darp/internal/session"
)

// runSession starts the container for the service in the current directory.
func runSession(cmd *cobra.Command, args []string, mode session.Mode) error {
	ctx := cmd.Context()

	rt, err := engine.New(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.RequireReady(ctx); err != nil {
		return err
	}

	rc, err := config.CurrentResolutionContext()
	if err != nil {
		return err
	}
	envName, _ := cmd.Flags().GetString("environment")
	opts := session.Options{Mode: mode, Environment: envName}
	if len(args) > 0 {
		opts.Image = args[0]
	}

	spec, err := session.Build(cfg, paths, rc, rt.Kind(), opts)
	if err != nil {
		return err
	}
	return engine.Run(ctx, rt.Kind(), *spec, nil)
}

var shellCmd = &cobra.Command{
	Use:   "shell [container_image]",
	Short: "Starts a shell instance",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, args, session.ModeShell)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [container_image]",
	Short: "Runs the serve_command",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, args, session.ModeServe)
	},
}

func init() {
	shellCmd.Flags().StringP("environment", "e", "", "environment name (defaults to the domain's default_environment)")
	serveCmd.Flags().StringP("environment", "e", "", "environment name (defaults to the domain's default_environment)")
	rootCmd.AddCommand(shellCmd, serveCmd)
}
