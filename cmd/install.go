package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/darp/internal/engine"
	"github.com/sarth-shah20/darp/internal/logging"
	"github.com/sarth-shah20/darp/internal/osint"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install darp system integration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Running installation")

		o := osint.New(settings, paths)
		if err := o.InstallResolver(ctx); err != nil {
			return err
		}
		if err := o.InstallNginxConf(ctx); err != nil {
			return err
		}
		if err := o.InstallDnsmasq(ctx); err != nil {
			return err
		}

		if target, ok := completionTarget(cmd); ok {
			if err := osint.InstallCompletion(target, completionGenerator(cmd, os.Getenv("SHELL"))); err != nil {
				return err
			}
			fmt.Fprintf(out, "Installed completions to %s\n", target.Script)
		}

		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Installation complete.")
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall darp system integration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Running uninstallation")

		rt, err := engine.New(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		// best effort: the engine may already be gone
		if err := rt.RequireReady(ctx); err == nil {
			if _, err := engine.StopAll(ctx, rt); err != nil {
				logging.FromContext(ctx).Warn(ctx, "could not stop containers", "err", err)
			}
		}

		if err := osint.New(settings, paths).RemoveResolver(ctx); err != nil {
			return err
		}
		if target, ok := completionTarget(cmd); ok {
			if err := osint.UninstallCompletion(target); err != nil {
				return err
			}
		}

		fmt.Fprintf(out, "Uninstall complete. %s has been left on disk.\n", paths.Config)
		return nil
	},
}

// completionTarget locates the completion files for the user's shell.
func completionTarget(cmd *cobra.Command) (osint.CompletionTarget, bool) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	sh, ok := osint.DetectShell(os.Getenv("SHELL"))
	if !ok {
		logger.Warn(ctx, "could not detect shell from $SHELL; skipping shell completions")
		return osint.CompletionTarget{}, false
	}
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn(ctx, "could not determine home directory; skipping shell completions")
		return osint.CompletionTarget{}, false
	}
	return sh.Target(home), true
}

// completionGenerator returns cobra's completion writer for the shell at shellPath.
func completionGenerator(cmd *cobra.Command, shellPath string) func(io.Writer) error {
	root := cmd.Root()
	sh, _ := osint.DetectShell(shellPath)
	return func(w io.Writer) error {
		switch sh {
		case osint.Zsh:
			return root.GenZshCompletion(w)
		case osint.Fish:
			return root.GenFishCompletion(w, true)
		default:
			return root.GenBashCompletionV2(w, true)
		}
	}
}

func init() {
	rootCmd.AddCommand(installCmd, uninstallCmd)
}
