package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/logging"
)

// State shared by every command, filled in by PersistentPreRunE.
var (
	v        = config.NewViper()
	settings *config.Settings
	paths    config.Paths
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "darp",
	Short:         "Your directories auto-reverse proxied.",
	SilenceUsage:  true,
	SilenceErrors: true,
	// PersistentPreRunE runs before every subcommand
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings(v)
		if err != nil {
			return err
		}
		settings = s

		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		l, err := logging.New(settings.LogFormat, level)
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(cmd.Context(), l.With("runId", uuid.NewString()))
		cmd.SetContext(ctx)

		paths = config.NewPaths(settings.Root)
		loaded, err := config.Load(ctx, paths.Config)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.FromContext(ctx).Debug(ctx, "config loaded", "path", paths.Config, "domains", len(cfg.Domains))
		return nil
	},
}

// Execute runs the command tree. A failure is printed to stderr as plain
// text; the logger only records it at debug level.
func Execute() error {
	rootCmd.SetContext(context.Background())
	executed, err := rootCmd.ExecuteC()
	if err != nil {
		ctx, path := rootCmd.Context(), rootCmd.CommandPath()
		if executed != nil && executed.Context() != nil {
			ctx, path = executed.Context(), executed.CommandPath()
		}
		logging.FromContext(ctx).Debug(ctx, "command failed", "command", path)
		fmt.Fprintln(rootCmd.ErrOrStderr(), err.Error())
	}
	return err
}

// saveConfig persists cfg after a successful mutation.
func saveConfig() error {
	return cfg.Save(paths.Config)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("root", "", "darp data directory (env DARP_ROOT, default ~/.darp)")
	pf.String("log-format", "human", "log format human|text|json (env DARP_LOG_FORMAT)")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	bindFlags(pf, map[string]string{
		"root":       "root",
		"log_format": "log-format",
	})
}

// bindFlags wires flags to viper keys. Unchanged flags fall through to
// DARP_* variables and the defaults.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, fs.Lookup(name))
	}
}
