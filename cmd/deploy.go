package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/darp/internal/deploy"
	"github.com/sarth-shah20/darp/internal/engine"
	"github.com/sarth-shah20/darp/internal/logging"
	"github.com/sarth-shah20/darp/internal/osint"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Generates domains and starts the reverse proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := logging.FromContext(ctx)

		rt, err := engine.New(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.RequireReady(ctx); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Deploying Container Development")

		res, err := deploy.Generate(cfg, rt.Kind().HostGateway())
		if err != nil {
			return err
		}
		if err := res.Write(paths); err != nil {
			return err
		}
		logger.Info(ctx, "artifacts written",
			"services", len(res.Assignments), "portmap", paths.PortMap, "vhosts", paths.VHostConf)

		if err := engine.RestartReverseProxy(ctx, rt, paths); err != nil {
			return err
		}
		if err := engine.EnsureDNS(ctx, rt, paths); err != nil {
			return err
		}
		if _, err := engine.StopServices(ctx, rt); err != nil {
			return err
		}

		if cfg.URLsInHostsEnabled() {
			if err := osint.New(settings, paths).SyncHosts(ctx, res.LoopbackHosts()); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d services deployed. Run 'darp urls' to list them.\n", len(res.Assignments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
