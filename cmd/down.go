package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/darp/internal/engine"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop service containers, the reverse proxy and the DNS helper",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := engine.New(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.RequireReady(ctx); err != nil {
			return err
		}

		stopped, err := engine.StopAll(ctx, rt)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stopped %d containers.\n", len(stopped))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downCmd)
}
