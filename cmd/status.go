package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/darp/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List running darp containers",
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

		containers, err := rt.ListRunning(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var managed []engine.Container
		for _, c := range containers {
			if engine.IsManaged(c.Name) {
				managed = append(managed, c)
			}
		}
		if len(managed) == 0 {
			fmt.Fprintln(out, "No darp containers running.")
			return nil
		}

		helper := color.New(color.FgGreen).SprintFunc()
		service := color.New(color.FgCyan).SprintFunc()

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tIMAGE\tSTATUS\tPORTS")
		for _, c := range managed {
			name := service(c.Name)
			if c.Name == engine.ReverseProxyName || c.Name == engine.DNSName {
				name = helper(c.Name)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, c.Image, c.Status, c.Ports)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
