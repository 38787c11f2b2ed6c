package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/darp/internal/deploy"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "List darp URLs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pm, err := deploy.LoadPortMap(paths.PortMap)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(pm) == 0 {
			fmt.Fprintln(out, "No URLs yet, run 'darp deploy'.")
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		blue := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintln(out)
		for _, domain := range pm.Domains() {
			fmt.Fprintln(out, green(domain))
			for _, folder := range pm.Folders(domain) {
				fmt.Fprintf(out, "  http://%s.%s.%s (%d)\n", blue(folder), domain, deploy.TLD, pm[domain][folder])
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlsCmd)
}
