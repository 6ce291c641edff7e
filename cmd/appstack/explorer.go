package appstack

import (
	"fmt"
	"os"

	"github.com/railwayapp/appstack/internal/apps"
	"github.com/spf13/cobra"
)

var explorerCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Provision explorer backends and run the block explorer",
	Long: `Explorer makes sure every enabled chain has a database, a port band and
api, data-fetcher and worker services, then writes the explorer runtime config
and compose file and starts the stack.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExplorer(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "explorer failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runExplorer(cmd *cobra.Command) error {
	opts, err := runOptions(cmd)
	if err != nil {
		return err
	}
	p, err := newProvisioner(settings)
	if err != nil {
		return err
	}
	report, err := p.RunExplorer(cmd.Context(), opts)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func init() {
	explorerCmd.Flags().Uint16("port", apps.DefaultExplorerPort, "published port of the explorer app")
	rootCmd.AddCommand(explorerCmd)
}
