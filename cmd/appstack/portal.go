package appstack

import (
	"fmt"
	"os"

	"github.com/railwayapp/appstack/internal/apps"
	"github.com/spf13/cobra"
)

var portalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Generate the portal config for every enabled chain and run the portal",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPortal(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "portal failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runPortal(cmd *cobra.Command) error {
	opts, err := runOptions(cmd)
	if err != nil {
		return err
	}
	p, err := newProvisioner(settings)
	if err != nil {
		return err
	}
	report, err := p.RunPortal(cmd.Context(), opts)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func init() {
	portalCmd.Flags().Uint16("port", apps.DefaultPortalPort, "published port of the portal app")
	rootCmd.AddCommand(portalCmd)
}
