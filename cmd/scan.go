package cmd

import (
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "scan [modules...]",
		Short:        "Scan modules and write the split report",
		Long:         scanLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Scan(cmd.Context(), scanArgs(args))
		},
	}
}

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func init() {
	rootCmd.AddCommand(scanCmd)
}
