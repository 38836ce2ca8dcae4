package cmd

import (
	"github.com/spf13/cobra"

	"testsplit.dev/pkg/testsplit/internal/domain"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "check [modules...]",
		Short:        "Verify the split plan against the saved report",
		Long:         checkLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Check(cmd.Context(), domain.CheckArgs{ScanArgs: scanArgs(args)})
		},
	}
}

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func init() {
	rootCmd.AddCommand(checkCmd)
}
