package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"testsplit.dev/pkg/testsplit/internal/domain"
	m "testsplit.dev/pkg/testsplit/internal/model"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "rules",
		Short:        "List the configured split rules",
		Long:         "Load the rules file, validate it and print every rule with its required and prohibited categories.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Rules(cmd.Context(), domain.RulesArgs{
				Rules: m.Path(viper.GetString(rulesConfigKey)),
			})
		},
	}
}

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func init() {
	rootCmd.AddCommand(rulesCmd)
}
