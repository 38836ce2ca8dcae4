package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

const starterRules = `# Split rules: a rule applies to a module when at least one test method
# carries every required category and none of the prohibited ones.
rules:
  - name: fast
    required: [Fast]
    prohibited: [Flaky]
  - name: slow
    required: [Slow]
    prohibited: [Flaky]
  - name: flaky
    required: [Flaky]
`

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default testsplit.yaml configuration file",
		Long: `Create a testsplit.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually. A starter rules file is
written next to it when the configured rules file does not exist yet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return writeStarterRules(cmd, m.Path(viper.GetString(rulesConfigKey)))
		},
	}
}

func writeStarterRules(cmd *cobra.Command, path m.Path) error {
	ctx := cmd.Context()

	if _, err := fsAdapter.FileInfo(ctx, path); err == nil {
		return nil
	}

	if err := fsAdapter.WriteFile(ctx, path, []byte(starterRules), 0o600); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	cmd.Printf("wrote %s\n", path)

	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
