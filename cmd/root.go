// Package cmd provides the root command and CLI setup for testsplit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"testsplit.dev/pkg/testsplit/internal/adapter"
	"testsplit.dev/pkg/testsplit/internal/controller"
	"testsplit.dev/pkg/testsplit/internal/domain"
	m "testsplit.dev/pkg/testsplit/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var goFileAdapter adapter.GoFileAdapter
var ruleStore adapter.RuleStore
var reportStore adapter.ReportStore
var scanner domain.Scanner
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// rulesFileFlag points at the YAML file holding the split rules.
var rulesFileFlag string

// parallelFlag bounds how many modules are scanned at once.
var parallelFlag int

// verboseFlag switches the log file to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	ruleStore = adapter.NewRuleStore(fsAdapter)
	reportStore = adapter.NewReportStore(fsAdapter)
	scanner = domain.NewScanner(domain.NewFixtureLoader())
	workflow = domain.NewWorkflow(
		fsAdapter,
		goFileAdapter,
		ruleStore,
		reportStore,
		ui,
		scanner,
	)
}

const modulePatternsHelp = `A module is either:
  - a directory            its _test.go files are parsed for suites and tests
  - a .yaml/.yml/.json     a pre-built module descriptor
Without arguments the current directory is scanned.`

const rootLongDescription = `Testsplit partitions a large test suite into disjoint execution buckets
for parallel CI jobs. It reads the category tags attached to test fixtures
and test methods and reports which split rules apply to each module, without
building or running any test.

` + modulePatternsHelp

const scanLongDescription = `Scan modules, save the report and print the split plan.

` + modulePatternsHelp

const checkLongDescription = `Scan modules and compare the split plan with the saved report.
Exits with an error when the plan changed.

` + modulePatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testsplit",
		Short: "Split test suites by category rules",
		Long:  rootLongDescription,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := checkConfigVersion(); err != nil {
				return err
			}

			configureLogger(loadLogConfig(viper.GetBool(logVerboseKey)))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for split reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVarP(&rulesFileFlag, rulesFlagName, "r", viper.GetString(rulesConfigKey), "YAML file with the split rules")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rulesFlagName), rulesConfigKey)

	cmd.PersistentFlags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of modules scanned in parallel")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "write debug logs")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parseModules(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{defaultModule}
	}

	modules := make([]m.Path, 0, len(args))
	for _, arg := range args {
		modules = append(modules, m.Path(arg))
	}

	return modules
}

func scanArgs(args []string) domain.ScanArgs {
	return domain.ScanArgs{
		Modules: parseModules(args),
		Rules:   m.Path(viper.GetString(rulesConfigKey)),
		Reports: m.Path(viper.GetString(outputFlagName)),
		Threads: viper.GetInt(parallelConfigKey),
	}
}
