package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

const (
	emptyCell       = "-"
	unassignedLabel = "(unassigned)"
	unchangedLabel  = "Split plan unchanged."
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayScanResults prints one row per scanned module.
func (s *SimpleUI) DisplayScanResults(ctx context.Context, rules []*m.SplitRule, results []m.ScanResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderResultsTable(rules, results))

	return nil
}

// DisplayPlan prints the modules selected by every rule.
func (s *SimpleUI) DisplayPlan(ctx context.Context, plan m.SplitPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderPlanTable(plan))

	return nil
}

// DisplayRules prints the loaded split rules.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []*m.SplitRule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderRulesTable(rules))

	return nil
}

// DisplayDiff prints the plan diff.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s\n", diffText(diff))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func newTable(buffer *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderResultsTable(rules []*m.SplitRule, results []m.ScanResult) string {
	var buffer bytes.Buffer

	table := newTable(&buffer, []string{"Module", "Fixtures", "Tests", "Applied Rules"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	totalTests := 0

	for _, result := range results {
		applied := make([]string, 0, result.Applied.Len())

		for _, rule := range rules {
			if result.Applied.Has(rule) {
				applied = append(applied, rule.Name)
			}
		}

		table.Append([]string{
			string(result.Module),
			fmt.Sprintf("%d", result.Fixtures),
			fmt.Sprintf("%d", result.TestMethods),
			joinOrEmpty(applied),
		})

		totalTests += result.TestMethods
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Modules %d", len(results)),
		"",
		fmt.Sprintf("%d", totalTests),
		fmt.Sprintf("%d rules", len(rules)),
	})

	table.Render()

	return buffer.String()
}

func renderPlanTable(plan m.SplitPlan) string {
	var buffer bytes.Buffer

	table := newTable(&buffer, []string{"Rule", "Modules"})

	for _, bucket := range plan.Buckets {
		modules := make([]string, 0, len(bucket.Modules))
		for _, module := range bucket.Modules {
			modules = append(modules, string(module))
		}

		table.Append([]string{bucket.Rule, joinOrEmpty(modules)})
	}

	if len(plan.Unassigned) > 0 {
		modules := make([]string, 0, len(plan.Unassigned))
		for _, module := range plan.Unassigned {
			modules = append(modules, string(module))
		}

		table.Append([]string{unassignedLabel, joinOrEmpty(modules)})
	}

	table.Render()

	return buffer.String()
}

func renderRulesTable(rules []*m.SplitRule) string {
	var buffer bytes.Buffer

	table := newTable(&buffer, []string{"Rule", "Required", "Prohibited"})

	for _, rule := range rules {
		table.Append([]string{
			rule.Name,
			joinOrEmpty(rule.RequiredCategories),
			joinOrEmpty(rule.ProhibitedCategories),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Rules %d", len(rules)), "", ""})
	table.Render()

	return buffer.String()
}

func diffText(diff string) string {
	if diff == "" {
		return unchangedLabel
	}

	return strings.TrimRight(diff, "\n")
}

func joinOrEmpty(values []string) string {
	if len(values) == 0 {
		return emptyCell
	}

	return strings.Join(values, ", ")
}
