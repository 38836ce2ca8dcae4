package domain

import (
	"fmt"
	"strings"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

const unassignedLabel = "(unassigned)"

// BuildReport converts scan results into the persisted report form. Module
// order follows results; rule order follows rules.
func BuildReport(rules []*m.SplitRule, results []m.ScanResult) m.Report {
	report := m.Report{
		Version: m.ReportVersion,
		Rules:   make([]string, 0, len(rules)),
		Modules: make([]m.ModuleReport, 0, len(results)),
	}

	for _, rule := range rules {
		report.Rules = append(report.Rules, rule.Name)
	}

	for _, result := range results {
		applied := make([]string, 0, result.Applied.Len())

		// Report applied rules in rule order so reports are stable.
		for _, rule := range rules {
			if result.Applied.Has(rule) {
				applied = append(applied, rule.Name)
			}
		}

		report.Modules = append(report.Modules, m.ModuleReport{
			Module:      result.Module,
			Applied:     applied,
			Fixtures:    result.Fixtures,
			TestMethods: result.TestMethods,
		})
	}

	return report
}

// BuildPlan groups the modules of a report by the rules that apply to them.
func BuildPlan(report m.Report) m.SplitPlan {
	plan := m.SplitPlan{Buckets: make([]m.Bucket, 0, len(report.Rules))}
	position := make(map[string]int, len(report.Rules))

	for _, rule := range report.Rules {
		position[rule] = len(plan.Buckets)
		plan.Buckets = append(plan.Buckets, m.Bucket{Rule: rule})
	}

	for _, module := range report.Modules {
		if len(module.Applied) == 0 {
			plan.Unassigned = append(plan.Unassigned, module.Module)
			continue
		}

		for _, rule := range module.Applied {
			i, ok := position[rule]
			if !ok {
				i = len(plan.Buckets)
				position[rule] = i
				plan.Buckets = append(plan.Buckets, m.Bucket{Rule: rule})
			}

			plan.Buckets[i].Modules = append(plan.Buckets[i].Modules, module.Module)
		}
	}

	return plan
}

// PlanText renders a plan as one "rule: module" line per assignment.
func PlanText(plan m.SplitPlan) string {
	var b strings.Builder

	for _, bucket := range plan.Buckets {
		if len(bucket.Modules) == 0 {
			fmt.Fprintf(&b, "%s: -\n", bucket.Rule)
			continue
		}

		for _, module := range bucket.Modules {
			fmt.Fprintf(&b, "%s: %s\n", bucket.Rule, module)
		}
	}

	for _, module := range plan.Unassigned {
		fmt.Fprintf(&b, "%s: %s\n", unassignedLabel, module)
	}

	return b.String()
}
