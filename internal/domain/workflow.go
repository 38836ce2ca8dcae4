package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"testsplit.dev/pkg/testsplit/internal/adapter"
	"testsplit.dev/pkg/testsplit/internal/controller"
	m "testsplit.dev/pkg/testsplit/internal/model"
)

var (
	// ErrNoModules is returned when a workflow is started without modules.
	ErrNoModules = errors.New("no modules to scan")
	// ErrPlanChanged is returned by Check when the split plan differs from the saved report.
	ErrPlanChanged = errors.New("split plan changed")
)

// ScanArgs contains the arguments for scanning modules.
type ScanArgs struct {
	Modules []m.Path
	Rules   m.Path
	Reports m.Path
	Threads int
}

// CheckArgs contains the arguments for comparing a fresh scan with the saved report.
type CheckArgs struct {
	ScanArgs
}

// RulesArgs contains the arguments for listing split rules.
type RulesArgs struct {
	Rules m.Path
}

// Workflow drives the CLI use cases on top of the scanner.
type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) error
	Check(ctx context.Context, args CheckArgs) error
	Rules(ctx context.Context, args RulesArgs) error
}

type workflow struct {
	fs          adapter.SourceFSAdapter
	goFiles     adapter.GoFileAdapter
	ruleStore   adapter.RuleStore
	reportStore adapter.ReportStore
	ui          controller.UI
	scanner     Scanner
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	goFiles adapter.GoFileAdapter,
	ruleStore adapter.RuleStore,
	reportStore adapter.ReportStore,
	ui controller.UI,
	scanner Scanner,
) Workflow {
	return &workflow{
		fs:          fs,
		goFiles:     goFiles,
		ruleStore:   ruleStore,
		reportStore: reportStore,
		ui:          ui,
		scanner:     scanner,
	}
}

// Scan scans every module, saves the report and displays the split plan.
func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	rules, results, err := w.scanAll(ctx, args)
	if err != nil {
		return err
	}

	report := BuildReport(rules, results)
	if err := w.reportStore.SaveReport(ctx, args.Reports, report); err != nil {
		slog.Error("Failed to save report", "reports", args.Reports, "error", err)
		return fmt.Errorf("save report: %w", err)
	}

	if err := w.ui.DisplayScanResults(ctx, rules, results); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if err := w.ui.DisplayPlan(ctx, BuildPlan(report)); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// Check scans every module and compares the resulting plan with the saved one.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	saved, err := w.reportStore.LoadReport(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	rules, results, err := w.scanAll(ctx, args.ScanArgs)
	if err != nil {
		return err
	}

	diff, err := planDiff(BuildPlan(saved), BuildPlan(BuildReport(rules, results)))
	if err != nil {
		return fmt.Errorf("diff plans: %w", err)
	}

	if err := w.ui.DisplayDiff(ctx, diff); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if diff != "" {
		return ErrPlanChanged
	}

	return nil
}

// Rules loads and displays the split rules.
func (w *workflow) Rules(ctx context.Context, args RulesArgs) error {
	rules, err := w.ruleStore.LoadRules(ctx, args.Rules)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	return w.ui.DisplayRules(ctx, rules)
}

// scanAll scans modules in parallel. Every scan owns its applied rule set and
// writes to its own result slot; the first failure cancels the others.
func (w *workflow) scanAll(ctx context.Context, args ScanArgs) ([]*m.SplitRule, []m.ScanResult, error) {
	if len(args.Modules) == 0 {
		return nil, nil, ErrNoModules
	}

	rules, err := w.ruleStore.LoadRules(ctx, args.Rules)
	if err != nil {
		return nil, nil, fmt.Errorf("load rules: %w", err)
	}

	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	results := make([]m.ScanResult, len(args.Modules))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, module := range args.Modules {
		group.Go(func() error {
			result, err := w.scanModule(groupCtx, module, rules)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return rules, results, nil
}

func (w *workflow) scanModule(ctx context.Context, module m.Path, rules []*m.SplitRule) (m.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return m.ScanResult{}, err
	}

	provider, err := adapter.OpenProvider(ctx, w.fs, w.goFiles, module)
	if err != nil {
		slog.Error("Failed to open module", "module", module, "error", err)
		return m.ScanResult{}, err
	}

	result, err := w.scanner.ScanModule(provider, rules)
	if err != nil {
		slog.Error("Failed to scan module", "module", module, "error", err)
		return m.ScanResult{}, fmt.Errorf("scan %s: %w", module, err)
	}

	slog.Info("Scanned module",
		"module", module,
		"fixtures", result.Fixtures,
		"tests", result.TestMethods,
		"applied", result.Applied.Len(),
		"elapsed", result.Duration,
	)

	return result, nil
}

func planDiff(saved, current m.SplitPlan) (string, error) {
	savedText, currentText := PlanText(saved), PlanText(current)
	if savedText == currentText {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(savedText),
		B:        difflib.SplitLines(currentText),
		FromFile: "saved",
		ToFile:   "current",
		Context:  1,
	})
}
