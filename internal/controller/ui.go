// Package controller provides output adapters for displaying split results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

// UI defines the interface for displaying scan results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayScanResults(ctx context.Context, rules []*m.SplitRule, results []m.ScanResult) error
	DisplayPlan(ctx context.Context, plan m.SplitPlan) error
	DisplayRules(ctx context.Context, rules []*m.SplitRule) error
	// DisplayDiff shows a unified diff of split plans; an empty diff means unchanged.
	DisplayDiff(ctx context.Context, diff string) error
}

// NewUI returns the interactive TUI when useTTY is set and the SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
