package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// TUI implements UI using Bubble Tea. Output that fits the terminal is
// printed directly; longer output opens a scrollable pager.
type TUI struct {
	cmd *cobra.Command
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

// DisplayScanResults shows one row per scanned module.
func (p *TUI) DisplayScanResults(ctx context.Context, rules []*m.SplitRule, results []m.ScanResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.show("Scan results", renderResultsTable(rules, results))
}

// DisplayPlan shows the modules selected by every rule.
func (p *TUI) DisplayPlan(ctx context.Context, plan m.SplitPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.show("Split plan", renderPlanTable(plan))
}

// DisplayRules shows the loaded split rules.
func (p *TUI) DisplayRules(ctx context.Context, rules []*m.SplitRule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.show("Split rules", renderRulesTable(rules))
}

// DisplayDiff shows the plan diff with added and removed lines colored.
func (p *TUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.show("Split plan diff", colorDiff(diffText(diff)))
}

func (p *TUI) show(title, body string) error {
	output := p.cmd.OutOrStdout()
	content := titleStyle.Render(title) + "\n\n" + body

	width, height := terminalSize(output)
	if height == 0 || lineCount(content) < height {
		_, err := fmt.Fprintln(output, content)
		return err
	}

	program := tea.NewProgram(newPagerModel(title, body, width, height), tea.WithOutput(output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func terminalSize(w io.Writer) (int, int) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}

	return width, height
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

func colorDiff(diff string) string {
	lines := strings.Split(diff, "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// headerLines and footerLines are the rows the pager reserves around the viewport.
const (
	headerLines = 2
	footerLines = 1
)

type pagerModel struct {
	title    string
	viewport viewport.Model
}

func newPagerModel(title, body string, width, height int) pagerModel {
	vp := viewport.New(width, max(height-headerLines-footerLines, 1))
	vp.SetContent(body)

	return pagerModel{title: title, viewport: vp}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.viewport.Width = msg.Width
		pm.viewport.Height = max(msg.Height-headerLines-footerLines, 1)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	footer := footerStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll · q quit", pm.viewport.ScrollPercent()*100))

	return titleStyle.Render(pm.title) + "\n\n" + pm.viewport.View() + "\n" + footer
}
