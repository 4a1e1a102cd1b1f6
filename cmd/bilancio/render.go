package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"bilancio/internal/amqp"
	"bilancio/internal/chart"
	"bilancio/internal/chart/term"
	"bilancio/internal/config"
	"bilancio/internal/core"
)

const (
	shutdownTimeout = 5 * time.Second

	// Logical units per terminal cell. Donut cells are twice as tall as
	// wide so the ring stays round.
	barCell    = 7.0
	donutCellW = 5.0
	donutCellH = 10.0
)

var (
	colorAccent  = lipgloss.Color("#22d3ee")
	colorMuted   = lipgloss.Color("#94a3b8")
	colorDanger  = lipgloss.Color("#fb7185")
	colorSuccess = lipgloss.Color("#a6e3a1")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent  = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted).Width(11)
	styleDanger  = lipgloss.NewStyle().Foreground(colorDanger)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleAmount  = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
)

func newChartSurface(cfg *config.Config) *term.Surface {
	size := chart.Size{W: float64(cfg.ChartWidth) * barCell, H: float64(cfg.ChartHeight) * barCell}
	return term.New(cfg.ChartWidth, cfg.ChartHeight, size, cfg.ChartPixelRatio)
}

func newDonutSurface(cfg *config.Config) *term.Surface {
	rows := cfg.ChartHeight
	cols := rows * 2
	size := chart.Size{W: float64(cols) * donutCellW, H: float64(rows) * donutCellH}
	return term.New(cols, rows, size, 1)
}

func renderSummary(user string, ym core.YearMonth, l core.MonthLedger) string {
	remaining := l.Remaining()
	remStyle := styleSuccess
	if remaining.IsNegative() {
		remStyle = styleDanger
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", styleTitle.Render(ym.Label()), styleMuted.Render(user))
	fmt.Fprintf(&b, "%s%s\n", styleLabel.Render("Salary"), core.FormatAmount(l.Salary))
	fmt.Fprintf(&b, "%s%s\n", styleLabel.Render("Spent"), core.FormatAmount(l.TotalSpent()))
	fmt.Fprintf(&b, "%s%s", styleLabel.Render("Remaining"), remStyle.Render(core.FormatAmount(remaining)))
	return b.String()
}

// renderExpenses lists expenses newest first.
func renderExpenses(l core.MonthLedger) string {
	if l.IsEmpty() {
		return styleMuted.Render("No expenses yet for this month.")
	}

	var b strings.Builder
	for i, e := range l.Newest() {
		if i > 0 {
			b.WriteByte('\n')
		}
		when := ""
		if !e.CreatedAt.IsZero() {
			when = e.CreatedAt.Local().Format("02 Jan 15:04")
		}
		fmt.Fprintf(&b, "%s %s  %s  %s",
			styleAmount.Render(core.FormatAmount(e.Amount)),
			e.Title,
			styleMuted.Render(when),
			styleMuted.Render(e.ID))
	}
	return b.String()
}

func renderChange(msg *amqp.LedgerChangedMessage) string {
	line := fmt.Sprintf("%s  %s %s  %s  salary %s  spent %s  (%d expenses)",
		styleMuted.Render(msg.Timestamp.Local().Format(time.TimeOnly)),
		styleAccent.Render(msg.User),
		msg.YearMonth,
		msg.Operation,
		msg.Salary,
		msg.TotalSpent,
		msg.ExpenseCount)
	if msg.ExpenseID != "" {
		line += styleMuted.Render("  id " + msg.ExpenseID)
	}
	return line
}

func joinCharts(bar, donut string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, bar, "  ", donut)
}
