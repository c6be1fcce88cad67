package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/query"
	"github.com/sadopc/taskdeck/internal/store"
)

type statsModel struct {
	st     *store.Store
	width  int
	height int

	tasks      []store.Task
	categories []store.Category

	chart barchart.Model
}

func newStatsModel(st *store.Store) statsModel {
	return statsModel{
		st:    st,
		chart: barchart.New(60, 12),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return statsDataMsg{
			tasks:      m.st.Tasks(),
			categories: m.st.Categories(),
		}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		m.tasks = msg.tasks
		m.categories = msg.categories
		m.buildChart()
		return m, nil
	}
	return m, nil
}

// buildChart renders one bar per category, stacking open, in-progress, and
// done task counts.
func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, c := range m.categories {
		counts := map[store.Status]int{}
		for _, t := range m.tasks {
			if t.CategoryID == c.ID {
				counts[t.Status]++
			}
		}

		var values []barchart.BarValue
		for _, s := range statuses {
			if counts[s] == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  statusLabel(s),
				Value: float64(counts[s]),
				Style: statusStyle(s),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		label := truncate(c.Name, 8)
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	percent := query.CompletionPercent(m.tasks)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d task(s), ", len(m.tasks))),
		successStyle.Render(fmt.Sprintf("%d%% done", percent)),
	)

	if len(m.categories) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("Nothing to chart yet.")),
		)
	}

	chartView := m.chart.View()
	progress := m.renderProgressBar(w - 6)
	table := m.renderCountsTable(w)
	legend := m.renderLegend()

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", progress, "", chartView, "", legend, "", table,
		),
	)
}

func (m statsModel) renderProgressBar(w int) string {
	if w < 10 {
		w = 10
	}
	percent := query.CompletionPercent(m.tasks)
	filled := w * percent / 100
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", w-filled))
	return "  " + bar
}

func (m statsModel) renderCountsTable(w int) string {
	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-24s %8s %12s %8s", "Category", "Todo", "In progress", "Done"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, c := range m.categories {
		counts := map[store.Status]int{}
		for _, t := range m.tasks {
			if t.CategoryID == c.ID {
				counts[t.Status]++
			}
		}
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-22s %8d %12d %8d",
			colorDot, c.Name,
			counts[store.StatusTodo], counts[store.StatusInProgress], counts[store.StatusDone],
		))
	}

	return strings.Join(rows, "\n")
}

func (m statsModel) renderLegend() string {
	var items []string
	for _, s := range statuses {
		items = append(items, statusStyle(s).Render("■ "+statusLabel(s)))
	}
	return "  " + strings.Join(items, "  ")
}
