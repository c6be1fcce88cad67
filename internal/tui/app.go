package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/backup"
	"github.com/sadopc/taskdeck/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	st    *store.Store
	codec *backup.Codec

	width  int
	height int

	activeView    viewState
	showHelp      bool
	backupPicking bool
	backupCursor  int

	tasks      tasksModel
	categories categoriesModel
	stats      statsModel

	help   help.Model
	status string
}

func NewApp(st *store.Store, p store.Persistence) App {
	h := help.New()
	h.ShowAll = false

	return App{
		st:         st,
		codec:      backup.New(st, p),
		activeView: viewTasks,
		tasks:      newTasksModel(st),
		categories: newCategoriesModel(st),
		stats:      newStatsModel(st),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.tasks.refresh()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.tasks.setSize(a.width, contentHeight)
		a.categories.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Backup picker overlay
		if a.backupPicking {
			return a.updateBackupPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Backup):
			a.backupPicking = true
			a.backupCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTasks
			return a, a.tasks.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewCategories
			return a, a.categories.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			return a, a.refreshCurrentView()
		}

	case statusMsg:
		a.status = msg.text
		return a, nil

	case backupDoneMsg:
		a.status = "Saved " + msg.path
		a.backupPicking = false
		return a, nil

	case importDoneMsg:
		a.status = "Backup imported"
		a.backupPicking = false
		return a, tea.Batch(a.tasks.refresh(), a.categories.refresh(), a.stats.refresh())
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewCategories:
		a.categories, cmd = a.categories.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewCategories:
		return a.categories.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTasks:
		return a.tasks.refresh()
	case viewCategories:
		return a.categories.refresh()
	case viewStats:
		return a.stats.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTasks:
		content = a.tasks.view()
	case viewCategories:
		content = a.categories.view()
	case viewStats:
		content = a.stats.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show backup picker overlay
	if a.backupPicking {
		content = a.renderBackupPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("taskdeck")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var backupActions = []string{"Export JSON backup", "Export task list (CSV)", "Import newest backup"}

func (a App) renderBackupPicker() string {
	title := titleStyle.Render("Backup")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, action := range backupActions {
		cursor := "  "
		style := normalItemStyle
		if i == a.backupCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+action))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: run  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateBackupPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.backupCursor > 0 {
			a.backupCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.backupCursor < len(backupActions)-1 {
			a.backupCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.backupPicking = false
		return a, a.doBackupAction(a.backupCursor)
	case key.Matches(msg, keys.Back):
		a.backupPicking = false
	}
	return a, nil
}

func (a App) doBackupAction(action int) tea.Cmd {
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		switch action {
		case 0:
			path := filepath.Join(home, fmt.Sprintf("taskdeck-backup-%s.json", dateStr))
			if err := a.codec.ExportFile(path); err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			return backupDoneMsg{path: path}

		case 1:
			categories := make(map[string]store.Category)
			for _, c := range a.st.Categories() {
				categories[c.ID] = c
			}
			path := filepath.Join(home, fmt.Sprintf("taskdeck-tasks-%s.csv", dateStr))
			if err := backup.ToCSV(a.st.Tasks(), categories, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
			return backupDoneMsg{path: path}

		default:
			path := newestBackup(home)
			if path == "" {
				return statusMsg{text: "No taskdeck-backup-*.json file found in home directory", isError: true}
			}
			if err := a.codec.ImportFile(path); err != nil {
				return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
			}
			return importDoneMsg{}
		}
	}
}

// newestBackup finds the lexicographically last backup file, which is the
// most recent since names embed the date.
func newestBackup(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "taskdeck-backup-*.json"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[len(matches)-1]
}
