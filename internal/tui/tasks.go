package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/query"
	"github.com/sadopc/taskdeck/internal/store"
)

var priorities = []store.Priority{
	store.PriorityUrgent,
	store.PriorityHot,
	store.PriorityNormal,
	store.PriorityLow,
}

var statuses = []store.Status{
	store.StatusTodo,
	store.StatusInProgress,
	store.StatusDone,
}

type tasksModel struct {
	st     *store.Store
	width  int
	height int

	tasks      []store.Task // derived display order
	categories []store.Category
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "task", "edit_task", "filter"

	// Form field pointers (survive value copies)
	formTitle    *string
	formCategory *string
	formDeadline *string
	formPriority *string

	filterCategory *string
	filterStatus   *string
	filterPriority *string
	filterSearch   *string

	editingID string // task ID being edited
}

func newTasksModel(st *store.Store) tasksModel {
	title, cat, deadline, prio := "", "", "", string(store.PriorityNormal)
	fCat, fStatus, fPrio, fSearch := "", "", "", ""
	return tasksModel{
		st:             st,
		formTitle:      &title,
		formCategory:   &cat,
		formDeadline:   &deadline,
		formPriority:   &prio,
		filterCategory: &fCat,
		filterStatus:   &fStatus,
		filterPriority: &fPrio,
		filterSearch:   &fSearch,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return tasksDataMsg{
			tasks:      query.Derive(m.st.Tasks(), m.st.Filters()),
			categories: m.st.Categories(),
		}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.categories = msg.categories
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			if len(m.categories) == 0 {
				return m, func() tea.Msg {
					return statusMsg{text: "No categories yet. Press 2 to create one first.", isError: true}
				}
			}
			return m.showTaskForm("task")
		case key.Matches(msg, keys.Edit):
			if len(m.tasks) > 0 {
				return m.showTaskForm("edit_task")
			}
		case key.Matches(msg, keys.Delete):
			if len(m.tasks) > 0 {
				m.st.DeleteTask(m.tasks[m.cursor].ID)
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Status):
			if len(m.tasks) > 0 {
				task := m.tasks[m.cursor]
				m.st.UpdateTaskStatus(task.ID, nextStatus(task.Status))
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Filter):
			return m.showFilterForm()
		}
	}
	return m, nil
}

func (m tasksModel) showTaskForm(formType string) (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formCategory = m.categories[0].ID
	*m.formDeadline = ""
	*m.formPriority = string(store.PriorityNormal)
	m.formType = formType

	if formType == "edit_task" {
		task := m.tasks[m.cursor]
		m.editingID = task.ID
		*m.formTitle = task.Title
		*m.formCategory = task.CategoryID
		*m.formDeadline = task.Deadline
		*m.formPriority = string(task.Priority)
	}

	catOptions := make([]huh.Option[string], len(m.categories))
	for i, c := range m.categories {
		catOptions[i] = huh.NewOption(c.Name, c.ID)
	}
	prioOptions := make([]huh.Option[string], len(priorities))
	for i, p := range priorities {
		prioOptions[i] = huh.NewOption(string(p), string(p))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewInput().Title("Deadline (YYYY-MM-DD, empty for none)").Value(m.formDeadline),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(m.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showFilterForm() (tasksModel, tea.Cmd) {
	f := m.st.Filters()
	*m.filterCategory = f.Category
	*m.filterStatus = f.Status
	*m.filterPriority = f.Priority
	*m.filterSearch = f.Search
	m.formType = "filter"

	catOptions := []huh.Option[string]{huh.NewOption("all categories", "")}
	for _, c := range m.categories {
		catOptions = append(catOptions, huh.NewOption(c.Name, c.ID))
	}
	statusOptions := []huh.Option[string]{huh.NewOption("any status", "")}
	for _, s := range statuses {
		statusOptions = append(statusOptions, huh.NewOption(statusLabel(s), string(s)))
	}
	prioOptions := []huh.Option[string]{huh.NewOption("any priority", "")}
	for _, p := range priorities {
		prioOptions = append(prioOptions, huh.NewOption(string(p), string(p)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.filterCategory),
			huh.NewSelect[string]().Title("Status").Options(statusOptions...).Value(m.filterStatus),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(m.filterPriority),
			huh.NewInput().Title("Search").Value(m.filterSearch),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "task":
			if strings.TrimSpace(*m.formTitle) != "" && *m.formCategory != "" {
				m.st.AddTask(strings.TrimSpace(*m.formTitle), *m.formCategory, *m.formDeadline, store.Priority(*m.formPriority))
			}
			return m, m.refresh()
		case "edit_task":
			if strings.TrimSpace(*m.formTitle) != "" && *m.formCategory != "" {
				title := strings.TrimSpace(*m.formTitle)
				prio := store.Priority(*m.formPriority)
				m.st.UpdateTask(m.editingID, store.TaskUpdate{
					Title:      &title,
					CategoryID: m.formCategory,
					Deadline:   m.formDeadline,
					Priority:   &prio,
				})
			}
			return m, m.refresh()
		case "filter":
			m.st.SetFilters(store.Filters{
				Category: *m.filterCategory,
				Status:   *m.filterStatus,
				Priority: *m.filterPriority,
				Search:   *m.filterSearch,
			})
			return m, m.refresh()
		}
	}

	return m, cmd
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		switch m.formType {
		case "edit_task":
			title = titleStyle.Render("Edit Task")
		case "filter":
			title = titleStyle.Render("Filter Tasks")
		}
		formView := m.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(m.width - 4).Render(content)
	}

	return m.renderTaskList()
}

func (m tasksModel) renderTaskList() string {
	w := m.width - 4
	title := titleStyle.Render("Tasks")
	if f := m.st.Filters(); f != (store.Filters{}) {
		title += mutedStyle.Render("  (filtered)")
	}

	if len(m.tasks) == 0 {
		hint := "No tasks yet. Press n to create one."
		if len(m.st.Tasks()) > 0 {
			hint = "No tasks match the active filters. Press f to adjust them."
		}
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render(hint),
		)
		return panelStyle.Width(w).Render(content)
	}

	categories := make(map[string]store.Category, len(m.categories))
	for _, c := range m.categories {
		categories[c.ID] = c
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	now := time.Now()
	for i, task := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		marker := priorityStyle(task.Priority).Render(priorityMarker(task.Priority))

		catBadge := ""
		if c, ok := categories[task.CategoryID]; ok {
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
			catBadge = fmt.Sprintf("%s %s", dot, mutedStyle.Render(c.Name))
		}

		titleCell := task.Title
		if task.Status == store.StatusDone {
			titleCell = doneStyle.Render(titleCell)
		} else {
			titleCell = style.Render(titleCell)
		}

		deadline := ""
		if task.Deadline != "" {
			deadline = mutedStyle.Render("  " + task.Deadline)
			if query.Overdue(task, now) {
				deadline = errorStyle.Render("  " + task.Deadline + " (overdue)")
			}
		}

		status := statusStyle(task.Status).Render("[" + statusLabel(task.Status) + "]")

		rows = append(rows, fmt.Sprintf("%s%s %s %s  %s%s", cursor, marker, status, titleCell, catBadge, deadline))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  s: cycle status  f: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
