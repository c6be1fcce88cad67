package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/store"
)

type categoriesModel struct {
	st     *store.Store
	width  int
	height int

	categories []store.Category
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "category", "edit_category"

	formName  *string
	formColor *string

	editingID string
}

func newCategoriesModel(st *store.Store) categoriesModel {
	name, color := "", store.Palette[0]
	return categoriesModel{
		st:        st,
		formName:  &name,
		formColor: &color,
	}
}

func (m *categoriesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m categoriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return categoriesDataMsg{categories: m.st.Categories()}
	}
}

func (m categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case categoriesDataMsg:
		m.categories = msg.categories
		if m.cursor >= len(m.categories) {
			m.cursor = max(0, len(m.categories)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.categories)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showNewCategoryForm()
		case key.Matches(msg, keys.Edit):
			if len(m.categories) > 0 {
				return m.showEditCategoryForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(m.categories) > 0 {
				c := m.categories[m.cursor]
				removed := m.taskCount(c.ID)
				m.st.DeleteCategory(c.ID)
				return m, tea.Batch(m.refresh(), func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Deleted %q and %d task(s)", c.Name, removed)}
				})
			}
		}
	}
	return m, nil
}

func (m categoriesModel) taskCount(categoryID string) int {
	n := 0
	for _, t := range m.st.Tasks() {
		if t.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (m categoriesModel) showNewCategoryForm() (categoriesModel, tea.Cmd) {
	*m.formName = ""
	m.formType = "category"

	// New categories draw a random palette color; only the name is asked.
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category Name").Value(m.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m categoriesModel) showEditCategoryForm() (categoriesModel, tea.Cmd) {
	c := m.categories[m.cursor]
	*m.formName = c.Name
	*m.formColor = c.Color
	m.formType = "edit_category"
	m.editingID = c.ID

	colorOptions := make([]huh.Option[string], len(store.Palette))
	for i, col := range store.Palette {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", col), col)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category Name").Value(m.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m categoriesModel) updateForm(msg tea.Msg) (categoriesModel, tea.Cmd) {
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
		name := strings.TrimSpace(*m.formName)
		switch m.formType {
		case "category":
			if name != "" {
				m.st.AddCategory(name, store.RandomColor())
			}
			return m, m.refresh()
		case "edit_category":
			if name != "" {
				m.st.UpdateCategory(m.editingID, name, *m.formColor)
			}
			return m, m.refresh()
		}
	}

	return m, cmd
}

func (m categoriesModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Category")
		if m.formType == "edit_category" {
			title = titleStyle.Render("Edit Category")
		}
		formView := m.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(m.width - 4).Render(content)
	}

	return m.renderCategoryList()
}

func (m categoriesModel) renderCategoryList() string {
	w := m.width - 4
	title := titleStyle.Render("Categories")

	if len(m.categories) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No categories yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %8s", "", "Name", "Tasks"))
	rows = append(rows, header)

	for i, c := range m.categories {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s", cursor, colorDot, c.Name)) +
			mutedStyle.Render(fmt.Sprintf("%8d", m.taskCount(c.ID)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete (removes its tasks)"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
