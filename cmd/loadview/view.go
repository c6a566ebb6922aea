package main

import (
	"fmt"
	"strings"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/handle"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// model is the load-order view/editor. Selecting a row and pressing
// shift+j/shift+k asks GameHandle to move that plugin; space toggles it
// active/inactive. Every mutation is persisted immediately through
// GameHandle, the same reconcile-mutate-persist-refresh cycle loadctl uses.
// Pressing "/" focuses a filter box that narrows the visible rows by name.
type model struct {
	handle       *handle.GameHandle
	order        []domain.PluginIdentity
	active       map[string]bool
	visible      []int // indices into order, after filtering
	selected     int   // index into visible
	filter       textinput.Model
	filterActive bool
	err          error
	width        int
	height       int
}

func newModel(h *handle.GameHandle) (*model, error) {
	ti := textinput.New()
	ti.Placeholder = "filter by name..."
	ti.CharLimit = 100
	ti.Width = 40

	m := &model{handle: h, active: map[string]bool{}, filter: ti}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *model) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, id := range m.order {
		if query == "" || strings.Contains(strings.ToLower(id.Name()), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *model) reload() error {
	order, err := m.handle.GetLoadOrder()
	if err != nil {
		return err
	}
	active, err := m.handle.GetActivePlugins()
	if err != nil {
		return err
	}

	m.order = order
	m.active = make(map[string]bool, len(active))
	for _, id := range active {
		m.active[id.Key()] = true
	}
	m.applyFilter()
	return nil
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterActive {
		switch msg.String() {
		case "esc":
			m.filterActive = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		case "enter":
			m.filterActive = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.filterActive = true
		m.filter.Focus()
		return m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		return m, nil

	case " ":
		if len(m.visible) == 0 {
			return m, nil
		}
		id := m.order[m.visible[m.selected]]
		m.err = m.toggleActive(id)
		return m, nil

	case "K":
		if m.selected > 0 {
			m.err = m.movePlugin(m.visible[m.selected], m.visible[m.selected-1])
		}
		return m, nil

	case "J":
		if m.selected < len(m.visible)-1 {
			m.err = m.movePlugin(m.visible[m.selected], m.visible[m.selected+1])
		}
		return m, nil
	}
	return m, nil
}

func (m *model) toggleActive(id domain.PluginIdentity) error {
	if m.active[id.Key()] {
		if err := m.handle.Deactivate(id); err != nil {
			return err
		}
	} else if err := m.handle.Activate(id); err != nil {
		return err
	}
	return m.reload()
}

// movePlugin moves the plugin currently at order index from to order index
// to, 0-based, and re-selects it by position in the (possibly filtered)
// visible list.
func (m *model) movePlugin(from, to int) error {
	id := m.order[from]
	pos := to + 1
	if to > from {
		// Move counts positions in the sequence before id is removed.
		pos++
	}
	if err := m.handle.SetPluginPosition(id, pos); err != nil {
		return err
	}
	if err := m.reload(); err != nil {
		return err
	}
	for i, idx := range m.visible {
		if m.order[idx].Equal(id) {
			m.selected = i
			break
		}
	}
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).MarginBottom(1)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selected   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("205")).Bold(true)
	inactive   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m *model) View() string {
	output := titleStyle.Render("Load Order") + "\n"

	if m.err != nil {
		output += infoStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n\n"
	}

	if m.filterActive {
		output += "Filter: " + m.filter.View() + "\n\n"
	}

	if len(m.order) == 0 {
		return output + itemStyle.Render("No plugins found.") + "\n"
	}
	if len(m.visible) == 0 {
		return output + itemStyle.Render("No plugins match the filter.") + "\n"
	}

	output += infoStyle.Render(fmt.Sprintf("%d/%d plugins shown, %d active  (space: toggle, shift+j/k: move, /: filter, q: quit)", len(m.visible), len(m.order), len(m.active))) + "\n\n"

	for row, idx := range m.visible {
		id := m.order[idx]
		cursor := "  "
		style := itemStyle
		if row == m.selected {
			cursor = "▸ "
			style = selected
		} else if !m.active[id.Key()] {
			style = inactive
		}

		status := "[ ]"
		if m.active[id.Key()] {
			status = "[✓]"
		}

		output += style.Render(fmt.Sprintf("%s%s %d. %s", cursor, status, idx+1, id.Name())) + "\n"
	}

	return output
}
