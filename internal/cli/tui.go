package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/puncta/pkg/tracks"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// GroupPickerModel - Interactive group selection
// =============================================================================

// GroupPickerModel is the bubbletea model for choosing which groups to
// analyze. All groups start selected.
type GroupPickerModel struct {
	Groups    []tracks.Group
	Picked    []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewGroupPickerModel creates a picker over groups.
func NewGroupPickerModel(groups []tracks.Group) GroupPickerModel {
	picked := make([]bool, len(groups))
	for i := range picked {
		picked[i] = true
	}
	return GroupPickerModel{Groups: groups, Picked: picked, Height: 15}
}

func (m GroupPickerModel) Init() tea.Cmd {
	return nil
}

func (m GroupPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Groups)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space", "x":
			if len(m.Picked) > 0 {
				m.Picked[m.Cursor] = !m.Picked[m.Cursor]
			}
		case "a":
			all := m.count() == len(m.Groups)
			for i := range m.Picked {
				m.Picked[i] = !all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m GroupPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Groups"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ analyze  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Groups))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		g := m.Groups[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Picked[i] {
			box = "[x]"
		}
		rows = append(rows, []string{cursor, box, g.Name, strconv.Itoa(len(g.Samples))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Group", "Samples").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Groups) {
				return lipgloss.NewStyle()
			}
			s := lipgloss.NewStyle()
			if col == 3 {
				s = s.Align(lipgloss.Right)
			}
			switch {
			case idx == m.Cursor && m.Picked[idx]:
				return s.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return s.Foreground(colorGray).Bold(true)
			case m.Picked[idx]:
				return s.Foreground(colorGreen)
			}
			return s.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", m.count(), len(m.Groups))))

	return b.String()
}

func (m GroupPickerModel) count() int {
	n := 0
	for _, p := range m.Picked {
		if p {
			n++
		}
	}
	return n
}

// Selected returns the names of the picked groups, or nil when the picker
// was dismissed without confirming.
func (m GroupPickerModel) Selected() []string {
	if !m.Confirmed {
		return nil
	}
	var names []string
	for i, g := range m.Groups {
		if m.Picked[i] {
			names = append(names, g.Name)
		}
	}
	return names
}

// pickGroups runs the picker and returns the chosen group names.
func pickGroups(groups []tracks.Group) ([]string, error) {
	final, err := tea.NewProgram(NewGroupPickerModel(groups)).Run()
	if err != nil {
		return nil, fmt.Errorf("group picker: %w", err)
	}
	return final.(GroupPickerModel).Selected(), nil
}
