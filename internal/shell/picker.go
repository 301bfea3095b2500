package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// pickItem is one selectable entry of the interactive picker.
type pickItem struct {
	title string
	desc  string
}

func (i pickItem) Title() string       { return i.title }
func (i pickItem) Description() string { return i.desc }
func (i pickItem) FilterValue() string { return i.title }

// pickModel drives the bubbletea list used when a pattern matches several
// entities. choice stays -1 when selection is cancelled.
type pickModel struct {
	list   list.Model
	choice int
}

func newPickModel(title string, items []pickItem) pickModel {
	entries := make([]list.Item, len(items))
	for i, item := range items {
		entries[i] = item
	}
	l := list.New(entries, list.NewDefaultDelegate(), 0, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	return pickModel{list: l, choice: -1}
}

func (m pickModel) Init() tea.Cmd { return nil }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.choice = m.list.Index()
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickModel) View() string { return m.list.View() }

// pick asks the user to choose one of items, returning its index or -1 for
// a cancelled selection. On a terminal this is an interactive list; on
// anything else it degrades to a numeric prompt.
func (s *Shell) pick(title string, items []pickItem) int {
	if !s.isTTY {
		return s.pickNumeric(title, items)
	}
	final, err := tea.NewProgram(newPickModel(title, items)).Run()
	if err != nil {
		return s.pickNumeric(title, items)
	}
	return final.(pickModel).choice
}

// pickNumeric is the non-interactive fallback: indexed listing plus a
// numeric prompt. Empty input cancels.
func (s *Shell) pickNumeric(title string, items []pickItem) int {
	fmt.Fprintln(s.out, title)
	for i, item := range items {
		fmt.Fprintf(s.out, "(%d) %s\n", i, item.title)
	}
	for {
		fmt.Fprintf(s.out, "Choose (range 0:%d): ", len(items)-1)
		line, err := s.readLine()
		if err != nil {
			fmt.Fprintln(s.out)
			return -1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return -1
		}
		index, err := strconv.Atoi(line)
		if err != nil || index < 0 || index >= len(items) {
			continue
		}
		return index
	}
}
