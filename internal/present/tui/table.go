package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/marketeer/internal/history"
)

// BrowseHistory opens an interactive table of history items. It returns
// the item chosen with enter, or nil if the user quit. When store is set,
// "d" deletes the highlighted item.
func BrowseHistory(ctx context.Context, items []history.Item, store history.Store, now time.Time) (*history.Item, error) {
	m := newModel(ctx, items, store, now)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	fm, ok := final.(model)
	if !ok || fm.showIdx < 0 || fm.showIdx >= len(fm.items) {
		return nil, nil
	}
	sel := fm.items[fm.showIdx]
	return &sel, nil
}

type deleteResultMsg struct {
	idx int
	id  string
	err error
	dur time.Duration
}

type model struct {
	ctx     context.Context
	table   table.Model
	items   []history.Item
	store   history.Store
	now     time.Time
	showIdx int
	status  string
}

func newModel(ctx context.Context, items []history.Item, store history.Store, now time.Time) model {
	m := model{
		ctx:     ctx,
		items:   append([]history.Item(nil), items...),
		store:   store,
		now:     now,
		showIdx: -1,
	}
	cols := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Query", Width: 48},
		{Title: "Agents", Width: 36},
		{Title: "When", Width: 10},
	}
	m.table = table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(min(12, max(3, len(items)+1))),
	)
	// Basic styling
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
	m.updateRows()
	return m
}

func (m *model) updateRows() {
	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		when := it.Result.Timestamp
		if when.IsZero() {
			when = it.AddedAt
		}
		rows = append(rows, table.Row{
			it.ID,
			history.Truncate(it.Result.Query, 45),
			strings.Join(history.AgentBadges(it.Result.SelectedAgents), ", "),
			history.TimeAgo(m.now, when),
		})
	}
	m.table.SetRows(rows)
}

func (m model) deleteCmd(idx int) tea.Cmd {
	id := m.items[idx].ID
	store := m.store
	ctx := m.ctx
	return func() tea.Msg {
		start := time.Now()
		err := store.Delete(ctx, id)
		return deleteResultMsg{idx: idx, id: id, err: err, dur: time.Since(start)}
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deleteResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", msg.err)
			return m, nil
		}
		if msg.idx >= 0 && msg.idx < len(m.items) && m.items[msg.idx].ID == msg.id {
			m.items = append(m.items[:msg.idx], m.items[msg.idx+1:]...)
		}
		m.updateRows()
		cur := min(msg.idx, len(m.items)-1)
		m.table.SetCursor(max(cur, 0))
		m.status = fmt.Sprintf("Deleted %s (%s)", msg.id, msg.dur.Round(time.Millisecond))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.items) {
				m.showIdx = idx
			}
			return m, tea.Quit
		case "d":
			idx := m.table.Cursor()
			if m.store != nil && idx >= 0 && idx < len(m.items) {
				return m, m.deleteCmd(idx)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if len(m.items) == 0 {
		return "(no history)\nq to exit\n"
	}
	help := "↑/↓ to navigate • enter to view • q to exit"
	if m.store != nil {
		help = "↑/↓ to navigate • enter to view • d to delete • q to exit"
	}
	out := m.table.View() + "\n" + help + "\n"
	if m.status != "" {
		out += m.status + "\n"
	}
	return out
}
