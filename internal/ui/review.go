// Package ui provides the interactive feedback review screen. It walks
// the latest curated batch and turns keystrokes into feedback signals.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/curator/internal/curation"
	"github.com/abelbrown/curator/internal/feedback"
	"github.com/abelbrown/curator/internal/logging"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	approvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// reviewItem adapts a curated article to the list component
type reviewItem struct {
	article curation.ScoredCandidate
	verdict feedback.Signal // empty until judged
}

func (i reviewItem) Title() string {
	prefix := ""
	switch i.verdict {
	case feedback.SignalApprove:
		prefix = approvedStyle.Render("✓ ")
	case feedback.SignalReject:
		prefix = rejectedStyle.Render("✗ ")
	}
	return prefix + i.article.Title
}

func (i reviewItem) Description() string {
	return fmt.Sprintf("%s · %s · score %.0f · %s",
		i.article.Source.Name, i.article.Section, i.article.Score, i.article.Reason)
}

func (i reviewItem) FilterValue() string {
	return i.article.Title
}

// Model is the review screen state
type Model struct {
	list     list.Model
	adapter  *feedback.Adapter
	judged   int
	total    int
	lastErr  error
	quitting bool
}

// NewModel creates a review screen over the latest run's articles
func NewModel(articles []curation.ScoredCandidate, adapter *feedback.Adapter) Model {
	items := make([]list.Item, len(articles))
	for i, a := range articles {
		items[i] = reviewItem{article: a}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = "Review today's batch"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:    l,
		adapter: adapter,
		total:   len(articles),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "a":
			return m.judge(feedback.SignalApprove)
		case "r":
			return m.judge(feedback.SignalReject)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// judge applies the signal to the selected article and advances
func (m Model) judge(sig feedback.Signal) (tea.Model, tea.Cmd) {
	idx := m.list.Index()
	item, ok := m.list.SelectedItem().(reviewItem)
	if !ok {
		return m, nil
	}

	if err := m.adapter.Apply(item.article.Candidate, sig); err != nil {
		m.lastErr = err
		logging.Error("Feedback from review screen failed", "error", err)
		return m, nil
	}

	// Count each article once, and only once it actually applied
	if item.verdict == "" {
		m.judged++
	}
	item.verdict = sig
	m.lastErr = nil
	m.list.SetItem(idx, item)
	m.list.CursorDown()
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return statusStyle.Render(fmt.Sprintf("Reviewed %d of %d articles.\n", m.judged, m.total))
	}

	status := fmt.Sprintf("%d/%d judged", m.judged, m.total)
	if m.lastErr != nil {
		status = rejectedStyle.Render("error: " + m.lastErr.Error())
	}

	return titleStyle.Render("curator review") + "\n" +
		m.list.View() + "\n" +
		statusStyle.Render(status) +
		helpStyle.Render("\na approve · r reject · ↑/↓ move · q quit")
}
