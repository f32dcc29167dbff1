// Package tui provides the interactive review UI for reconciliation
// proposals that scored below the auto-accept threshold.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fmeinberg/kontor/internal/cli"
	"github.com/fmeinberg/kontor/internal/reconcile"
)

// Decision records what the reviewer chose for one proposal.
type Decision int

// Review decisions.
const (
	DecisionSkip Decision = iota
	DecisionAccept
	DecisionIgnore
)

// KeyMap defines the review keyboard shortcuts.
type KeyMap struct {
	Accept key.Binding
	Skip   key.Binding
	Ignore key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Accept: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "accept match"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s", "n"),
			key.WithHelp("s", "skip"),
		),
		Ignore: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "ignore transaction"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model steps through proposals one at a time and collects decisions.
type Model struct {
	keys      KeyMap
	proposals []reconcile.Proposal
	decisions []Decision
	index     int
	done      bool
}

// NewModel creates a review model over the given proposals.
func NewModel(proposals []reconcile.Proposal) *Model {
	return &Model{
		keys:      DefaultKeyMap(),
		proposals: proposals,
		decisions: make([]Decision, len(proposals)),
	}
}

// Decisions returns the collected decisions, indexed like the proposals.
func (m *Model) Decisions() []Decision {
	return m.decisions
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Accept):
		return m.decide(DecisionAccept)
	case key.Matches(keyMsg, m.keys.Skip):
		return m.decide(DecisionSkip)
	case key.Matches(keyMsg, m.keys.Ignore):
		return m.decide(DecisionIgnore)
	}

	return m, nil
}

func (m *Model) decide(d Decision) (tea.Model, tea.Cmd) {
	if m.index >= len(m.proposals) {
		return m, tea.Quit
	}
	m.decisions[m.index] = d
	m.index++
	if m.index >= len(m.proposals) {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done || m.index >= len(m.proposals) {
		return ""
	}

	p := m.proposals[m.index]
	txn := p.Transaction

	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render(
		fmt.Sprintf("Match review %d/%d", m.index+1, len(m.proposals))))
	b.WriteString("\n")

	detail := fmt.Sprintf("%s  %s\n%s\n%s",
		txn.Date.Format("2006-01-02"),
		cli.Euro(txn.Amount),
		txn.CounterpartName,
		cli.SubtleStyle.Render(txn.Purpose))
	b.WriteString(cli.BoxStyle.Render(detail))
	b.WriteString("\n\n")

	confidence := fmt.Sprintf("%.0f%%", p.Confidence*100)
	style := cli.WarningStyle
	if p.Confidence >= reconcile.HighConfidenceThreshold {
		style = cli.SuccessStyle
	}
	b.WriteString(fmt.Sprintf("Proposed: %s #%d  %s  %s  (%s)\n",
		p.Target.Type, p.Target.ID, p.Target.Name,
		cli.Euro(p.Target.Amount), style.Render(confidence)))

	help := lipgloss.JoinHorizontal(lipgloss.Top,
		m.keys.Accept.Help().Key+" "+m.keys.Accept.Help().Desc+"  ",
		m.keys.Skip.Help().Key+" "+m.keys.Skip.Help().Desc+"  ",
		m.keys.Ignore.Help().Key+" "+m.keys.Ignore.Help().Desc+"  ",
		m.keys.Quit.Help().Key+" "+m.keys.Quit.Help().Desc)
	b.WriteString(cli.SubtleStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

// Run displays the review UI and returns the decisions.
func Run(proposals []reconcile.Proposal) ([]Decision, error) {
	model := NewModel(proposals)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, fmt.Errorf("review UI failed: %w", err)
	}
	return model.Decisions(), nil
}
