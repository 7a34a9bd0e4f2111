// Package searchtui provides an interactive incremental-search view
// over a skill index's BM25 search facade: type to filter, arrow keys
// to move, enter to pick one skill and return it to the caller.
package searchtui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runkids/skillhub/internal/search"
	"github.com/runkids/skillhub/internal/skillstate"
)

// item adapts a search.Result plus its skill summary to bubbles/list.
type item struct {
	result  search.Result
	summary *skillstate.SkillSummary
}

func (i item) Title() string {
	return fmt.Sprintf("%s/%s", i.result.Owner, i.result.Name)
}

func (i item) Description() string {
	if i.summary == nil {
		return ""
	}
	desc := i.summary.Description
	if len(desc) > 80 {
		desc = desc[:80] + "..."
	}
	return desc
}

func (i item) FilterValue() string {
	return i.Title() + " " + i.Description()
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	index      *skillstate.SkillIndex
	searcher   *search.SkillSearch
	query      textinput.Model
	list       list.Model
	picked     *search.Result
	cancelled  bool
	termWidth  int
	termHeight int
}

// Result is the outcome of running the interactive search picker.
type Result struct {
	Picked    *search.Result
	Cancelled bool
}

// Run starts the interactive picker over index, pre-seeded with
// initialQuery, and blocks until the user picks a skill or cancels.
func Run(index *skillstate.SkillIndex, initialQuery string) (Result, error) {
	searcher := search.Build(index)

	ti := textinput.New()
	ti.Placeholder = "search skills..."
	ti.SetValue(initialQuery)
	ti.Focus()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "skillhub search"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	m := model{index: index, searcher: searcher, query: ti, list: l}
	m.refresh()

	p := tea.NewProgram(&m)
	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	fm := final.(*model)
	return Result{Picked: fm.picked, Cancelled: fm.cancelled}, nil
}

func (m *model) refresh() {
	q := m.query.Value()
	var hits []search.Result
	if strings.TrimSpace(q) == "" {
		for key := range m.index.Skills {
			hits = append(hits, search.Result{Owner: key.Owner, Name: key.Name, Score: 0})
		}
	} else {
		hits = m.searcher.Search(q, 50)
	}

	items := make([]list.Item, 0, len(hits))
	for _, h := range hits {
		entry := m.index.Skills[skillstate.SkillKey{Owner: h.Owner, Name: h.Name}]
		var summary *skillstate.SkillSummary
		if entry != nil {
			summary = skillstate.SummaryFromEntry(entry)
		}
		items = append(items, item{result: h, summary: summary})
	}
	m.list.SetItems(items)
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if it, ok := m.list.SelectedItem().(item); ok {
				picked := it.result
				m.picked = &picked
			}
			return m, tea.Quit
		case tea.KeyUp, tea.KeyDown, tea.KeyCtrlN, tea.KeyCtrlP:
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		default:
			var cmd tea.Cmd
			m.query, cmd = m.query.Update(msg)
			m.refresh()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("skillhub search") + "\n")
	b.WriteString("> " + m.query.View() + "\n")
	b.WriteString(m.list.View())
	b.WriteString("\n" + hintStyle.Render("enter: install  esc: cancel"))
	return b.String()
}
