package inspect

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UI States
type state int

const (
	stateList state = iota
	stateDetail
)

// BrowseConfig represents browser layout settings
type BrowseConfig struct {
	RowsPerPage int
}

type model struct {
	report   *Report
	visible  []int // indexes into report.Findings
	onlyBad  bool
	state    state
	cursor   int
	page     int
	perPage  int
	width    int
	height   int
	quitting bool

	// Styling
	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	formulaStyle  lipgloss.Style
	frozenStyle   lipgloss.Style
}

func initialModel(r *Report, cfg BrowseConfig) model {
	perPage := cfg.RowsPerPage
	if perPage <= 0 {
		perPage = 15
	}
	m := model{
		report:  r,
		state:   stateList,
		perPage: perPage,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		formulaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Padding(0, 1),
		frozenStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1),
	}
	m.refilter()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.perPage = m.height - 8
		if m.perPage < 5 {
			m.perPage = 5
		}
		m.clamp()
	case tea.KeyMsg:
		switch m.state {
		case stateList:
			return m.updateList(msg)
		case stateDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else if m.page > 0 {
			m.page--
			m.cursor = m.perPage - 1
		}
	case "down", "j":
		if m.cursor < m.maxCursor() {
			m.cursor++
		} else if m.hasNextPage() {
			m.page++
			m.cursor = 0
		}
	case "left", "h":
		if m.page > 0 {
			m.page--
		}
	case "right", "l":
		if m.hasNextPage() {
			m.page++
			m.clamp()
		}
	case "f":
		// Toggle frozen-only filter
		m.onlyBad = !m.onlyBad
		m.refilter()
	case "enter":
		if _, ok := m.selected(); ok {
			m.state = stateDetail
		}
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "esc", "enter", "backspace":
		m.state = stateList
	}
	return m, nil
}

// Helper functions
func (m *model) refilter() {
	m.visible = m.visible[:0]
	for i, f := range m.report.Findings {
		if m.onlyBad && !f.Frozen {
			continue
		}
		m.visible = append(m.visible, i)
	}
	m.page, m.cursor = 0, 0
}

func (m *model) clamp() {
	if (m.page)*m.perPage >= len(m.visible) && m.page > 0 {
		m.page = (len(m.visible) - 1) / m.perPage
	}
	if m.cursor > m.maxCursor() {
		m.cursor = max(m.maxCursor(), 0)
	}
}

func (m model) maxCursor() int {
	onPage := len(m.visible) - m.page*m.perPage
	if onPage > m.perPage {
		return m.perPage - 1
	}
	return onPage - 1
}

func (m model) hasNextPage() bool {
	return (m.page+1)*m.perPage < len(m.visible)
}

func (m model) selected() (Finding, bool) {
	idx := m.page*m.perPage + m.cursor
	if idx < 0 || idx >= len(m.visible) {
		return Finding{}, false
	}
	return m.report.Findings[m.visible[idx]], true
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	switch m.state {
	case stateList:
		return m.viewList()
	case stateDetail:
		return m.viewDetail()
	}
	return ""
}

func (m model) viewList() string {
	var b strings.Builder

	// Title
	b.WriteString(m.titleStyle.Render("Formula Inspector: " + m.report.File))
	b.WriteString("\n\n")

	// Summary
	formulas := 0
	for _, f := range m.report.Findings {
		if f.IsFormula {
			formulas++
		}
	}
	summary := fmt.Sprintf("%d cells, %d formulas, %d frozen", len(m.report.Findings), formulas, m.report.Frozen())
	if len(m.report.Skipped) > 0 {
		summary += fmt.Sprintf(", skipped: %s", strings.Join(m.report.Skipped, ", "))
	}
	b.WriteString(summary)
	b.WriteString("\n")

	// Page info
	totalPages := int(math.Ceil(float64(len(m.visible)) / float64(m.perPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	pageInfo := fmt.Sprintf("Page %d/%d", m.page+1, totalPages)
	if m.onlyBad {
		pageInfo += " (frozen only)"
	}
	b.WriteString(m.helpStyle.Render(pageInfo))
	b.WriteString("\n\n")

	start := m.page * m.perPage
	end := min(start+m.perPage, len(m.visible))
	for i := start; i < end; i++ {
		f := m.report.Findings[m.visible[i]]
		text := fmt.Sprintf("%-24s %-5s %s", truncate(f.Sheet, 24), f.Cell, truncate(f.Label, 24))

		style := m.normalStyle
		switch {
		case f.Frozen:
			style = m.frozenStyle
		case f.IsFormula:
			style = m.formulaStyle
		}
		if i-start == m.cursor {
			style = m.selectedStyle
			text = "> " + text
		} else {
			text = "  " + text
		}
		b.WriteString(style.Render(text))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	// Help
	help := "↑↓: navigate | ←→: prev/next page | Enter: details | f: frozen only | q: quit"
	b.WriteString(m.helpStyle.Render(help))

	return b.String()
}

func (m model) viewDetail() string {
	f, ok := m.selected()
	if !ok {
		return ""
	}
	var b strings.Builder

	b.WriteString(m.titleStyle.Render(fmt.Sprintf("%s!%s", f.Sheet, f.Cell)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Header:  %s\n", f.Label))
	b.WriteString(fmt.Sprintf("Value:   %s\n", quoteValue(f.Value)))
	if f.IsFormula {
		b.WriteString(fmt.Sprintf("Formula: =%s\n", f.Formula))
	} else if f.Frozen {
		b.WriteString(m.frozenStyle.Render("Literal value where a formula is expected"))
		b.WriteString("\n")
	} else {
		b.WriteString("Formula: (none)\n")
	}
	if a := f.Analysis; a != nil {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Functions: %s\n", strings.Join(a.Functions, ", ")))
		b.WriteString(fmt.Sprintf("Sheets:    %s\n", strings.Join(a.Sheets, ", ")))
		b.WriteString(fmt.Sprintf("Ranges:    %s\n", strings.Join(a.Ranges, ", ")))
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("Esc: back | q: quit"))

	return b.String()
}

// Browse starts the interactive finding browser
func Browse(r *Report, cfg BrowseConfig) error {
	if len(r.Findings) == 0 {
		return fmt.Errorf("nothing to browse in %s", r.File)
	}

	p := tea.NewProgram(initialModel(r, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
