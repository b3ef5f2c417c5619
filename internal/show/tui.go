package show

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/QuesmaOrg/worklog/internal/display"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

// Styles
var (
	// Panel styles
	listPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	detailPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Selection styles
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("255"))

	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// Tree indent
	indentStr = "  "

	// Expansion indicators
	expandedIndicator   = "▼"
	collapsedIndicator  = "▶"
	nonExpandablePrefix = " "
)

const timeLayout = "2006-01-02 15:04:05"

// model is the Bubble Tea model for the TUI
type model struct {
	tree       *Tree
	visible    []Node
	cursor     int
	listOffset int
	detail     viewport.Model
	width      int
	height     int
	title      string
	quitting   bool
}

// NewModel creates a new TUI model over an already built tree
func NewModel(tree *Tree, title string) tea.Model {
	return newModel(tree, title)
}

func newModel(tree *Tree, title string) model {
	return model{
		tree:    tree,
		visible: tree.FlattenVisible(),
		detail:  viewport.New(0, 0),
		title:   title,
	}
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	prevCursor := m.cursor

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		// Navigation
		case "j", "down":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(len(m.visible)-1, 0)
		case "ctrl+d":
			m.cursor = max(min(m.cursor+m.listHeight()/2, len(m.visible)-1), 0)
		case "ctrl+u":
			m.cursor = max(m.cursor-m.listHeight()/2, 0)

		// Detail pane scrolling
		case "J", "shift+down":
			m.detail.SetYOffset(m.detail.YOffset + 1)
		case "K", "shift+up":
			m.detail.SetYOffset(m.detail.YOffset - 1)

		// Expand/Collapse
		case "e", "enter", "l", "right":
			m.tree.Expand(m.visible, m.cursor)
			m.visible = m.tree.FlattenVisible()
		case "c", "h", "left":
			m.tree.Collapse(m.visible, m.cursor)
			m.visible = m.tree.FlattenVisible()
		case " ":
			m.tree.ToggleExpand(m.visible, m.cursor)
			m.visible = m.tree.FlattenVisible()
		case "E":
			m.tree.ExpandAll()
			m.visible = m.tree.FlattenVisible()
		case "C":
			m.tree.CollapseAll()
			m.visible = m.tree.FlattenVisible()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		_, detailWidth, contentHeight := m.panelSizes()
		m.detail.Width = max(detailWidth-2, 5)
		m.detail.Height = max(contentHeight-2, 3)
	}

	// Ensure cursor stays in bounds
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}

	// Adjust list scroll to keep cursor visible
	m.adjustListScroll()

	offset := m.detail.YOffset
	m.detail.SetContent(m.renderDetail(m.detail.Width))
	if m.cursor == prevCursor {
		m.detail.SetYOffset(offset)
	} else {
		m.detail.GotoTop()
	}

	return m, nil
}

// View implements tea.Model
func (m model) View() string {
	if m.quitting {
		return ""
	}

	if len(m.visible) == 0 {
		return "No work blocks to display\n"
	}

	// Wait for terminal dimensions
	if m.width < 20 || m.height < 10 {
		return "Loading..."
	}

	listWidth, detailWidth, contentHeight := m.panelSizes()

	listPanel := m.renderList(max(listWidth-2, 5), max(contentHeight-2, 3))

	listPanel = listPanelStyle.
		Width(max(listWidth-2, 5)).
		Height(max(contentHeight-2, 3)).
		Render(listPanel)

	detailPanel := detailPanelStyle.
		Width(max(detailWidth-2, 5)).
		Height(max(contentHeight-2, 3)).
		Render(m.detail.View())

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

// panelSizes splits the terminal between the list and detail panels,
// leaving a line for the status bar.
func (m model) panelSizes() (listWidth, detailWidth, contentHeight int) {
	contentHeight = max(m.height-3, 5)
	listWidth = max(m.width*2/5, 10)
	detailWidth = max(m.width-listWidth-1, 10)
	return listWidth, detailWidth, contentHeight
}

// renderList renders the tree list panel
func (m model) renderList(width, height int) string {
	var lines []string

	visibleStart := m.listOffset
	visibleEnd := min(m.listOffset+height, len(m.visible))

	for i := visibleStart; i < visibleEnd; i++ {
		lines = append(lines, m.renderTreeLine(m.visible[i], width, i == m.cursor))
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// renderTreeLine renders a single tree line
func (m model) renderTreeLine(node Node, width int, selected bool) string {
	indent := strings.Repeat(indentStr, node.Depth())

	var indicator string
	if node.IsExpandable() {
		if node.IsExpanded() {
			indicator = expandedIndicator
		} else {
			indicator = collapsedIndicator
		}
	} else {
		indicator = nonExpandablePrefix
	}

	line := display.TruncateText(fmt.Sprintf("%s%s %s", indent, indicator, node.Label()), width)

	if w := lipgloss.Width(line); w < width {
		line += strings.Repeat(" ", width-w)
	}

	if selected {
		line = selectedStyle.Render(line)
	}

	return line
}

// renderDetail renders the detail panel content for the selected node
func (m model) renderDetail(width int) string {
	if m.cursor >= len(m.visible) {
		return "No selection"
	}

	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + value + "\n")
	}

	switch n := m.visible[m.cursor].(type) {
	case *DayNode:
		day := n.Day
		row("Day:", display.DayHeader(day.Date))
		row("Blocks:", fmt.Sprintf("%d", len(day.Blocks)))
		row("Active:", fmt.Sprintf("%s (%s)", display.DurationLabel(day.TotalMinutes), display.Hours(day.TotalMinutes)))
		row("Prompts:", fmt.Sprintf("%d", day.TotalPrompts))
		if len(day.Blocks) > 0 {
			row("Window:", fmt.Sprintf("%s → %s",
				display.Clock(day.Blocks[0].Start), display.Clock(day.Blocks[len(day.Blocks)-1].End)))
		}
		sb.WriteString("\n")
		for i, b := range day.Blocks {
			sb.WriteString(fmt.Sprintf("%-3d %s %s\n", i+1,
				barStyle.Render(fmt.Sprintf("%-30s", display.Bar(b.ActiveMinutes, day.MaxBlockMinutes))),
				display.DurationLabel(b.ActiveMinutes)))
		}

	case *BlockNode:
		b := n.Block
		row("Block:", fmt.Sprintf("#%d", n.Index))
		row("Started:", b.Start.Format(timeLayout))
		row("Stopped:", b.End.Format(timeLayout))
		row("Span:", display.DurationLabel(b.End.Sub(b.Start).Minutes()))
		row("Active:", display.DurationLabel(b.ActiveMinutes))
		row("Prompts:", fmt.Sprintf("%d", b.Prompts))
		row("Avg gap:", display.GapLabel(b.AvgPromptGap))
		sb.WriteString("\n")
		sb.WriteString(barStyle.Render(display.Bar(b.ActiveMinutes, n.DayMaximum)))
		sb.WriteString("\n")
		if len(n.PromptTimes) > 0 && !n.IsExpanded() {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat("─", max(min(width-2, 40), 0)))
			sb.WriteString(fmt.Sprintf("\nPrompts (%d) - press 'e' to expand\n", len(n.PromptTimes)))
		}

	case *PromptNode:
		row("Prompt:", n.At.Format(timeLayout))
		if n.Gap > 0 {
			row("Since prev:", display.GapLabel(n.Gap.Seconds()))
		} else {
			row("Since prev:", "-")
		}
	}

	return sb.String()
}

// renderStatusBar renders the status bar
func (m model) renderStatusBar() string {
	position := fmt.Sprintf("%d/%d", m.cursor+1, len(m.visible))
	context := fmt.Sprintf("%d days, %d blocks, %s", m.tree.TotalDays, m.tree.TotalBlocks, display.Hours(m.tree.TotalMinutes))
	help := "j/k:nav  e:expand  c:collapse  E/C:all  J/K:scroll  q:quit"

	status := fmt.Sprintf(" %s | %s | %s", position, context, help)
	if m.title != "" {
		status = fmt.Sprintf(" %s |%s", m.title, status)
	}

	return statusBarStyle.Width(m.width).Render(status)
}

func (m model) listHeight() int {
	return max(m.height-5, 1) // Account for borders and status bar
}

func (m *model) adjustListScroll() {
	visibleHeight := m.listHeight()

	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}

	if m.cursor >= m.listOffset+visibleHeight {
		m.listOffset = m.cursor - visibleHeight + 1
	}
}

// RunTUI starts the interactive browser for a report
func RunTUI(rep *worklog.Report, grouped []worklog.DayEvents, title string) error {
	p := tea.NewProgram(NewModel(BuildTree(rep, grouped), title), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
