// Package tui implements the Bubble Tea viewer for saved panel reviews.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calliope-ai/revpanel/internal/report"
)

// Model is the top-level Bubble Tea model for the review browser.
type Model struct {
	reviews []report.SavedReview

	reviewIndex int
	fileIndex   int

	// UI state
	width        int
	height       int
	viewHeight   int
	scrollOffset int
	showHelp     bool

	// Current file content
	lines   []string
	loadErr string
}

// New creates a browser model over the saved reviews. The caller guarantees
// at least one review.
func New(reviews []report.SavedReview) Model {
	m := Model{reviews: reviews}
	m.loadFile()
	return m
}

// Run starts the interactive browser and blocks until it exits.
func Run(reviews []report.SavedReview) error {
	p := tea.NewProgram(New(reviews), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) current() report.SavedReview {
	return m.reviews[m.reviewIndex]
}

func (m *Model) loadFile() {
	m.scrollOffset = 0
	m.lines = nil
	m.loadErr = ""

	files := m.current().Files
	if m.fileIndex >= len(files) {
		m.fileIndex = 0
	}
	data, err := os.ReadFile(files[m.fileIndex].Path)
	if err != nil {
		m.loadErr = err.Error()
		return
	}
	m.lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 5 // title + tabs + borders + help bar
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp

		case key.Matches(msg, keys.Down):
			if m.scrollOffset < m.maxScroll() {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.Up):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.PageDown):
			m.scrollOffset = min(m.scrollOffset+m.viewHeight, m.maxScroll())

		case key.Matches(msg, keys.PageUp):
			m.scrollOffset = max(m.scrollOffset-m.viewHeight, 0)

		case key.Matches(msg, keys.NextReview):
			if m.reviewIndex < len(m.reviews)-1 {
				m.reviewIndex++
				m.fileIndex = 0
				m.loadFile()
			}

		case key.Matches(msg, keys.PrevReview):
			if m.reviewIndex > 0 {
				m.reviewIndex--
				m.fileIndex = 0
				m.loadFile()
			}

		case key.Matches(msg, keys.NextFile):
			if m.fileIndex < len(m.current().Files)-1 {
				m.fileIndex++
				m.loadFile()
			}

		case key.Matches(msg, keys.PrevFile):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.loadFile()
			}
		}
	}

	return m, nil
}

func (m Model) maxScroll() int {
	if len(m.lines) <= m.viewHeight {
		return 0
	}
	return len(m.lines) - m.viewHeight
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder

	title := titleStyle.Render("revpanel") + " " +
		reviewNameStyle.Render(m.current().Name) + " " +
		statusStyle.Render(fmt.Sprintf("(%d/%d)", m.reviewIndex+1, len(m.reviews)))
	b.WriteString(title + "\n")

	b.WriteString(m.renderTabs() + "\n")
	b.WriteString(m.renderContent() + "\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(statusStyle.Render("? help · q quit"))
	}

	return b.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, f := range m.current().Files {
		label := strings.TrimSuffix(f.Name, ".md")
		if i == m.fileIndex {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderContent() string {
	if m.loadErr != "" {
		return contentStyle.Width(m.width - 2).Render(errorStyle.Render("could not read report: " + m.loadErr))
	}

	end := min(m.scrollOffset+m.viewHeight, len(m.lines))
	visible := m.lines[m.scrollOffset:end]

	rendered := make([]string, len(visible))
	for i, line := range visible {
		if strings.HasPrefix(line, "#") {
			rendered[i] = headingStyle.Render(line)
		} else {
			rendered[i] = line
		}
	}

	body := strings.Join(rendered, "\n")
	return contentStyle.Width(m.width - 2).Height(m.viewHeight).Render(body)
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		keys.Up, keys.Down, keys.PageUp, keys.PageDown,
		keys.NextFile, keys.PrevFile, keys.NextReview, keys.PrevReview,
		keys.Quit,
	}
	var parts []string
	for _, b := range bindings {
		parts = append(parts, helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
	}
	return strings.Join(parts, "  ")
}
