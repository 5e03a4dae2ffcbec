// Package playground provides an interactive editing surface: LaTeX math
// typed into an input line is parsed on every keystroke and the canonical
// form, parse tree, and any syntax error are rendered live.
package playground

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
	"github.com/MarcDevWorkspace/mathpad/internal/log"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#54A0FF"))
	inputStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#BBBBBB"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
	outlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAACC"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Model holds the playground state: the raw input buffer, a cursor into
// it (in UTF-16 code units, matching the span model), and the result of
// the last parse.
type Model struct {
	input  string
	cursor int // UTF-16 offset into input
	opts   latex.Options

	root      *latex.Sequence
	canonical string
	parseErr  error

	width    int
	height   int
	quitting bool
}

// New creates a playground model with an empty buffer.
func New(opts latex.Options) Model {
	m := Model{opts: opts}
	m.reparse()
	return m
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
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyLeft:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyRight:
		if m.cursor < latex.UTF16Len(m.input) {
			m.cursor++
		}
		return m, nil

	case tea.KeyHome, tea.KeyCtrlA:
		m.cursor = 0
		return m, nil

	case tea.KeyEnd, tea.KeyCtrlE:
		m.cursor = latex.UTF16Len(m.input)
		return m, nil

	case tea.KeyBackspace:
		if m.cursor > 0 {
			m.splice(m.cursor-1, m.cursor, "")
			m.cursor--
		}
		return m, nil

	case tea.KeyDelete:
		if m.cursor < latex.UTF16Len(m.input) {
			m.splice(m.cursor, m.cursor+1, "")
		}
		return m, nil

	case tea.KeyCtrlU:
		m.input = ""
		m.cursor = 0
		m.reparse()
		return m, nil

	case tea.KeySpace:
		m.insert(" ")
		return m, nil

	case tea.KeyRunes:
		m.insert(string(msg.Runes))
		return m, nil
	}
	return m, nil
}

func (m *Model) insert(s string) {
	m.splice(m.cursor, m.cursor, s)
	m.cursor += latex.UTF16Len(s)
}

// splice edits the [start, end) UTF-16 range of the input and reparses.
func (m *Model) splice(start, end int, insert string) {
	a := latex.UTF16ToByte(m.input, start)
	b := latex.UTF16ToByte(m.input, end)
	m.input = m.input[:a] + insert + m.input[b:]
	m.reparse()
}

func (m *Model) reparse() {
	root, err := latex.ParseWith(m.input, m.opts)
	if err != nil {
		// Keep the last good tree; the error pane shows what's wrong.
		m.parseErr = err
		log.Debug(log.CatUI, "Parse failed", "input", m.input, "error", err)
		return
	}
	m.root = root
	m.canonical = latex.ToLatex(root)
	m.parseErr = nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("mathpad playground"))
	b.WriteString("\n\n")

	b.WriteString(inputStyle.Render(m.inputLine()))
	b.WriteString("\n\n")

	if m.parseErr != nil {
		b.WriteString(errorStyle.Render(m.errorView()))
	} else {
		b.WriteString(labelStyle.Render("canonical: "))
		b.WriteString(okStyle.Render(m.canonical))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("tree:"))
		b.WriteString("\n")
		b.WriteString(outlineStyle.Render(latex.Outline(m.root)))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type LaTeX math · ←/→ move · ctrl+u clear · esc quit"))
	return b.String()
}

// inputLine renders the buffer with a visible cursor marker.
func (m Model) inputLine() string {
	at := latex.UTF16ToByte(m.input, m.cursor)
	return m.input[:at] + "▏" + m.input[at:]
}

func (m Model) errorView() string {
	var perr *latex.ParseError
	if errors.As(m.parseErr, &perr) {
		return fmt.Sprintf("%s\n%s", perr.Error(), perr.Snippet(m.input))
	}
	return m.parseErr.Error()
}
