package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/jseval/runtime"
	"github.com/wippyai/jseval/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	stackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxHistory bounds the entries kept on screen.
const maxHistory = 50

type entry struct {
	input  string
	output string
	stack  string
	failed bool
}

type replModel struct {
	instance *runtime.Instance
	backend  string
	input    textinput.Model
	history  []entry
	busy     bool
}

type evalMsg struct {
	entry entry
}

func newReplModel(inst *runtime.Instance, backend string) *replModel {
	ti := textinput.New()
	ti.Placeholder = "1 + 1"
	ti.Prompt = promptStyle.Render("js> ")
	ti.Width = 72
	ti.Focus()
	return &replModel{instance: inst, backend: backend, input: ti}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			switch line {
			case ":quit", ":q":
				return m, tea.Quit
			case ":heap":
				m.busy = true
				return m, m.heap
			}
			m.busy = true
			return m, m.evaluate(line)
		}

	case evalMsg:
		m.busy = false
		m.history = append(m.history, msg.entry)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) evaluate(src string) tea.Cmd {
	return func() tea.Msg {
		e := entry{input: src}
		o, err := m.instance.Evaluate(context.Background(), src)
		switch x := o.(type) {
		case nil:
			e.output, e.failed = err.Error(), true
		case value.Ok:
			e.output = fmt.Sprintf("%s (%s)", x.Value.String(), x.Value.Kind)
		case value.Failure:
			e.output = fmt.Sprintf("%s error: %s", x.FailureKind(), x.Exception())
			e.stack = x.Stack()
			e.failed = true
		}
		return evalMsg{entry: e}
	}
}

func (m *replModel) heap() tea.Msg {
	e := entry{input: ":heap"}
	h, err := m.instance.HeapSnapshot(context.Background())
	if err != nil {
		e.output, e.failed = err.Error(), true
		return evalMsg{entry: e}
	}
	e.output = fmt.Sprintf("used %d / total %d / limit %d bytes, %d contexts",
		h.UsedHeapSize, h.TotalHeapSize, h.HeapSizeLimit, h.NumberOfNativeContexts)
	return evalMsg{entry: e}
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("jseval"))
	b.WriteString(" ")
	b.WriteString(m.backend)
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(promptStyle.Render("js> "))
		b.WriteString(e.input)
		b.WriteString("\n")
		if e.failed {
			b.WriteString(errorStyle.Render(e.output))
		} else {
			b.WriteString(resultStyle.Render(e.output))
		}
		b.WriteString("\n")
		if e.stack != "" {
			b.WriteString(stackStyle.Render(e.stack))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(helpStyle.Render("running..."))
	} else {
		b.WriteString(helpStyle.Render("enter evaluate • :heap snapshot • :quit or esc exit"))
	}
	return b.String()
}

func runInteractive(inst *runtime.Instance, backend string) error {
	p := tea.NewProgram(newReplModel(inst, backend))
	_, err := p.Run()
	return err
}
