package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/numrt/export"
	"github.com/wippyai/numrt/host"
)

// theme holds the explorer's styles.
var theme = struct {
	title, symbol, typ, cursor, ok, fail, help lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1),
	symbol: lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
	typ:    lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
	cursor: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")),
	ok:   lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
	fail: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	help: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
}

// visibleRows is how many exports the list shows at once.
const visibleRows = 15

type screen int

const (
	screenList screen = iota
	screenArgs
	screenResult
)

// explorer browses the export table and evaluates one export at a time.
type explorer struct {
	err     error
	host    *host.Host
	eval    *evaluator
	result  string
	all     []*export.Export
	shown   []*export.Export
	filter  textinput.Model
	args    []textinput.Model
	cursor  int
	focused int
	screen  screen
}

func newExplorer(h *host.Host) *explorer {
	filter := textinput.New()
	filter.Prompt = "filter: "
	filter.Placeholder = "add_saturated.i8"
	filter.Width = 40
	filter.Focus()

	all := h.Table().All()
	return &explorer{
		host:   h,
		eval:   &evaluator{host: h},
		all:    all,
		shown:  all,
		filter: filter,
	}
}

type evalDone struct {
	err    error
	result string
}

func (m *explorer) Init() tea.Cmd {
	return textinput.Blink
}

func (m *explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evalDone:
		m.result, m.err = msg.result, msg.err
		m.screen = screenResult
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenList:
			return m.updateList(msg)
		case screenArgs:
			return m.updateArgs(msg)
		case screenResult:
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
				m.result, m.err = "", nil
				m.screen = screenList
			}
			return m, nil
		}
	}
	return m, m.forward(msg)
}

func (m *explorer) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyPgUp:
		m.move(-visibleRows)
	case tea.KeyPgDown:
		m.move(visibleRows)
	case tea.KeyEsc:
		if m.filter.Value() == "" {
			return m, tea.Quit
		}
		m.filter.SetValue("")
		m.refilter()
	case tea.KeyEnter:
		if len(m.shown) == 0 {
			return m, nil
		}
		m.openArgs()
		if len(m.args) == 0 {
			return m, m.evaluate
		}
		m.screen = screenArgs
	default:
		before := m.filter.Value()
		cmd := m.forward(msg)
		if m.filter.Value() != before {
			m.refilter()
		}
		return m, cmd
	}
	return m, nil
}

func (m *explorer) updateArgs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		m.focus(m.focused + 1)
	case tea.KeyShiftTab:
		m.focus(m.focused - 1)
	case tea.KeyEnter:
		return m, m.evaluate
	case tea.KeyEsc:
		m.args = nil
		m.screen = screenList
	default:
		return m, m.forward(msg)
	}
	return m, nil
}

// forward hands msg to whichever text input has focus.
func (m *explorer) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.screen == screenList:
		m.filter, cmd = m.filter.Update(msg)
	case m.screen == screenArgs && len(m.args) > 0:
		m.args[m.focused], cmd = m.args[m.focused].Update(msg)
	}
	return cmd
}

func (m *explorer) move(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.shown)-1))
}

func (m *explorer) focus(i int) {
	if len(m.args) == 0 {
		return
	}
	m.args[m.focused].Blur()
	m.focused = (i%len(m.args) + len(m.args)) % len(m.args)
	m.args[m.focused].Focus()
}

func (m *explorer) refilter() {
	q := m.filter.Value()
	m.shown = m.shown[:0:0]
	for _, e := range m.all {
		if strings.Contains(e.Symbol, q) {
			m.shown = append(m.shown, e)
		}
	}
	m.cursor = 0
}

func (m *explorer) openArgs() {
	e := m.shown[m.cursor]
	m.args = make([]textinput.Model, len(e.Args))
	for i, a := range e.Args {
		in := textinput.New()
		in.Prompt = a.Name + ": "
		in.Placeholder = strings.TrimPrefix(a.String(), a.Name+": ")
		in.Width = 40
		m.args[i] = in
	}
	m.focused = 0
	if len(m.args) > 0 {
		m.args[0].Focus()
	}
}

// evaluate runs the selected export with the typed arguments.
func (m *explorer) evaluate() tea.Msg {
	e := m.shown[m.cursor]
	raw := make([]string, len(m.args))
	for i, in := range m.args {
		raw[i] = strings.TrimSpace(in.Value())
	}
	out, err := m.eval.eval(context.Background(), e, raw)
	return evalDone{result: out, err: err}
}

func (m *explorer) View() string {
	var b strings.Builder
	b.WriteString(theme.title.Render("numrt"))
	fmt.Fprintf(&b, " %d exports in module %q\n\n", len(m.all), m.host.ModuleName())

	switch m.screen {
	case screenList:
		m.viewList(&b)
	case screenArgs:
		e := m.shown[m.cursor]
		fmt.Fprintf(&b, "Calling %s\n\n", theme.symbol.Render(e.Symbol))
		for i, in := range m.args {
			b.WriteString(in.View())
			b.WriteString(" ")
			b.WriteString(theme.typ.Render(e.Args[i].String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(theme.help.Render("tab/shift+tab field • enter call • esc back"))
	case screenResult:
		e := m.shown[m.cursor]
		fmt.Fprintf(&b, "%s\n\n", e.Describe())
		if m.err != nil {
			b.WriteString(theme.fail.Render("Error: " + m.err.Error()))
		} else {
			b.WriteString(theme.ok.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.help.Render("enter/esc back • ctrl+c quit"))
	}
	return b.String()
}

func (m *explorer) viewList(b *strings.Builder) {
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	if len(m.shown) == 0 {
		b.WriteString(theme.help.Render("no matching exports"))
		b.WriteString("\n")
	}
	start := max(0, min(m.cursor-visibleRows/2, len(m.shown)-visibleRows))
	end := min(len(m.shown), start+visibleRows)
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(theme.cursor.Render("> " + m.shown[i].Describe()))
		} else {
			b.WriteString("  " + styledExport(m.shown[i]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.help.Render(fmt.Sprintf(
		"%d/%d • ↑/↓ pgup/pgdn move • type to filter • enter call • esc clear/quit",
		m.cursor+1, len(m.shown))))
}

func styledExport(e *export.Export) string {
	params := make([]string, len(e.Args))
	for i, a := range e.Args {
		params[i] = theme.typ.Render(a.String())
	}
	return theme.symbol.Render(e.Symbol) + "(" + strings.Join(params, ", ") + ") -> " + theme.typ.Render(e.Out.String())
}

func runInteractive(cfg config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}

	ctx := context.Background()
	h, err := host.New(ctx, cfg.hostConfig())
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	defer h.Close(ctx)

	_, err = tea.NewProgram(newExplorer(h), tea.WithAltScreen()).Run()
	return err
}
