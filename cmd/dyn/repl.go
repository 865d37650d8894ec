package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dynlib/dynaval/dyn"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	env         map[string]dyn.Value
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "name = {\"json\": true} or :help"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "dyn> "

	return replModel{
		textInput:  ti,
		env:        make(map[string]dyn.Value),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	report := func(output string, isErr bool) {
		m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
	}

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.env = make(map[string]dyn.Value)
		report("Environment reset", false)
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	case ":clone":
		if len(args) != 2 {
			report("Usage: :clone <src> <dst>", true)
			break
		}
		src, ok := m.env[args[0]]
		if !ok {
			report(fmt.Sprintf("Unknown variable: %s", args[0]), true)
			break
		}
		out, err := dyn.Clone(src)
		if err != nil {
			report(err.Error(), true)
			break
		}
		m.env[args[1]] = out
		report(fmt.Sprintf("%s = %s", args[1], out), false)
	case ":eq":
		if len(args) != 2 {
			report("Usage: :eq <a> <b>", true)
			break
		}
		a, okA := m.env[args[0]]
		b, okB := m.env[args[1]]
		if !okA || !okB {
			report("Both names must be defined", true)
			break
		}
		switch {
		case dyn.SameValueZero(a, b):
			report("equal (same node)", false)
		case dyn.Equal(a, b):
			report("equal (distinct nodes)", false)
		default:
			report("not equal", false)
		}
	case ":kind":
		if len(args) != 1 {
			report("Usage: :kind <name>", true)
			break
		}
		v, ok := m.env[args[0]]
		if !ok {
			report(fmt.Sprintf("Unknown variable: %s", args[0]), true)
			break
		}
		report(v.Kind().String(), false)
	case ":keys":
		if len(args) != 1 {
			report("Usage: :keys <name>", true)
			break
		}
		v, ok := m.env[args[0]]
		if !ok {
			report(fmt.Sprintf("Unknown variable: %s", args[0]), true)
			break
		}
		report(describeKeys(v), false)
	default:
		report(fmt.Sprintf("Unknown command: %s", cmd), true)
	}
	return m, nil
}

func describeKeys(v dyn.Value) string {
	switch v.Kind() {
	case dyn.KindObject:
		keys := v.Object().Keys()
		if len(keys) == 0 {
			return "no keys"
		}
		return strings.Join(keys, ", ")
	case dyn.KindArray:
		return fmt.Sprintf("length %d, %d present", v.Array().Len(), v.Array().Present())
	case dyn.KindSet:
		return fmt.Sprintf("%d members", v.Set().Len())
	case dyn.KindMap:
		entries := v.Map().Entries()
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = e.Key.String()
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%s has no keys", v.Kind())
	}
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	words := strings.Fields(input)
	if len(words) == 0 {
		return m
	}
	lastWord := words[len(words)-1]

	var completions []string

	commands := []string{":clone", ":eq", ":kind", ":keys", ":vars", ":reset", ":clear", ":help", ":quit"}
	for _, c := range commands {
		if strings.HasPrefix(c, lastWord) {
			completions = append(completions, c)
		}
	}

	for name := range m.env {
		if strings.HasPrefix(name, lastWord) {
			completions = append(completions, name)
		}
	}
	sort.Strings(completions)

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			input:  "",
			output: "Completions: " + strings.Join(completions, ", "),
			isErr:  false,
		})
	}

	return m
}

// evaluate handles the three input forms: "name = <doc>" binds, a bare
// known name prints, and anything else must be a JSON document, which is
// bound to "_". The right side of a binding may also be a known name, in
// which case both names share one node.
func (m replModel) evaluate(input string) (string, bool) {
	if name, rest, ok := splitBinding(input); ok {
		if existing, isVar := m.env[rest]; isVar {
			m.env[name] = existing
			return fmt.Sprintf("%s = %s", name, existing), false
		}
		v, err := dyn.FromJSON([]byte(rest))
		if err != nil {
			return err.Error(), true
		}
		m.env[name] = v
		return fmt.Sprintf("%s = %s", name, v), false
	}

	if v, ok := m.env[input]; ok {
		return v.String(), false
	}

	v, err := dyn.FromJSON([]byte(input))
	if err != nil {
		return err.Error(), true
	}
	m.env["_"] = v
	return v.String(), false
}

// splitBinding recognizes "name = rest" with a valid identifier on the
// left. "==" never splits, so comparisons fall through to evaluation.
func splitBinding(input string) (name, rest string, ok bool) {
	idx := strings.Index(input, "=")
	if idx <= 0 || idx+1 >= len(input) {
		return "", "", false
	}
	if input[idx+1] == '=' {
		return "", "", false
	}
	name = strings.TrimSpace(input[:idx])
	rest = strings.TrimSpace(input[idx+1:])
	if !isValidIdentifier(name) || rest == "" {
		return "", "", false
	}
	return name, rest, true
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
		} else {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
				return false
			}
		}
	}
	return true
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("dynaval REPL")
	version := mutedStyle.Render("v0.1.0")
	b.WriteString(header + " " + version + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(m.env) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(m.env))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(env map[string]dyn.Value) string {
	if len(env) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s = %s", varNameStyle.Render(name), env[name]))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"x = <json>", "Bind a JSON document to a name"},
		{"x = y", "Alias a name (both share one node)"},
		{"<json>", "Evaluate and bind to _"},
		{":clone a b", "Deep clone a into b"},
		{":eq a b", "Compare two values"},
		{":kind a", "Show a value's kind"},
		{":keys a", "Show keys or sizes"},
		{":vars", "Toggle variables panel"},
		{":clear", "Clear history"},
		{":reset", "Reset environment"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-12s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	p := tea.NewProgram(newREPLModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
