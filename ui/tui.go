// tasks/ui/tui.go
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// TUIOption configures the terminal front end.
type TUIOption func(*tuiModel)

// WithRequestTimeout bounds each server call made from a key press.
func WithRequestTimeout(d time.Duration) TUIOption {
	return func(m *tuiModel) {
		m.timeout = d
	}
}

// RunTUI runs the terminal front end until the user quits or ctx ends.
func RunTUI(ctx context.Context, ctrl *Controller, opts ...TUIOption) error {
	model := newTUIModel(ctx, ctrl, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// resultMsg carries a finished server round trip back to Update.
type resultMsg struct {
	res result
}

type tuiModel struct {
	ctx      context.Context
	ctrl     *Controller
	timeout  time.Duration
	selected int
	focus    Field
	status   string
	busy     bool
	width    int
}

func newTUIModel(ctx context.Context, ctrl *Controller, opts ...TUIOption) *tuiModel {
	m := &tuiModel{
		ctx:     ctx,
		ctrl:    ctrl,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return m.run(m.ctrl.loadRequest())
}

// run turns req into a command so the server call happens outside Update.
// Keys other than ctrl+c are ignored until its resultMsg arrives.
func (m *tuiModel) run(req request) tea.Cmd {
	if req == nil {
		return nil
	}
	m.busy = true
	parent, timeout := m.ctx, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return resultMsg{res: req(ctx)}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.busy = false
		m.status = ""
		if err := m.ctrl.apply(msg.res); err != nil {
			m.status = err.Error()
		}
		m.clampSelection()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.ctrl.State().Dialog {
		case DialogClosed:
			return m.updateList(msg)
		case DialogOpen:
			return m.updateForm(msg)
		case DialogConfirmDiscard, DialogConfirmDelete:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.ctrl.State().Tasks

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(tasks)-1 {
			m.selected++
		}
	case "n", "a":
		m.focus = FieldTitle
		m.ctrl.OpenForm()
	case "e", "enter":
		if len(tasks) > 0 {
			m.focus = FieldTitle
			if err := m.ctrl.BeginEdit(tasks[m.selected].ID); err != nil {
				m.status = err.Error()
			}
		}
	case "d", "x":
		if len(tasks) > 0 {
			m.ctrl.RequestDelete(tasks[m.selected].ID)
		}
	case "r":
		return m, m.run(m.ctrl.loadRequest())
	}
	return m, nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctrl.CloseForm()
	case tea.KeyTab, tea.KeyDown:
		m.focus = Fields[(int(m.focus)+1)%len(Fields)]
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = Fields[(int(m.focus)+len(Fields)-1)%len(Fields)]
	case tea.KeyEnter, tea.KeyCtrlS:
		return m, m.run(m.ctrl.submitRequest())
	case tea.KeyBackspace:
		value := []rune(m.ctrl.State().Form.Get(m.focus))
		if len(value) > 0 {
			m.ctrl.SetField(m.focus, string(value[:len(value)-1]))
		}
	case tea.KeySpace:
		m.ctrl.SetField(m.focus, m.ctrl.State().Form.Get(m.focus)+" ")
	case tea.KeyRunes:
		m.ctrl.SetField(m.focus, m.ctrl.State().Form.Get(m.focus)+string(msg.Runes))
	}
	return m, nil
}

func (m *tuiModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m, m.run(m.ctrl.confirmRequest())
	case "n", "esc":
		m.ctrl.Cancel()
	}
	return m, nil
}

func (m *tuiModel) clampSelection() {
	n := len(m.ctrl.State().Tasks)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *tuiModel) View() string {
	state := m.ctrl.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\n")

	switch state.Dialog {
	case DialogOpen:
		b.WriteString(m.viewForm(state))
	case DialogConfirmDiscard:
		b.WriteString(boxStyle.Render("Discard unsaved changes?\n\n[y] discard  [n] cancel"))
	case DialogConfirmDelete:
		b.WriteString(boxStyle.Render("Delete Task?\nThis action is permanent. Deleted tasks cannot be recovered. Continue?\n\n[y] delete  [n] cancel"))
	default:
		b.WriteString(m.viewList())
	}

	if m.busy {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Working..."))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) viewList() string {
	views := m.ctrl.RenderTaskList()
	if len(views) == 0 {
		return dimStyle.Render("No tasks yet.") + "\n\n" + dimStyle.Render("[n] new  [r] reload  [q] quit")
	}

	var b strings.Builder
	for i, v := range views {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.selected {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(cursor + style.Render(v.Lines[0]) + "\n")
		for _, line := range v.Lines[1:] {
			b.WriteString("    " + dimStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("[n] new  [e] edit  [d] delete  [r] reload  [q] quit"))
	return b.String()
}

func (m *tuiModel) viewForm(state State) string {
	var b strings.Builder
	for _, f := range Fields {
		label := fmt.Sprintf("%-12s", f.String()+":")
		value := state.Form.Get(f)
		if f == m.focus {
			b.WriteString(selectedStyle.Render("> "+label) + " " + value + "_\n")
		} else {
			b.WriteString("  " + label + " " + value + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("[enter] %s  [tab] next field  [esc] close", state.SubmitLabel)))
	return boxStyle.Render(b.String())
}
