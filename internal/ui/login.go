package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// login form field order: email, name (register only), password.
const (
	loginFieldEmail = iota
	loginFieldName
	loginFieldPassword
	loginFieldCount
)

// LoginModel is the sign-in / registration screen.
type LoginModel struct {
	inputs      []textinput.Model
	focused     int
	registering bool
	error       string
}

// NewLoginModel creates the login screen.
func NewLoginModel() *LoginModel {
	inputs := make([]textinput.Model, loginFieldCount)

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Focus()
	inputs[loginFieldEmail] = email

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 80
	inputs[loginFieldName] = name

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120
	inputs[loginFieldPassword] = password

	return &LoginModel{inputs: inputs}
}

func (m *LoginModel) visibleFields() []int {
	if m.registering {
		return []int{loginFieldEmail, loginFieldName, loginFieldPassword}
	}
	return []int{loginFieldEmail, loginFieldPassword}
}

func (m *LoginModel) cycleFocus(delta int) {
	fields := m.visibleFields()
	pos := 0
	for i, f := range fields {
		if f == m.focused {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	m.focused = fields[pos]
	for i := range m.inputs {
		if i == m.focused {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// UpdateInputs forwards non-key messages (cursor blinks) to the inputs.
func (m *LoginModel) UpdateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login == nil {
		m.login = NewLoginModel()
	}
	l := m.login

	switch {
	case key.Matches(msg, m.formKeys.NextField):
		l.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.formKeys.PrevField):
		l.cycleFocus(-1)
		return m, nil
	}

	switch msg.String() {
	case "down":
		l.cycleFocus(1)
		return m, nil
	case "up":
		l.cycleFocus(-1)
		return m, nil
	case "ctrl+r":
		l.registering = !l.registering
		l.error = ""
		return m, nil
	case "enter":
		email := strings.TrimSpace(l.inputs[loginFieldEmail].Value())
		password := l.inputs[loginFieldPassword].Value()
		if email == "" || password == "" {
			l.error = "Email and password are required"
			return m, nil
		}
		if l.registering {
			name := strings.TrimSpace(l.inputs[loginFieldName].Value())
			if name == "" {
				l.error = "Name is required"
				return m, nil
			}
			return m, registerCmd(m.api, m.store, email, name, password)
		}
		return m, loginCmd(m.api, m.store, email, password)
	}

	var cmd tea.Cmd
	l.inputs[l.focused], cmd = l.inputs[l.focused].Update(msg)
	return m, cmd
}

// View renders the login screen.
func (m *LoginModel) View(width, height int) string {
	title := "Sign in"
	action := "enter sign in · ctrl+r register instead"
	if m.registering {
		title = "Create account"
		action = "enter create account · ctrl+r sign in instead"
	}

	var fields []string
	fields = append(fields, renderFormField("Email", m.inputs[loginFieldEmail], m.focused == loginFieldEmail))
	if m.registering {
		fields = append(fields, renderFormField("Name", m.inputs[loginFieldName], m.focused == loginFieldName))
	}
	fields = append(fields, renderFormField("Password", m.inputs[loginFieldPassword], m.focused == loginFieldPassword))

	if m.error != "" {
		fields = append(fields, "", ErrorStyle.Render(m.error))
	}

	box := ActivePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(title),
		"",
		strings.Join(fields, "\n\n"),
		"",
		HelpDescStyle.Render(action),
	))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderFormField renders one labeled input.
func renderFormField(label string, input textinput.Model, focused bool) string {
	l := LabelStyle.Render(label)
	if focused {
		l = LabelStyle.Underline(true).Render(label)
	}
	return l + "\n" + input.View()
}
