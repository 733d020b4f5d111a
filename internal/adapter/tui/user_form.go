package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

type focus int

const (
	focusFirstName focus = iota
	focusLastName
	focusEmail
	focusRole
	focusVenues
	focusCount
)

var textFields = [...]string{domain.FieldFirstName, domain.FieldLastName, domain.FieldEmail}

var (
	accent = lipgloss.Color("69")

	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2).Width(64)
	warnBoxStyle  = boxStyle.BorderForeground(lipgloss.Color("214"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	disabledStyle = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type submitResultMsg struct {
	errs domain.ValidationErrors
	err  error
}

// UserForm renders a UserDialog in the terminal: three text inputs, a role picker and
// the venue checklist.
type UserForm struct {
	ctx    context.Context
	dialog *usecase.UserDialog
	venues []string

	inputs      [len(textFields)]textinput.Model
	focus       focus
	venueCursor int
	spinner     spinner.Model

	submitting bool
	submitted  bool
	closed     bool
	err        error
}

// NewUserForm creates a UserForm for dialog over the venue catalogue.
func NewUserForm(ctx context.Context, dialog *usecase.UserDialog, venues []string) *UserForm {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	f := &UserForm{
		ctx:     ctx,
		dialog:  dialog,
		venues:  venues,
		spinner: s,
	}

	draft := dialog.Draft()
	values := [...]string{draft.FirstName, draft.LastName, draft.Email}
	placeholders := [...]string{"Jane", "Doe", "jane@example.com"}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[focusFirstName].Focus()
	return f
}

// Submitted reports whether the dialog was submitted and accepted.
func (f *UserForm) Submitted() bool { return f.submitted }

// Closed reports whether the dialog was dismissed without submitting.
func (f *UserForm) Closed() bool { return f.closed }

// Err returns the last submit callback error, if any.
func (f *UserForm) Err() error { return f.err }

// Init initializes the model
func (f *UserForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (f *UserForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		f.submitting = false
		switch {
		case msg.err != nil:
			f.err = msg.err
		case msg.errs.Empty():
			f.submitted = true
			return f, tea.Quit
		}
		return f, nil

	case spinner.TickMsg:
		if f.submitting {
			var cmd tea.Cmd
			f.spinner, cmd = f.spinner.Update(msg)
			return f, cmd
		}
		return f, nil

	case tea.KeyMsg:
		return f.handleKey(msg)
	}

	if f.focus < focusRole && !f.submitting {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f *UserForm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		f.closed = !f.submitted
		return f, tea.Quit
	}
	if f.submitting {
		return f, nil
	}
	if f.dialog.State() == usecase.StateAwaitingConfirmation {
		return f.handleConfirmKey(msg)
	}

	switch msg.Type {
	case tea.KeyEsc:
		state, err := f.dialog.RequestClose()
		if err != nil {
			f.err = err
			return f, nil
		}
		if state == usecase.StateClosed {
			f.closed = true
			return f, tea.Quit
		}
		return f, nil
	case tea.KeyTab:
		return f, f.setFocus((f.focus + 1) % focusCount)
	case tea.KeyShiftTab:
		return f, f.setFocus((f.focus + focusCount - 1) % focusCount)
	case tea.KeyEnter:
		f.submitting = true
		f.err = nil
		return f, tea.Batch(f.spinner.Tick, f.submit())
	}

	switch f.focus {
	case focusRole:
		f.handleRoleKey(msg)
		return f, nil
	case focusVenues:
		f.handleVenueKey(msg)
		return f, nil
	}

	var cmd tea.Cmd
	before := f.inputs[f.focus].Value()
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if after := f.inputs[f.focus].Value(); after != before {
		f.setField(textFields[f.focus], after)
	}
	return f, cmd
}

func (f *UserForm) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := f.dialog.ConfirmClose(); err != nil {
			f.err = err
			return f, nil
		}
		f.closed = true
		return f, tea.Quit
	case "n", "N", "esc":
		if err := f.dialog.CancelClose(); err != nil {
			f.err = err
		}
	}
	return f, nil
}

func (f *UserForm) handleRoleKey(msg tea.KeyMsg) {
	step := 0
	switch msg.String() {
	case "right", "l", " ", "space":
		step = 1
	case "left", "h":
		step = len(domain.Roles) - 1
	}
	if step == 0 {
		return
	}

	next := 0
	current := f.dialog.Draft().Role
	for i, role := range domain.Roles {
		if role == current {
			next = (i + step) % len(domain.Roles)
			break
		}
	}
	f.setField(domain.FieldRole, string(domain.Roles[next]))
}

func (f *UserForm) handleVenueKey(msg tea.KeyMsg) {
	rows := domain.Checklist(f.venues, f.dialog.Draft().AssignedVenues)
	switch msg.String() {
	case "down", "j":
		if f.venueCursor < len(rows)-1 {
			f.venueCursor++
		}
	case "up", "k":
		if f.venueCursor > 0 {
			f.venueCursor--
		}
	case " ", "space", "x":
		row := rows[f.venueCursor]
		if row.Disabled {
			return
		}
		if err := f.dialog.ToggleVenue(row.Name); err != nil {
			f.err = err
		}
	}
}

func (f *UserForm) setField(field, value string) {
	if err := f.dialog.SetField(field, value); err != nil {
		f.err = err
	}
}

func (f *UserForm) setFocus(next focus) tea.Cmd {
	if f.focus < focusRole {
		f.inputs[f.focus].Blur()
	}
	f.focus = next
	if f.focus < focusRole {
		return f.inputs[f.focus].Focus()
	}
	return nil
}

// submit runs the dialog's submit off the update loop. Key handling is suspended until
// the result arrives, so nothing else touches the dialog meanwhile.
func (f *UserForm) submit() tea.Cmd {
	return func() tea.Msg {
		errs, err := f.dialog.Submit(f.ctx)
		return submitResultMsg{errs: errs, err: err}
	}
}

// View renders the UI
func (f *UserForm) View() string {
	if f.submitting {
		return fmt.Sprintf("%s Saving user...", f.spinner.View())
	}
	if f.submitted || f.closed {
		return ""
	}
	if f.dialog.State() == usecase.StateAwaitingConfirmation {
		return warnBoxStyle.Render(titleStyle.Render("Discard changes?") +
			"\n\nYou have unsaved changes to this user.\nClose without saving? (y/N)")
	}

	var b strings.Builder
	title := "Add User"
	if f.dialog.Mode() == usecase.ModeEdit {
		title = "Edit User"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	errs := f.dialog.Errors()
	labels := [...]string{"First name", "Last name", "Email"}
	for i := range f.inputs {
		b.WriteString(f.cursor(focus(i)) + labelStyle.Render(labels[i]+": ") + f.inputs[i].View() + "\n")
		writeFieldError(&b, errs, textFields[i])
	}

	draft := f.dialog.Draft()
	role := "select a role"
	if draft.Role != "" {
		role = string(draft.Role)
	}
	if f.focus == focusRole {
		role = focusedStyle.Render("< " + role + " >")
	}
	b.WriteString(f.cursor(focusRole) + labelStyle.Render("Role: ") + role + "\n")
	if desc := draft.Role.Description(); desc != "" {
		b.WriteString("    " + helpStyle.Render(desc) + "\n")
	}
	writeFieldError(&b, errs, domain.FieldRole)

	b.WriteString(f.cursor(focusVenues) + labelStyle.Render("Assigned venues:") + "\n")
	for i, row := range domain.Checklist(f.venues, draft.AssignedVenues) {
		b.WriteString(f.venueRow(i, row) + "\n")
	}
	writeFieldError(&b, errs, domain.FieldAssignedVenues)

	if f.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+f.err.Error()) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("Tab to navigate • ←/→ role • Space to toggle venue • Enter to save • Esc to close"))

	return boxStyle.Render(b.String())
}

func (f *UserForm) cursor(slot focus) string {
	if f.focus == slot {
		return "> "
	}
	return "  "
}

func (f *UserForm) venueRow(i int, row domain.VenueOption) string {
	box := "[ ]"
	if row.Checked {
		box = "[x]"
	}
	name := row.Name
	if name == domain.AllVenues {
		name = "All venues"
	}

	line := fmt.Sprintf("%s %s", box, name)
	switch {
	case f.focus == focusVenues && i == f.venueCursor:
		line = focusedStyle.Render(line)
	case row.Disabled:
		line = disabledStyle.Render(line)
	}
	return "    " + line
}

func writeFieldError(b *strings.Builder, errs domain.ValidationErrors, field string) {
	if msg, ok := errs[field]; ok {
		b.WriteString("    " + errorStyle.Render(msg) + "\n")
	}
}
