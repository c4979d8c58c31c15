package components

import (
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

// InputOption configures a TextInput.
type InputOption func(*TextInput)

// CharLimit caps the value length in runes.
func CharLimit(n int) InputOption {
	return func(t *TextInput) { t.Model.CharLimit = n }
}

// Masked hides what is typed, for passwords.
func Masked() InputOption {
	return func(t *TextInput) {
		t.Model.EchoMode = textinput.EchoPassword
		t.Model.EchoCharacter = '•'
	}
}

// Accept drops typed characters for which ok returns false.
func Accept(ok func(rune) bool) InputOption {
	return func(t *TextInput) { t.accept = ok }
}

// NoSpaces accepts any printable character except whitespace.
func NoSpaces(r rune) bool {
	return unicode.IsPrint(r) && !unicode.IsSpace(r)
}

// TextInput is a bubbles text input that can show a ✓ or ✗ once its value
// has been checked.
type TextInput struct {
	Model textinput.Model

	accept  func(rune) bool
	checked bool
	correct bool
}

// NewTextInput creates a blurred input. Call Focus to start typing.
func NewTextInput(placeholder string, opts ...InputOption) TextInput {
	t := TextInput{Model: textinput.New()}
	t.Model.Placeholder = placeholder
	for _, o := range opts {
		o(&t)
	}
	return t
}

func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

func (t *TextInput) Blur() {
	t.Model.Blur()
}

func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Reset clears the value and the check mark.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.checked = false
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && t.accept != nil && k.Text != "" {
		for _, r := range k.Text {
			if !t.accept(r) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	v := t.Model.View()
	switch {
	case !t.checked:
		return v
	case t.correct:
		return v + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	default:
		return v + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
}

func (t TextInput) Value() string {
	return t.Model.Value()
}

// Len is the value length in runes.
func (t TextInput) Len() int {
	return utf8.RuneCountInString(t.Model.Value())
}

// Submit marks the value as checked and blurs the input.
func (t *TextInput) Submit(correct bool) {
	t.checked = true
	t.correct = correct
	t.Model.Blur()
}
