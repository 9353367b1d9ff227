package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// CountInput is a short numeric field for the number of questions.
type CountInput struct {
	Model   textinput.Model
	invalid bool
}

// NewCountInput creates a focused input holding initial, limited to
// maxDigits characters.
func NewCountInput(initial, maxDigits int) CountInput {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(initial)
	ti.CharLimit = maxDigits
	ti.SetValue(strconv.Itoa(initial))
	ti.Focus()
	return CountInput{Model: ti}
}

func (c CountInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update ignores printable keys other than digits. Any accepted edit
// clears the invalid mark.
func (c CountInput) Update(msg tea.Msg) (CountInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
			return c, nil
		}
		c.invalid = false
	}

	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// Value returns the raw text.
func (c CountInput) Value() string {
	return c.Model.Value()
}

// Count parses the leading run of digits after any leading blanks, so
// "5 " and "5q" both read as 5. Text without leading digits is zero.
func (c CountInput) Count() int {
	s := strings.TrimLeft(c.Model.Value(), " \t")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// MarkInvalid flags the current value as rejected.
func (c *CountInput) MarkInvalid() {
	c.invalid = true
}

// Invalid reports whether the value was rejected since the last edit.
func (c CountInput) Invalid() bool {
	return c.invalid
}

func (c CountInput) View() string {
	view := c.Model.View()
	if c.invalid {
		view += " " + theme.Incorrect.Render("✗")
	}
	return view
}
