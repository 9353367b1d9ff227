package components

import "github.com/abhisek/mathquiz/internal/ui/theme"

// Button is an action row. The owning screen handles Enter.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
}

func (b Button) View() string {
	label := "  ▸ " + b.Label + " "
	switch {
	case b.Disabled:
		return theme.ButtonInactive.Inherit(theme.Disabled).Render(label)
	case b.Focused:
		return theme.ButtonActive.Render(label)
	default:
		return theme.ButtonInactive.Render(label)
	}
}
