package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screen"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// SummaryScreen displays the score, the answer review and the per-skill
// breakdown of a completed session.
type SummaryScreen struct {
	ctrl *session.Controller
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(ctrl *session.Controller) *SummaryScreen {
	return &SummaryScreen{ctrl: ctrl}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "New quiz"}}
	if sum := s.ctrl.Snapshot().Summary; sum != nil {
		if sum.WrongToggleEnabled {
			hints = append(hints, layout.KeyHint{Key: "W", Description: "Wrong only"})
		}
		if sum.SkillsToggleEnabled {
			hints = append(hints, layout.KeyHint{Key: "S", Description: "Skills"})
		}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			s.ctrl.Home()
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "w":
			_ = s.ctrl.ToggleWrongOnly()
		case "s":
			_ = s.ctrl.ToggleSkills()
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.ctrl.Snapshot().Summary
	if sum == nil {
		return ""
	}

	var b strings.Builder
	center := func(style lipgloss.Style, text string) {
		b.WriteString(style.Width(width).Align(lipgloss.Center).Render(text))
		b.WriteString("\n")
	}

	center(theme.Title, "Quiz complete!")
	b.WriteString("\n")
	center(lipgloss.NewStyle().Foreground(bandColor(session.BandFor(sum.Score.Percent))).Bold(true),
		fmt.Sprintf("%d%%", sum.Score.Percent))
	center(theme.Body,
		fmt.Sprintf("Correct: %d        Wrong: %d        Total: %d",
			sum.Score.Correct, sum.Score.Wrong, sum.Score.Total))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))

	if sum.SkillsVisible {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Skills")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")
		for _, st := range sum.Skills {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, skillLine(st, min(width-8, 60))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(sum.CountLabel)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	if len(sum.Items) == 0 {
		center(theme.Hint, sum.EmptyLabel)
	}
	for i, r := range sum.Items {
		b.WriteString(reviewItem(i, r))
		b.WriteString("\n")
	}

	return b.String()
}

func skillLine(st session.SkillStat, width int) string {
	label := fmt.Sprintf("%s  %d/%d", st.Skill, st.Correct, st.Total)
	bar := components.NewProgressBar(label, st.Correct, st.Total, true, width)
	return lipgloss.NewStyle().Foreground(bandColor(st.Band())).Render(bar.View())
}

func reviewItem(i int, r session.Response) string {
	mark, style := "✓", theme.Correct
	if !r.Correct {
		mark, style = "✗", theme.Incorrect
	}

	var b strings.Builder
	b.WriteString(style.Render(fmt.Sprintf("  %s %d. %s", mark, i+1, r.Question)))
	b.WriteString("\n")
	if r.Topic != "" {
		b.WriteString(theme.Hint.Render("      " + r.Topic))
		b.WriteString("\n")
	}
	if r.Image != "" {
		alt := r.ImageAlt
		if alt == "" {
			alt = r.Image
		}
		b.WriteString(theme.Hint.Render("      [image: " + alt + "]"))
		b.WriteString("\n")
	}

	chosen := optionText(r.Options, r.Chosen)
	b.WriteString(theme.Body.Render("      Your answer: " + chosen))
	b.WriteString("\n")
	if !r.Correct {
		b.WriteString(theme.Correct.Render("      Correct answer: " + optionText(r.Options, r.CorrectIndex)))
		b.WriteString("\n")
	}
	return b.String()
}

func optionText(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return "-"
	}
	return components.OptionLabel(i) + ") " + options[i]
}

// bandColor returns the theme color for a score band.
func bandColor(b session.Band) color.Color {
	switch b {
	case session.BandGood:
		return theme.Success
	case session.BandMedium:
		return theme.Accent
	default:
		return theme.Error
	}
}
