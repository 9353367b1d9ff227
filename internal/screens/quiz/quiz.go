package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screen"
	"github.com/abhisek/mathquiz/internal/screens/summary"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// QuizScreen serves the questions of the active session one at a time.
type QuizScreen struct {
	ctrl  *session.Controller
	index int
	mc    components.MultiChoice
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen for the controller's active session.
func New(ctrl *session.Controller) *QuizScreen {
	s := &QuizScreen{ctrl: ctrl}
	s.sync()
	return s
}

// sync rebuilds the choice component from the controller's current question.
func (s *QuizScreen) sync() {
	v := s.ctrl.Snapshot()
	if v.Current == nil {
		return
	}
	s.index = v.Index
	s.mc = components.NewMultiChoice(v.Current.Question, v.Current.Options)
	if v.Current.Answered {
		s.mc.Reveal(v.Current.Chosen, v.Current.CorrectIndex)
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	v := s.ctrl.Snapshot()
	return fmt.Sprintf("Question %d of %d", v.Index+1, v.Count)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.mc.Submitted {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "1-9", Description: "Answer"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.mc.Submitted {
		switch kmsg.String() {
		case "enter", "space", " ", "n":
			return s, s.next()
		}
		return s, nil
	}

	s.mc, _ = s.mc.Update(kmsg)
	if s.mc.Submitted {
		resp, _, err := s.ctrl.Answer(s.mc.ChosenIndex)
		if err != nil {
			s.sync()
			return s, nil
		}
		s.mc.Reveal(resp.Chosen, resp.CorrectIndex)
	}
	return s, nil
}

func (s *QuizScreen) next() tea.Cmd {
	if err := s.ctrl.Next(); err != nil {
		return nil
	}
	if s.ctrl.Phase() == session.PhaseComplete {
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(s.ctrl)}
		}
	}
	s.sync()
	return nil
}

func (s *QuizScreen) View(width, height int) string {
	v := s.ctrl.Snapshot()
	q := v.Current
	if q == nil {
		return ""
	}

	var b strings.Builder
	progress := components.NewProgressBar(
		fmt.Sprintf("%d/%d", v.Index+1, v.Count),
		v.Index,
		v.Count,
		false,
		min(width-8, 60),
	)
	b.WriteString(progress.View() + "\n\n")

	if q.Topic != "" {
		b.WriteString(theme.Hint.Render(q.Topic) + "\n")
	}
	if q.Image != "" {
		alt := q.ImageAlt
		if alt == "" {
			alt = q.Image
		}
		b.WriteString(theme.Hint.Render("[image: "+alt+"]") + "\n")
	}
	b.WriteString("\n" + s.mc.View())

	if s.mc.Submitted {
		b.WriteString("\n")
		if s.mc.IsCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			answer := ""
			if s.mc.CorrectIndex >= 0 && s.mc.CorrectIndex < len(s.mc.Options) {
				answer = s.mc.Options[s.mc.CorrectIndex]
			}
			b.WriteString(theme.Incorrect.Render("Not quite. The answer is " + answer + "."))
		}
		b.WriteString("\n")
		next := "Next question"
		if q.Last {
			next = "See results"
		}
		b.WriteString("\n" + theme.Hint.Render("Enter: "+next))
	}

	card := theme.Card.Width(min(width-4, 72)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
