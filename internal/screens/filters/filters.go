package filters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screen"
	"github.com/abhisek/mathquiz/internal/screens/quiz"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// DefaultCount is the question count offered when the screen opens.
const DefaultCount = 10

// Loader fetches the question bank.
type Loader func(ctx context.Context) ([]questions.Question, error)

// bankLoadedMsg is sent when the bank has been fetched.
type bankLoadedMsg struct {
	Questions []questions.Question
	Err       error
}

type row int

const (
	rowGrade row = iota
	rowSubject
	rowTopic
	rowCount
	rowStart
)

// FiltersScreen picks grade, subject, topic and question count, then
// starts a session.
type FiltersScreen struct {
	ctrl    *session.Controller
	load    Loader
	logger  *slog.Logger
	loading bool
	focus   row
	count   components.CountInput
}

var _ screen.Screen = (*FiltersScreen)(nil)
var _ screen.KeyHintProvider = (*FiltersScreen)(nil)

// New creates the filter screen. A nil loader means the controller was
// loaded by the caller.
func New(ctrl *session.Controller, load Loader, logger *slog.Logger) *FiltersScreen {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	count := components.NewCountInput(DefaultCount, 3)
	return &FiltersScreen{
		ctrl:    ctrl,
		load:    load,
		logger:  logger,
		loading: load != nil,
		count:   count,
	}
}

func (s *FiltersScreen) Init() tea.Cmd {
	if s.load == nil {
		return s.count.Init()
	}
	load := s.load
	return tea.Batch(
		func() tea.Msg {
			qs, err := load(context.Background())
			return bankLoadedMsg{Questions: qs, Err: err}
		},
		s.count.Init(),
	)
}

func (s *FiltersScreen) Title() string {
	return "Choose a quiz"
}

func (s *FiltersScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *FiltersScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bankLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.logger.Error("load question bank", "error", msg.Err)
			msg.Questions = nil
		}
		s.ctrl.Load(msg.Questions)
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.focus == rowCount {
		var cmd tea.Cmd
		s.count, cmd = s.count.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *FiltersScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "shift+tab":
		s.move(-1)
		return s, nil
	case "down", "tab":
		s.move(1)
		return s, nil
	case "left":
		if s.focus != rowCount {
			s.cycle(-1)
			return s, nil
		}
	case "right":
		if s.focus != rowCount {
			s.cycle(1)
			return s, nil
		}
	case "enter":
		return s, s.start()
	}

	if s.focus == rowCount {
		var cmd tea.Cmd
		s.count, cmd = s.count.Update(msg)
		return s, cmd
	}
	return s, nil
}

// move shifts focus, skipping disabled selectors.
func (s *FiltersScreen) move(delta int) {
	v := s.ctrl.Snapshot()
	next := s.focus
	for {
		next += row(delta)
		if next < rowGrade || next > rowStart {
			return
		}
		if sel, ok := selectorFor(v.Selectors, next); ok && !sel.Enabled {
			continue
		}
		s.focus = next
		return
	}
}

// cycle steps the focused selector through "all" and its options.
func (s *FiltersScreen) cycle(delta int) {
	v := s.ctrl.Snapshot()
	sel, ok := selectorFor(v.Selectors, s.focus)
	if !ok || !sel.Enabled {
		return
	}

	choices := append([]string{questions.AllValue}, sel.Options...)
	i := slices.Index(choices, sel.Value)
	i = (i + delta + len(choices)) % len(choices)

	var err error
	switch s.focus {
	case rowGrade:
		err = s.ctrl.SelectGrade(choices[i])
	case rowSubject:
		err = s.ctrl.SelectSubject(choices[i])
	case rowTopic:
		err = s.ctrl.SelectTopic(choices[i])
	}
	if err != nil {
		s.logger.Warn("select facet", "error", err)
	}
}

func (s *FiltersScreen) start() tea.Cmd {
	if err := s.ctrl.Start(s.count.Count()); err != nil {
		if errors.Is(err, session.ErrCountTooSmall) {
			s.count.MarkInvalid()
		}
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: quiz.New(s.ctrl)}
	}
}

func selectorFor(sel session.Selectors, r row) (session.Selector, bool) {
	switch r {
	case rowGrade:
		return sel.Grade, true
	case rowSubject:
		return sel.Subject, true
	case rowTopic:
		return sel.Topic, true
	}
	return session.Selector{}, false
}

func (s *FiltersScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Loading questions...")
	}

	v := s.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(s.selectorLine("Grade", "All grades", v.Selectors.Grade, rowGrade))
	b.WriteString(s.selectorLine("Subject", "All subjects", v.Selectors.Subject, rowSubject))
	b.WriteString(s.selectorLine("Topic", "All topics", v.Selectors.Topic, rowTopic))
	b.WriteString("\n")

	label := theme.Unselected
	if s.focus == rowCount {
		label = theme.Selected
	}
	b.WriteString(label.Render(fmt.Sprintf("  %-10s", "Questions")) + s.count.View() + "\n\n")

	start := components.Button{
		Label:    "Start quiz",
		Focused:  s.focus == rowStart,
		Disabled: v.BankSize == 0,
	}
	b.WriteString(start.View() + "\n\n")

	if v.Status != "" {
		b.WriteString(theme.Status.Render("  "+v.Status) + "\n")
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d questions in the bank", v.BankSize)))

	card := theme.Card.Width(min(width-4, 60)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *FiltersScreen) selectorLine(name, allLabel string, sel session.Selector, r row) string {
	value := sel.Value
	switch value {
	case questions.AllValue, "":
		value = allLabel
	}

	line := fmt.Sprintf("  %-10s◂ %s ▸", name, value)
	switch {
	case !sel.Enabled:
		return theme.Disabled.Render(fmt.Sprintf("  %-10s%s", name, allLabel)) + "\n"
	case s.focus == r:
		return theme.Selected.Render(line) + "\n"
	default:
		return theme.Unselected.Render(line) + "\n"
	}
}
