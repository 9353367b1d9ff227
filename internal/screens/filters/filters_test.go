package filters

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/session"
)

func testBank() []questions.Question {
	return []questions.Question{
		{Grade: "Grade 3", Subject: "Math", Topic: "Addition", Question: "2+2?", Options: []string{"3", "4", "5"}, Answer: 1},
		{Grade: "Grade 3", Subject: "Math", Topic: "Subtraction", Question: "5-2?", Options: []string{"3", "4"}, Answer: 0},
		{Grade: "Grade 10", Subject: "Science", Topic: "Cells", Question: "Unit of life?", Options: []string{"Cell", "Atom"}, Answer: 0},
	}
}

func loadedScreen() (*FiltersScreen, *session.Controller) {
	ctrl := session.NewController()
	ctrl.Load(testBank())
	return New(ctrl, nil, nil), ctrl
}

func press(s *FiltersScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestFiltersScreen_LoadsBank(t *testing.T) {
	ctrl := session.NewController()
	s := New(ctrl, func(context.Context) ([]questions.Question, error) {
		return testBank(), nil
	}, nil)

	if !strings.Contains(s.View(80, 24), "Loading") {
		t.Error("expected loading view before the bank arrives")
	}

	s.Update(bankLoadedMsg{Questions: testBank()})
	if ctrl.Phase() != session.PhaseFiltering {
		t.Errorf("phase = %v, want filtering", ctrl.Phase())
	}
	if !strings.Contains(s.View(80, 24), "3 questions in the bank") {
		t.Error("expected bank size in view")
	}
}

func TestFiltersScreen_LoadErrorShowsEmptyState(t *testing.T) {
	ctrl := session.NewController()
	s := New(ctrl, func(context.Context) ([]questions.Question, error) {
		return nil, errors.New("boom")
	}, nil)

	s.Update(bankLoadedMsg{Err: errors.New("boom")})
	if ctrl.Phase() != session.PhaseIdle {
		t.Errorf("phase = %v, want idle", ctrl.Phase())
	}
	if !strings.Contains(s.View(80, 24), "No questions available.") {
		t.Error("expected empty bank status")
	}
}

func TestFiltersScreen_CycleGrade(t *testing.T) {
	s, ctrl := loadedScreen()

	press(s, tea.KeyRight)
	v := ctrl.Snapshot()
	if v.Selectors.Grade.Value != "Grade 3" {
		t.Errorf("grade = %q, want %q", v.Selectors.Grade.Value, "Grade 3")
	}

	press(s, tea.KeyRight)
	if got := ctrl.Snapshot().Selectors.Grade.Value; got != "Grade 10" {
		t.Errorf("grade = %q, want %q", got, "Grade 10")
	}

	// Wraps back to "all".
	press(s, tea.KeyRight)
	if got := ctrl.Snapshot().Selectors.Grade.Value; got != questions.AllValue {
		t.Errorf("grade = %q, want all", got)
	}

	press(s, tea.KeyLeft)
	if got := ctrl.Snapshot().Selectors.Grade.Value; got != "Grade 10" {
		t.Errorf("grade = %q, want %q", got, "Grade 10")
	}
}

func TestFiltersScreen_StartPushesQuiz(t *testing.T) {
	s, ctrl := loadedScreen()

	cmd := press(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if ctrl.Phase() != session.PhaseActive {
		t.Errorf("phase = %v, want active", ctrl.Phase())
	}
}

func TestFiltersScreen_ZeroCountShowsStatus(t *testing.T) {
	s, ctrl := loadedScreen()
	s.count.Model.SetValue("0")

	if cmd := press(s, tea.KeyEnter); cmd != nil {
		t.Error("no screen should be pushed")
	}
	if ctrl.Phase() != session.PhaseFiltering {
		t.Errorf("phase = %v, want filtering", ctrl.Phase())
	}
	if !strings.Contains(s.View(80, 24), "Choose at least one question.") {
		t.Error("expected inline count message")
	}
	if !s.count.Invalid() {
		t.Error("count input should be flagged")
	}
}

func TestFiltersScreen_CountUsesLeadingDigits(t *testing.T) {
	s, ctrl := loadedScreen()
	s.count.Model.SetValue("2q")

	if cmd := press(s, tea.KeyEnter); cmd == nil {
		t.Fatal("expected a push command")
	}
	if got := ctrl.Snapshot().Count; got != 2 {
		t.Errorf("session count = %d, want 2", got)
	}
}

func TestFiltersScreen_MoveFocus(t *testing.T) {
	s, _ := loadedScreen()

	for i := 0; i < 10; i++ {
		press(s, tea.KeyDown)
	}
	if s.focus != rowStart {
		t.Errorf("focus = %v, want start row", s.focus)
	}
	for i := 0; i < 10; i++ {
		press(s, tea.KeyUp)
	}
	if s.focus != rowGrade {
		t.Errorf("focus = %v, want grade row", s.focus)
	}
}

func TestFiltersScreen_KeyHints(t *testing.T) {
	s, _ := loadedScreen()
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
	if s.Title() != "Choose a quiz" {
		t.Errorf("Title = %q", s.Title())
	}
}
