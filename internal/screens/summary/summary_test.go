package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/session"
)

// completed runs a two question session answering the first correctly and
// the second wrongly.
func completed(t *testing.T) *session.Controller {
	t.Helper()
	ctrl := session.NewController()
	ctrl.Load([]questions.Question{
		{Topic: "Addition", Question: "2+2?", Options: []string{"4", "5"}, Answer: 0},
		{Question: "3+3?", Options: []string{"6", "7"}, Answer: 0},
	})
	if err := ctrl.Start(2); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 2; i++ {
		cur := ctrl.Snapshot().Current
		wantCorrect := cur.Question == "2+2?"
		for choice, opt := range cur.Options {
			correct := opt == "4" || opt == "6"
			if correct == wantCorrect {
				if _, _, err := ctrl.Answer(choice); err != nil {
					t.Fatalf("answer: %v", err)
				}
				break
			}
		}
		if err := ctrl.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	return ctrl
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(completed(t))
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(completed(t))
	view := s.View(100, 40)
	for _, want := range []string{"50%", "Correct: 1", "Wrong: 1", "Showing all (2/2)", "Correct answer:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_ToggleWrongOnly(t *testing.T) {
	s := New(completed(t))
	s.Update(tea.KeyPressMsg{Code: 'w', Text: "w"})

	view := s.View(100, 40)
	if !strings.Contains(view, "Showing wrong only (1)") {
		t.Error("expected wrong-only label")
	}
	if strings.Contains(view, "2+2?") {
		t.Error("correct answers should be hidden")
	}
}

func TestSummaryScreen_ToggleSkills(t *testing.T) {
	s := New(completed(t))
	if strings.Contains(s.View(100, 40), "Other skills") {
		t.Error("skills hidden until toggled")
	}
	s.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	view := s.View(100, 40)
	if !strings.Contains(view, "Other skills") || !strings.Contains(view, "Addition") {
		t.Error("expected skill breakdown")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	ctrl := completed(t)
	s := New(ctrl)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Errorf("expected PopToRootMsg, got %T", cmd())
	}
	if ctrl.Phase() != session.PhaseFiltering {
		t.Errorf("phase = %v, want filtering", ctrl.Phase())
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(completed(t))
	hints := s.KeyHints()
	if len(hints) != 4 {
		t.Errorf("KeyHints length = %d, want 4", len(hints))
	}
}
