package session

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/mathquiz/internal/questions"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 42))
}

func twoPlusTwo() questions.Question {
	return questions.Question{Question: "2+2?", Options: []string{"3", "4", "5"}, Answer: 1}
}

func testPool(n int) []questions.Question {
	pool := make([]questions.Question, n)
	for i := range pool {
		pool[i] = questions.Question{
			Question: string(rune('a' + i)),
			Options:  []string{"w", "x", "y", "z"},
			Answer:   i % 4,
			Topic:    "Topic",
		}
	}
	return pool
}

func TestBuildSession_CountTooSmall(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := BuildSession(testRand(1), testPool(3), n)
		if !errors.Is(err, ErrCountTooSmall) {
			t.Errorf("BuildSession(count=%d) err = %v, want ErrCountTooSmall", n, err)
		}
	}
}

func TestBuildSession_CountCheckedBeforePool(t *testing.T) {
	_, err := BuildSession(testRand(1), nil, 0)
	if !errors.Is(err, ErrCountTooSmall) {
		t.Errorf("err = %v, want ErrCountTooSmall", err)
	}
}

func TestBuildSession_EmptyPool(t *testing.T) {
	_, err := BuildSession(testRand(1), nil, 5)
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}

func TestBuildSession_Bounds(t *testing.T) {
	tests := []struct {
		pool, requested, want int
	}{
		{5, 3, 3},
		{5, 5, 5},
		{5, 50, 5},
		{1, 1, 1},
	}
	for _, tt := range tests {
		qs, err := BuildSession(testRand(7), testPool(tt.pool), tt.requested)
		if err != nil {
			t.Fatalf("BuildSession: %v", err)
		}
		if len(qs) != tt.want {
			t.Errorf("pool=%d requested=%d: len = %d, want %d", tt.pool, tt.requested, len(qs), tt.want)
		}
	}
}

func TestBuildSession_PreservesAnswers(t *testing.T) {
	pool := testPool(8)
	byText := make(map[string]questions.Question)
	for _, q := range pool {
		byText[q.Question] = q
	}

	for seed := uint64(0); seed < 20; seed++ {
		qs, err := BuildSession(testRand(seed), pool, 8)
		if err != nil {
			t.Fatalf("BuildSession: %v", err)
		}
		seen := make(map[string]bool)
		for _, sq := range qs {
			orig := byText[sq.Question.Question]
			if seen[sq.Question.Question] {
				t.Errorf("question %q served twice", sq.Question.Question)
			}
			seen[sq.Question.Question] = true
			if sq.Options[sq.Answer] != orig.CorrectOption() {
				t.Errorf("seed %d: %q answer = %q, want %q", seed, sq.Question.Question, sq.Options[sq.Answer], orig.CorrectOption())
			}
		}
	}
}

func TestRecordAnswer_Correct(t *testing.T) {
	qs, _ := BuildSession(testRand(3), []questions.Question{twoPlusTwo()}, 1)
	s := NewSession("id", qs)

	resp, ok := RecordAnswer(s, 0, qs[0].Answer)
	if !ok {
		t.Fatal("expected answer to be recorded")
	}
	if !resp.Correct {
		t.Error("expected response to be correct")
	}
	if s.Results.Correct != 1 {
		t.Errorf("Correct = %d, want 1", s.Results.Correct)
	}
	if resp.Options[resp.CorrectIndex] != "4" {
		t.Errorf("correct option = %q, want %q", resp.Options[resp.CorrectIndex], "4")
	}
}

func TestRecordAnswer_SecondCallIgnored(t *testing.T) {
	qs, _ := BuildSession(testRand(3), []questions.Question{twoPlusTwo()}, 1)
	s := NewSession("id", qs)
	wrong := (qs[0].Answer + 1) % len(qs[0].Options)

	RecordAnswer(s, 0, qs[0].Answer)
	_, ok := RecordAnswer(s, 0, wrong)
	if ok {
		t.Error("second answer should be ignored")
	}
	if s.Results.Correct != 1 {
		t.Errorf("Correct = %d, want 1", s.Results.Correct)
	}
	if len(s.Results.Responses) != 1 {
		t.Errorf("len(Responses) = %d, want 1", len(s.Results.Responses))
	}
	if !s.Results.Responses[0].Correct {
		t.Error("first response was overwritten")
	}
}

func TestRecordAnswer_OutOfRangeIndex(t *testing.T) {
	s := NewSession("id", nil)
	if _, ok := RecordAnswer(s, 0, 0); ok {
		t.Error("expected no-op for missing question")
	}
}
