package session

import "github.com/abhisek/mathquiz/internal/questions"

// Phase represents where the controller is in the quiz lifecycle.
type Phase int

const (
	PhaseIdle      Phase = iota // No questions loaded
	PhaseFiltering              // Choosing facets and a question count
	PhaseActive                 // Serving questions
	PhaseComplete               // Showing the summary
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFiltering:
		return "filtering"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// Response records one answered question. Responses are appended in answer
// order and never modified afterwards.
type Response struct {
	Question     string
	Options      []string // Session order
	Chosen       int
	CorrectIndex int
	Topic        string
	Image        string
	ImageAlt     string
	Correct      bool
}

// Results accumulates the outcome of a session.
type Results struct {
	Responses []Response
	Correct   int
	Total     int // Number of questions served
}

// Session is one randomized run over a filtered pool.
type Session struct {
	// ID correlates log lines for one run.
	ID string

	Questions []questions.SessionQuestion

	// Answered marks which question indexes have a recorded response.
	Answered []bool

	Results Results
}

// NewSession wraps prepared questions in a fresh session.
func NewSession(id string, qs []questions.SessionQuestion) *Session {
	return &Session{
		ID:        id,
		Questions: qs,
		Answered:  make([]bool, len(qs)),
		Results:   Results{Total: len(qs)},
	}
}

// IsAnswered reports whether the question at index has been answered.
func (s *Session) IsAnswered(index int) bool {
	return index >= 0 && index < len(s.Answered) && s.Answered[index]
}
