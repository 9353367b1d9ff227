package session

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/abhisek/mathquiz/internal/questions"
)

var (
	ErrNoQuestions   = errors.New("no questions available")
	ErrCountTooSmall = errors.New("requested question count must be at least one")
	ErrNoMatch       = errors.New("no questions match the selection")
	ErrNotActive     = errors.New("no active session")
	ErrNotAnswered   = errors.New("current question has not been answered")
	ErrInvalidChoice = errors.New("choice is out of range")
	ErrNotComplete   = errors.New("session is not complete")
)

// BuildSession shuffles pool, keeps min(requested, len(pool)) questions and
// shuffles each question's options. A count below one is rejected before
// the pool is looked at.
func BuildSession(r *rand.Rand, pool []questions.Question, requested int) ([]questions.SessionQuestion, error) {
	if requested < 1 {
		return nil, ErrCountTooSmall
	}
	if len(pool) == 0 {
		return nil, ErrNoMatch
	}

	count := min(requested, len(pool))
	picked := questions.Shuffle(r, pool)[:count]

	out := make([]questions.SessionQuestion, count)
	for i, q := range picked {
		out[i] = questions.PrepareForSession(r, q)
	}
	return out, nil
}

// RecordAnswer appends the response for the question at index. A question
// can be answered once; later calls change nothing and return false.
func RecordAnswer(s *Session, index, chosen int) (Response, bool) {
	if index < 0 || index >= len(s.Questions) || s.Answered[index] {
		return Response{}, false
	}

	q := s.Questions[index]
	resp := Response{
		Question:     q.Question.Question,
		Options:      slices.Clone(q.Options),
		Chosen:       chosen,
		CorrectIndex: q.Answer,
		Topic:        q.Topic,
		Image:        q.Image,
		ImageAlt:     q.ImageAlt,
		Correct:      chosen == q.Answer,
	}

	s.Answered[index] = true
	s.Results.Responses = append(s.Results.Responses, resp)
	if resp.Correct {
		s.Results.Correct++
	}
	resp.Options = slices.Clone(resp.Options)
	return resp, true
}
