package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/abhisek/mathquiz/internal/questions"
)

// ErrSessionInProgress is returned when starting while a session is running.
var ErrSessionInProgress = errors.New("a session is already in progress")

// ErrUnknownFacet is returned when selecting a value a selector does not offer.
var ErrUnknownFacet = errors.New("unknown facet value")

// Controller owns the quiz state. All changes go through its transition
// methods; the presentation layer reads Snapshot values only.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	rng    *rand.Rand
	newID  func() string
	logger *slog.Logger

	bank      []questions.Question
	phase     Phase
	status    string
	selectors Selectors

	session *Session
	current int

	wrongOnly     bool
	skillsVisible bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithIDGenerator overrides how session IDs are generated.
func WithIDGenerator(f func() string) Option {
	return func(c *Controller) { c.newID = f }
}

// NewController creates an idle controller with no questions loaded.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		newID:  func() string { return uuid.New().String() },
		logger: slog.New(slog.DiscardHandler),
		phase:  PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Load replaces the question bank. An empty bank leaves the controller idle
// with a "no questions" status; otherwise it moves to Filtering.
func (c *Controller) Load(bank []questions.Question) {
	c.bank = slices.Clone(bank)
	c.discardSession()
	c.selectors = resetSelectors(c.bank)

	if len(c.bank) == 0 {
		c.phase = PhaseIdle
		c.status = "No questions available."
		c.logger.Warn("question bank is empty")
		return
	}
	c.phase = PhaseFiltering
	c.status = ""
	c.logger.Info("question bank loaded", "questions", len(c.bank))
}

// SelectGrade chooses a grade and resets the subject and topic selectors.
func (c *Controller) SelectGrade(raw string) error {
	if c.phase != PhaseFiltering {
		return ErrSessionInProgress
	}
	if !validChoice(c.selectors.Grade, raw) {
		return fmt.Errorf("grade %q: %w", raw, ErrUnknownFacet)
	}
	c.status = ""
	c.selectors.selectGrade(c.bank, raw)
	return nil
}

// SelectSubject chooses a subject and resets the topic selector.
func (c *Controller) SelectSubject(raw string) error {
	if c.phase != PhaseFiltering {
		return ErrSessionInProgress
	}
	if !c.selectors.Subject.Enabled || !validChoice(c.selectors.Subject, raw) {
		return fmt.Errorf("subject %q: %w", raw, ErrUnknownFacet)
	}
	c.status = ""
	c.selectors.selectSubject(c.bank, raw)
	return nil
}

// SelectTopic chooses a topic.
func (c *Controller) SelectTopic(raw string) error {
	if c.phase != PhaseFiltering {
		return ErrSessionInProgress
	}
	if !c.selectors.Topic.Enabled || !validChoice(c.selectors.Topic, raw) {
		return fmt.Errorf("topic %q: %w", raw, ErrUnknownFacet)
	}
	c.status = ""
	c.selectors.Topic.Value = raw
	return nil
}

// Start builds a session of up to count questions from the current filter
// selection. Selection errors leave the controller in Filtering with an
// inline status message.
func (c *Controller) Start(count int) error {
	switch c.phase {
	case PhaseIdle:
		c.status = StatusMessage(ErrNoQuestions)
		return ErrNoQuestions
	case PhaseActive, PhaseComplete:
		return ErrSessionInProgress
	}

	pool := questions.Filter(c.bank, c.selectors.Filters())
	qs, err := BuildSession(c.rng, pool, count)
	if err != nil {
		c.discardSession()
		c.status = StatusMessage(err)
		c.logger.Debug("session not started", "requested", count, "pool", len(pool), "error", err)
		return err
	}

	c.discardSession()
	c.session = NewSession(c.newID(), qs)
	c.current = 0
	c.phase = PhaseActive
	c.status = ""
	c.logger.Info("session started",
		"session_id", c.session.ID,
		"requested", count,
		"pool", len(pool),
		"questions", len(qs),
	)
	return nil
}

// Answer records choice for the current question. Answering an already
// answered question is ignored and reports false.
func (c *Controller) Answer(choice int) (Response, bool, error) {
	if c.phase != PhaseActive || c.session == nil {
		return Response{}, false, ErrNotActive
	}
	q := c.session.Questions[c.current]
	if choice < 0 || choice >= len(q.Options) {
		return Response{}, false, fmt.Errorf("choice %d of %d: %w", choice, len(q.Options), ErrInvalidChoice)
	}

	resp, ok := RecordAnswer(c.session, c.current, choice)
	if ok {
		c.logger.Debug("answer recorded",
			"session_id", c.session.ID,
			"index", c.current,
			"correct", resp.Correct,
		)
	}
	return resp, ok, nil
}

// Next advances past the answered current question, completing the
// session after the last one.
func (c *Controller) Next() error {
	if c.phase != PhaseActive || c.session == nil {
		return ErrNotActive
	}
	if !c.session.IsAnswered(c.current) {
		return ErrNotAnswered
	}

	if c.current+1 < len(c.session.Questions) {
		c.current++
		return nil
	}

	c.phase = PhaseComplete
	c.wrongOnly = false
	c.skillsVisible = false
	score := ScoreSummary(c.session.Results)
	c.logger.Info("session complete",
		"session_id", c.session.ID,
		"correct", score.Correct,
		"total", score.Total,
		"percent", score.Percent,
	)
	return nil
}

// Home discards any session and returns to Filtering.
func (c *Controller) Home() {
	if c.phase == PhaseIdle {
		return
	}
	c.discardSession()
	c.phase = PhaseFiltering
	c.status = ""
}

// ToggleWrongOnly switches the summary list between all and wrong answers.
// It has no effect when there are no wrong answers.
func (c *Controller) ToggleWrongOnly() error {
	if c.phase != PhaseComplete {
		return ErrNotComplete
	}
	if !HasWrong(c.session.Results.Responses) {
		c.wrongOnly = false
		return nil
	}
	c.wrongOnly = !c.wrongOnly
	return nil
}

// ToggleSkills shows or hides the per-skill mastery breakdown.
func (c *Controller) ToggleSkills() error {
	if c.phase != PhaseComplete {
		return ErrNotComplete
	}
	if len(c.session.Results.Responses) == 0 {
		c.skillsVisible = false
		return nil
	}
	c.skillsVisible = !c.skillsVisible
	return nil
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

func (c *Controller) discardSession() {
	c.session = nil
	c.current = 0
	c.wrongOnly = false
	c.skillsVisible = false
}

// StatusMessage maps a selection error to the inline message shown to the
// user. Unknown errors produce their own text.
func StatusMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoQuestions):
		return "No questions available yet."
	case errors.Is(err, ErrCountTooSmall):
		return "Choose at least one question."
	case errors.Is(err, ErrNoMatch):
		return "No questions match that selection yet."
	}
	return err.Error()
}
