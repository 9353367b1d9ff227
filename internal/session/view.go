package session

import "slices"

// View is a read-only snapshot of the controller for the presentation
// layer. It shares no mutable state with the controller.
type View struct {
	Phase     Phase
	Status    string
	BankSize  int
	Selectors Selectors

	SessionID string
	Index     int // Zero-based index of the current question
	Count     int // Questions in the session

	Current *QuestionView
	Summary *SummaryView
}

// QuestionView describes the question on screen. CorrectIndex and Chosen
// are -1 until the question is answered.
type QuestionView struct {
	Question     string
	Options      []string
	Topic        string
	Image        string
	ImageAlt     string
	Answered     bool
	Chosen       int
	CorrectIndex int
	Correct      bool
	Last         bool
}

// SummaryView is everything the summary screen shows.
type SummaryView struct {
	Score Score

	Items      []Response // Filtered list, in answer order
	CountLabel string
	EmptyLabel string

	WrongOnly          bool
	WrongToggleEnabled bool

	Skills              []SkillStat
	SkillsVisible       bool
	SkillsToggleEnabled bool
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	v := View{
		Phase:     c.phase,
		Status:    c.status,
		BankSize:  len(c.bank),
		Selectors: c.selectors.clone(),
	}
	if c.session == nil {
		return v
	}

	v.SessionID = c.session.ID
	v.Index = c.current
	v.Count = len(c.session.Questions)

	switch c.phase {
	case PhaseActive:
		v.Current = c.questionView()
	case PhaseComplete:
		v.Summary = c.summaryView()
	}
	return v
}

func (c *Controller) questionView() *QuestionView {
	q := c.session.Questions[c.current]
	qv := &QuestionView{
		Question:     q.Question.Question,
		Options:      slices.Clone(q.Options),
		Topic:        q.Topic,
		Image:        q.Image,
		ImageAlt:     q.ImageAlt,
		Chosen:       -1,
		CorrectIndex: -1,
		Last:         c.current == len(c.session.Questions)-1,
	}
	if !c.session.IsAnswered(c.current) {
		return qv
	}

	// The response for the current question is the latest one appended.
	responses := c.session.Results.Responses
	resp := responses[len(responses)-1]
	qv.Answered = true
	qv.Chosen = resp.Chosen
	qv.CorrectIndex = resp.CorrectIndex
	qv.Correct = resp.Correct
	return qv
}

func (c *Controller) summaryView() *SummaryView {
	responses := c.session.Results.Responses
	items := FilterResponses(responses, c.wrongOnly)
	skills := SkillStats(responses)

	return &SummaryView{
		Score:               ScoreSummary(c.session.Results),
		Items:               cloneResponses(items),
		CountLabel:          CountLabel(c.wrongOnly, len(items), len(responses)),
		EmptyLabel:          EmptyListLabel(c.wrongOnly),
		WrongOnly:           c.wrongOnly,
		WrongToggleEnabled:  HasWrong(responses),
		Skills:              skills,
		SkillsVisible:       c.skillsVisible && len(skills) > 0,
		SkillsToggleEnabled: len(skills) > 0,
	}
}

// cloneResponses copies responses along with their option slices.
func cloneResponses(in []Response) []Response {
	out := make([]Response, len(in))
	for i, r := range in {
		r.Options = slices.Clone(r.Options)
		out[i] = r
	}
	return out
}
