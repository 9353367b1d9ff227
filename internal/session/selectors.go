package session

import (
	"slices"

	"github.com/abhisek/mathquiz/internal/questions"
)

// Selector is the state of one facet dropdown. Value is the raw selection:
// empty (nothing chosen), questions.AllValue, or one of Options.
type Selector struct {
	Options []string
	Value   string
	Enabled bool
}

// Selected returns the selection as a filter value.
func (s Selector) Selected() string {
	return questions.NormalizeFilterValue(s.Value)
}

func (s Selector) clone() Selector {
	s.Options = slices.Clone(s.Options)
	return s
}

// Selectors holds the grade, subject and topic cascade. Changing a facet
// repopulates and resets every facet below it; a lower facet stays
// disabled until its parent has a selection.
type Selectors struct {
	Grade   Selector
	Subject Selector
	Topic   Selector
}

// Filters returns the current selection as question filters.
func (s Selectors) Filters() questions.Filters {
	return questions.Filters{
		Grade:   s.Grade.Selected(),
		Subject: s.Subject.Selected(),
		Topic:   s.Topic.Selected(),
	}
}

func (s Selectors) clone() Selectors {
	return Selectors{
		Grade:   s.Grade.clone(),
		Subject: s.Subject.clone(),
		Topic:   s.Topic.clone(),
	}
}

// resetSelectors populates the grade selector from bank with "all" chosen
// and cascades downwards.
func resetSelectors(bank []questions.Question) Selectors {
	var s Selectors
	s.Grade = Selector{
		Options: questions.UniqueValues(bank, questions.FieldGrade, nil),
		Value:   questions.AllValue,
		Enabled: len(bank) > 0,
	}
	s.selectGrade(bank, questions.AllValue)
	return s
}

func (s *Selectors) selectGrade(bank []questions.Question, raw string) {
	s.Grade.Value = raw
	s.Subject = Selector{}
	s.Topic = Selector{}
	if raw == "" {
		return
	}

	grade := questions.NormalizeFilterValue(raw)
	subjects := questions.UniqueValues(bank, questions.FieldSubject, func(q questions.Question) bool {
		return grade == "" || q.Grade == grade
	})
	s.Subject = Selector{
		Options: subjects,
		Value:   questions.AllValue,
		Enabled: len(subjects) > 0,
	}
	if s.Subject.Enabled {
		s.selectSubject(bank, questions.AllValue)
	}
}

func (s *Selectors) selectSubject(bank []questions.Question, raw string) {
	s.Subject.Value = raw
	s.Topic = Selector{}
	if raw == "" {
		return
	}

	grade := s.Grade.Selected()
	subject := questions.NormalizeFilterValue(raw)
	topics := questions.UniqueValues(bank, questions.FieldTopic, func(q questions.Question) bool {
		return (grade == "" || q.Grade == grade) && (subject == "" || q.Subject == subject)
	})
	s.Topic = Selector{
		Options: topics,
		Value:   questions.AllValue,
		Enabled: len(topics) > 0,
	}
}

// validChoice reports whether raw may be selected on sel.
func validChoice(sel Selector, raw string) bool {
	return raw == "" || raw == questions.AllValue || slices.Contains(sel.Options, raw)
}
