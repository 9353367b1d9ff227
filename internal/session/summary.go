package session

import (
	"fmt"
	"math"
	"slices"

	"github.com/abhisek/mathquiz/internal/questions"
)

// Score is the aggregate outcome shown at the top of the summary.
type Score struct {
	Percent int
	Correct int
	Wrong   int
	Total   int
}

// ScoreSummary derives the headline score from results.
func ScoreSummary(r Results) Score {
	s := Score{
		Correct: r.Correct,
		Total:   r.Total,
		Wrong:   max(r.Total-r.Correct, 0),
	}
	if r.Total > 0 {
		s.Percent = percent(r.Correct, r.Total)
	}
	return s
}

// SkillStat is the per-skill mastery breakdown, derived from responses.
type SkillStat struct {
	Skill   string
	Correct int
	Total   int
	Percent int
}

// Band is the score band used to colour a skill card.
type Band string

const (
	BandGood   Band = "good"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Band classifies the stat's percent.
func (s SkillStat) Band() Band {
	return BandFor(s.Percent)
}

// BandFor maps a percent score to its band.
func BandFor(percent int) Band {
	switch {
	case percent >= 85:
		return BandGood
	case percent >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// SkillStats groups responses by skill and orders them by percent, then
// attempts, then skill label.
func SkillStats(responses []Response) []SkillStat {
	index := make(map[string]int)
	var stats []SkillStat
	for _, r := range responses {
		skill := questions.SkillLabel(r.Topic)
		i, ok := index[skill]
		if !ok {
			i = len(stats)
			index[skill] = i
			stats = append(stats, SkillStat{Skill: skill})
		}
		stats[i].Total++
		if r.Correct {
			stats[i].Correct++
		}
	}

	for i := range stats {
		stats[i].Percent = percent(stats[i].Correct, stats[i].Total)
	}

	slices.SortStableFunc(stats, func(a, b SkillStat) int {
		if a.Percent != b.Percent {
			return b.Percent - a.Percent
		}
		if a.Total != b.Total {
			return b.Total - a.Total
		}
		return questions.Compare(a.Skill, b.Skill)
	})
	return stats
}

// FilterResponses returns the responses to list in the summary.
func FilterResponses(responses []Response, wrongOnly bool) []Response {
	if !wrongOnly {
		return responses
	}
	var out []Response
	for _, r := range responses {
		if !r.Correct {
			out = append(out, r)
		}
	}
	return out
}

// HasWrong reports whether any response is incorrect.
func HasWrong(responses []Response) bool {
	return slices.ContainsFunc(responses, func(r Response) bool { return !r.Correct })
}

// CountLabel describes how many responses the summary list is showing.
func CountLabel(wrongOnly bool, shown, total int) string {
	if total == 0 {
		return ""
	}
	if wrongOnly {
		return fmt.Sprintf("Showing wrong only (%d)", shown)
	}
	return fmt.Sprintf("Showing all (%d/%d)", shown, total)
}

// EmptyListLabel is shown in place of an empty summary list.
func EmptyListLabel(wrongOnly bool) string {
	if wrongOnly {
		return "No wrong answers to show."
	}
	return "Nothing to show yet."
}

func percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
