package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquiz/internal/questions"
)

func TestScoreSummary(t *testing.T) {
	tests := []struct {
		name    string
		results Results
		want    Score
	}{
		{"empty", Results{}, Score{}},
		{"all correct", Results{Correct: 1, Total: 1}, Score{Percent: 100, Correct: 1, Wrong: 0, Total: 1}},
		{"all wrong", Results{Correct: 0, Total: 1}, Score{Percent: 0, Correct: 0, Wrong: 1, Total: 1}},
		{"rounds half up", Results{Correct: 1, Total: 8}, Score{Percent: 13, Correct: 1, Wrong: 7, Total: 8}},
		{"two thirds", Results{Correct: 2, Total: 3}, Score{Percent: 67, Correct: 2, Wrong: 1, Total: 3}},
		{"wrong floors at zero", Results{Correct: 3, Total: 2}, Score{Percent: 150, Correct: 3, Wrong: 0, Total: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreSummary(tt.results))
		})
	}
}

func TestSkillStats_Ordering(t *testing.T) {
	responses := []Response{
		{Topic: "Fractions", Correct: true},
		{Topic: "Fractions", Correct: false},
		{Topic: "Addition", Correct: true},
		{Topic: "Addition", Correct: true},
		{Topic: "", Correct: false},
		{Topic: "Decimals", Correct: true},
		{Topic: "Geometry", Correct: true},
		{Topic: "Geometry", Correct: false},
	}

	got := SkillStats(responses)
	want := []SkillStat{
		{Skill: "Addition", Correct: 2, Total: 2, Percent: 100},
		{Skill: "Decimals", Correct: 1, Total: 1, Percent: 100},
		{Skill: "Fractions", Correct: 1, Total: 2, Percent: 50},
		{Skill: "Geometry", Correct: 1, Total: 2, Percent: 50},
		{Skill: questions.FallbackSkill, Correct: 0, Total: 1, Percent: 0},
	}
	assert.Equal(t, want, got)
}

func TestSkillStats_Empty(t *testing.T) {
	assert.Empty(t, SkillStats(nil))
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		percent int
		want    Band
	}{
		{100, BandGood},
		{85, BandGood},
		{84, BandMedium},
		{60, BandMedium},
		{59, BandLow},
		{0, BandLow},
	}
	for _, tt := range tests {
		if got := BandFor(tt.percent); got != tt.want {
			t.Errorf("BandFor(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestFilterResponses(t *testing.T) {
	responses := []Response{
		{Question: "a", Correct: true},
		{Question: "b", Correct: false},
		{Question: "c", Correct: false},
	}

	require.Len(t, FilterResponses(responses, false), 3)

	wrong := FilterResponses(responses, true)
	require.Len(t, wrong, 2)
	assert.Equal(t, "b", wrong[0].Question)
	assert.Equal(t, "c", wrong[1].Question)
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "", CountLabel(false, 0, 0))
	assert.Equal(t, "Showing all (3/3)", CountLabel(false, 3, 3))
	assert.Equal(t, "Showing wrong only (2)", CountLabel(true, 2, 3))
}
