package components

import (
	"strings"
	"testing"
)

func TestProgressBar_Fraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 4, 0.25},
		{4, 4, 1},
		{5, 4, 1},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.done, tt.total, false, 20)
		if got := p.Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestProgressBar_PercentRounds(t *testing.T) {
	p := NewProgressBar("", 2, 3, true, 30)
	if got := p.Percent(); got != 67 {
		t.Errorf("Percent = %d, want 67", got)
	}
	if !strings.Contains(p.View(), "67%") {
		t.Error("view should show the rounded percentage")
	}
}

func TestProgressBar_ViewShowsLabel(t *testing.T) {
	p := NewProgressBar("3/10", 2, 10, false, 40)
	view := p.View()
	if !strings.Contains(view, "3/10") {
		t.Error("view should contain the label")
	}
	if strings.Contains(view, "%") {
		t.Error("percent hidden unless requested")
	}
}
