package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// ProgressBar shows done out of total as a filled bar.
type ProgressBar struct {
	Label       string
	Done        int
	Total       int
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a progress bar of the given overall width.
func NewProgressBar(label string, done, total int, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Done:        done,
		Total:       total,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Fraction is done over total clamped to [0, 1]. An empty total is 0.
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// Percent is Fraction rounded to a whole percentage.
func (p ProgressBar) Percent() int {
	return int(math.Round(p.Fraction() * 100))
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label) + "  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %3d%%", p.Percent())
	}

	barWidth := max(p.Width-lipgloss.Width(b.String())-len(suffix), 4)
	filled := int(math.Round(float64(barWidth) * p.Fraction()))

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
