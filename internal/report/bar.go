package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// ProbabilityBar displays a probability as a horizontal bar.
type ProbabilityBar struct {
	Label       string
	Probability float64
	Width       int
}

// View renders the bar followed by the probability as a percentage.
func (p ProbabilityBar) View() string {
	var result string

	if p.Label != "" {
		result += Label.Render(p.Label) + "  "
	}

	barWidth := p.Width - lipgloss.Width(result) - 8 // "  100.0%"
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth)*p.Probability + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	result += lipgloss.NewStyle().Foreground(BarFilled).Render(strings.Repeat("█", filled))
	result += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("░", barWidth-filled))
	result += Label.Render(fmt.Sprintf("  %5.1f%%", p.Probability*100))
	return result
}
