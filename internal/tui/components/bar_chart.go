package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/gbrtax/internal/tui/tuistyles"
)

// BarChart draws one horizontal bar per labelled value
type BarChart struct {
	Title  string
	Labels []string
	Values []float64
	Format string
	Width  int
	// Highlight marks one row, -1 for none
	Highlight int
}

// NewBarChart creates a chart with the given bar width
func NewBarChart(title string, width int) *BarChart {
	return &BarChart{Title: title, Format: "%.1f", Width: width, Highlight: -1}
}

// Add appends a bar
func (c *BarChart) Add(label string, value float64) *BarChart {
	c.Labels = append(c.Labels, label)
	c.Values = append(c.Values, value)
	return c
}

// Render returns the chart. Bars scale to the largest value.
func (c *BarChart) Render() string {
	if len(c.Values) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	maxVal := 0.0
	labelWidth := 0
	for i, v := range c.Values {
		if v > maxVal {
			maxVal = v
		}
		if w := lipgloss.Width(c.Labels[i]); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(tuistyles.TitleStyle.Render(c.Title))
		b.WriteString("\n")
	}
	for i, v := range c.Values {
		n := 0
		if maxVal > 0 && v > 0 {
			n = int(float64(c.Width) * v / maxVal)
		}
		style := tuistyles.SliderThumbStyle
		if i == c.Highlight {
			style = style.Foreground(tuistyles.ColorAccent)
		}
		fmt.Fprintf(&b, "%*s │%s %s\n", labelWidth, c.Labels[i],
			style.Render(strings.Repeat("█", n)), fmt.Sprintf(c.Format, v))
	}
	return strings.TrimRight(b.String(), "\n")
}
