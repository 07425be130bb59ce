package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/gbrtax/internal/tui/tuistyles"
)

// ParameterSlider is an adjustable numeric input drawn as a bar
type ParameterSlider struct {
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // suffix, e.g. " €" or "%"
	Format      string
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider. The value is clamped to the range.
func NewParameterSlider(label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.0f",
		Width:  30,
	}
	p.SetValue(value)
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithFormat sets the value format string
func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

// WithWidth sets the bar width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// WithDescription adds help text
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment raises the value by one step, stopping at Max
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value + p.Step)
}

// Decrement lowers the value by one step, stopping at Min
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value - p.Step)
}

// SetValue sets the value, clamping to min/max. NaN resets to Min.
func (p *ParameterSlider) SetValue(value float64) {
	if math.IsNaN(value) {
		p.Value = p.Min
		return
	}
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Percentage returns the position within the range, 0..1
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

func (p *ParameterSlider) formatted(v float64) string {
	return fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns label, value and bar on separate lines
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(p.Label))
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(p.formatted(p.Value)))
	b.WriteString("\n")
	b.WriteString(p.renderBar())
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).
		Render(fmt.Sprintf("%s ─ %s", p.formatted(p.Min), p.formatted(p.Max))))

	if p.IsFocused && p.Description != "" {
		b.WriteString("\n")
		b.WriteString(tuistyles.InfoStyle.Render(p.Description))
	}
	return b.String()
}

func (p *ParameterSlider) renderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > p.Width {
		filled = p.Width
	}

	thumb := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumb = thumb.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumb.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumb.Render("●"))
	if rest := p.Width - filled - 1; rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
