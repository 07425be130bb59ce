package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/tui/components"
	"github.com/rgehrsitz/gbrtax/internal/tui/tuimsg"
	"github.com/rgehrsitz/gbrtax/internal/tui/tuistyles"
)

// slider positions; partnership sliders first, then the selected partner's
const (
	sliderMonthlyProfit = iota
	sliderSafetyMargin
	sliderBaseIncome
	sliderShare
)

var parameterKeys = struct {
	Up, Down, Left, Right, NextPartner, PrevPartner, Church, Joint, Apply, Reset, Save key.Binding
}{
	Up:          key.NewBinding(key.WithKeys("up", "k")),
	Down:        key.NewBinding(key.WithKeys("down", "j")),
	Left:        key.NewBinding(key.WithKeys("left")),
	Right:       key.NewBinding(key.WithKeys("right")),
	NextPartner: key.NewBinding(key.WithKeys("tab")),
	PrevPartner: key.NewBinding(key.WithKeys("shift+tab")),
	Church:      key.NewBinding(key.WithKeys("K")),
	Joint:       key.NewBinding(key.WithKeys("J")),
	Apply:       key.NewBinding(key.WithKeys("enter")),
	Reset:       key.NewBinding(key.WithKeys("backspace")),
	Save:        key.NewBinding(key.WithKeys("ctrl+s")),
}

// ParametersModel edits the partnership profit, the safety margin and each
// partner's base income and share
type ParametersModel struct {
	original        *domain.Configuration
	config          *domain.Configuration
	savePath        string
	selectedPartner int
	sliders         []*components.ParameterSlider
	focusedSlider   int
	width           int
	height          int
	modified        bool
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	return &ParametersModel{}
}

// SetConfig starts editing a copy of cfg. Saving writes next to savePath.
func (m *ParametersModel) SetConfig(cfg *domain.Configuration, savePath string) {
	if cfg == nil {
		return
	}
	m.original = cfg
	m.config = cloneConfig(cfg)
	m.savePath = savePath
	m.selectedPartner = 0
	m.modified = false
	m.buildSliders()
}

// Config returns the edited scenario
func (m *ParametersModel) Config() *domain.Configuration {
	return m.config
}

// Modified reports unapplied or unsaved edits
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func cloneConfig(cfg *domain.Configuration) *domain.Configuration {
	c := *cfg
	c.Partners = make([]domain.PartnerTaxProfile, len(cfg.Partners))
	copy(c.Partners, cfg.Partners)
	if cfg.Partnership.MunicipalMultiplier != nil {
		mult := *cfg.Partnership.MunicipalMultiplier
		c.Partnership.MunicipalMultiplier = &mult
	}
	return &c
}

func (m *ParametersModel) buildSliders() {
	focused := m.focusedSlider
	p := m.config.Partnership

	m.sliders = []*components.ParameterSlider{
		components.NewParameterSlider("Monthly profit", p.MonthlyProfit.InexactFloat64(), 0, 50000, 250).
			WithUnit(" €").WithWidth(40).
			WithDescription("Partnership profit per month before taxes"),
		components.NewParameterSlider("Safety margin", p.SafetyMargin.Mul(domain.Hundred).InexactFloat64(), 0, 30, 1).
			WithUnit("%").WithWidth(40).
			WithDescription("Extra reserve on top of the computed tax"),
	}

	if m.selectedPartner < len(m.config.Partners) {
		partner := m.config.Partners[m.selectedPartner]
		m.sliders = append(m.sliders,
			components.NewParameterSlider("Base income", partner.BaseIncome.InexactFloat64(), 0, 300000, 1000).
				WithUnit(" €").WithWidth(40).
				WithDescription("Annual taxable income outside the partnership"),
			components.NewParameterSlider("Profit share", partner.Share.InexactFloat64(), 0, 100, 5).
				WithUnit("%").WithWidth(40).
				WithDescription("Shares are scaled to 100% before calculating"),
		)
	}

	if focused >= len(m.sliders) {
		focused = 0
	}
	m.focusedSlider = focused
	m.sliders[focused].SetFocused(true)
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.config != nil {
		return m.handleKeyPress(keyMsg)
	}
	return m, nil
}

func (m *ParametersModel) handleKeyPress(msg tea.KeyMsg) (*ParametersModel, tea.Cmd) {
	switch {
	case key.Matches(msg, parameterKeys.Up):
		m.moveFocus(-1)
	case key.Matches(msg, parameterKeys.Down):
		m.moveFocus(1)
	case key.Matches(msg, parameterKeys.Left):
		m.sliders[m.focusedSlider].Decrement()
		m.applyChanges()
	case key.Matches(msg, parameterKeys.Right):
		m.sliders[m.focusedSlider].Increment()
		m.applyChanges()
	case key.Matches(msg, parameterKeys.NextPartner):
		m.selectPartner(m.selectedPartner + 1)
	case key.Matches(msg, parameterKeys.PrevPartner):
		m.selectPartner(m.selectedPartner - 1)
	case key.Matches(msg, parameterKeys.Church):
		m.togglePartner(func(p *domain.PartnerTaxProfile) { p.ChurchMember = !p.ChurchMember })
	case key.Matches(msg, parameterKeys.Joint):
		m.togglePartner(func(p *domain.PartnerTaxProfile) { p.JointAssessment = !p.JointAssessment })
	case key.Matches(msg, parameterKeys.Apply):
		cfg := cloneConfig(m.config)
		return m, func() tea.Msg { return tuimsg.ConfigChangedMsg{Config: cfg} }
	case key.Matches(msg, parameterKeys.Reset):
		m.SetConfig(m.original, m.savePath)
		cfg := cloneConfig(m.config)
		return m, func() tea.Msg { return tuimsg.ConfigChangedMsg{Config: cfg} }
	case key.Matches(msg, parameterKeys.Save):
		if m.modified {
			cfg := cloneConfig(m.config)
			path := m.SavePath()
			return m, func() tea.Msg { return tuimsg.SaveConfigMsg{Config: cfg, Filename: path} }
		}
	}
	return m, nil
}

// SavePath is where ctrl+s writes the edited scenario
func (m *ParametersModel) SavePath() string {
	if m.savePath == "" {
		return "gbr_modified.yaml"
	}
	return strings.TrimSuffix(m.savePath, ".yaml") + "_modified.yaml"
}

func (m *ParametersModel) moveFocus(delta int) {
	next := m.focusedSlider + delta
	if next < 0 || next >= len(m.sliders) {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = next
	m.sliders[next].SetFocused(true)
}

func (m *ParametersModel) selectPartner(i int) {
	if i < 0 || i >= len(m.config.Partners) {
		return
	}
	m.selectedPartner = i
	m.sliders[m.focusedSlider].SetFocused(false)
	m.buildSliders()
}

func (m *ParametersModel) togglePartner(fn func(p *domain.PartnerTaxProfile)) {
	if m.selectedPartner < len(m.config.Partners) {
		fn(&m.config.Partners[m.selectedPartner])
		m.modified = true
	}
}

// applyChanges writes slider values back into the edited scenario
func (m *ParametersModel) applyChanges() {
	m.modified = true
	for i, s := range m.sliders {
		switch i {
		case sliderMonthlyProfit:
			m.config.Partnership.MonthlyProfit = domain.AmountFromFloat(s.Value)
		case sliderSafetyMargin:
			m.config.Partnership.SafetyMargin = domain.AmountFromFloat(s.Value).Div(domain.Hundred)
		case sliderBaseIncome:
			m.config.Partners[m.selectedPartner].BaseIncome = domain.AmountFromFloat(s.Value)
		case sliderShare:
			m.config.Partners[m.selectedPartner].Share = domain.AmountFromFloat(s.Value)
		}
	}
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if m.config == nil {
		return tuistyles.BorderStyle.Render("No scenario loaded")
	}

	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Partnership"))
	b.WriteString("\n")
	fmt.Fprintf(&b, " Type: %s   Strategy: %s\n\n", m.config.Partnership.Type, m.config.Strategy)
	for i, s := range m.sliders {
		if i == sliderBaseIncome {
			b.WriteString("\n")
			b.WriteString(m.renderPartnerHeader())
			b.WriteString("\n")
		}
		b.WriteString(s.Render())
		b.WriteString("\n")
	}

	if total := m.ShareTotal(); !total.Equal(domain.Hundred) {
		b.WriteString("\n")
		b.WriteString(tuistyles.WarningStyle.Render(fmt.Sprintf("shares sum to %s%%", total.StringFixed(1))))
	}
	if m.modified {
		b.WriteString("\n")
		b.WriteString(tuistyles.WarningStyle.Render("modified, enter to recalculate, ctrl+s to save"))
	}
	b.WriteString("\n")
	b.WriteString(tuistyles.SubtitleStyle.Render("↑↓ select • ←→ adjust • tab partner • K church • J joint • backspace reset"))

	return tuistyles.BorderStyle.Width(max(40, m.width-4)).Render(b.String())
}

func (m *ParametersModel) renderPartnerHeader() string {
	p := m.config.Partners[m.selectedPartner]
	flags := []string{string(p.State)}
	if p.ChurchMember {
		flags = append(flags, "church")
	}
	if p.JointAssessment {
		flags = append(flags, "joint")
	}
	title := fmt.Sprintf("Partner %d/%d: %s", m.selectedPartner+1, len(m.config.Partners), p.DisplayName())
	return lipgloss.JoinHorizontal(lipgloss.Top,
		tuistyles.TitleStyle.Render(title),
		tuistyles.SubtitleStyle.Render("("+strings.Join(flags, ", ")+")"))
}

// ShareTotal is the sum of all partner shares as entered
func (m *ParametersModel) ShareTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range m.config.Partners {
		total = total.Add(p.Share)
	}
	return total
}
