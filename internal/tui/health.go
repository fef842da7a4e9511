package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

// healthModel shows the recent sleep chart and lets the user log a
// day's numbers by hand when no device sync happened.
type healthModel struct {
	store  *store.Store
	cfg    store.AppConfig
	width  int
	height int

	rows  []store.HealthRow
	chart barchart.Model

	formActive bool
	form       *huh.Form

	formSleep   *string
	formBattery *string
	formSteps   *string
	formStress  *string
}

func newHealthModel(s *store.Store, cfg store.AppConfig) healthModel {
	sleep, battery, steps, stress := "", "", "", ""
	return healthModel{
		store:       s,
		cfg:         cfg,
		chart:       barchart.New(60, 10),
		formSleep:   &sleep,
		formBattery: &battery,
		formSteps:   &steps,
		formStress:  &stress,
	}
}

func (m *healthModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m healthModel) refresh() tea.Cmd {
	return func() tea.Msg {
		date := time.Now().In(m.cfg.Timezone).Format("2006-01-02")
		rows, _ := m.store.RecentHealth(m.cfg.UserID, date, 14)
		return healthDataMsg{rows: rows}
	}
}

func (m healthModel) update(msg tea.Msg) (healthModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case healthDataMsg:
		m.rows = msg.rows
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.New):
			return m.showLogForm()
		case key.Matches(msg, keys.Refresh):
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *healthModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 10)

	// Oldest on the left.
	var bars []barchart.BarData
	for i := len(m.rows) - 1; i >= 0; i-- {
		row := m.rows[i]
		label := row.Date[5:] // MM-DD

		hours := 0.0
		style := lipgloss.NewStyle().Foreground(colorSubtle)
		if row.SleepHours != nil {
			hours = *row.SleepHours
			switch v := engine.ClassifySleep(healthSnapshot(&row)); v.State {
			case engine.ConfidenceNegative:
				style = lipgloss.NewStyle().Foreground(colorError)
			case engine.ConfidenceHigh:
				style = lipgloss.NewStyle().Foreground(colorSecondary)
			default:
				style = lipgloss.NewStyle().Foreground(colorWarning)
			}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: "sleep", Value: hours, Style: style}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m healthModel) showLogForm() (healthModel, tea.Cmd) {
	date := time.Now().In(m.cfg.Timezone).Format("2006-01-02")
	*m.formSleep, *m.formBattery, *m.formSteps, *m.formStress = "", "", "", ""
	if row, err := m.store.GetHealth(m.cfg.UserID, date); err == nil && row != nil {
		if row.SleepHours != nil {
			*m.formSleep = strconv.FormatFloat(*row.SleepHours, 'f', 1, 64)
		}
		if row.BodyBattery != nil {
			*m.formBattery = strconv.Itoa(*row.BodyBattery)
		}
		if row.Steps != nil {
			*m.formSteps = strconv.Itoa(*row.Steps)
		}
		if row.Stress != nil {
			*m.formStress = strconv.Itoa(*row.Stress)
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Sleep (hours)").Value(m.formSleep),
			huh.NewInput().Title("Body battery (1-100)").Value(m.formBattery),
			huh.NewInput().Title("Steps").Value(m.formSteps),
			huh.NewInput().Title("Stress (0-100)").Value(m.formStress),
		).Title("Log today"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m healthModel) updateForm(msg tea.Msg) (healthModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if err := m.saveLog(); err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Log health: %v", err), isError: true}
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m healthModel) saveLog() error {
	row := store.HealthRow{
		UserID: m.cfg.UserID,
		Date:   time.Now().In(m.cfg.Timezone).Format("2006-01-02"),
	}

	if *m.formSleep != "" {
		v, err := strconv.ParseFloat(*m.formSleep, 64)
		if err != nil {
			return fmt.Errorf("sleep %q: %w", *m.formSleep, err)
		}
		row.SleepHours = &v
	}
	if *m.formBattery != "" {
		v, err := strconv.Atoi(*m.formBattery)
		if err != nil {
			return fmt.Errorf("battery %q: %w", *m.formBattery, err)
		}
		row.BodyBattery = &v
	}
	if *m.formSteps != "" {
		v, err := strconv.Atoi(*m.formSteps)
		if err != nil {
			return fmt.Errorf("steps %q: %w", *m.formSteps, err)
		}
		row.Steps = &v
	}
	if *m.formStress != "" {
		v, err := strconv.Atoi(*m.formStress)
		if err != nil {
			return fmt.Errorf("stress %q: %w", *m.formStress, err)
		}
		row.Stress = &v
	}

	return m.store.UpsertHealth(row)
}

func (m healthModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Health")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Sleep, last two weeks")

	var trendLine string
	history := healthHistory(m.rows)
	verdict := engine.AnalyzeTrend(history, m.cfg.Engine.TrendWindow)
	trendLine = fmt.Sprintf("%s %s  %s",
		titleStyle.Render("Trend:"),
		highlightStyle.Render(string(verdict.Trend)),
		mutedStyle.Render(verdict.Message))
	if verdict.ConservationMode {
		trendLine += "  " + warningStyle.Render("CONSERVATION")
	}

	table := m.renderTable(w)
	nav := mutedStyle.Render("  n: log today  r: refresh")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", m.chart.View(), "", trendLine, "", table, "", nav,
		),
	)
}

func (m healthModel) renderTable(w int) string {
	if len(m.rows) == 0 {
		return mutedStyle.Render("  No health data yet. Press n to log today.")
	}

	var rows []string
	header := mutedStyle.Render(fmt.Sprintf("  %-12s %8s %9s %8s %8s", "Date", "Sleep", "Battery", "Steps", "Stress"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 50))))

	limit := min(len(m.rows), 7)
	for _, row := range m.rows[:limit] {
		rows = append(rows, fmt.Sprintf("  %-12s %8s %9s %8s %8s",
			row.Date,
			fmtFloatCell(row.SleepHours),
			fmtIntCell(row.BodyBattery),
			fmtIntCell(row.Steps),
			fmtIntCell(row.Stress),
		))
	}
	return strings.Join(rows, "\n")
}

func fmtFloatCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1fh", *v)
}

func fmtIntCell(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
