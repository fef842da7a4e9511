package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

// todayModel renders the morning brief and the live focus card.
type todayModel struct {
	store  *store.Store
	cfg    store.AppConfig
	width  int
	height int

	brief       engine.Brief
	items       []engine.Item
	smallAction string
	loaded      bool
	now         time.Time
	refreshedAt time.Time
}

func newTodayModel(s *store.Store, cfg store.AppConfig) todayModel {
	return todayModel{store: s, cfg: cfg, now: time.Now().In(cfg.Timezone)}
}

func (m *todayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// loadData regenerates the brief from open items and recent health,
// then persists it so exports and reruns see the same plan.
func (m todayModel) loadData() tea.Cmd {
	return func() tea.Msg {
		now := time.Now().In(m.cfg.Timezone)
		date := now.Format("2006-01-02")

		open, err := m.store.ListItems(store.ItemFilter{Status: store.StatusOpen})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load items: %v", err), isError: true}
		}

		rows, err := m.store.RecentHealth(m.cfg.UserID, date, m.cfg.Engine.TrendWindow+1)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load health: %v", err), isError: true}
		}

		var snap *engine.HealthSnapshot
		var history []engine.HealthSnapshot
		if len(rows) > 0 && rows[0].Date == date {
			snap = healthSnapshot(&rows[0])
			history = healthHistory(rows[1:])
		} else {
			history = healthHistory(rows)
		}

		items := engineItems(open)
		brief := engine.GenerateBrief(items, snap, history, now, m.cfg.Engine)

		// The small action is derived here alongside the brief; the
		// view only renders cached state.
		var events []engine.Item
		for _, it := range items {
			if it.IsEvent() {
				events = append(events, it)
			}
		}
		trend := engine.AnalyzeTrend(history, m.cfg.Engine.TrendWindow)
		cal := engine.ComputeCalendarLoad(events)
		action := engine.SmallAction(snap, trend, cal, events, now)

		payload, err := json.Marshal(brief)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Encode brief: %v", err), isError: true}
		}
		err = m.store.UpsertBrief(store.BriefRow{
			UserID:       m.cfg.UserID,
			Date:         date,
			Payload:      string(payload),
			LoadScore:    brief.LoadScore,
			Conservation: brief.ConservationMode,
			GeneratedAt:  brief.GeneratedAt,
		})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Save brief: %v", err), isError: true}
		}

		return briefReadyMsg{brief: brief, items: items, smallAction: action}
	}
}

func (m todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case briefReadyMsg:
		m.brief = msg.brief
		m.items = msg.items
		m.smallAction = msg.smallAction
		m.loaded = true
		m.refreshedAt = m.now
		return m, nil

	case tickMsg:
		m.now = time.Time(msg).In(m.cfg.Timezone)
		// Reload on the configured cadence so the brief follows item
		// and health edits made elsewhere.
		every := time.Duration(m.cfg.FocusRefreshSecs) * time.Second
		if m.loaded && every > 0 && m.now.Sub(m.refreshedAt) >= every {
			m.refreshedAt = m.now
			return m, m.loadData()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return m, m.loadData()
		}
	}
	return m, nil
}

func (m todayModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4

	if !m.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Generating brief..."))
	}

	focus := m.renderFocusCard(w)
	plan := m.renderPlan(w)
	health := m.renderHealthLine(w)

	return lipgloss.JoinVertical(lipgloss.Left, focus, plan, health)
}

// renderFocusCard reevaluates the live focus each render so ongoing
// events take over the card the moment they start.
func (m todayModel) renderFocusCard(w int) string {
	focus := engine.SelectFocus(m.brief.DoingStructured, m.now)

	if focus == nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Nothing scheduled"),
			mutedStyle.Render("Capture something with n"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var label, when string
	var style lipgloss.Style
	switch focus.Status {
	case engine.StatusOngoing:
		label = "NOW"
		style = focusOngoingStyle
		when = "until " + formatClock(focus.Item.EndTime, m.cfg.Timezone)
	default:
		label = "NEXT"
		style = focusUpcomingStyle
		when = "at " + formatClock(focus.Item.StartTime, m.cfg.Timezone)
	}
	if focus.Item.StartTime == nil {
		when = "untimed"
	}

	header := style.Render(label)
	title := titleStyle.Render(focus.Item.Title)
	meta := mutedStyle.Render(fmt.Sprintf("%s  ·  priority %d  ·  %s",
		when, focus.Item.DerivedPriority, focus.Item.Domain))

	rows := []string{header, title, meta}
	if next := engine.NextUp(m.brief.DoingStructured, m.now, 1); len(next) > 0 {
		rows = append(rows, mutedStyle.Render("then: "+next[0].Title))
	}

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (m todayModel) renderPlan(w int) string {
	var rows []string

	loadBar := m.renderLoadBar(w - 20)
	mode := ""
	if m.brief.ConservationMode {
		mode = warningStyle.Render("  CONSERVATION")
	}
	rows = append(rows, fmt.Sprintf("%s %s%s", titleStyle.Render("Load"), loadBar, mode))
	rows = append(rows, "")

	rows = append(rows, titleStyle.Render("Doing today"))
	if len(m.brief.DoingStructured) == 0 {
		rows = append(rows, mutedStyle.Render("  nothing planned"))
	}
	for _, it := range m.brief.DoingStructured {
		marker := successStyle.Render("●")
		timeStr := ""
		if it.StartTime != nil {
			timeStr = mutedStyle.Render(" " + formatClock(it.StartTime, m.cfg.Timezone))
		}
		rows = append(rows, fmt.Sprintf("  %s %s%s", marker, it.Title, timeStr))
	}

	if len(m.brief.NotDoingStructured) > 0 {
		rows = append(rows, "")
		rows = append(rows, titleStyle.Render("Not today"))
		for _, it := range m.brief.NotDoingStructured {
			reason := mutedStyle.Render(" (" + it.DeferReason + ")")
			rows = append(rows, fmt.Sprintf("  %s %s%s", mutedStyle.Render("○"), mutedStyle.Render(it.Title), reason))
		}
	}

	for _, warning := range m.brief.Warnings {
		rows = append(rows, "")
		style := warningStyle
		if warning.Severity == engine.SeverityHigh {
			style = errorStyle
		}
		rows = append(rows, style.Render("⚠ "+warning.Message))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m todayModel) renderLoadBar(w int) string {
	if w < 10 {
		w = 10
	}
	filled := m.brief.LoadScore * w / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", w-filled)

	style := successStyle
	switch engine.LoadLevel(m.brief.LoadScore) {
	case "heavy":
		style = errorStyle
	case "medium":
		style = warningStyle
	}
	return style.Render(bar) + fmt.Sprintf(" %d", m.brief.LoadScore)
}

func (m todayModel) renderHealthLine(w int) string {
	trend := string(m.brief.SleepTrend)
	line := fmt.Sprintf("%s %s", titleStyle.Render("Sleep trend:"), highlightStyle.Render(trend))

	if m.smallAction != "" {
		line += "\n" + accentStyle.Render("→ "+m.smallAction)
	}

	return panelStyle.Width(w).Render(line)
}
