package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mikka2-source/personal-command-center-sub000/internal/dayclose"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

// dayCloseModel is the evening overlay. Once opened it counts down; a
// silent user gets an automatic close, enter acknowledges, r opens the
// review note.
type dayCloseModel struct {
	store *store.Store
	cfg   store.AppConfig

	session *dayclose.Session
	visible bool
	now     time.Time

	reviewing bool
	form      *huh.Form
	note      *string
}

func newDayCloseModel(s *store.Store, cfg store.AppConfig) dayCloseModel {
	note := ""
	return dayCloseModel{store: s, cfg: cfg, note: &note, now: time.Now().In(cfg.Timezone)}
}

type dayCloseSessionMsg struct {
	session *dayclose.Session
}

// open builds or resumes today's close session.
func (m dayCloseModel) open() tea.Cmd {
	return func() tea.Msg {
		now := time.Now().In(m.cfg.Timezone)
		date := now.Format("2006-01-02")

		save := func(rec dayclose.Record) error {
			summary, err := json.Marshal(rec.Summary)
			if err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			return m.store.SaveDayClose(store.DayCloseRow{
				UserID:       rec.UserID,
				Date:         rec.Date,
				State:        rec.State.String(),
				Summary:      string(summary),
				TomorrowNote: rec.TomorrowNote,
				ClosedAt:     rec.ClosedAt,
			})
		}

		// A day already closed stays closed.
		if row, err := m.store.GetDayClose(m.cfg.UserID, date); err == nil && row != nil {
			rec, err := recordFromRow(*row)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Day close: %v", err), isError: true}
			}
			return dayCloseSessionMsg{session: dayclose.Resume(rec, save)}
		}

		summary, err := m.buildSummary(now, date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Day close: %v", err), isError: true}
		}

		delay := time.Duration(m.cfg.DayCloseDelaySecs) * time.Second
		session := dayclose.NewSession(m.cfg.UserID, date, summary, now, delay, save)
		return dayCloseSessionMsg{session: session}
	}
}

func (m dayCloseModel) buildSummary(now time.Time, date string) (dayclose.Summary, error) {
	completed, err := m.store.CompletedOn(date)
	if err != nil {
		return dayclose.Summary{}, err
	}

	all, err := m.store.ListItems(store.ItemFilter{})
	if err != nil {
		return dayclose.Summary{}, err
	}
	var events []store.Item
	for _, it := range all {
		if it.StartTime != nil && it.StartTime.In(m.cfg.Timezone).Format("2006-01-02") == date {
			events = append(events, it)
		}
	}

	anchorDone := false
	for _, it := range completed {
		for _, l := range it.Labels {
			if l == "anchor" {
				anchorDone = true
			}
		}
	}

	row, err := m.store.GetHealth(m.cfg.UserID, date)
	if err != nil {
		return dayclose.Summary{}, err
	}

	return dayclose.BuildSummary(engineItems(completed), engineItems(events), anchorDone, healthSnapshot(row), now), nil
}

func recordFromRow(row store.DayCloseRow) (dayclose.Record, error) {
	state, err := dayclose.ParseState(row.State)
	if err != nil {
		return dayclose.Record{}, err
	}
	var summary dayclose.Summary
	if err := json.Unmarshal([]byte(row.Summary), &summary); err != nil {
		return dayclose.Record{}, fmt.Errorf("decode summary: %w", err)
	}
	return dayclose.Record{
		UserID:       row.UserID,
		Date:         row.Date,
		State:        state,
		Summary:      summary,
		TomorrowNote: row.TomorrowNote,
		ClosedAt:     row.ClosedAt,
	}, nil
}

func (m dayCloseModel) active() bool {
	return m.visible && m.session != nil
}

func (m dayCloseModel) update(msg tea.Msg) (dayCloseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dayCloseSessionMsg:
		m.session = msg.session
		m.visible = true
		return m, nil

	case tickMsg:
		m.now = time.Time(msg).In(m.cfg.Timezone)
		if m.session != nil && m.session.Expired(m.now) {
			if err := m.session.AutoClose(m.now); err != nil {
				// Retried on the next tick.
				return m, nil
			}
			if m.session.State() == dayclose.StateClosed {
				m.visible = false
				return m, func() tea.Msg { return dayCloseDoneMsg{state: "auto"} }
			}
		}
		return m, nil

	case tea.KeyMsg:
		if !m.active() {
			return m, nil
		}
		if m.reviewing && m.form != nil {
			return m.updateReviewForm(msg)
		}
		switch {
		case key.Matches(msg, keys.Enter):
			return m.acknowledge()
		case key.Matches(msg, keys.Refresh):
			return m.startReview()
		case key.Matches(msg, keys.Back):
			// Hide the overlay; the countdown keeps running.
			m.visible = false
			return m, nil
		}
	}
	return m, nil
}

func (m dayCloseModel) acknowledge() (dayCloseModel, tea.Cmd) {
	if m.session.State() != dayclose.StateAuto {
		m.visible = false
		return m, nil
	}
	if err := m.session.Acknowledge(m.now); err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Day close: %v", err), isError: true}
		}
	}
	m.visible = false
	return m, func() tea.Msg { return dayCloseDoneMsg{state: "partial"} }
}

func (m dayCloseModel) startReview() (dayCloseModel, tea.Cmd) {
	if m.session.State() != dayclose.StateAuto {
		return m, nil
	}
	*m.note = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Tomorrow").Placeholder("What matters tomorrow?").Value(m.note),
		),
	).WithShowHelp(true)
	m.reviewing = true
	return m, m.form.Init()
}

func (m dayCloseModel) updateReviewForm(msg tea.Msg) (dayCloseModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.reviewing = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.reviewing = false
		if err := m.session.Review(*m.note, m.now); err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Day close: %v", err), isError: true}
			}
		}
		m.visible = false
		return m, func() tea.Msg { return dayCloseDoneMsg{state: "reviewed"} }
	}

	return m, cmd
}

func (m dayCloseModel) view(width int) string {
	if !m.active() {
		return ""
	}
	w := width - 4

	if m.reviewing && m.form != nil {
		title := titleStyle.Render("Day review")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	rec := m.session.Record()
	summary := rec.Summary

	var rows []string
	rows = append(rows, titleStyle.Render("Closing the day"))
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %s %d closures", successStyle.Render("✓"), summary.Closures))
	for _, h := range summary.Highlights {
		rows = append(rows, mutedStyle.Render("    "+h))
	}
	rows = append(rows, fmt.Sprintf("  mood: %s", highlightStyle.Render(string(summary.Mood))))

	switch {
	case m.session.State() == dayclose.StateAuto && !m.session.Deadline.IsZero():
		remaining := m.session.Deadline.Sub(m.now)
		rows = append(rows, "")
		rows = append(rows, warningStyle.Render(fmt.Sprintf("  auto-closing in %s", formatCountdown(remaining))))
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("  enter: ok  r: review  esc: hide"))
	case m.session.State() == dayclose.StateAuto:
		// Resumed from a silent close; no deadline, still reviewable.
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("  day closed automatically"))
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("  enter: ok  r: review  esc: hide"))
	default:
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  day closed (%s)", rec.State)))
		if rec.TomorrowNote != "" {
			rows = append(rows, mutedStyle.Render("  tomorrow: "+rec.TomorrowNote))
		}
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("  esc: hide"))
	}

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
