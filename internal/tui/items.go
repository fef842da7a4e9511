package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

var itemDomains = []string{"family", "health", "urgent", "work", "personal", "parking"}
var energyLevels = []string{"", "low", "medium", "high"}

type itemsModel struct {
	store  *store.Store
	cfg    store.AppConfig
	width  int
	height int

	items  []store.Item
	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle  *string
	formDomain *string
	formLabels *string
	formDue    *string
	formEnergy *string
	formLoad   *string
	formStart  *string
	formEnd    *string
	formFamily *bool
	formFixed  *bool
}

func newItemsModel(s *store.Store, cfg store.AppConfig) itemsModel {
	title, domain, labels, due := "", "work", "", ""
	energy, load, start, end := "", "", "", ""
	family, fixed := false, false
	return itemsModel{
		store:      s,
		cfg:        cfg,
		formTitle:  &title,
		formDomain: &domain,
		formLabels: &labels,
		formDue:    &due,
		formEnergy: &energy,
		formLoad:   &load,
		formStart:  &start,
		formEnd:    &end,
		formFamily: &family,
		formFixed:  &fixed,
	}
}

func (m *itemsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m itemsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		items, _ := m.store.ListItems(store.ItemFilter{})
		return itemsDataMsg{items: items}
	}
}

func (m itemsModel) update(msg tea.Msg) (itemsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case itemsDataMsg:
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showCaptureForm()
		case key.Matches(msg, keys.Done):
			return m.setStatus(store.StatusDone, "")
		case key.Matches(msg, keys.Defer):
			return m.setStatus(store.StatusDeferred, "manual")
		case key.Matches(msg, keys.Park):
			return m.setStatus(store.StatusParked, "manual")
		case key.Matches(msg, keys.Delete):
			if len(m.items) > 0 {
				m.store.DeleteItem(m.items[m.cursor].ID)
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Enter):
			if len(m.items) > 0 {
				// Reopen whatever is under the cursor.
				it := m.items[m.cursor]
				if it.Status != store.StatusOpen {
					m.store.SetItemStatus(it.ID, store.StatusOpen, "")
					return m, m.refresh()
				}
			}
		}
	}
	return m, nil
}

func (m itemsModel) setStatus(status, reason string) (itemsModel, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	it := m.items[m.cursor]
	if err := m.store.SetItemStatus(it.ID, status, reason); err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return m, m.refresh()
}

func (m itemsModel) showCaptureForm() (itemsModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDomain = "work"
	*m.formLabels = ""
	*m.formDue = ""
	*m.formEnergy = ""
	*m.formLoad = ""
	*m.formStart = ""
	*m.formEnd = ""
	*m.formFamily = false
	*m.formFixed = false

	domainOptions := make([]huh.Option[string], len(itemDomains))
	for i, d := range itemDomains {
		domainOptions[i] = huh.NewOption(d, d)
	}
	energyOptions := make([]huh.Option[string], len(energyLevels))
	for i, e := range energyLevels {
		label := e
		if e == "" {
			label = "unset"
		}
		energyOptions[i] = huh.NewOption(label, e)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewSelect[string]().Title("Domain").Options(domainOptions...).Value(m.formDomain),
			huh.NewInput().Title("Labels (comma-separated)").Value(m.formLabels),
			huh.NewInput().Title("Due (2006-01-02 15:04, optional)").Value(m.formDue),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Energy needed").Options(energyOptions...).Value(m.formEnergy),
			huh.NewInput().Title("Load (optional)").Value(m.formLoad),
			huh.NewInput().Title("Starts (15:04 today, optional)").Value(m.formStart),
			huh.NewInput().Title("Ends (15:04 today, optional)").Value(m.formEnd),
			huh.NewConfirm().Title("Family?").Value(m.formFamily),
			huh.NewConfirm().Title("Fixed time?").Value(m.formFixed),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m itemsModel) updateForm(msg tea.Msg) (itemsModel, tea.Cmd) {
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
		if *m.formTitle != "" {
			if err := m.saveCapture(); err != nil {
				return m, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Capture: %v", err), isError: true}
				}
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m itemsModel) saveCapture() error {
	it := store.Item{
		Title:       *m.formTitle,
		Domain:      *m.formDomain,
		Labels:      splitLabels(*m.formLabels),
		Family:      *m.formFamily,
		Immutable:   *m.formFixed,
		EnergyLevel: *m.formEnergy,
	}

	if *m.formLoad != "" {
		n, err := strconv.Atoi(*m.formLoad)
		if err != nil {
			return fmt.Errorf("load %q: %w", *m.formLoad, err)
		}
		it.EstLoad = n
	}
	if *m.formDue != "" {
		t, err := parseLocal("2006-01-02 15:04", *m.formDue, m.cfg.Timezone)
		if err != nil {
			return fmt.Errorf("due %q: %w", *m.formDue, err)
		}
		it.DueDate = t
	}
	if *m.formStart != "" {
		t, err := parseClockToday(*m.formStart, m.cfg.Timezone)
		if err != nil {
			return fmt.Errorf("start %q: %w", *m.formStart, err)
		}
		it.StartTime = t
	}
	if *m.formEnd != "" {
		t, err := parseClockToday(*m.formEnd, m.cfg.Timezone)
		if err != nil {
			return fmt.Errorf("end %q: %w", *m.formEnd, err)
		}
		it.EndTime = t
	}

	_, err := m.store.CreateItem(it)
	return err
}

func splitLabels(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLocal(layout, value string, loc *time.Location) (*time.Time, error) {
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseClockToday interprets "15:04" as that wall-clock time today.
func parseClockToday(value string, loc *time.Location) (*time.Time, error) {
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return nil, err
	}
	now := time.Now().In(loc)
	t := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	return &t, nil
}

func (m itemsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Capture")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Items")
	if len(m.items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("Nothing captured yet. Press n to add something."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-32s %-10s %-9s %s", "", "Title", "Domain", "Status", "When"))
	rows = append(rows, header)

	now := time.Now().In(m.cfg.Timezone)
	for i, it := range m.items {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := statusMarker(it.Status)
		when := ""
		if it.StartTime != nil {
			when = formatClock(it.StartTime, m.cfg.Timezone)
			live := engine.ClassifyEventTime(engineItem(it), now)
			if live == engine.StatusOngoing {
				when = successStyle.Render(when + " now")
			}
		} else if it.DueDate != nil {
			when = "due " + it.DueDate.In(m.cfg.Timezone).Format("Jan 02")
		}
		row := style.Render(fmt.Sprintf("%s%s %-32s %-10s %-9s", cursor, marker, truncate(it.Title, 32), it.Domain, it.Status)) + when
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: capture  d: done  f: defer  p: park  x: delete  enter: reopen"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func statusMarker(status string) string {
	switch status {
	case store.StatusDone:
		return successStyle.Render("✓")
	case store.StatusDeferred:
		return warningStyle.Render("→")
	case store.StatusParked:
		return mutedStyle.Render("◌")
	default:
		return highlightStyle.Render("●")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
