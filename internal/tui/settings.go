package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	userID           *string
	timezone         *string
	trendWindow      *string
	maxLoad          *string
	conservationLoad *string
	defaultLoad      *string
	focusRefresh     *string
	dayCloseDelay    *string
}

func newSettingsModel(s *store.Store) settingsModel {
	uid, tz, tw, ml := "", "", "", ""
	cl, dl, fr, dc := "", "", "", ""
	return settingsModel{
		store:            s,
		userID:           &uid,
		timezone:         &tz,
		trendWindow:      &tw,
		maxLoad:          &ml,
		conservationLoad: &cl,
		defaultLoad:      &dl,
		focusRefresh:     &fr,
		dayCloseDelay:    &dc,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.userID = s.getVal("user_id", "dan")
	*s.timezone = s.getVal("timezone", "UTC")
	*s.trendWindow = s.getVal("trend_window", "5")
	*s.maxLoad = s.getVal("max_load", "80")
	*s.conservationLoad = s.getVal("conservation_load", "60")
	*s.defaultLoad = s.getVal("default_item_load", "10")
	*s.focusRefresh = s.getVal("focus_refresh_secs", "60")
	*s.dayCloseDelay = s.getVal("day_close_delay_secs", "30")

	validInt := func(v string) error {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("must be a number")
		}
		return nil
	}
	validTZ := func(v string) error {
		if _, err := time.LoadLocation(v); err != nil {
			return fmt.Errorf("unknown timezone")
		}
		return nil
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("User").Value(s.userID),
			huh.NewInput().Title("Timezone").Value(s.timezone).Validate(validTZ),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewInput().Title("Trend window (nights)").Value(s.trendWindow).Validate(validInt),
			huh.NewInput().Title("Max daily load").Value(s.maxLoad).Validate(validInt),
			huh.NewInput().Title("Conservation load").Value(s.conservationLoad).Validate(validInt),
			huh.NewInput().Title("Default item load").Value(s.defaultLoad).Validate(validInt),
			huh.NewInput().Title("Focus refresh (secs)").Value(s.focusRefresh).Validate(validInt),
			huh.NewInput().Title("Day close delay (secs)").Value(s.dayCloseDelay).Validate(validInt),
		).Title("Planning"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("user_id", *s.userID)
	s.store.SetSetting("timezone", *s.timezone)
	s.store.SetSetting("trend_window", *s.trendWindow)
	s.store.SetSetting("max_load", *s.maxLoad)
	s.store.SetSetting("conservation_load", *s.conservationLoad)
	s.store.SetSetting("default_item_load", *s.defaultLoad)
	s.store.SetSetting("focus_refresh_secs", *s.focusRefresh)
	s.store.SetSetting("day_close_delay_secs", *s.dayCloseDelay)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings. Changes apply on restart.")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(setting.Value)
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
