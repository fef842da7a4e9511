package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mikka2-source/personal-command-center-sub000/internal/export"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	cfg    store.AppConfig
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	items    itemsModel
	health   healthModel
	settings settingsModel
	dayClose dayCloseModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, cfg store.AppConfig) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		cfg:        cfg,
		activeView: viewToday,
		today:      newTodayModel(s, cfg),
		items:      newItemsModel(s, cfg),
		health:     newHealthModel(s, cfg),
		settings:   newSettingsModel(s),
		dayClose:   newDayCloseModel(s, cfg),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.loadData(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.items.setSize(a.width, contentHeight)
		a.health.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Day-close overlay captures input while visible.
		if a.dayClose.active() {
			var cmd tea.Cmd
			a.dayClose, cmd = a.dayClose.update(msg)
			return a, cmd
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.CloseDay):
			return a, a.dayClose.open()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.today.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewItems
			return a, a.items.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHealth
			return a, a.health.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// The focus card and the day-close countdown both follow the clock.
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		a.dayClose, cmd = a.dayClose.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case briefReadyMsg:
		// The footer's conservation marker reads the brief, so this
		// lands on the Today model whatever view is active.
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd

	case dayCloseSessionMsg:
		var cmd tea.Cmd
		a.dayClose, cmd = a.dayClose.update(msg)
		return a, cmd

	case dayCloseDoneMsg:
		switch msg.state {
		case "reviewed":
			a.status = "Day reviewed"
		case "partial":
			a.status = "Day acknowledged"
		default:
			a.status = "Day closed"
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case itemSavedMsg:
		a.status = "Saved"
		return a, a.items.refresh()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewItems:
		a.items, cmd = a.items.update(msg)
	case viewHealth:
		a.health, cmd = a.health.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewItems:
		return a.items.formActive
	case viewHealth:
		return a.health.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.loadData()
	case viewItems:
		return a.items.refresh()
	case viewHealth:
		return a.health.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewItems:
		content = a.items.view()
	case viewHealth:
		content = a.health.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Overlays replace the content area.
	if a.dayClose.active() {
		content = a.dayClose.view(a.width)
	}
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("command center")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Conservation indicator in footer
	modeInfo := ""
	if a.today.loaded && a.today.brief.ConservationMode {
		modeInfo = warningStyle.Render(" ◆ conservation")
	}

	left := footerStyle.Render(helpView)
	right := modeInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		now := time.Now().In(a.cfg.Timezone)
		to := now.Format("2006-01-02")
		from := now.AddDate(0, 0, -30).Format("2006-01-02")

		briefs, err := a.store.ListBriefs(a.cfg.UserID, from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("briefs-%s.csv", to))
			if err := export.ToCSV(briefs, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("briefs-%s.json", to))
			if err := export.ToJSON(briefs, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
