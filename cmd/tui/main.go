package main

import (
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendwise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendwise/internal/client"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

type model struct {
	api *client.Client

	currentView View
	width       int
	height      int

	dashboardView view.DashboardModel
	expensesView  view.ExpensesModel
	convertView   view.ConvertModel
	ratesView     view.RatesModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewExpenses  View = 2
	ViewConvert   View = 3
	ViewRates     View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	api := client.New(
		cfg.Client.BaseURL,
		client.WithToken(cfg.Client.Token),
		client.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout}),
	)

	return model{
		api:         api,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.api)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.api)

				return m, tea.Batch(m.expensesView.Init(), m.resize())
			case "3":
				m.currentView = ViewConvert
				m.convertView = view.NewConvertModel(m.api)

				return m, m.convertView.Init()
			case "4":
				m.currentView = ViewRates
				m.ratesView = view.NewRatesModel(m.api)

				return m, m.ratesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewConvert:
		var newModel tea.Model
		newModel, cmd = m.convertView.Update(msg)
		m.convertView = newModel.(view.ConvertModel)
	case ViewRates:
		var newModel tea.Model
		newModel, cmd = m.ratesView.Update(msg)
		m.ratesView = newModel.(view.RatesModel)
	}

	return m, cmd
}

// resize replays the last known window size so freshly created views can
// lay themselves out.
func (m model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return func() tea.Msg { return size }
}

func (m model) View() string {
	var (
		body string
		help string
	)

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Spendwise\n\n" +
				"1. Dashboard\n" +
				"2. Expenses\n" +
				"3. Convert Currency\n" +
				"4. Exchange Rates\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		body, help = m.dashboardView.View(), m.dashboardView.ShortHelp()
	case ViewExpenses:
		body, help = m.expensesView.View(), m.expensesView.ShortHelp()
	case ViewConvert:
		body, help = m.convertView.View(), m.convertView.ShortHelp()
	case ViewRates:
		body, help = m.ratesView.View(), m.ratesView.ShortHelp()
	default:
		return "Unknown View"
	}

	return body + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(2).Render(help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
