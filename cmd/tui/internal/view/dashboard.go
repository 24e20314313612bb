package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/client"
)

const (
	recentLimit = 5
	barWidth    = 20
)

type dashboardState int

const (
	dashboardStateView dashboardState = iota
	dashboardStatePeriod
)

// DashboardModel shows totals, the category breakdown, the monthly trend
// and the latest expenses.
type DashboardModel struct {
	api *client.Client

	state   dashboardState
	picker  PeriodPicker
	spinner spinner.Model
	table   table.Model

	period  string
	filter  client.Filter
	stats   *client.Stats
	loading bool
	err     error
}

func NewDashboardModel(api *client.Client) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 18},
			{Title: "Total", Width: 12},
			{Title: "Count", Width: 6},
			{Title: "Share", Width: 7},
			{Title: "", Width: barWidth},
		}),
		table.WithHeight(8),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	t.SetStyles(st)

	return DashboardModel{
		api:     api,
		picker:  NewPeriodPicker(),
		spinner: s,
		table:   t,
		period:  PeriodAll.String(),
		loading: true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStatePeriod {
		return "Esc: cancel | Enter: select"
	}

	return "Esc: back | p: period | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.stats = msg.stats
			m.refreshTable()
		}

		return m, nil

	case PeriodSelectedMsg:
		m.state = dashboardStateView
		m.period = msg.Label
		m.filter = msg.Filter
		m.loading = true

		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.state == dashboardStatePeriod {
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = dashboardStateView
			return m, nil
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		case "p":
			m.state = dashboardStatePeriod
			m.picker.Reset()

			return m, nil
		}
	}

	return m, nil
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.stats.CategoryBreakdown))

	for _, c := range m.stats.CategoryBreakdown {
		rows = append(rows, table.Row{
			truncate(c.Name, 18),
			FormatMoney(c.Total, m.currency()),
			fmt.Sprint(c.Count),
			FormatPercent(c.Percentage),
			Bar(c.Percentage, barWidth, c.Color),
		})
	}

	m.table.SetRows(rows)
	m.table.SetHeight(max(len(rows)+1, 2))
}

// currency is the code amounts are shown in: the reporting currency when
// the server normalised, otherwise the single currency seen.
func (m DashboardModel) currency() string {
	if m.stats.ReportingCurrency != "" {
		return m.stats.ReportingCurrency
	}

	if len(m.stats.Currencies) == 1 {
		return m.stats.Currencies[0]
	}

	return "USD"
}

func (m DashboardModel) View() string {
	if m.state == dashboardStatePeriod {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.picker.View())
	}

	header := titleStyle.Render("Spending Overview") + "  " + faintStyle.Render("Period: ") + activeStyle(m.period)

	if m.loading {
		return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n\n" + m.spinner.View() + " Loading stats...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n\n" + errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.stats
	code := m.currency()

	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render("Total\n"+titleStyle.Render(FormatMoney(s.TotalExpenses, code))),
		panelStyle.Render(fmt.Sprintf("Expenses\n%s", titleStyle.Render(fmt.Sprint(s.ExpenseCount)))),
		panelStyle.Render("Average\n"+titleStyle.Render(FormatMoney(Average(s.TotalExpenses, s.ExpenseCount), code))),
	)

	sections := []string{header, summary}

	if s.MixedCurrencies {
		sections = append(sections, noteStyle.Render(
			fmt.Sprintf("Totals mix currencies (%s); set a reporting currency to normalise.", strings.Join(s.Currencies, ", ")),
		))
	}

	sections = append(sections,
		titleStyle.Render("By Category"),
		m.table.View(),
		titleStyle.Render("Monthly Trend"),
		m.monthlyView(code),
		titleStyle.Render("Recent Expenses"),
		m.recentView(),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n\n"))
}

func (m DashboardModel) monthlyView(code string) string {
	if len(m.stats.MonthlyTotals) == 0 {
		return faintStyle.Render("No data")
	}

	peak := m.stats.MonthlyTotals[0].Total
	for _, mt := range m.stats.MonthlyTotals {
		if mt.Total.GreaterThan(peak) {
			peak = mt.Total
		}
	}

	var b strings.Builder

	for _, mt := range m.stats.MonthlyTotals {
		pct := mt.Total
		if peak.IsPositive() {
			pct = mt.Total.Div(peak).Mul(hundred)
		}

		fmt.Fprintf(&b, "%s  %s  %s\n", mt.Month, Bar(pct, barWidth, "63"), FormatMoney(mt.Total, code))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m DashboardModel) recentView() string {
	if len(m.stats.RecentExpenses) == 0 {
		return faintStyle.Render("No expenses yet")
	}

	var b strings.Builder

	for _, e := range m.stats.RecentExpenses {
		category := e.CategoryName
		if category == "" {
			category = "Uncategorized"
		}

		fmt.Fprintf(&b, "%s  %-24s %-14s %s\n", e.Date, truncate(e.Title, 24), truncate(category, 14), FormatMoney(e.Amount, e.Currency))
	}

	return strings.TrimRight(b.String(), "\n")
}

type statsLoadedMsg struct {
	stats *client.Stats
	err   error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	api, filter := m.api, m.filter

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		stats, err := api.Stats(ctx, filter, recentLimit)

		return statsLoadedMsg{stats: stats, err: err}
	}
}
