package view

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/client"
)

// RatesModel lists the exchange rates for a base currency.
type RatesModel struct {
	api *client.Client

	baseIdx int
	table   table.Model
	rates   *client.Rates
	loading bool
	err     error
}

func NewRatesModel(api *client.Client) RatesModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Currency", Width: 10},
			{Title: "Rate", Width: 16},
		}),
		table.WithHeight(len(currencyCodes)+1),
	)

	return RatesModel{
		api:     api,
		table:   t,
		loading: true,
	}
}

func (m RatesModel) Title() string { return "Exchange Rates" }

func (m RatesModel) ShortHelp() string {
	return "Esc: back | b: next base | r: refresh"
}

func (m RatesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RatesModel) base() string {
	return currencyCodes[m.baseIdx]
}

func (m RatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ratesLoadedMsg:
		m.loading = false
		m.rates, m.err = msg.rates, msg.err

		if msg.err == nil {
			m.refreshTable()
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "b":
			m.baseIdx = (m.baseIdx + 1) % len(currencyCodes)
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m *RatesModel) refreshTable() {
	codes := make([]string, 0, len(m.rates.Rates))
	for code := range m.rates.Rates {
		codes = append(codes, code)
	}

	slices.Sort(codes)

	rows := make([]table.Row, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, table.Row{code, m.rates.Rates[code].StringFixed(4)})
	}

	m.table.SetRows(rows)
}

func (m RatesModel) View() string {
	header := titleStyle.Render("Exchange Rates") + "  " + faintStyle.Render("Base: ") + activeStyle(m.base())

	var body string

	switch {
	case m.loading:
		body = "Loading rates..."
	case m.err != nil:
		body = errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	default:
		body = m.table.View() + "\n\n" + faintStyle.Render(fmt.Sprintf("Source: %s · %s", m.rates.Source, m.rates.Date))
		if m.rates.Note != "" {
			body += "\n" + noteStyle.Render(m.rates.Note)
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n\n" + body)
}

type ratesLoadedMsg struct {
	rates *client.Rates
	err   error
}

func (m RatesModel) loadCmd() tea.Cmd {
	api, base := m.api, m.base()

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		rates, err := api.ExchangeRates(ctx, base)

		return ratesLoadedMsg{rates: rates, err: err}
	}
}
