package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/client"
)

type convertState int

const (
	convertStateForm convertState = iota
	convertStateRunning
	convertStateResult
)

// ConvertModel asks for an amount and two currencies and shows the
// converted value.
type ConvertModel struct {
	api *client.Client

	state  convertState
	form   *huh.Form
	result *client.Conversion
	err    error
}

func NewConvertModel(api *client.Client) ConvertModel {
	return ConvertModel{
		api:  api,
		form: newConvertForm(),
	}
}

func newConvertForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("100").
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("not a number")
					}

					if d.IsNegative() {
						return fmt.Errorf("must not be negative")
					}

					return nil
				}),
			huh.NewSelect[string]().
				Key("from").
				Title("From").
				Options(huh.NewOptions(currencyCodes...)...),
			huh.NewSelect[string]().
				Key("to").
				Title("To").
				Options(huh.NewOptions(currencyCodes...)...),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m ConvertModel) Title() string { return "Convert Currency" }

func (m ConvertModel) ShortHelp() string {
	if m.state == convertStateResult {
		return "Esc: back | Enter: convert again"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m ConvertModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ConvertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(conversionMsg); ok {
		m.state = convertStateResult
		m.result, m.err = res.result, res.err

		return m, nil
	}

	key, isKey := msg.(tea.KeyMsg)
	if isKey && key.Type == tea.KeyEsc {
		return m, Back
	}

	switch m.state {
	case convertStateRunning:
		return m, nil
	case convertStateResult:
		if isKey && key.Type == tea.KeyEnter {
			m.state = convertStateForm
			m.form = newConvertForm()
			m.result, m.err = nil, nil

			return m, m.form.Init()
		}

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	amount, _ := decimal.NewFromString(strings.TrimSpace(m.form.GetString("amount")))
	m.state = convertStateRunning

	return m, m.convertCmd(amount, m.form.GetString("from"), m.form.GetString("to"))
}

func (m ConvertModel) View() string {
	var body string

	switch m.state {
	case convertStateForm:
		body = m.form.View()
	case convertStateRunning:
		body = "Converting..."
	case convertStateResult:
		body = m.resultView()
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(titleStyle.Render("Currency Converter") + "\n\n" + body)
}

func (m ConvertModel) resultView() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	r := m.result

	lines := []string{
		fmt.Sprintf("%s = %s",
			FormatMoney(r.OriginalAmount, r.FromCurrency),
			titleStyle.Render(FormatMoney(r.ConvertedAmount, r.ToCurrency))),
		faintStyle.Render(fmt.Sprintf("1 %s = %s %s · rates as of %s", r.FromCurrency, r.Rate, r.ToCurrency, r.Date)),
	}

	if r.Note != "" {
		lines = append(lines, noteStyle.Render(r.Note))
	}

	return strings.Join(lines, "\n")
}

type conversionMsg struct {
	result *client.Conversion
	err    error
}

func (m ConvertModel) convertCmd(amount decimal.Decimal, from, to string) tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		res, err := api.Convert(ctx, amount, from, to)

		return conversionMsg{result: res, err: err}
	}
}
