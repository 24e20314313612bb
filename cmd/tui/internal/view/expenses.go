package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/client"
)

var currencyCodes = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "INR", "CNY"}

type expensesState int

const (
	expensesStateList expensesState = iota
	expensesStateAdd
	expensesStateConfirmDelete
)

// expenseItem wraps an expense to implement list.DefaultItem.
type expenseItem struct {
	e client.Expense
}

func (i expenseItem) Title() string {
	return fmt.Sprintf("%s  %s  %s", i.e.Date, FormatMoney(i.e.Amount, i.e.Currency), i.e.Title)
}

func (i expenseItem) Description() string {
	category := i.e.CategoryName
	if category == "" {
		category = "Uncategorized"
	}

	if i.e.Description == "" {
		return category
	}

	return category + " · " + i.e.Description
}

func (i expenseItem) FilterValue() string {
	return i.e.Title + " " + i.e.CategoryName
}

type ExpensesModel struct {
	api *client.Client

	state      expensesState
	list       list.Model
	form       *huh.Form
	categories []client.Category

	status string
	err    error
}

func NewExpensesModel(api *client.Client) ExpensesModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Expenses"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return ExpensesModel{
		api:  api,
		list: l,
	}
}

func (m ExpensesModel) Title() string { return "Expenses" }

func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case expensesStateAdd:
		return "Esc: cancel | Enter/Tab: navigate form"
	case expensesStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return "Esc: back | a: add | x: delete | r: refresh | /: filter"
}

func (m ExpensesModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.loadCategoriesCmd())
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case expensesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		items := make([]list.Item, len(msg.expenses))

		for i, e := range msg.expenses {
			items[i] = expenseItem{e: e}
		}

		return m, m.list.SetItems(items)

	case categoriesLoadedMsg:
		if msg.err == nil {
			m.categories = msg.categories
		}

		return m, nil

	case expenseSavedMsg:
		m.state = expensesStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()
	}

	switch m.state {
	case expensesStateAdd:
		return m.updateForm(msg)
	case expensesStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m.updateList(msg)
}

func (m ExpensesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch key.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "r":
			return m, m.loadCmd()
		case "a":
			m.state = expensesStateAdd
			m.status = ""
			m.form = m.newForm()

			return m, m.form.Init()
		case "x":
			if _, ok := m.list.SelectedItem().(expenseItem); ok {
				m.state = expensesStateConfirmDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ExpensesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y":
		item, ok := m.list.SelectedItem().(expenseItem)
		if !ok {
			m.state = expensesStateList
			return m, nil
		}

		return m, m.deleteCmd(item.e)
	case "n", "esc":
		m.state = expensesStateList
	}

	return m, nil
}

func (m ExpensesModel) newForm() *huh.Form {
	categoryOpts := []huh.Option[string]{huh.NewOption("Uncategorized", "")}
	for _, c := range m.categories {
		categoryOpts = append(categoryOpts, huh.NewOption(c.Name, c.ID.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12.50").
				Validate(validatePositive),
			huh.NewSelect[string]().
				Key("currency").
				Title("Currency").
				Options(huh.NewOptions(currencyCodes...)...),
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOpts...),
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder(time.Now().Format(time.DateOnly)).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}

					_, err := time.Parse(time.DateOnly, s)

					return err
				}),
			huh.NewInput().
				Key("description").
				Title("Description"),
		),
	).WithWidth(50).WithShowHelp(false)
}

func validatePositive(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}

	if !d.IsPositive() {
		return fmt.Errorf("must be greater than zero")
	}

	return nil
}

func (m ExpensesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = expensesStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd(m.formExpense())
}

func (m ExpensesModel) formExpense() client.NewExpense {
	amount, _ := decimal.NewFromString(strings.TrimSpace(m.form.GetString("amount")))

	e := client.NewExpense{
		Title:       strings.TrimSpace(m.form.GetString("title")),
		Amount:      amount,
		Currency:    m.form.GetString("currency"),
		Description: m.form.GetString("description"),
		Date:        m.form.GetString("date"),
	}

	if e.Date == "" {
		e.Date = time.Now().Format(time.DateOnly)
	}

	if id, err := uuid.Parse(m.form.GetString("category")); err == nil {
		e.Category = &id
	}

	return e
}

func (m ExpensesModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	content := m.list.View()

	switch m.state {
	case expensesStateAdd:
		panel := panelStyle.Padding(1, 2).Width(54).Render("New Expense\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	case expensesStateConfirmDelete:
		if item, ok := m.list.SelectedItem().(expenseItem); ok {
			content += "\n\n" + noteStyle.Render(fmt.Sprintf("Delete %q? (y/n)", item.e.Title))
		}
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type expensesLoadedMsg struct {
	expenses []client.Expense
	err      error
}

type categoriesLoadedMsg struct {
	categories []client.Category
	err        error
}

type expenseSavedMsg struct {
	status string
	err    error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		expenses, err := api.ListExpenses(ctx, client.Filter{})

		return expensesLoadedMsg{expenses: expenses, err: err}
	}
}

func (m ExpensesModel) loadCategoriesCmd() tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		categories, err := api.ListCategories(ctx)

		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

func (m ExpensesModel) createCmd(e client.NewExpense) tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		created, err := api.CreateExpense(ctx, e)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: fmt.Sprintf("Added %q", created.Title)}
	}
}

func (m ExpensesModel) deleteCmd(e client.Expense) tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if err := api.DeleteExpense(ctx, e.ID); err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: fmt.Sprintf("Deleted %q", e.Title)}
	}
}
