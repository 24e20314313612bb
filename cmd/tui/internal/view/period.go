package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/spendwise/internal/client"
)

// Period is a predefined or custom date range for stats and lists.
type Period int

const (
	PeriodAll Period = iota
	PeriodThisMonth
	PeriodLastMonth
	PeriodLast6Months
	PeriodThisYear
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodAll:
		return "All Time"
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodLast6Months:
		return "Last 6 Months"
	case PeriodThisYear:
		return "This Year"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the inclusive start and end dates of p relative to now.
// ok is false for PeriodAll and PeriodCustom.
func (p Period) Range(now time.Time) (start, end time.Time, ok bool) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodThisMonth:
		return firstOfMonth, today, true
	case PeriodLastMonth:
		start = firstOfMonth.AddDate(0, -1, 0)
		return start, firstOfMonth.AddDate(0, 0, -1), true
	case PeriodLast6Months:
		return firstOfMonth.AddDate(0, -5, 0), today, true
	case PeriodThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today, true
	}

	return time.Time{}, time.Time{}, false
}

// PeriodSelectedMsg is emitted when the user has picked a range.
type PeriodSelectedMsg struct {
	Label  string
	Filter client.Filter
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker selects one of the predefined periods or a custom range.
type PeriodPicker struct {
	state    periodState
	selected Period
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker() PeriodPicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start Date: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End Date:   "

	return PeriodPicker{
		selected:   PeriodAll,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case periodStateSelect:
			return m.updateSelect(key)
		case periodStateCustom:
			if next, cmd, handled := m.updateCustom(key); handled {
				return next, cmd
			}
		}
	}

	if m.state != periodStateCustom {
		return m, nil
	}

	var cmds [2]tea.Cmd

	m.startInput, cmds[0] = m.startInput.Update(msg)
	m.endInput, cmds[1] = m.endInput.Update(msg)

	return m, tea.Batch(cmds[:]...)
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodAll {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.state = periodStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		}

		selected := PeriodSelectedMsg{Label: m.selected.String()}
		if start, end, ok := m.selected.Range(m.now()); ok {
			selected.Filter = client.Filter{
				StartDate: start.Format(time.DateOnly),
				EndDate:   end.Format(time.DateOnly),
			}
		}

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		start, err := time.Parse(time.DateOnly, m.startInput.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid start date (YYYY-MM-DD)")
			return m, nil, true
		}

		end, err := time.Parse(time.DateOnly, m.endInput.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid end date (YYYY-MM-DD)")
			return m, nil, true
		}

		if end.Before(start) {
			m.err = fmt.Errorf("end date is before start date")
			return m, nil, true
		}

		m.err = nil
		selected := PeriodSelectedMsg{
			Label: fmt.Sprintf("%s to %s", start.Format(time.DateOnly), end.Format(time.DateOnly)),
			Filter: client.Filter{
				StartDate: start.Format(time.DateOnly),
				EndDate:   end.Format(time.DateOnly),
			},
		}

		return m, func() tea.Msg { return selected }, true

	case "esc":
		m.state = periodStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = "\n\n" + errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Select Period:\n\n"

	for p := PeriodAll; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p)
	}

	return s + "\n(Enter to select, Esc to back)" + errStr
}

// IsSelecting reports whether the picker shows the period list rather than
// the custom range inputs.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
