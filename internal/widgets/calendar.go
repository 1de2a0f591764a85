// Package widgets holds the small interactive form widgets rendered by the
// templates: the calendar grid, the date-picker popover, and the command
// palette backing the product picker. All state is per-form and synchronous.
package widgets

import "time"

// CalendarDay is one cell of the month grid. Day is 0 for the blank cells
// padding the first and last week.
type CalendarDay struct {
	Day        int
	Date       time.Time
	IsToday    bool
	IsSelected bool
}

// CalendarWeek is one row of seven cells, Sunday first.
type CalendarWeek [7]CalendarDay

// Calendar generates a month grid and tracks a single selected date.
type Calendar struct {
	month    time.Time // normalized to the first of the month
	selected time.Time
	hasSel   bool
}

// NewCalendar shows the month containing ref.
func NewCalendar(ref time.Time) *Calendar {
	return &Calendar{month: firstOfMonth(ref)}
}

// Month returns the first day of the displayed month.
func (c *Calendar) Month() time.Time { return c.month }

// PrevMonth and NextMonth navigate the displayed month without touching the
// selection.
func (c *Calendar) PrevMonth() { c.month = c.month.AddDate(0, -1, 0) }
func (c *Calendar) NextMonth() { c.month = c.month.AddDate(0, 1, 0) }

// Select records d as the single selected date and moves the view to its
// month. Reselecting the same date is a no-op.
func (c *Calendar) Select(d time.Time) {
	d = truncateDay(d)
	if c.hasSel && c.selected.Equal(d) {
		return
	}
	c.selected = d
	c.hasSel = true
	c.month = firstOfMonth(d)
}

// Selected returns the selected date, if any.
func (c *Calendar) Selected() (time.Time, bool) { return c.selected, c.hasSel }

// Grid builds the week rows for the displayed month. Rows are computed from
// the weekday offset of the first (Sunday == 0), so the grid always starts on
// a Sunday column and has just enough rows for the month.
func (c *Calendar) Grid(today time.Time) []CalendarWeek {
	first := c.month
	days := daysIn(first)
	offset := int(first.Weekday())
	rows := (offset + days + 6) / 7

	today = truncateDay(today)
	weeks := make([]CalendarWeek, rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < 7; col++ {
			day := row*7 + col - offset + 1
			if day < 1 || day > days {
				continue // blank cell
			}
			date := first.AddDate(0, 0, day-1)
			weeks[row][col] = CalendarDay{
				Day:        day,
				Date:       date,
				IsToday:    date.Equal(today),
				IsSelected: c.hasSel && date.Equal(c.selected),
			}
		}
	}
	return weeks
}

func daysIn(month time.Time) int {
	first := firstOfMonth(month)
	return first.AddDate(0, 1, -1).Day()
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

func truncateDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
