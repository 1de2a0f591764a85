package widgets

import "time"

// DatePicker wraps a Calendar in an open/closed popover.
type DatePicker struct {
	Calendar *Calendar
	Open     bool
}

func NewDatePicker(ref time.Time) *DatePicker {
	return &DatePicker{Calendar: NewCalendar(ref)}
}

func (p *DatePicker) Toggle() { p.Open = !p.Open }

// Pick selects a date and closes the popover.
func (p *DatePicker) Pick(d time.Time) {
	p.Calendar.Select(d)
	p.Open = false
}
