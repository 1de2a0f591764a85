package widgets

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGridShape(t *testing.T) {
	// February 2026 starts on a Sunday and has 28 days: exactly 4 full weeks.
	c := NewCalendar(date(2026, time.February, 15))
	weeks := c.Grid(date(2026, time.February, 1))
	if len(weeks) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(weeks))
	}
	if weeks[0][0].Day != 1 {
		t.Fatalf("expected Feb 1 in the first cell, got %d", weeks[0][0].Day)
	}
	if weeks[3][6].Day != 28 {
		t.Fatalf("expected Feb 28 in the last cell, got %d", weeks[3][6].Day)
	}
}

func TestGridOffsetAndBlanks(t *testing.T) {
	// August 2026 starts on a Saturday: six leading blanks, 31 days, 6 rows.
	c := NewCalendar(date(2026, time.August, 1))
	weeks := c.Grid(date(2026, time.August, 12))
	if len(weeks) != 6 {
		t.Fatalf("expected 6 weeks, got %d", len(weeks))
	}
	for col := 0; col < 6; col++ {
		if weeks[0][col].Day != 0 {
			t.Fatalf("expected blank at col %d, got %d", col, weeks[0][col].Day)
		}
	}
	if weeks[0][6].Day != 1 {
		t.Fatalf("expected Aug 1 on Saturday, got %d", weeks[0][6].Day)
	}
	var count int
	for _, week := range weeks {
		for _, cell := range week {
			if cell.Day != 0 {
				count++
			}
		}
	}
	if count != 31 {
		t.Fatalf("expected 31 day cells, got %d", count)
	}
}

func TestTodayAndSelectionFlags(t *testing.T) {
	c := NewCalendar(date(2026, time.August, 1))
	c.Select(date(2026, time.August, 20))
	weeks := c.Grid(date(2026, time.August, 12))
	var todaySeen, selectedSeen bool
	for _, week := range weeks {
		for _, cell := range week {
			if cell.IsToday {
				if cell.Day != 12 {
					t.Fatalf("today flag on day %d", cell.Day)
				}
				todaySeen = true
			}
			if cell.IsSelected {
				if cell.Day != 20 {
					t.Fatalf("selected flag on day %d", cell.Day)
				}
				selectedSeen = true
			}
		}
	}
	if !todaySeen || !selectedSeen {
		t.Fatalf("missing flags: today=%v selected=%v", todaySeen, selectedSeen)
	}
}

func TestSelectMovesMonthAndIsIdempotent(t *testing.T) {
	c := NewCalendar(date(2026, time.August, 1))
	c.Select(date(2026, time.September, 3))
	if c.Month().Month() != time.September {
		t.Fatalf("expected view to follow selection, got %v", c.Month())
	}
	sel, ok := c.Selected()
	if !ok || !sel.Equal(date(2026, time.September, 3)) {
		t.Fatalf("unexpected selection %v %v", sel, ok)
	}
	c.NextMonth()
	c.Select(date(2026, time.September, 3)) // reselect: no-op, view stays put
	if c.Month().Month() != time.October {
		t.Fatalf("reselecting the same date must be a no-op, got %v", c.Month())
	}
}

func TestMonthNavigation(t *testing.T) {
	c := NewCalendar(date(2026, time.January, 31))
	c.PrevMonth()
	if c.Month().Month() != time.December || c.Month().Year() != 2025 {
		t.Fatalf("unexpected month %v", c.Month())
	}
	c.NextMonth()
	c.NextMonth()
	if c.Month().Month() != time.February || c.Month().Year() != 2026 {
		t.Fatalf("unexpected month %v", c.Month())
	}
}
