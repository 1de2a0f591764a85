package widgets

import "strings"

// PaletteItem is one selectable entry of a command palette.
type PaletteItem struct {
	ID    uint
	Label string
}

// Palette is a generic filterable list-selection container: a query, an
// open/closed flag, and at most one selected item.
type Palette struct {
	Open       bool
	Query      string
	Items      []PaletteItem
	SelectedID *uint
}

func NewPalette(items []PaletteItem) *Palette {
	return &Palette{Items: items}
}

// Filtered returns the items whose label contains the query,
// case-insensitively, preserving the original order. An empty query returns
// everything.
func (p *Palette) Filtered() []PaletteItem {
	q := strings.ToLower(strings.TrimSpace(p.Query))
	if q == "" {
		return p.Items
	}
	var out []PaletteItem
	for _, it := range p.Items {
		if strings.Contains(strings.ToLower(it.Label), q) {
			out = append(out, it)
		}
	}
	return out
}

// Select makes id the exclusive selection and closes the palette. It reports
// whether the selection changed; reselecting the current item is a no-op.
func (p *Palette) Select(id uint) bool {
	p.Open = false
	if p.SelectedID != nil && *p.SelectedID == id {
		return false
	}
	p.SelectedID = &id
	return true
}

// ClearSelection drops the selection (the "custom item" choice) and closes
// the palette.
func (p *Palette) ClearSelection() {
	p.SelectedID = nil
	p.Open = false
}

// PickerSet keys one palette per line-item row. Rows are a dense slice
// parallel to the items list, so indices stay aligned as rows come and go.
type PickerSet struct {
	rows  []*Palette
	items []PaletteItem
}

func NewPickerSet(items []PaletteItem, n int) *PickerSet {
	s := &PickerSet{items: items}
	s.Resize(n)
	return s
}

// Resize grows or shrinks the set to n rows, keeping existing row state.
func (s *PickerSet) Resize(n int) {
	for len(s.rows) < n {
		s.rows = append(s.rows, NewPalette(s.items))
	}
	if len(s.rows) > n {
		s.rows = s.rows[:n]
	}
}

// Row returns the palette for row i, or nil when out of range.
func (s *PickerSet) Row(i int) *Palette {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// Remove drops row i, shifting later rows down to stay parallel to the items.
func (s *PickerSet) Remove(i int) {
	if i < 0 || i >= len(s.rows) {
		return
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
}

func (s *PickerSet) Len() int { return len(s.rows) }
