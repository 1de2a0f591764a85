package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/validation"
)

// LineItem is one editable row of a quote draft. ProductID is set only
// through a catalog selection; nil means a free-text line.
type LineItem struct {
	ProductID   *uint
	Description string
	Quantity    float64
	UnitPrice   float64
}

// Amount is the derived line total; never stored, always recomputed.
func (it LineItem) Amount() float64 { return it.Quantity * it.UnitPrice }

// QuoteDraft is the in-memory form document. It is private to one editing
// session and discarded on submit or navigation; the only persistence is the
// gorm models it is built from and flattened back into.
type QuoteDraft struct {
	ID           uint // 0 en création
	CustomerID   uint
	QuoteNumber  string
	IssueDate    time.Time
	ExpiryDate   time.Time
	Status       string
	TaxRate      float64 // pourcentage
	TaxInclusive bool
	Notes        string
	Items        []LineItem // toujours au moins une ligne
}

// Totals is the derived money projection of a draft.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// QuoteService encapsulates the line-item and totals engine.
type QuoteService struct{}

func NewQuoteService() *QuoteService { return &QuoteService{} }

const defaultTaxRate = 20

func defaultItem() LineItem {
	return LineItem{Description: "", Quantity: 1, UnitPrice: 0}
}

// NewDraft builds the create-mode document: one default line, an
// auto-generated quote number, today as issue date, expiry one month out and
// the default tax rate.
func (s *QuoteService) NewDraft(now time.Time) QuoteDraft {
	return QuoteDraft{
		QuoteNumber: GenerateQuoteNumber(now),
		IssueDate:   now,
		ExpiryDate:  now.AddDate(0, 1, 0),
		Status:      models.StatusDraft,
		TaxRate:     defaultTaxRate,
		Items:       []LineItem{defaultItem()},
	}
}

// GenerateQuoteNumber returns "QT-" + current year + 4 random digits.
func GenerateQuoteNumber(now time.Time) string {
	return fmt.Sprintf("QT-%d%04d", now.Year(), rand.Intn(10000))
}

// Hydrate builds the edit-mode document from a persisted quote and its
// persisted items. A quote with zero items should not exist; if it does, the
// draft falls back to a single default line rather than an empty list.
func (s *QuoteService) Hydrate(q models.Quote, items []models.QuoteItem) QuoteDraft {
	d := QuoteDraft{
		ID:           q.ID,
		CustomerID:   q.CustomerID,
		QuoteNumber:  q.QuoteNumber,
		IssueDate:    q.IssueDate,
		ExpiryDate:   q.ExpiryDate,
		Status:       q.Status,
		TaxRate:      q.TaxRate,
		TaxInclusive: q.TaxInclusive,
		Notes:        q.Notes,
	}
	for _, it := range items {
		d.Items = append(d.Items, LineItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	if len(d.Items) == 0 {
		d.Items = []LineItem{defaultItem()}
	}
	return d
}

// AddItem appends a default line. There is no upper bound on the item count.
func (s *QuoteService) AddItem(d *QuoteDraft) {
	d.Items = append(d.Items, defaultItem())
}

// RemoveItem deletes the line at index. The last remaining line can never be
// removed: the operation is a no-op, not an error, and the UI keeps the
// control disabled in that state. Returns whether a line was removed.
func (s *QuoteService) RemoveItem(d *QuoteDraft, index int) bool {
	if len(d.Items) <= 1 || index < 0 || index >= len(d.Items) {
		return false
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return true
}

// SelectProduct resolves a catalog pick into the line at index. A product
// overwrites the description (product description, falling back to its name)
// and the unit price, and records the reference. A nil product is the
// "custom item" choice: the reference is cleared and the typed description
// and price are left alone.
func (s *QuoteService) SelectProduct(d *QuoteDraft, index int, p *models.Product) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	it := &d.Items[index]
	if p == nil {
		it.ProductID = nil
		return
	}
	desc := p.Description
	if strings.TrimSpace(desc) == "" {
		desc = p.Name
	}
	id := p.ID
	it.ProductID = &id
	it.Description = desc
	it.UnitPrice = p.UnitPrice
}

// ComputeTotals derives subtotal, tax amount and total from the draft. Pure:
// no caching, no mutation. Called on every field change for live display and
// once more on the submit snapshot, so stale derived state can never be
// persisted.
func (s *QuoteService) ComputeTotals(d *QuoteDraft) Totals {
	var t Totals
	if d == nil {
		return t
	}
	for _, it := range d.Items {
		t.Subtotal += it.Quantity * it.UnitPrice
	}
	rate := d.TaxRate
	if rate < 0 {
		rate = 0
	}
	t.TaxAmount = t.Subtotal * rate / 100
	t.Total = t.Subtotal + t.TaxAmount
	return t
}

// Validate applies the submit-time pass. Field violations block submission
// and are rendered inline; they are results, not errors.
func (s *QuoteService) Validate(d *QuoteDraft) validation.Violations {
	v := validation.Violations{}
	validation.RequiredID("customer_id", d.CustomerID, v)
	validation.Required("quote_number", d.QuoteNumber, v)
	validation.NonNegativeFloat("tax_rate", d.TaxRate, v)
	if !models.ValidStatus(d.Status) {
		v["status"] = "out_of_range"
	}
	if len(d.Items) == 0 {
		v["items"] = "required"
	}
	for i, it := range d.Items {
		validation.Required(validation.ItemField(i, "description"), it.Description, v)
		validation.PositiveFloat(validation.ItemField(i, "quantity"), it.Quantity, v)
		validation.NonNegativeFloat(validation.ItemField(i, "unit_price"), it.UnitPrice, v)
	}
	return v
}

// DisplayFloat is the permissive display-side coercion: anything that does
// not parse as a number renders as 0. Submission still goes through Validate,
// which is the strict pass; the two are deliberately kept separate.
func DisplayFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Money renders a monetary value with exactly two fraction digits.
func Money(v float64) string { return fmt.Sprintf("%.2f", v) }

// Flatten converts a validated draft back into persistence models. Totals are
// recomputed here from the snapshot, never copied from display state.
func (s *QuoteService) Flatten(d *QuoteDraft, userID uint) (models.Quote, []models.QuoteItem) {
	t := s.ComputeTotals(d)
	q := models.Quote{
		ID:           d.ID,
		UserID:       userID,
		CustomerID:   d.CustomerID,
		QuoteNumber:  strings.TrimSpace(d.QuoteNumber),
		Status:       d.Status,
		IssueDate:    d.IssueDate,
		ExpiryDate:   d.ExpiryDate,
		TaxRate:      d.TaxRate,
		TaxInclusive: d.TaxInclusive,
		Notes:        d.Notes,
		Subtotal:     t.Subtotal,
		TaxAmount:    t.TaxAmount,
		Total:        t.Total,
	}
	items := make([]models.QuoteItem, 0, len(d.Items))
	for i, it := range d.Items {
		items = append(items, models.QuoteItem{
			QuoteID:     d.ID,
			Position:    i,
			ProductID:   it.ProductID,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return q, items
}
