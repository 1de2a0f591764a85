package models

import "time"

// Quote / estimate models
type Quote struct {
	ID           uint        `gorm:"primaryKey"`
	UserID       uint        `gorm:"not null;index"` // propriétaire
	CustomerID   uint        `gorm:"not null;index"`
	Customer     Customer    `gorm:"foreignKey:CustomerID"`
	QuoteNumber  string      `gorm:"not null;uniqueIndex"`
	Status       string      `gorm:"not null"` // draft, sent, accepted, rejected, converted
	IssueDate    time.Time   `gorm:"not null"`
	ExpiryDate   time.Time   `gorm:"not null"`
	TaxRate      float64     `gorm:"not null"` // pourcentage, ex: 20 pour 20%
	TaxInclusive bool        // conservé mais non exploité en aval
	Notes        string
	Items        []QuoteItem `gorm:"foreignKey:QuoteID"`
	// Totaux dérivés, toujours recalculés avant écriture (jamais patchés).
	Subtotal  float64
	TaxAmount float64
	Total     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type QuoteItem struct {
	ID          uint     `gorm:"primaryKey"`
	QuoteID     uint     `gorm:"not null;index"`
	Position    int      `gorm:"not null"` // ordre d'affichage
	ProductID   *uint    // nul pour une ligne libre
	Product     *Product `gorm:"foreignKey:ProductID"`
	Description string   `gorm:"not null"`
	Quantity    float64  `gorm:"not null"`
	UnitPrice   float64  `gorm:"not null"`
}

// Quote statuses.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusConverted = "converted"
)

// ValidStatus reports whether s is one of the known quote statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusConverted:
		return true
	}
	return false
}

// GetUserID implements the ownership check used by policies.
func (q Quote) GetUserID() uint { return q.UserID }

// Amount is the derived line total.
func (it QuoteItem) Amount() float64 { return it.Quantity * it.UnitPrice }
