package models

import "time"

// Subscription plans gate how many quotes a user may create.
type Plan struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"unique;not null"` // free, pro
	QuoteLimit   int    `gorm:"not null"`        // 0 = illimité
	MonthlyPrice float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Unlimited reports whether the plan has no quote quota.
func (p Plan) Unlimited() bool { return p.QuoteLimit <= 0 }
