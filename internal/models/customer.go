package models

import "time"

// Customer entity
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"` // FK vers User (propriétaire)
	User      User   `gorm:"foreignKey:UserID"`
	Nom       string `gorm:"not null;index"` // Raison sociale ou nom
	Contact   string // Nom du contact principal
	Email     string
	Telephone string
	TVAIntra  string `gorm:"index"` // Numéro TVA intracommunautaire
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetUserID implements the ownership check used by policies.
func (c Customer) GetUserID() uint { return c.UserID }
