package models

import (
	"time"

	"gorm.io/gorm"
)

// Catalog product, selectable into quote line items.
type Product struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index:idx_user_sku,priority:1"` // propriétaire/créateur
	User   User `gorm:"foreignKey:UserID"`
	// SKU unique par utilisateur; identifiant lisible, optionnel.
	SKU         string `gorm:"size:40;index:idx_user_sku,unique,priority:2"`
	Name        string `gorm:"not null"`
	Description string
	UnitPrice   float64        `gorm:"not null"`
	Currency    string         `gorm:"not null;default:'EUR'"` // devise du produit
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetUserID implements the ownership check used by policies.
func (p Product) GetUserID() uint { return p.UserID }
