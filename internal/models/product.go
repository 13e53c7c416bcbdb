package models

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry, either a physical good or a billable service.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"unit_price"`
	IsService   bool            `gorm:"not null;default:false" json:"is_service"`
}

// Kind labels the product for listings.
func (p *Product) Kind() string {
	if p.IsService {
		return "Service"
	}
	return "Product"
}
