package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
)

// Invoice is a bill addressed to one customer. Totals are never stored;
// they are derived from Items on demand.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	IssueDate time.Time  `gorm:"not null" json:"issue_date"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`

	Status InvoiceStatus `gorm:"size:20;not null;default:'draft'" json:"status"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// IsDraft returns true if the invoice has not been emailed yet.
func (i *Invoice) IsDraft() bool {
	return i.Status == "" || i.Status == InvoiceStatusDraft
}

// IsSent returns true once the invoice has been emailed.
func (i *Invoice) IsSent() bool {
	return i.Status == InvoiceStatusSent
}

// InvoiceItem is one billed line.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"index;not null" json:"invoice_id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"unit_price"`
}

// Amounts returns the quantity and unit price used by total computation.
func (item InvoiceItem) Amounts() (quantity, unitPrice decimal.Decimal) {
	return item.Quantity, item.UnitPrice
}

// LineTotal returns quantity × unit price.
func (item InvoiceItem) LineTotal() decimal.Decimal {
	return item.Quantity.Mul(item.UnitPrice)
}
