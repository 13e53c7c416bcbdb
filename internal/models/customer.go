package models

import (
	"strings"
	"time"
)

// Countries offered by the customer form, in display order.
var Countries = []string{"United States", "Canada", "United Kingdom", "Australia"}

// Customer is a billable party. Invoices reference it by ID.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Email     string `gorm:"size:255;not null" json:"email"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`

	// Address
	Address    string `gorm:"size:255" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`

	Invoices []Invoice `gorm:"foreignKey:CustomerID" json:"invoices,omitempty"`
}

// FullName returns "First Last" with blank parts dropped.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FullAddress returns the mailing address, one line per part:
// street, "City, State Postal", country.
func (c *Customer) FullAddress() string {
	var lines []string
	if c.Address != "" {
		lines = append(lines, c.Address)
	}
	locality := c.City
	if c.State != "" {
		if locality != "" {
			locality += ", "
		}
		locality += c.State
	}
	if c.PostalCode != "" {
		if locality != "" {
			locality += " "
		}
		locality += c.PostalCode
	}
	if locality != "" {
		lines = append(lines, locality)
	}
	if c.Country != "" {
		lines = append(lines, c.Country)
	}
	return strings.Join(lines, "\n")
}
