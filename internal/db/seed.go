package db

import (
	"context"
	"errors"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed inserts a small demo catalog and customer. Existing rows with the
// same name or email are left alone, so it can run on every start.
func Seed(ctx context.Context, conn *gorm.DB) error {
	conn = conn.WithContext(ctx)

	baseProducts := []models.Product{
		{Name: "Consulting (hourly)", Description: "Advisory work billed per hour", UnitPrice: decimal.RequireFromString("150.00"), IsService: true},
		{Name: "Setup fee", Description: "One-off onboarding", UnitPrice: decimal.RequireFromString("250.00"), IsService: true},
		{Name: "USB-C cable", Description: "1m braided cable", UnitPrice: decimal.RequireFromString("12.99")},
	}
	for _, p := range baseProducts {
		var existing models.Product
		err := conn.Where("name = ?", p.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&p).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	demo := models.Customer{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		City:       "London",
		PostalCode: "SW1A 1AA",
		Country:    "United Kingdom",
	}
	var existing models.Customer
	err := conn.Where("email = ?", demo.Email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return conn.Create(&demo).Error
	}
	return err
}
