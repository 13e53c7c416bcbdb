package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/invoicer/internal/db"
	"github.com/diewo77/invoicer/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// List returns all invoices, newest first, with their customer.
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).Preload("Customer").Order("id DESC").Find(&invoices).Error
	return invoices, err
}

// Recent returns the newest n invoices with their customer.
func (s *InvoiceService) Recent(ctx context.Context, n int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).Preload("Customer").Order("id DESC").Limit(n).Find(&invoices).Error
	return invoices, err
}

// Get loads an invoice with its customer and items in insertion order.
func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&inv, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// Create stores the invoice header and its items in one transaction.
// A zero IssueDate defaults to today (UTC) and the status is always draft.
func (s *InvoiceService) Create(ctx context.Context, inv *models.Invoice, items []models.InvoiceItem) error {
	if inv.IssueDate.IsZero() {
		inv.IssueDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	inv.Status = models.InvoiceStatusDraft
	inv.Items = nil

	err := db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Customer{}, inv.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownCustomer
			}
			return err
		}
		if err := tx.Omit(clause.Associations).Create(inv).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].InvoiceID = inv.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		inv.ID = 0
		return err
	}
	inv.Items = items
	return nil
}

// MarkSent moves a draft invoice to sent. The update is conditional on the
// current status, so a sent invoice stays sent and repeated calls are no-ops.
func (s *InvoiceService) MarkSent(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, models.InvoiceStatusDraft).
		Update("status", models.InvoiceStatusSent)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}
