package services

import (
	"context"
	"strings"

	"github.com/diewo77/invoicer/internal/models"
	"gorm.io/gorm"
)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// List returns customers ordered by first then last name. A non-empty query
// matches case-insensitively against first name, last name or email.
func (s *CustomerService) List(ctx context.Context, query string) ([]models.Customer, error) {
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	var customers []models.Customer
	err := q.Order("first_name").Order("last_name").Find(&customers).Error
	return customers, err
}

// Recent returns the newest n customers.
func (s *CustomerService) Recent(ctx context.Context, n int) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(n).Find(&customers).Error
	return customers, err
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *CustomerService) Create(ctx context.Context, c *models.Customer) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// Update overwrites every editable column of an existing customer.
func (s *CustomerService) Update(ctx context.Context, c *models.Customer) error {
	res := s.db.WithContext(ctx).Model(&models.Customer{ID: c.ID}).
		Select("first_name", "last_name", "email", "phone", "address", "city", "state", "postal_code", "country").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}
