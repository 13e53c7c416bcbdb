package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedCustomer(t *testing.T, db *gorm.DB, first, last, email string) models.Customer {
	t.Helper()
	c := models.Customer{FirstName: first, LastName: last, Email: email}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func TestCustomerService_ListSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	seedCustomer(t, db, "Zoe", "Adams", "zoe@example.com")
	seedCustomer(t, db, "Alan", "Turing", "alan@bletchley.uk")
	seedCustomer(t, db, "Ada", "Lovelace", "ada@example.com")

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Ada", "Alan", "Zoe"}, []string{all[0].FirstName, all[1].FirstName, all[2].FirstName})

	byEmail, err := svc.List(ctx, "EXAMPLE.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	byLast, err := svc.List(ctx, " turing ")
	require.NoError(t, err)
	require.Len(t, byLast, 1)
	assert.Equal(t, "Alan", byLast[0].FirstName)

	none, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCustomerService_GetUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	c := seedCustomer(t, db, "Ada", "Lovelace", "ada@example.com")
	c.Phone = "555-0100"
	c.City = ""
	require.NoError(t, svc.Update(ctx, &c))

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", got.Phone)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	missing := models.Customer{ID: 9999, FirstName: "X", LastName: "Y", Email: "x@y.z"}
	assert.ErrorIs(t, svc.Update(ctx, &missing), ErrNotFound)
}

func TestCustomerService_Recent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)
	for i := 0; i < 7; i++ {
		seedCustomer(t, db, fmt.Sprintf("C%d", i), "L", fmt.Sprintf("c%d@example.com", i))
	}
	recent, err := svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "C6", recent[0].FirstName)
}

func TestProductService_CRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)
	ctx := context.Background()

	widget := models.Product{Name: "Widget", UnitPrice: dec("19.99")}
	service := models.Product{Name: "Audit", UnitPrice: dec("1200.00"), IsService: true}
	require.NoError(t, svc.Create(ctx, &widget))
	require.NoError(t, svc.Create(ctx, &service))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Audit", list[0].Name)
	assert.True(t, list[1].UnitPrice.Equal(dec("19.99")))

	widget.UnitPrice = dec("0")
	widget.IsService = true
	require.NoError(t, svc.Update(ctx, &widget))
	got, err := svc.Get(ctx, widget.ID)
	require.NoError(t, err)
	assert.True(t, got.UnitPrice.IsZero())
	assert.True(t, got.IsService)
}

func TestInvoiceService_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvoiceService(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Ada", "Lovelace", "ada@example.com")

	inv := models.Invoice{CustomerID: c.ID, Notes: "Thanks"}
	items := []models.InvoiceItem{
		{Description: "Design", Quantity: dec("2"), UnitPrice: dec("3.50")},
		{Description: "Build", Quantity: dec("1"), UnitPrice: dec("10.00")},
	}
	require.NoError(t, svc.Create(ctx, &inv, items))
	require.NotZero(t, inv.ID)
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.False(t, inv.IssueDate.IsZero())

	got, err := svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Ada Lovelace", got.Customer.FullName())
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Design", got.Items[0].Description)
	assert.True(t, got.Items[0].UnitPrice.Equal(dec("3.50")))
	assert.True(t, got.Items[1].Quantity.Equal(dec("1")))
	assert.True(t, got.IsDraft())
}

func TestInvoiceService_CreateWithoutItems(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvoiceService(db)
	c := seedCustomer(t, db, "Ada", "Lovelace", "ada@example.com")

	due := time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC)
	inv := models.Invoice{CustomerID: c.ID, DueDate: &due}
	require.NoError(t, svc.Create(context.Background(), &inv, nil))

	got, err := svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, 31, got.DueDate.Day())
}

func TestInvoiceService_CreateUnknownCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvoiceService(db)

	inv := models.Invoice{CustomerID: 42}
	err := svc.Create(context.Background(), &inv, []models.InvoiceItem{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")}})
	assert.ErrorIs(t, err, ErrUnknownCustomer)

	var n int64
	db.Model(&models.Invoice{}).Count(&n)
	assert.Zero(t, n)
}

func TestInvoiceService_CreateIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvoiceService(db)
	c := seedCustomer(t, db, "Ada", "Lovelace", "ada@example.com")

	boom := errors.New("item insert failed")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_items", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "invoice_items" {
			_ = tx.AddError(boom)
		}
	}))

	inv := models.Invoice{CustomerID: c.ID}
	err := svc.Create(context.Background(), &inv, []models.InvoiceItem{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")}})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, inv.ID)

	var invoices, items int64
	db.Model(&models.Invoice{}).Count(&invoices)
	db.Model(&models.InvoiceItem{}).Count(&items)
	assert.Zero(t, invoices, "header must roll back with its items")
	assert.Zero(t, items)
}

func TestInvoiceService_MarkSent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvoiceService(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Ada", "Lovelace", "ada@example.com")

	inv := models.Invoice{CustomerID: c.ID}
	require.NoError(t, svc.Create(ctx, &inv, nil))

	require.NoError(t, svc.MarkSent(ctx, inv.ID))
	got, err := svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSent())

	// sending again keeps it sent
	require.NoError(t, svc.MarkSent(ctx, inv.ID))
	got, err = svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, got.Status)

	assert.ErrorIs(t, svc.MarkSent(ctx, 9999), ErrNotFound)
}

func TestInvoiceService_ListOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInvoiceService(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Ada", "Lovelace", "ada@example.com")

	for i := 0; i < 6; i++ {
		inv := models.Invoice{CustomerID: c.ID}
		require.NoError(t, svc.Create(ctx, &inv, nil))
	}
	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Greater(t, all[0].ID, all[5].ID)
	require.NotNil(t, all[0].Customer)

	recent, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
	assert.Equal(t, all[0].ID, recent[0].ID)
}
