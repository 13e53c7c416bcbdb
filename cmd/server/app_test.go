package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/diewo77/invoicer/internal/config"
	"github.com/diewo77/invoicer/internal/db"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/models"
)

var csrfFieldRe = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

func newTestApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "8080"},
		Database: config.DatabaseConfig{URL: "sqlite://"},
		App: config.AppConfig{
			Env:         config.AppEnvDev,
			SecretKey:   "test-secret",
			CompanyName: "Acme",
		},
		Invoice: config.InvoiceConfig{TaxRate: decimal.Zero},
	}
	app := NewApp(AppOptions{
		Config:   cfg,
		DB:       conn,
		Logger:   logger.Nop(),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, app.migrate(context.Background()))
	return app, conn
}

// browser keeps cookies between requests like a user agent would.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(r *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.h.ServeHTTP(w, r)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(r)
}

func (b *browser) token(page string) string {
	b.t.Helper()
	w := b.get(page)
	require.Equal(b.t, http.StatusOK, w.Code, w.Body.String())
	m := csrfFieldRe.FindStringSubmatch(w.Body.String())
	require.Len(b.t, m, 2, "csrf field missing on %s", page)
	return m[1]
}

func TestHealthEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String(), path)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"), path)
	}

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestCustomerFormRoundTrip(t *testing.T) {
	app, conn := newTestApp(t)
	b := newBrowser(t, app)

	token := b.token("/customers/new")
	w := b.post("/customers/new", url.Values{
		"gorilla.csrf.Token": {token},
		"first_name":         {"Grace"},
		"last_name":          {"Hopper"},
		"email":              {"grace@example.com"},
		"country":            {"United States"},
		"postal_code":        {"123456789"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/customers", w.Header().Get("Location"))

	w = b.get("/customers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Customer created")
	assert.Contains(t, w.Body.String(), "Grace Hopper")

	// the notice is shown once
	w = b.get("/customers")
	assert.NotContains(t, w.Body.String(), "Customer created")

	var c models.Customer
	require.NoError(t, conn.First(&c).Error)
	assert.Equal(t, "12345-6789", c.PostalCode)
}

func TestPostWithoutTokenIsRejected(t *testing.T) {
	app, conn := newTestApp(t)
	b := newBrowser(t, app)

	b.get("/products/new")
	w := b.post("/products/new", url.Values{"name": {"Widget"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	conn.Model(&models.Product{}).Count(&count)
	assert.Zero(t, count)
}

func TestInvoiceFlow(t *testing.T) {
	app, conn := newTestApp(t)
	require.NoError(t, db.Seed(context.Background(), conn))
	var ada models.Customer
	require.NoError(t, conn.Where("email = ?", "ada@example.com").First(&ada).Error)
	b := newBrowser(t, app)

	token := b.token("/invoices/new")
	w := b.post("/invoices/new", url.Values{
		"gorilla.csrf.Token": {token},
		"customer_id":        {fmt.Sprint(ada.ID)},
		"item_description[]": {"Consulting (hourly)", "USB-C cable"},
		"item_quantity[]":    {"3", "2"},
		"item_unit_price[]":  {"150.00", "12.99"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/invoices/"), location)

	w = b.get(location)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invoice created")
	assert.Contains(t, body, "$475.98")
	assert.Contains(t, body, "Draft")

	// no SMTP settings: the send fails, is reported, and the invoice stays draft
	token = csrfFieldRe.FindStringSubmatch(body)[1]
	w = b.post(location+"/email", url.Values{"gorilla.csrf.Token": {token}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	w = b.get(location)
	assert.Contains(t, w.Body.String(), "Email error: ")
	assert.Contains(t, w.Body.String(), "Draft")

	w = b.get("/invoices/999999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardAndInitDB(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(t, app)

	w := b.get("/initdb")
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Database initialized")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = b.get("/?lang=fr")
	assert.Contains(t, w.Body.String(), "Tableau de bord")
}
