package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/invoicer/httpx"
	"github.com/diewo77/invoicer/internal/billing"
	"github.com/diewo77/invoicer/internal/flash"
	"github.com/diewo77/invoicer/internal/mailer"
	"github.com/diewo77/invoicer/internal/metrics"
	"github.com/diewo77/invoicer/internal/models"
	"github.com/diewo77/invoicer/internal/money"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/validation"
)

// blankItemRows is how many empty line rows a new invoice form offers.
const blankItemRows = 5

// InvoiceOptions carries the settings the invoice pages and emails need.
type InvoiceOptions struct {
	TaxRate decimal.Decimal
	Company string
	Mailer  mailer.Sender
	Metrics *metrics.Metrics
}

type InvoiceHandler struct {
	Deps
	invoices  *services.InvoiceService
	customers *services.CustomerService
	products  *services.ProductService
	opts      InvoiceOptions
}

func NewInvoiceHandler(deps Deps, invoices *services.InvoiceService, customers *services.CustomerService, products *services.ProductService, opts InvoiceOptions) *InvoiceHandler {
	return &InvoiceHandler{Deps: deps, invoices: invoices, customers: customers, products: products, opts: opts}
}

type invoiceItemForm struct {
	Description string
	Quantity    string
	UnitPrice   string
}

type invoiceForm struct {
	CustomerID string `form:"customer_id" validate:"required,numeric"`
	IssueDate  string `form:"issue_date"`
	DueDate    string `form:"due_date"`
	Notes      string `form:"notes" validate:"max=5000"`
	Items      []invoiceItemForm
}

func invoiceFormFrom(r *http.Request) invoiceForm {
	_ = r.ParseForm()
	f := invoiceForm{
		CustomerID: strings.TrimSpace(r.PostForm.Get("customer_id")),
		IssueDate:  strings.TrimSpace(firstValue(r, "issue_date", "date")),
		DueDate:    strings.TrimSpace(r.PostForm.Get("due_date")),
		Notes:      strings.TrimSpace(r.PostForm.Get("notes")),
	}
	descs := listValues(r, "item_description")
	qtys := listValues(r, "item_quantity")
	prices := listValues(r, "item_unit_price")
	for i, d := range descs {
		f.Items = append(f.Items, invoiceItemForm{
			Description: d,
			Quantity:    at(qtys, i),
			UnitPrice:   at(prices, i),
		})
	}
	return f
}

// listValues accepts both "name[]" and "name" field spellings.
func listValues(r *http.Request, name string) []string {
	if vs := r.PostForm[name+"[]"]; len(vs) > 0 {
		return vs
	}
	return r.PostForm[name]
}

func firstValue(r *http.Request, names ...string) string {
	for _, n := range names {
		if v := r.PostForm.Get(n); v != "" {
			return v
		}
	}
	return ""
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// lines converts the submitted rows into invoice items. Rows without a
// description are dropped; a blank quantity means 1 and a blank price 0.
func (f invoiceForm) lines() []models.InvoiceItem {
	var items []models.InvoiceItem
	for _, row := range f.Items {
		desc := strings.TrimSpace(row.Description)
		if desc == "" {
			continue
		}
		items = append(items, models.InvoiceItem{
			Description: desc,
			Quantity:    money.CoerceDefault(row.Quantity, decimal.NewFromInt(1)),
			UnitPrice:   money.CoerceDefault(row.UnitPrice, decimal.Zero),
		})
	}
	return items
}

// invoice validates the header fields and builds the invoice to store.
func (f invoiceForm) invoice() (*models.Invoice, validation.Violations) {
	v := validation.Struct(f)
	inv := &models.Invoice{Notes: f.Notes}
	if id, err := strconv.ParseUint(f.CustomerID, 10, 64); err == nil && id > 0 {
		inv.CustomerID = uint(id)
	} else {
		v.Add("customer_id", "required")
	}
	if d := validation.Date("issue_date", f.IssueDate, v); d != nil {
		inv.IssueDate = *d
	}
	inv.DueDate = validation.Date("due_date", f.DueDate, v)
	if inv.DueDate != nil && !inv.IssueDate.IsZero() && inv.DueDate.Before(inv.IssueDate) {
		v.Add("due_date", "due_before")
	}
	return inv, v
}

// List: GET /invoices – HTML or JSON
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": invoices, "total": len(invoices)})
		return
	}
	h.render(w, r, "invoices/index.html", map[string]any{"Invoices": invoices})
}

func (h *InvoiceHandler) New(w http.ResponseWriter, r *http.Request) {
	form := invoiceForm{IssueDate: time.Now().Format("2006-01-02")}
	h.renderForm(w, r, http.StatusOK, form, validation.Violations{})
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := invoiceFormFrom(r)
	inv, v := form.invoice()
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, v)
		return
	}
	if err := h.invoices.Create(r.Context(), inv, form.lines()); err != nil {
		if errors.Is(err, services.ErrUnknownCustomer) {
			v.Add("customer_id", "unknown_choice")
			h.renderForm(w, r, http.StatusUnprocessableEntity, form, v)
			return
		}
		h.fail(w, r, err)
		return
	}
	h.flash(w, r, flash.TypeSuccess, "flash.invoice_created")
	http.Redirect(w, r, invoicePath(inv.ID), http.StatusSeeOther)
}

// View: GET /invoices/{id} – HTML or JSON with computed totals
func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	iv := billing.NewInvoiceView(inv, h.opts.TaxRate)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, iv)
		return
	}
	h.render(w, r, "invoices/view.html", map[string]any{"View": iv})
}

// Email: POST /invoices/{id}/email. The invoice is marked sent only after
// the message was accepted; any failure is reported as a flash and the
// status is left unchanged.
func (h *InvoiceHandler) Email(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx := h.Logger.WithField(r.Context(), "invoice_id", inv.ID)

	if err := h.send(r, inv); err != nil {
		h.opts.Metrics.InvoiceEmail(metrics.EmailFailed)
		h.Logger.Error(ctx, "invoice.email_failed", err)
		h.flash(w, r, flash.TypeError, "flash.email_error", err.Error())
		http.Redirect(w, r, invoicePath(inv.ID), http.StatusSeeOther)
		return
	}
	h.opts.Metrics.InvoiceEmail(metrics.EmailSent)
	if err := h.invoices.MarkSent(r.Context(), inv.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Logger.Info(ctx, "invoice.emailed")
	h.flash(w, r, flash.TypeSuccess, "flash.invoice_emailed")
	http.Redirect(w, r, invoicePath(inv.ID), http.StatusSeeOther)
}

func (h *InvoiceHandler) send(r *http.Request, inv *models.Invoice) error {
	if h.opts.Mailer == nil {
		return mailer.ErrNotConfigured
	}
	if inv.Customer == nil || inv.Customer.Email == "" {
		return errors.New("customer has no email address")
	}
	body, err := h.Deps.View.RenderString(r, "email/invoice.html", map[string]any{
		"View":    billing.NewInvoiceView(inv, h.opts.TaxRate),
		"Company": h.opts.Company,
	})
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	subject := fmt.Sprintf("Invoice #%d from %s", inv.ID, h.opts.Company)
	return h.opts.Mailer.Send(r.Context(), inv.Customer.Email, subject, body)
}

func (h *InvoiceHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form invoiceForm, errs validation.Violations) {
	customers, err := h.customers.List(r.Context(), "")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	products, err := h.products.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for len(form.Items) < blankItemRows {
		form.Items = append(form.Items, invoiceItemForm{})
	}
	h.renderStatus(w, r, status, "invoices/new.html", map[string]any{
		"Form":      form,
		"Errors":    errs,
		"Customers": customers,
		"Products":  products,
	})
}

func invoicePath(id uint) string {
	return "/invoices/" + strconv.FormatUint(uint64(id), 10)
}
