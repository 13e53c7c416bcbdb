package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/invoicer/httpx"
	"github.com/diewo77/invoicer/internal/flash"
	"github.com/diewo77/invoicer/internal/models"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/validation"
)

type CustomerHandler struct {
	Deps
	svc *services.CustomerService
}

func NewCustomerHandler(deps Deps, svc *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Deps: deps, svc: svc}
}

type customerForm struct {
	FirstName  string `form:"first_name" validate:"required,max=100"`
	LastName   string `form:"last_name" validate:"required,max=100"`
	Email      string `form:"email" validate:"required,email,max=255"`
	Phone      string `form:"phone" validate:"max=50"`
	Address    string `form:"address" validate:"max=255"`
	City       string `form:"city" validate:"max=100"`
	State      string `form:"state" validate:"max=100"`
	PostalCode string `form:"postal_code" validate:"max=20"`
	Country    string `form:"country" validate:"max=100"`
}

func customerFormFrom(r *http.Request) customerForm {
	f := customerForm{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		Address:   strings.TrimSpace(r.FormValue("address")),
		City:      strings.TrimSpace(r.FormValue("city")),
		State:     strings.TrimSpace(r.FormValue("state")),
		Country:   strings.TrimSpace(r.FormValue("country")),
	}
	f.PostalCode = validation.NormalizePostalCode(f.Country, r.FormValue("postal_code"))
	return f
}

func customerFormOf(c *models.Customer) customerForm {
	return customerForm{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		Country:    c.Country,
	}
}

func (f customerForm) validate() validation.Violations {
	v := validation.Struct(f)
	validation.OneOf("country", f.Country, models.Countries, v)
	return v
}

func (f customerForm) apply(c *models.Customer) {
	c.FirstName = f.FirstName
	c.LastName = f.LastName
	c.Email = f.Email
	c.Phone = f.Phone
	c.Address = f.Address
	c.City = f.City
	c.State = f.State
	c.PostalCode = f.PostalCode
	c.Country = f.Country
}

// List: GET /customers?q= – HTML or JSON
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	customers, err := h.svc.List(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers), "query": query})
		return
	}
	h.render(w, r, "customers/index.html", map[string]any{
		"Customers": customers,
		"Query":     query,
	})
}

func (h *CustomerHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "customers.new", "/customers/new", customerForm{}, validation.Violations{})
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := customerFormFrom(r)
	if v := form.validate(); !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "customers.new", "/customers/new", form, v)
		return
	}
	var c models.Customer
	form.apply(&c)
	if err := h.svc.Create(r.Context(), &c); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flash(w, r, flash.TypeSuccess, "flash.customer_created")
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

// Edit: GET /customers/{id}/edit – HTML form or the customer as JSON
func (h *CustomerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, c)
		return
	}
	h.renderForm(w, r, http.StatusOK, "customers.edit", editPath("customers", id), customerFormOf(c), validation.Violations{})
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form := customerFormFrom(r)
	if v := form.validate(); !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "customers.edit", editPath("customers", id), form, v)
		return
	}
	form.apply(c)
	if err := h.svc.Update(r.Context(), c); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flash(w, r, flash.TypeSuccess, "flash.customer_updated")
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

func (h *CustomerHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, heading, action string, form customerForm, errs validation.Violations) {
	h.renderStatus(w, r, status, "customers/form.html", map[string]any{
		"Heading":   heading,
		"Action":    action,
		"Form":      form,
		"Errors":    errs,
		"Countries": models.Countries,
	})
}

func editPath(resource string, id uint) string {
	return "/" + resource + "/" + strconv.FormatUint(uint64(id), 10) + "/edit"
}
