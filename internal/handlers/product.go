package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diewo77/invoicer/httpx"
	"github.com/diewo77/invoicer/internal/flash"
	"github.com/diewo77/invoicer/internal/models"
	"github.com/diewo77/invoicer/internal/money"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/validation"
)

type ProductHandler struct {
	Deps
	svc *services.ProductService
}

func NewProductHandler(deps Deps, svc *services.ProductService) *ProductHandler {
	return &ProductHandler{Deps: deps, svc: svc}
}

type productForm struct {
	Name        string `form:"name" validate:"required,max=255"`
	Description string `form:"description"`
	UnitPrice   string `form:"unit_price"`
	IsService   bool   `form:"is_service"`
}

func productFormFrom(r *http.Request) productForm {
	return productForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		UnitPrice:   strings.TrimSpace(r.FormValue("unit_price")),
		IsService:   r.FormValue("is_service") != "",
	}
}

func productFormOf(p *models.Product) productForm {
	return productForm{
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice.StringFixed(2),
		IsService:   p.IsService,
	}
}

// validate checks the form and returns the coerced unit price. Blank or
// non-numeric prices become zero and negatives are kept as entered.
func (f productForm) validate() (decimal.Decimal, validation.Violations) {
	return money.CoerceDefault(f.UnitPrice, decimal.Zero), validation.Struct(f)
}

// List: GET /products – HTML or JSON
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
		return
	}
	h.render(w, r, "products/index.html", map[string]any{"Products": products})
}

func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "products.new", "/products/new", productForm{}, validation.Violations{})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := productFormFrom(r)
	price, v := form.validate()
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "products.new", "/products/new", form, v)
		return
	}
	p := models.Product{
		Name:        form.Name,
		Description: form.Description,
		UnitPrice:   price,
		IsService:   form.IsService,
	}
	if err := h.svc.Create(r.Context(), &p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flash(w, r, flash.TypeSuccess, "flash.product_created")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Edit: GET /products/{id}/edit – HTML form or the product as JSON
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, p)
		return
	}
	h.renderForm(w, r, http.StatusOK, "products.edit", editPath("products", id), productFormOf(p), validation.Violations{})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form := productFormFrom(r)
	price, v := form.validate()
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "products.edit", editPath("products", id), form, v)
		return
	}
	p.Name = form.Name
	p.Description = form.Description
	p.UnitPrice = price
	p.IsService = form.IsService
	if err := h.svc.Update(r.Context(), p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flash(w, r, flash.TypeSuccess, "flash.product_updated")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *ProductHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, heading, action string, form productForm, errs validation.Violations) {
	h.renderStatus(w, r, status, "products/form.html", map[string]any{
		"Heading": heading,
		"Action":  action,
		"Form":    form,
		"Errors":  errs,
	})
}
