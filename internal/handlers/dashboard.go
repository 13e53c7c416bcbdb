package handlers

import (
	"net/http"

	"github.com/diewo77/invoicer/internal/services"
)

// recentLimit is how many invoices and customers the dashboard lists.
const recentLimit = 5

type DashboardHandler struct {
	Deps
	invoices  *services.InvoiceService
	customers *services.CustomerService
}

func NewDashboardHandler(deps Deps, invoices *services.InvoiceService, customers *services.CustomerService) *DashboardHandler {
	return &DashboardHandler{Deps: deps, invoices: invoices, customers: customers}
}

// Index: GET /
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.Recent(r.Context(), recentLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	customers, err := h.customers.Recent(r.Context(), recentLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "index.html", map[string]any{
		"Invoices":  invoices,
		"Customers": customers,
	})
}
