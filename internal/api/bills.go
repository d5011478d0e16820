package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"retailshop/m/domain"
	"retailshop/m/internal/billing"
)

const dateLayout = "2006-01-02"

// billFilter reads start_date, end_date and type from the query. Dates are
// whole UTC days and both ends are inclusive.
func billFilter(r *http.Request) (domain.BillFilter, error) {
	var filter domain.BillFilter

	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("start_date")); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, fmt.Errorf("%w: start_date must be in YYYY-MM-DD format", domain.ErrInvalidArgument)
		}
		filter.From = d
	}

	if v := strings.TrimSpace(q.Get("end_date")); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, fmt.Errorf("%w: end_date must be in YYYY-MM-DD format", domain.ErrInvalidArgument)
		}
		filter.To = d.Add(24*time.Hour - time.Second)
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, fmt.Errorf("%w: end_date is before start_date", domain.ErrInvalidArgument)
	}

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t, err := domain.ParseBillType(v)
		if err != nil {
			return filter, err
		}
		filter.Type = t
	}

	return filter, nil
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	filter, err := billFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	bills, err := h.store.Bills(r.Context(), filter)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, bills)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.store.Bill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, bill)
}

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req billing.CreateBillRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.BilledBy = billedBy(r)

	bill, err := h.billing.CreateBill(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, bill)
}

func (h *Handler) nextInvoice(w http.ResponseWriter, r *http.Request) {
	next, err := h.billing.NextInvoiceNumber(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"invoice_no": next})
}
