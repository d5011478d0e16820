package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"retailshop/m/domain"
	"retailshop/m/internal/report"
	"retailshop/m/internal/seed"
)

const maxImportBytes = 32 << 20

// exportData returns the full snapshot. Password hashes are only included
// for admins.
func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Export(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if stringFromContext(r, ctxRole) != domain.RoleAdmin {
		for i := range snap.Users {
			snap.Users[i].Password = ""
		}
	}

	respondJSON(w, http.StatusOK, snap)
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")

	filter, err := billFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	period := report.Period{From: filter.From, To: filter.To}

	var buf bytes.Buffer

	switch name {
	case "sales":
		bills, err := h.store.Bills(r.Context(), filter)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		err = report.WriteSales(&buf, bills, period)
		if err != nil {
			respondErr(w, r, err)
			return
		}
	case "gst":
		bills, err := h.store.Bills(r.Context(), filter)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		err = report.WriteGST(&buf, report.GSTBreakdown(bills), period)
		if err != nil {
			respondErr(w, r, err)
			return
		}
	case "stock":
		products, err := h.store.Products(r.Context())
		if err != nil {
			respondErr(w, r, err)
			return
		}
		err = report.WriteStock(&buf, products, h.now().UTC())
		if err != nil {
			respondErr(w, r, err)
			return
		}
	default:
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown report %q", name))
		return
	}

	filename := fmt.Sprintf("%s_report_%s.csv", name, h.now().UTC().Format(dateLayout))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var snap domain.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, u := range snap.Users {
		if u.ID == "" || u.Username == "" || u.Password == "" || !domain.ValidRole(u.Role) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid user %q", u.Username))
			return
		}
	}

	for _, p := range snap.Products {
		if p.ID == "" || p.Name == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid product %q", p.Name))
			return
		}
	}

	for _, b := range snap.Bills {
		if b.ID == "" || b.InvoiceNo == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid bill %q", b.InvoiceNo))
			return
		}
	}

	if err := h.store.Import(r.Context(), snap); err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"users":    len(snap.Users),
		"products": len(snap.Products),
		"bills":    len(snap.Bills),
	})
}

func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	n, err := seed.LoadProducts(r.Context(), h.store, r.Body)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// clearData wipes bills, products and users, then restores the default
// accounts so the shop stays reachable.
func (h *Handler) clearData(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	if err := h.store.Clear(r.Context()); err != nil {
		respondErr(w, r, err)
		return
	}

	if err := seed.Users(r.Context(), h.store); err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
