package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"retailshop/m/domain"
	"retailshop/m/internal/billing"
	"retailshop/m/internal/logger"
	"retailshop/m/internal/seed"
)

// Store is the persistence the HTTP layer reads and writes directly.
type Store interface {
	seed.Repository
	seed.ProductCreator

	Products(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	LowStockProducts(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	Bill(ctx context.Context, id string) (domain.Bill, error)
	Bills(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, error)

	Users(ctx context.Context) ([]domain.User, error)
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	Export(ctx context.Context) (domain.Snapshot, error)
	Import(ctx context.Context, snap domain.Snapshot) error
	Clear(ctx context.Context) error
}

type Billing interface {
	CreateBill(ctx context.Context, req billing.CreateBillRequest) (domain.Bill, error)
	NextInvoiceNumber(ctx context.Context, billType string) (string, error)
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store   Store
	billing Billing
	secret  string
	now     func() time.Time
}

// New constructs a Handler.
func New(store Store, billing Billing, secret string) *Handler {
	return &Handler{store: store, billing: billing, secret: secret, now: time.Now}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID)
	r.Use(requestLogContext)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.authMiddleware)

			pr.Route("/products", func(r chi.Router) {
				r.Get("/", h.listProducts)
				r.Post("/", h.createProduct)
				r.Get("/{id}", h.getProduct)
				r.Put("/{id}", h.updateProduct)
				r.Delete("/{id}", h.deleteProduct)
			})

			pr.Route("/bills", func(r chi.Router) {
				r.Get("/", h.listBills)
				r.Post("/", h.createBill)
				r.Get("/next-invoice", h.nextInvoice)
				r.Get("/{id}", h.getBill)
			})

			pr.Get("/settings", h.getSettings)
			pr.Put("/settings", h.updateSettings)

			pr.Route("/users", func(r chi.Router) {
				r.Get("/", h.listUsers)
				r.Post("/", h.createUser)
				r.Get("/username/{username}", h.getUserByUsername)
				r.Get("/{id}", h.getUser)
				r.Put("/{id}", h.updateUser)
				r.Delete("/{id}", h.deleteUser)
			})

			pr.Get("/export", h.exportData)
			pr.Get("/export/{report}.csv", h.exportReport)
			pr.Post("/import", h.importData)
			pr.Post("/import/products", h.importProducts)
			pr.Post("/clear", h.clearData)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogContext copies chi's request id into the logging context.
func requestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logger.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without details.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvoiceNumberExhausted):
		slog.ErrorContext(r.Context(), "invoice number allocation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "unable to allocate an invoice number, please retry")
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
