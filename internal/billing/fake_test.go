package billing_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"retailshop/m/domain"
)

// memStore enforces invoice number uniqueness under a mutex, like a unique
// index would.
type memStore struct {
	mu       sync.Mutex
	bills    map[string]domain.Bill
	products map[string]domain.Product
	settings *domain.Settings
	inserts  int
}

func newMemStore(products ...domain.Product) *memStore {
	s := &memStore{
		bills:    map[string]domain.Bill{},
		products: map[string]domain.Product{},
	}

	for _, p := range products {
		s.products[p.ID] = p
	}

	return s
}

func (s *memStore) InvoiceNumbers(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for no := range s.bills {
		if strings.HasPrefix(no, prefix) {
			out = append(out, no)
		}
	}

	return out, nil
}

func (s *memStore) ProductsByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]domain.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}

	return out, nil
}

func (s *memStore) CreateBill(_ context.Context, bill domain.Bill) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserts++

	if _, taken := s.bills[bill.InvoiceNo]; taken {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateInvoiceNumber, bill.InvoiceNo)
	}

	var missing []string
	for _, item := range bill.Items {
		if item.ProductID == "" {
			continue
		}

		p, ok := s.products[item.ProductID]
		if !ok {
			missing = append(missing, item.ProductID)
			continue
		}

		p.Stock -= item.Quantity.InexactFloat64()
		s.products[p.ID] = p
	}

	s.bills[bill.InvoiceNo] = bill

	return missing, nil
}

func (s *memStore) Settings(context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		return domain.Settings{}, domain.ErrNotFound
	}

	return *s.settings, nil
}

type nopPublisher struct{}

func (nopPublisher) BillCreated(context.Context, domain.Bill) error { return nil }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}
