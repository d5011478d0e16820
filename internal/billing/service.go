// Package billing turns a bill request into a persisted, numbered bill.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"retailshop/m/domain"
	"retailshop/m/internal/gst"
	"retailshop/m/internal/invoice"
	"retailshop/m/internal/words"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/billing.go -package=mocks

const (
	DefaultCustomerName = "Walk-in Customer"
	DefaultStateCode    = "33"

	dateLayout = "2006-01-02"
)

// stateCodeRe finds the two digit state code in a place of supply such as
// "Tamil Nadu (33)".
var stateCodeRe = regexp.MustCompile(`\((\d{2})\)`)

// MaxAmount caps prices, quantities, line amounts and bill totals.
var MaxAmount = decimal.New(1, 12)

type Store interface {
	InvoiceNumbers(ctx context.Context, prefix string) ([]string, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	// CreateBill persists the bill and its stock decrements atomically and
	// returns the ids of referenced products that no longer exist.
	CreateBill(ctx context.Context, bill domain.Bill) ([]string, error)
	Settings(ctx context.Context) (domain.Settings, error)
}

type Publisher interface {
	BillCreated(ctx context.Context, bill domain.Bill) error
}

type Options struct {
	HomeStateCode string
	MaxAttempts   int
}

type Service struct {
	store         Store
	publisher     Publisher
	allocator     *invoice.Allocator
	homeStateCode string
	now           func() time.Time
}

func New(store Store, publisher Publisher, opts Options, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	if opts.HomeStateCode == "" {
		opts.HomeStateCode = DefaultStateCode
	}

	return &Service{
		store:         store,
		publisher:     publisher,
		allocator:     invoice.NewAllocator(store, opts.MaxAttempts, now),
		homeStateCode: opts.HomeStateCode,
		now:           now,
	}
}

// NextInvoiceNumber previews the number the next bill of the given type would
// get. Nothing is reserved.
func (s *Service) NextInvoiceNumber(ctx context.Context, billType string) (string, error) {
	t, err := domain.ParseBillType(billType)
	if err != nil {
		return "", err
	}

	n, err := s.allocator.Preview(ctx, t)
	if err != nil {
		return "", err
	}

	return n.String(), nil
}

func (s *Service) CreateBill(ctx context.Context, req CreateBillRequest) (domain.Bill, error) {
	billType, err := domain.ParseBillType(req.Type)
	if err != nil {
		return domain.Bill{}, err
	}

	if len(req.Items) == 0 {
		return domain.Bill{}, fmt.Errorf("%w: bill has no items", domain.ErrInvalidArgument)
	}

	now := s.now().UTC().Truncate(time.Second)

	date, err := billDate(req.Date, now)
	if err != nil {
		return domain.Bill{}, err
	}

	interState, err := s.interState(ctx, req)
	if err != nil {
		return domain.Bill{}, err
	}

	items, err := s.lineItems(ctx, req.Items, billType)
	if err != nil {
		return domain.Bill{}, err
	}

	lines := make([]gst.Line, len(items))
	for i, item := range items {
		lines[i] = gst.Line{Amount: item.Amount, Rate: item.GSTRate}
	}

	summary := gst.Summarize(lines, interState)
	for i, split := range summary.Splits {
		items[i].CGST = split.CGST
		items[i].SGST = split.SGST
		items[i].IGST = split.IGST
	}

	if summary.Total.GreaterThan(MaxAmount) {
		return domain.Bill{}, fmt.Errorf("%w: bill total exceeds %s", domain.ErrInvalidArgument, MaxAmount)
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		customerName = DefaultCustomerName
	}

	bill := domain.Bill{
		ID:                     uuid.Must(uuid.NewV4()).String(),
		Type:                   billType,
		Date:                   date,
		CustomerName:           customerName,
		CustomerPhone:          strings.TrimSpace(req.CustomerPhone),
		CustomerAddress:        strings.TrimSpace(req.CustomerAddress),
		CustomerGSTIN:          strings.ToUpper(strings.TrimSpace(req.CustomerGSTIN)),
		DeliveryAddress:        strings.TrimSpace(req.DeliveryAddress),
		PlaceOfSupply:          strings.TrimSpace(req.PlaceOfSupply),
		InterState:             interState,
		Items:                  items,
		Subtotal:               summary.Subtotal,
		CGST:                   summary.CGST,
		SGST:                   summary.SGST,
		IGST:                   summary.IGST,
		RoundOff:               summary.RoundOff,
		Total:                  summary.Total,
		Discount:               req.Discount,
		TransportVehicleNumber: strings.TrimSpace(req.TransportVehicleNumber),
		TransportCharge:        req.TransportCharge,
		AmountInWords:          words.Rupees(summary.Total),
		BillingNotes:           req.BillingNotes,
		BilledBy:               req.BilledBy,
	}

	var missing []string

	number, err := s.allocator.Allocate(ctx, billType, func(ctx context.Context, number string) error {
		bill.InvoiceNo = number

		var err error
		missing, err = s.store.CreateBill(ctx, bill)

		return err
	})
	if err != nil {
		return domain.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	bill.InvoiceNo = number

	if len(missing) > 0 {
		slog.WarnContext(ctx, "stock not decremented for missing products",
			"invoice_no", number, "product_ids", missing)
	}

	if err := s.publisher.BillCreated(ctx, bill); err != nil {
		slog.WarnContext(ctx, "publish bill.created failed", "invoice_no", number, "error", err)
	}

	slog.InfoContext(ctx, "bill created",
		"invoice_no", number, "type", billType.String(), "total", bill.Total.String())

	return bill, nil
}

func billDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}

	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrInvalidArgument, raw)
	}

	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC), nil
}

// StateCode extracts the two digit GST state code from a place of supply.
func StateCode(placeOfSupply string) (string, bool) {
	m := stateCodeRe.FindStringSubmatch(placeOfSupply)
	if m == nil {
		return "", false
	}

	return m[1], true
}

func (s *Service) interState(ctx context.Context, req CreateBillRequest) (bool, error) {
	if req.InterState != nil {
		return *req.InterState, nil
	}

	code, ok := StateCode(req.PlaceOfSupply)
	if !ok {
		return false, nil
	}

	home := s.homeStateCode

	settings, err := s.store.Settings(ctx)
	switch {
	case err == nil:
		if settings.StateCode != "" {
			home = settings.StateCode
		}
	case !errors.Is(err, domain.ErrNotFound):
		return false, fmt.Errorf("load settings: %w", err)
	}

	return code != home, nil
}

func (s *Service) lineItems(ctx context.Context, reqs []LineItemRequest, billType domain.BillType) (domain.LineItems, error) {
	var ids []string
	for _, r := range reqs {
		if r.ProductID != "" {
			ids = append(ids, r.ProductID)
		}
	}

	products, err := s.store.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	items := make(domain.LineItems, 0, len(reqs))

	for i, r := range reqs {
		if !r.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: item %d: quantity must be positive", domain.ErrInvalidArgument, i+1)
		}

		p, known := products[r.ProductID]

		item := domain.LineItem{
			ProductID: r.ProductID,
			Name:      strings.TrimSpace(r.Name),
			Quantity:  r.Quantity,
			Unit:      strings.TrimSpace(r.Unit),
			HSNCode:   strings.TrimSpace(r.HSNCode),
		}

		if !known && (item.Name == "" || r.Price == nil) {
			return nil, fmt.Errorf("%w: item %d: unknown product needs a name and price", domain.ErrInvalidArgument, i+1)
		}

		if item.Name == "" {
			item.Name = p.Name
		}

		if item.Unit == "" {
			item.Unit = p.Unit
		}
		if item.Unit == "" {
			item.Unit = domain.DefaultUnit
		}

		if item.HSNCode == "" {
			item.HSNCode = p.HSNCode
		}

		item.Price = p.Price
		if r.Price != nil {
			item.Price = *r.Price
		}

		if item.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: price must not be negative", domain.ErrInvalidArgument, i+1)
		}

		if item.Price.GreaterThan(MaxAmount) || item.Quantity.GreaterThan(MaxAmount) {
			return nil, fmt.Errorf("%w: item %d: price and quantity must not exceed %s", domain.ErrInvalidArgument, i+1, MaxAmount)
		}

		item.GSTRate = p.GSTRate
		if r.GSTRate != nil {
			item.GSTRate = *r.GSTRate
		}

		if !gst.ValidRate(item.GSTRate) {
			return nil, fmt.Errorf("%w: item %d: unsupported GST rate %d", domain.ErrInvalidArgument, i+1, item.GSTRate)
		}

		if billType == domain.BillTypeEstimate {
			item.GSTRate = 0
		}

		item.Amount = gst.LineAmount(item.Quantity, item.Price)
		if item.Amount.GreaterThan(MaxAmount) {
			return nil, fmt.Errorf("%w: item %d: amount exceeds %s", domain.ErrInvalidArgument, i+1, MaxAmount)
		}
		item.CGST, item.SGST, item.IGST = decimal.Zero, decimal.Zero, decimal.Zero

		items = append(items, item)
	}

	return items, nil
}
