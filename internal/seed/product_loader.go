package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"retailshop/m/domain"
	"retailshop/m/internal/gst"
)

// ProductCreator is the subset of the store the catalog loader needs.
type ProductCreator interface {
	CreateProducts(ctx context.Context, products []domain.Product) (int, error)
}

// LoadProductsFile ingests the CSV catalog at path. A missing file is logged
// and ignored.
func LoadProductsFile(ctx context.Context, repo ProductCreator, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.WarnContext(ctx, "unable to load product catalog", "path", path, "error", err)
		return
	}
	defer file.Close()

	rows, err := LoadProducts(ctx, repo, file)
	if err != nil {
		slog.WarnContext(ctx, "unable to load product catalog", "path", path, "error", err)
		return
	}

	slog.InfoContext(ctx, "seeded product catalog", "path", path, "rows", rows)
}

// LoadProducts reads products from CSV with a header row and stores them in
// one batch. Columns are matched by name: name, category, price, stock, unit,
// gst_rate, min_stock, hsn_code. Only name is required. Malformed rows are
// logged and skipped; any other read error aborts the load.
func LoadProducts(ctx context.Context, repo ProductCreator, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: read product header: %v", domain.ErrInvalidArgument, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	if _, ok := cols["name"]; !ok {
		return 0, fmt.Errorf("%w: product csv has no name column", domain.ErrInvalidArgument)
	}

	var products []domain.Product

	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			slog.WarnContext(ctx, "unable to read product row", "line", line, "error", err)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("%w: read product row %d: %v", domain.ErrInvalidArgument, line, err)
		}

		p, err := parseProduct(cols, record)
		if err != nil {
			slog.WarnContext(ctx, "skipping product row", "line", line, "error", err)
			continue
		}

		if p.Name == "" {
			continue
		}

		products = append(products, p)
	}

	if len(products) == 0 {
		return 0, nil
	}

	n, err := repo.CreateProducts(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("insert products: %w", err)
	}

	return n, nil
}

func parseProduct(cols map[string]int, record []string) (domain.Product, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[i])
	}

	p := domain.Product{
		Name:     field("name"),
		Category: field("category"),
		Unit:     field("unit"),
		HSNCode:  field("hsn_code"),
		Price:    decimal.Zero,
	}

	var err error

	if v := field("price"); v != "" {
		if p.Price, err = decimal.NewFromString(v); err != nil {
			return p, fmt.Errorf("price %q: %w", v, err)
		}
	}

	if v := field("stock"); v != "" {
		if p.Stock, err = strconv.ParseFloat(v, 64); err != nil {
			return p, fmt.Errorf("stock %q: %w", v, err)
		}
	}

	if v := field("min_stock"); v != "" {
		if p.MinStock, err = strconv.ParseFloat(v, 64); err != nil {
			return p, fmt.Errorf("min_stock %q: %w", v, err)
		}
	}

	if v := strings.TrimSuffix(field("gst_rate"), "%"); v != "" {
		if p.GSTRate, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("gst_rate %q: %w", v, err)
		}

		if !gst.ValidRate(p.GSTRate) {
			return p, fmt.Errorf("unsupported gst_rate %q", v)
		}
	}

	return p, nil
}
