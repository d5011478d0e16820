package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit is used when a product or line item carries no unit label.
const DefaultUnit = "units"

type Product struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Stock     float64         `db:"stock" json:"stock"`
	Unit      string          `db:"unit" json:"unit"`
	GSTRate   int             `db:"gst_rate" json:"gst_rate"`
	MinStock  float64         `db:"min_stock" json:"min_stock"`
	HSNCode   string          `db:"hsn_code" json:"hsn_code"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// StockValue is price times current stock.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromFloat(p.Stock))
}
