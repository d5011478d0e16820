package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BillType string

const (
	BillTypeGSTInvoice BillType = "GST_INVOICE"
	BillTypeEstimate   BillType = "ESTIMATE"
)

func (t BillType) String() string {
	return string(t)
}

// ParseBillType maps a request discriminator to a BillType. An empty value
// means a regular GST invoice.
func ParseBillType(s string) (BillType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "GST", string(BillTypeGSTInvoice):
		return BillTypeGSTInvoice, nil
	case string(BillTypeEstimate):
		return BillTypeEstimate, nil
	default:
		return "", fmt.Errorf("%w: unknown bill type %q", ErrInvalidArgument, s)
	}
}

// LineItem is a snapshot of a product at the time the bill was created.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	GSTRate   int             `json:"gst_rate"`
	HSNCode   string          `json:"hsn_code,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	CGST      decimal.Decimal `json:"cgst"`
	SGST      decimal.Decimal `json:"sgst"`
	IGST      decimal.Decimal `json:"igst"`
}

// LineItems is stored as a single JSON column.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}

	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (l *LineItems) Scan(src any) error {
	var b []byte

	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan line items: unsupported type %T", src)
	}

	return json.Unmarshal(b, l)
}

type Bill struct {
	ID                     string          `db:"id" json:"id"`
	InvoiceNo              string          `db:"invoice_no" json:"invoice_no"`
	Type                   BillType        `db:"bill_type" json:"type"`
	Date                   time.Time       `db:"date" json:"date"`
	CustomerName           string          `db:"customer_name" json:"customer_name"`
	CustomerPhone          string          `db:"customer_phone" json:"customer_phone"`
	CustomerAddress        string          `db:"customer_address" json:"customer_address"`
	CustomerGSTIN          string          `db:"customer_gstin" json:"customer_gstin"`
	DeliveryAddress        string          `db:"delivery_address" json:"delivery_address"`
	PlaceOfSupply          string          `db:"place_of_supply" json:"place_of_supply"`
	InterState             bool            `db:"inter_state" json:"inter_state"`
	Items                  LineItems       `db:"items" json:"items"`
	Subtotal               decimal.Decimal `db:"subtotal" json:"subtotal"`
	CGST                   decimal.Decimal `db:"cgst" json:"cgst"`
	SGST                   decimal.Decimal `db:"sgst" json:"sgst"`
	IGST                   decimal.Decimal `db:"igst" json:"igst"`
	RoundOff               decimal.Decimal `db:"round_off" json:"round_off"`
	Total                  decimal.Decimal `db:"total" json:"total"`
	Discount               decimal.Decimal `db:"discount" json:"discount"`
	TransportVehicleNumber string          `db:"transport_vehicle_number" json:"transport_vehicle_number"`
	TransportCharge        decimal.Decimal `db:"transport_charge" json:"transport_charge"`
	AmountInWords          string          `db:"amount_in_words" json:"amount_in_words"`
	BillingNotes           string          `db:"billing_notes" json:"billing_notes"`
	BilledBy               string          `db:"billed_by" json:"billed_by"`
}

// BillFilter narrows bill listings. Zero values mean "no constraint".
type BillFilter struct {
	From time.Time
	To   time.Time
	Type BillType
}
