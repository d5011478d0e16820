package billing

import "github.com/shopspring/decimal"

// LineItemRequest describes one line of a new bill. Fields left empty are
// taken from the referenced product.
type LineItemRequest struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  decimal.Decimal  `json:"qty"`
	Unit      string           `json:"unit"`
	Price     *decimal.Decimal `json:"price"`
	GSTRate   *int             `json:"gst_rate"`
	HSNCode   string           `json:"hsn_code"`
}

type CreateBillRequest struct {
	Type                   string            `json:"type"`
	Date                   string            `json:"date"`
	CustomerName           string            `json:"customer_name"`
	CustomerPhone          string            `json:"customer_phone"`
	CustomerAddress        string            `json:"customer_address"`
	CustomerGSTIN          string            `json:"customer_gstin"`
	DeliveryAddress        string            `json:"delivery_address"`
	PlaceOfSupply          string            `json:"place_of_supply"`
	InterState             *bool             `json:"inter_state"`
	Items                  []LineItemRequest `json:"items"`
	Discount               decimal.Decimal   `json:"discount"`
	TransportVehicleNumber string            `json:"transport_vehicle_number"`
	TransportCharge        decimal.Decimal   `json:"transport_charge"`
	BillingNotes           string            `json:"billing_notes"`
	BilledBy               string            `json:"-"`
}
