// Package report renders sales, stock and GST summaries as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"retailshop/m/domain"
	"retailshop/m/internal/gst"
)

const dateLayout = "2006-01-02"

// Period is the inclusive day range a report covers. Zero bounds are open.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) String() string {
	from, to := "beginning", "today"
	if !p.From.IsZero() {
		from = p.From.Format(dateLayout)
	}
	if !p.To.IsZero() {
		to = p.To.Format(dateLayout)
	}

	return from + " to " + to
}

// RateRow aggregates line items sharing a GST slab.
type RateRow struct {
	Rate    int
	Taxable decimal.Decimal
	CGST    decimal.Decimal
	SGST    decimal.Decimal
	IGST    decimal.Decimal
}

func (r RateRow) TotalGST() decimal.Decimal {
	return r.CGST.Add(r.SGST).Add(r.IGST)
}

// GSTBreakdown sums taxable value and tax per slab across bills. Only slabs
// with sales are returned, in ascending rate order.
func GSTBreakdown(bills []domain.Bill) []RateRow {
	byRate := make(map[int]*RateRow, len(gst.Rates))

	for _, b := range bills {
		for _, item := range b.Items {
			row, ok := byRate[item.GSTRate]
			if !ok {
				row = &RateRow{Rate: item.GSTRate}
				byRate[item.GSTRate] = row
			}

			row.Taxable = row.Taxable.Add(item.Amount)
			row.CGST = row.CGST.Add(item.CGST)
			row.SGST = row.SGST.Add(item.SGST)
			row.IGST = row.IGST.Add(item.IGST)
		}
	}

	rows := make([]RateRow, 0, len(byRate))
	for _, rate := range gst.Rates {
		if row, ok := byRate[rate]; ok && row.Taxable.IsPositive() {
			rows = append(rows, *row)
		}
	}

	return rows
}

func WriteSales(w io.Writer, bills []domain.Bill, period Period) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Report Period", period.String()},
		{},
		{
			"Invoice No", "Type", "Date", "Customer Name", "Customer Phone", "Customer Address",
			"Customer GSTIN", "Delivery Address", "Place of Supply", "Items Count",
			"Subtotal", "CGST", "SGST", "IGST", "Round Off", "Discount",
			"Transport Vehicle", "Transport Charge", "Total", "Amount in Words",
			"Billing Notes", "Billed By",
		},
	}

	for _, b := range bills {
		billedBy := b.BilledBy
		if billedBy == "" {
			billedBy = "N/A"
		}

		records = append(records, []string{
			b.InvoiceNo,
			b.Type.String(),
			b.Date.Format(dateLayout),
			b.CustomerName,
			b.CustomerPhone,
			b.CustomerAddress,
			b.CustomerGSTIN,
			b.DeliveryAddress,
			b.PlaceOfSupply,
			strconv.Itoa(len(b.Items)),
			money(b.Subtotal),
			money(b.CGST),
			money(b.SGST),
			money(b.IGST),
			money(b.RoundOff),
			money(b.Discount),
			b.TransportVehicleNumber,
			money(b.TransportCharge),
			money(b.Total),
			b.AmountInWords,
			b.BillingNotes,
			billedBy,
		})
	}

	return writeAll(cw, records)
}

func WriteStock(w io.Writer, products []domain.Product, asOf time.Time) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Report Date", asOf.Format(dateLayout)},
		{},
		{"Product Name", "Category", "HSN Code", "Current Stock", "Unit", "Min Stock", "Price", "GST Rate", "Stock Value", "Low Stock"},
	}

	for _, p := range products {
		unit := p.Unit
		if unit == "" {
			unit = domain.DefaultUnit
		}

		records = append(records, []string{
			p.Name,
			p.Category,
			p.HSNCode,
			strconv.FormatFloat(p.Stock, 'f', -1, 64),
			unit,
			strconv.FormatFloat(p.MinStock, 'f', -1, 64),
			money(p.Price),
			fmt.Sprintf("%d%%", p.GSTRate),
			money(p.StockValue()),
			strconv.FormatBool(p.LowStock()),
		})
	}

	return writeAll(cw, records)
}

// WriteGST writes one row per slab in rows and a closing total row.
func WriteGST(w io.Writer, rows []RateRow, period Period) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Report Period", period.String()},
		{},
		{"GST Rate", "Taxable Amount", "CGST", "SGST", "IGST", "Total GST"},
	}

	total := RateRow{}

	for _, r := range rows {
		total.Taxable = total.Taxable.Add(r.Taxable)
		total.CGST = total.CGST.Add(r.CGST)
		total.SGST = total.SGST.Add(r.SGST)
		total.IGST = total.IGST.Add(r.IGST)

		records = append(records, []string{
			fmt.Sprintf("%d%%", r.Rate),
			money(r.Taxable),
			money(r.CGST),
			money(r.SGST),
			money(r.IGST),
			money(r.TotalGST()),
		})
	}

	records = append(records, []string{
		"Total",
		money(total.Taxable),
		money(total.CGST),
		money(total.SGST),
		money(total.IGST),
		money(total.TotalGST()),
	})

	return writeAll(cw, records)
}

func writeAll(cw *csv.Writer, records [][]string) error {
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
