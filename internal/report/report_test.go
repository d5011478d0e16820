package report_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"retailshop/m/domain"
	"retailshop/m/internal/report"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleBills() []domain.Bill {
	return []domain.Bill{
		{
			InvoiceNo: "415",
			Type:      domain.BillTypeGSTInvoice,
			Date:      time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
			Items: domain.LineItems{
				{Name: "Fan", GSTRate: 18, Amount: d("100"), CGST: d("9"), SGST: d("9")},
				{Name: "Wire", GSTRate: 5, Amount: d("200"), CGST: d("5"), SGST: d("5")},
			},
			Subtotal: d("300"), CGST: d("14"), SGST: d("14"), Total: d("328"),
		},
		{
			InvoiceNo: "416",
			Type:      domain.BillTypeGSTInvoice,
			Date:      time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC),
			Items: domain.LineItems{
				{Name: "Fan", GSTRate: 18, Amount: d("100"), IGST: d("18")},
			},
			Subtotal: d("100"), IGST: d("18"), Total: d("118"), BilledBy: "billing",
		},
		{
			InvoiceNo: "EST202500001",
			Type:      domain.BillTypeEstimate,
			Date:      time.Date(2025, 1, 3, 11, 0, 0, 0, time.UTC),
			Items: domain.LineItems{
				{Name: "Fan", GSTRate: 0, Amount: d("100")},
			},
			Subtotal: d("100"), Total: d("100"),
		},
	}
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()

	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	require.NoError(t, err)

	return records
}

func TestGSTBreakdown(t *testing.T) {
	t.Parallel()

	rows := report.GSTBreakdown(sampleBills())
	require.Len(t, rows, 3)

	require.Equal(t, 0, rows[0].Rate)
	require.Equal(t, 5, rows[1].Rate)
	require.Equal(t, 18, rows[2].Rate)

	require.Equal(t, "200", rows[2].Taxable.String())
	require.Equal(t, "9", rows[2].CGST.String())
	require.Equal(t, "18", rows[2].IGST.String())
	require.Equal(t, "36", rows[2].TotalGST().String())
}

func TestWriteGST(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	period := report.Period{From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, report.WriteGST(&buf, report.GSTBreakdown(sampleBills()), period))

	records := readCSV(t, buf.Bytes())
	require.Equal(t, []string{"Report Period", "2025-01-01 to 2025-01-31"}, records[0])
	require.Equal(t, []string{"GST Rate", "Taxable Amount", "CGST", "SGST", "IGST", "Total GST"}, records[1])
	require.Equal(t, []string{"18%", "200.00", "9.00", "9.00", "18.00", "36.00"}, records[4])
	require.Equal(t, []string{"Total", "500.00", "14.00", "14.00", "18.00", "46.00"}, records[5])
}

func TestWriteSales(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteSales(&buf, sampleBills(), report.Period{}))

	records := readCSV(t, buf.Bytes())
	require.Equal(t, []string{"Report Period", "beginning to today"}, records[0])
	require.Len(t, records, 5)

	first := records[2]
	require.Equal(t, "415", first[0])
	require.Equal(t, "2025-01-02", first[2])
	require.Equal(t, "2", first[9])
	require.Equal(t, "328.00", first[18])
	require.Equal(t, "N/A", first[21])
	require.Equal(t, "billing", records[3][21])
}

func TestWriteStock(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{Name: "Fan", Category: "Electrical", Price: d("1450.5"), Stock: 2, MinStock: 5, GSTRate: 18},
		{Name: "Wire", Price: d("10"), Stock: 12.5, Unit: "m", GSTRate: 5},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteStock(&buf, products, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	records := readCSV(t, buf.Bytes())
	require.Equal(t, []string{"Report Date", "2025-06-01"}, records[0])
	require.Equal(t, []string{"Fan", "Electrical", "", "2", "units", "5", "1450.50", "18%", "2901.00", "true"}, records[2])
	require.Equal(t, []string{"Wire", "", "", "12.5", "m", "0", "10.00", "5%", "125.00", "false"}, records[3])
}
