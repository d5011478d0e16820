package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"retailshop/m/domain"
)

const billColumns = `id, invoice_no, bill_type, date, customer_name, customer_phone, customer_address,
	customer_gstin, delivery_address, place_of_supply, inter_state, items, subtotal, cgst, sgst, igst,
	round_off, total, discount, transport_vehicle_number, transport_charge, amount_in_words,
	billing_notes, billed_by`

// InvoiceNumbers lists every stored invoice number starting with prefix.
func (r *Repository) InvoiceNumbers(ctx context.Context, prefix string) ([]string, error) {
	qb := sq.Select("invoice_no").From("bills")
	if prefix != "" {
		qb = qb.Where(sq.Like{"invoice_no": prefix + "%"})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build invoice number query: %w", err)
	}

	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select invoice numbers: %w", err)
	}

	return numbers, nil
}

// CreateBill inserts bill and decrements stock for each line item in one
// transaction. Items whose product no longer exists are skipped and their ids
// returned. A taken invoice number yields domain.ErrDuplicateInvoiceNumber and
// leaves nothing behind.
func (r *Repository) CreateBill(ctx context.Context, bill domain.Bill) ([]string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bill transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertBill(ctx, tx, bill); err != nil {
		if isUniqueViolation(err, "invoice_no") {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateInvoiceNumber, bill.InvoiceNo)
		}

		return nil, err
	}

	var missing []string

	now := r.timestamp()
	for _, item := range bill.Items {
		if item.ProductID == "" {
			continue
		}

		qty := item.Quantity.InexactFloat64()

		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ?`),
			qty, now, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("decrement stock of %s: %w", item.ProductID, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("decrement stock of %s: %w", item.ProductID, err)
		}

		if n == 0 {
			missing = append(missing, item.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bill %s: %w", bill.InvoiceNo, err)
	}

	return missing, nil
}

func (r *Repository) Bill(ctx context.Context, id string) (domain.Bill, error) {
	var b domain.Bill

	err := r.db.GetContext(ctx, &b, r.db.Rebind(`SELECT `+billColumns+` FROM bills WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bill{}, fmt.Errorf("bill %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Bill{}, fmt.Errorf("get bill %s: %w", id, err)
	}

	return b, nil
}

// Bills lists bills matching filter, newest first.
func (r *Repository) Bills(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, error) {
	qb := sq.Select(billColumns).From("bills")

	if !filter.From.IsZero() {
		qb = qb.Where(sq.GtOrEq{"date": filter.From.UTC()})
	}

	if !filter.To.IsZero() {
		qb = qb.Where(sq.LtOrEq{"date": filter.To.UTC()})
	}

	if filter.Type != "" {
		qb = qb.Where(sq.Eq{"bill_type": string(filter.Type)})
	}

	query, args, err := qb.OrderBy("date DESC", "invoice_no DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bills query: %w", err)
	}

	bills := []domain.Bill{}
	if err := r.db.SelectContext(ctx, &bills, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select bills: %w", err)
	}

	return bills, nil
}

func insertBill(ctx context.Context, ex execer, b domain.Bill) error {
	items, err := b.Items.Value()
	if err != nil {
		return fmt.Errorf("encode items of %s: %w", b.InvoiceNo, err)
	}

	_, err = ex.ExecContext(ctx, ex.Rebind(`INSERT INTO bills (`+billColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		b.ID, b.InvoiceNo, string(b.Type), b.Date.UTC(),
		b.CustomerName, b.CustomerPhone, b.CustomerAddress, b.CustomerGSTIN,
		b.DeliveryAddress, b.PlaceOfSupply, b.InterState, items,
		b.Subtotal, b.CGST, b.SGST, b.IGST, b.RoundOff, b.Total,
		b.Discount, b.TransportVehicleNumber, b.TransportCharge,
		b.AmountInWords, b.BillingNotes, b.BilledBy)
	if err != nil {
		return fmt.Errorf("insert bill %s: %w", b.InvoiceNo, err)
	}

	return nil
}
