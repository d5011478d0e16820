package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"retailshop/m/domain"
)

// Export reads every user, product and bill along with the settings.
func (r *Repository) Export(ctx context.Context) (domain.Snapshot, error) {
	users, err := r.Users(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	products, err := r.Products(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	bills, err := r.Bills(ctx, domain.BillFilter{})
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{Users: users, Products: products, Bills: bills}

	settings, err := r.Settings(ctx)
	switch {
	case err == nil:
		snap.Settings = &settings
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Snapshot{}, err
	}

	return snap, nil
}

// Import replaces all data with snap in one transaction. Settings are kept
// when snap carries none.
func (r *Repository) Import(ctx context.Context, snap domain.Snapshot) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := clearTables(ctx, tx); err != nil {
			return err
		}

		for _, u := range snap.Users {
			hashed, err := importedPassword(u.Password)
			if err != nil {
				return err
			}
			u.Password = hashed

			if u.CreatedAt.IsZero() {
				u.CreatedAt = r.timestamp()
			}

			if err := insertUser(ctx, tx, u); err != nil {
				return err
			}
		}

		for _, p := range snap.Products {
			if p.CreatedAt.IsZero() {
				p.CreatedAt = r.timestamp()
			}
			if p.UpdatedAt.IsZero() {
				p.UpdatedAt = p.CreatedAt
			}
			if p.Unit == "" {
				p.Unit = domain.DefaultUnit
			}

			if err := insertProduct(ctx, tx, p); err != nil {
				return err
			}
		}

		for _, b := range snap.Bills {
			if err := insertBill(ctx, tx, b); err != nil {
				if isUniqueViolation(err, "invoice_no") {
					return fmt.Errorf("%w: %s", domain.ErrDuplicateInvoiceNumber, b.InvoiceNo)
				}

				return err
			}
		}

		if snap.Settings != nil {
			return saveSettings(ctx, tx, *snap.Settings)
		}

		return nil
	})
}

// Clear deletes all bills, products and users. Settings survive.
func (r *Repository) Clear(ctx context.Context) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		return clearTables(ctx, tx)
	})
}

func clearTables(ctx context.Context, tx *sqlx.Tx) error {
	for _, table := range []string{"bills", "products", "users"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
