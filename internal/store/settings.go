package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"retailshop/m/domain"
)

const settingsColumns = `company_name, address, gstin, phone, email, state_code,
	account_holder_name, account_number, ifsc_code, bank_name`

// Settings returns the shop settings, or domain.ErrNotFound before they are
// first saved.
func (r *Repository) Settings(ctx context.Context) (domain.Settings, error) {
	var s domain.Settings

	err := r.db.GetContext(ctx, &s, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, fmt.Errorf("settings: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return s, nil
}

func (r *Repository) SaveSettings(ctx context.Context, s domain.Settings) error {
	return saveSettings(ctx, r.db, s)
}

func saveSettings(ctx context.Context, ex execer, s domain.Settings) error {
	args := []any{
		s.CompanyName, s.Address, s.GSTIN, s.Phone, s.Email, s.StateCode,
		s.AccountHolderName, s.AccountNumber, s.IFSCCode, s.BankName,
	}

	res, err := ex.ExecContext(ctx, ex.Rebind(`UPDATE settings SET
		company_name = ?, address = ?, gstin = ?, phone = ?, email = ?, state_code = ?,
		account_holder_name = ?, account_number = ?, ifsc_code = ?, bank_name = ?
		WHERE id = 1`), args...)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = ex.ExecContext(ctx, ex.Rebind(`INSERT INTO settings (id, `+settingsColumns+`)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`), args...)
	if err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}

	return nil
}
