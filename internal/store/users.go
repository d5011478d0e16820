package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"

	"retailshop/m/domain"
)

const userColumns = `id, username, password, role, name, email, created_at`

func (r *Repository) Users(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	return users, nil
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User

	err := r.db.GetContext(ctx, &u, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", username, err)
	}

	return u, nil
}

// CreateUser stores u with its password hashed.
func (r *Repository) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		u.ID = uuid.Must(uuid.NewV4()).String()
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.timestamp()
	}

	hashed, err := hashPassword(u.Password)
	if err != nil {
		return domain.User{}, err
	}
	u.Password = hashed

	if err := insertUser(ctx, r.db, u); err != nil {
		return domain.User{}, err
	}

	return u, nil
}

func (r *Repository) UserByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User

	err := r.db.GetContext(ctx, &u, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}

	return u, nil
}

// UpdateUser overwrites username, role, name and email of the user with u.ID.
// The password is re-hashed when u.Password is set and kept otherwise.
func (r *Repository) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	existing, err := r.UserByID(ctx, u.ID)
	if err != nil {
		return domain.User{}, err
	}

	u.CreatedAt = existing.CreatedAt

	if u.Password == "" {
		u.Password = existing.Password
	} else if u.Password, err = hashPassword(u.Password); err != nil {
		return domain.User{}, err
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`UPDATE users SET username = ?, password = ?, role = ?, name = ?, email = ? WHERE id = ?`),
		u.Username, u.Password, u.Role, u.Name, u.Email, u.ID)
	if err != nil {
		if isUniqueViolation(err, "username") {
			return domain.User{}, fmt.Errorf("user %s: %w", u.Username, domain.ErrAlreadyExists)
		}

		return domain.User{}, fmt.Errorf("update user %s: %w", u.ID, err)
	}

	return u, nil
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	if n == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return n, nil
}

// importedPassword keeps a valid bcrypt hash from a snapshot and hashes
// anything else.
func importedPassword(password string) (string, error) {
	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return password, nil
	}

	return hashPassword(password)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}

func insertUser(ctx context.Context, ex execer, u domain.User) error {
	_, err := ex.ExecContext(ctx, ex.Rebind(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		u.ID, u.Username, u.Password, u.Role, u.Name, u.Email, u.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err, "username") {
			return fmt.Errorf("user %s: %w", u.Username, domain.ErrAlreadyExists)
		}

		return fmt.Errorf("insert user %s: %w", u.Username, err)
	}

	return nil
}
