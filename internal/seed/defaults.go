// Package seed fills an empty store with default users, settings and
// products, and loads product catalogs from CSV.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"retailshop/m/domain"
)

type Repository interface {
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	CountProducts(ctx context.Context) (int, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	Settings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, s domain.Settings) error
}

func defaultUsers() []domain.User {
	return []domain.User{
		{
			Username: "admin",
			Password: "admin123",
			Role:     domain.RoleAdmin,
			Name:     "Administrator",
			Email:    "admin@retailshop.com",
		},
		{
			Username: "billing",
			Password: "billing123",
			Role:     domain.RoleBilling,
			Name:     "Billing Person",
			Email:    "billing@retailshop.com",
		},
	}
}

func defaultProducts() []domain.Product {
	return []domain.Product{
		{
			Name:     "Sample Product 1",
			Category: "Electronics",
			Price:    decimal.NewFromInt(1000),
			Stock:    50,
			Unit:     "number",
			GSTRate:  18,
			MinStock: 10,
		},
		{
			Name:     "Sample Product 2",
			Category: "Groceries",
			Price:    decimal.NewFromInt(500),
			Stock:    100,
			Unit:     "liters",
			GSTRate:  5,
			MinStock: 20,
		},
	}
}

// Defaults seeds users, products and settings for whichever of them are
// still empty.
func Defaults(ctx context.Context, repo Repository, homeStateCode string) error {
	users, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}

	if users == 0 {
		if err := Users(ctx, repo); err != nil {
			return err
		}
	}

	products, err := repo.CountProducts(ctx)
	if err != nil {
		return err
	}

	if products == 0 {
		for _, p := range defaultProducts() {
			if _, err := repo.CreateProduct(ctx, p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.Name, err)
			}
		}

		slog.InfoContext(ctx, "seeded sample products", "count", len(defaultProducts()))
	}

	_, err = repo.Settings(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		err = repo.SaveSettings(ctx, domain.Settings{
			CompanyName: "Retail Shop Pro",
			Address:     "123 Business Street, City, State - 123456",
			GSTIN:       homeStateCode + "AAAAA0000A1Z5",
			Phone:       "+91 9876543210",
			Email:       "info@retailshop.com",
			StateCode:   homeStateCode,
		})
		if err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	case err != nil:
		return err
	}

	return nil
}

// Users creates the default admin and billing accounts.
func Users(ctx context.Context, repo Repository) error {
	for _, u := range defaultUsers() {
		if _, err := repo.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	slog.InfoContext(ctx, "seeded default users")

	return nil
}
