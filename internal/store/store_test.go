package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"retailshop/m/domain"
	"retailshop/m/internal/database"
	"retailshop/m/internal/migrations"
	"retailshop/m/internal/store"
)

func newRepository(t *testing.T) *store.Repository {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "shop.db") + "?_pragma=busy_timeout(5000)&_time_format=sqlite"

	db, err := database.Open("sqlite", dsn, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Run(db))

	return store.New(db)
}

func createProduct(t *testing.T, repo *store.Repository, name string, price string, stock, minStock float64) domain.Product {
	t.Helper()

	p, err := repo.CreateProduct(context.Background(), domain.Product{
		Name:     name,
		Category: "General",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		GSTRate:  18,
		MinStock: minStock,
		HSNCode:  "8471",
	})
	require.NoError(t, err)

	return p
}

func TestProducts_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	p := createProduct(t, repo, "Ceiling Fan", "1450.50", 10, 2)
	require.NotEmpty(t, p.ID)
	require.Equal(t, domain.DefaultUnit, p.Unit)

	got, err := repo.Product(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Ceiling Fan", got.Name)
	require.Equal(t, "1450.5", got.Price.String())
	require.Equal(t, 18, got.GSTRate)

	got.Price = decimal.RequireFromString("1500")
	got.Stock = 7
	_, err = repo.UpdateProduct(ctx, got)
	require.NoError(t, err)

	got, err = repo.Product(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "1500", got.Price.String())
	require.Equal(t, 7.0, got.Stock)

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	_, err = repo.Product(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, repo.DeleteProduct(ctx, p.ID), domain.ErrNotFound)

	_, err = repo.UpdateProduct(ctx, domain.Product{ID: "missing", Name: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProducts_SearchAndLowStock(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	createProduct(t, repo, "LED Bulb 9W", "120", 50, 10)
	createProduct(t, repo, "Copper Wire", "900", 3, 5)
	createProduct(t, repo, "Switch Board", "250", 0, 4)

	found, err := repo.SearchProducts(ctx, "  bulb ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "LED Bulb 9W", found[0].Name)

	found, err = repo.SearchProducts(ctx, "GENERAL")
	require.NoError(t, err)
	require.Len(t, found, 3)

	low, err := repo.LowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	require.Equal(t, "Switch Board", low[0].Name)
	require.Equal(t, "Copper Wire", low[1].Name)

	all, err := repo.Products(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byID, err := repo.ProductsByIDs(ctx, []string{all[0].ID, "unknown"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Contains(t, byID, all[0].ID)

	byID, err = repo.ProductsByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, byID)
}

func TestCreateProducts_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	n, err := repo.CreateProducts(ctx, []domain.Product{
		{Name: "Switch", Price: decimal.NewFromInt(40)},
		{Name: "Socket", Price: decimal.NewFromInt(60)},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = repo.CreateProducts(ctx, []domain.Product{
		{ID: "dup", Name: "MCB", Price: decimal.NewFromInt(300)},
		{ID: "dup", Name: "RCCB", Price: decimal.NewFromInt(1800)},
	})
	require.Error(t, err)

	count, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count, "failed batch leaves no rows behind")
}

func newBill(invoiceNo string, date time.Time, items ...domain.LineItem) domain.Bill {
	return domain.Bill{
		ID:            invoiceNo + "-id",
		InvoiceNo:     invoiceNo,
		Type:          domain.BillTypeGSTInvoice,
		Date:          date,
		CustomerName:  "Walk-in Customer",
		PlaceOfSupply: "Tamil Nadu (33)",
		Items:         items,
		Subtotal:      decimal.NewFromInt(100),
		CGST:          decimal.NewFromInt(9),
		SGST:          decimal.NewFromInt(9),
		Total:         decimal.NewFromInt(118),
		AmountInWords: "One Hundred Eighteen Rupees Only",
		BilledBy:      "admin",
	}
}

func TestCreateBill_DecrementsStockAtomically(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	fan := createProduct(t, repo, "Fan", "100", 5, 1)
	date := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	missing, err := repo.CreateBill(ctx, newBill("415", date,
		domain.LineItem{ProductID: fan.ID, Name: "Fan", Quantity: decimal.RequireFromString("2.5"), Price: decimal.NewFromInt(100), GSTRate: 18},
		domain.LineItem{ProductID: "gone", Name: "Old item", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)},
		domain.LineItem{Name: "Labour", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(50)},
	))
	require.NoError(t, err)
	require.Equal(t, []string{"gone"}, missing)

	got, err := repo.Product(ctx, fan.ID)
	require.NoError(t, err)
	require.Equal(t, 2.5, got.Stock)

	bill, err := repo.Bill(ctx, "415-id")
	require.NoError(t, err)
	require.Equal(t, "415", bill.InvoiceNo)
	require.Equal(t, domain.BillTypeGSTInvoice, bill.Type)
	require.True(t, date.Equal(bill.Date))
	require.Len(t, bill.Items, 3)
	require.Equal(t, "2.5", bill.Items[0].Quantity.String())
	require.Equal(t, "118", bill.Total.String())

	dup := newBill("415", date, domain.LineItem{ProductID: fan.ID, Name: "Fan", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)})
	dup.ID = "other-id"

	_, err = repo.CreateBill(ctx, dup)
	require.ErrorIs(t, err, domain.ErrDuplicateInvoiceNumber)

	got, err = repo.Product(ctx, fan.ID)
	require.NoError(t, err)
	require.Equal(t, 2.5, got.Stock, "failed insert must not decrement stock")

	_, err = repo.Bill(ctx, "other-id")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBill_StockMayGoNegative(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	p := createProduct(t, repo, "Tape", "10", 1, 0)

	_, err := repo.CreateBill(ctx, newBill("415", time.Now().UTC(),
		domain.LineItem{ProductID: p.ID, Name: "Tape", Quantity: decimal.NewFromInt(3), Price: decimal.NewFromInt(10)}))
	require.NoError(t, err)

	got, err := repo.Product(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, -2.0, got.Stock)
}

func TestInvoiceNumbersAndBillFilter(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	day := func(d, h int) time.Time { return time.Date(2025, 1, d, h, 0, 0, 0, time.UTC) }

	for _, b := range []domain.Bill{
		newBill("415", day(1, 9)),
		newBill("416", day(2, 9)),
		newBill("EST202500001", day(2, 18)),
		newBill("EST202400009", day(3, 9)),
	} {
		if len(b.InvoiceNo) > 3 {
			b.Type = domain.BillTypeEstimate
		}
		_, err := repo.CreateBill(ctx, b)
		require.NoError(t, err)
	}

	numbers, err := repo.InvoiceNumbers(ctx, "EST2025")
	require.NoError(t, err)
	require.Equal(t, []string{"EST202500001"}, numbers)

	numbers, err = repo.InvoiceNumbers(ctx, "")
	require.NoError(t, err)
	require.Len(t, numbers, 4)

	bills, err := repo.Bills(ctx, domain.BillFilter{})
	require.NoError(t, err)
	require.Len(t, bills, 4)
	require.Equal(t, "EST202400009", bills[0].InvoiceNo, "newest first")

	bills, err = repo.Bills(ctx, domain.BillFilter{
		From: day(2, 0),
		To:   day(2, 0).Add(24*time.Hour - time.Second),
	})
	require.NoError(t, err)
	require.Len(t, bills, 2)
	require.Equal(t, "EST202500001", bills[0].InvoiceNo)
	require.Equal(t, "416", bills[1].InvoiceNo)

	bills, err = repo.Bills(ctx, domain.BillFilter{Type: domain.BillTypeGSTInvoice})
	require.NoError(t, err)
	require.Len(t, bills, 2)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	u, err := repo.CreateUser(ctx, domain.User{Username: "cashier", Password: "secret", Role: domain.RoleBilling, Name: "Cashier"})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")))

	_, err = repo.CreateUser(ctx, domain.User{Username: "cashier", Password: "other", Role: domain.RoleBilling})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := repo.UserByUsername(ctx, "cashier")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Password, got.Password)

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err = repo.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "cashier", got.Username)

	updated, err := repo.UpdateUser(ctx, domain.User{ID: u.ID, Username: "cashier", Role: domain.RoleAdmin, Name: "Head Cashier"})
	require.NoError(t, err)
	require.Equal(t, u.Password, updated.Password, "empty password keeps the old hash")

	updated, err = repo.UpdateUser(ctx, domain.User{ID: u.ID, Username: "cashier", Password: "fresh", Role: domain.RoleAdmin})
	require.NoError(t, err)
	got, err = repo.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, updated.Password, got.Password)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("fresh")))

	other, err := repo.CreateUser(ctx, domain.User{Username: "helper", Password: "pw", Role: domain.RoleBilling})
	require.NoError(t, err)
	_, err = repo.UpdateUser(ctx, domain.User{ID: other.ID, Username: "cashier", Role: domain.RoleBilling})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	_, err = repo.UpdateUser(ctx, domain.User{ID: "missing", Username: "ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, repo.DeleteUser(ctx, other.ID))

	require.NoError(t, repo.DeleteUser(ctx, u.ID))
	_, err = repo.UserByUsername(ctx, "cashier")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateUser_HashesHashLikePasswords(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	password := "$2a$10$notreallyahash"

	u, err := repo.CreateUser(ctx, domain.User{Username: "odd", Password: password, Role: domain.RoleBilling})
	require.NoError(t, err)
	require.NotEqual(t, password, u.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)))
}

func TestImport_HashesInvalidHashes(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	require.NoError(t, repo.Import(ctx, domain.Snapshot{
		Users: []domain.User{{ID: "u1", Username: "odd", Password: "$2not-a-hash", Role: domain.RoleBilling}},
	}))

	u, err := repo.UserByID(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("$2not-a-hash")))
}

func TestSettings_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	_, err := repo.Settings(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.SaveSettings(ctx, domain.Settings{CompanyName: "Sri Electricals", StateCode: "33"}))
	require.NoError(t, repo.SaveSettings(ctx, domain.Settings{CompanyName: "Sri Electricals", StateCode: "33", BankName: "SBI"}))

	s, err := repo.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, "SBI", s.BankName)
	require.Equal(t, "33", s.StateCode)
}

func TestExportImportClear(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	p := createProduct(t, repo, "Fan", "100", 5, 1)
	_, err := repo.CreateUser(ctx, domain.User{Username: "admin", Password: "admin123", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = repo.CreateBill(ctx, newBill("415", time.Now().UTC(),
		domain.LineItem{ProductID: p.ID, Name: "Fan", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)}))
	require.NoError(t, err)
	require.NoError(t, repo.SaveSettings(ctx, domain.Settings{CompanyName: "Shop"}))

	snap, err := repo.Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	require.Len(t, snap.Products, 1)
	require.Len(t, snap.Bills, 1)
	require.NotNil(t, snap.Settings)

	require.NoError(t, repo.Clear(ctx))

	empty, err := repo.Export(ctx)
	require.NoError(t, err)
	require.Empty(t, empty.Users)
	require.Empty(t, empty.Products)
	require.Empty(t, empty.Bills)
	require.NotNil(t, empty.Settings)

	require.NoError(t, repo.Import(ctx, snap))

	restored, err := repo.Export(ctx)
	require.NoError(t, err)
	require.Len(t, restored.Bills, 1)
	require.Equal(t, "415", restored.Bills[0].InvoiceNo)
	require.Equal(t, snap.Users[0].Password, restored.Users[0].Password, "hashes are not hashed twice")
	require.Equal(t, 4.0, restored.Products[0].Stock)

	dup := snap
	dup.Bills = append(dup.Bills, dup.Bills[0])
	dup.Bills[1].ID = "another"
	require.ErrorIs(t, repo.Import(ctx, dup), domain.ErrDuplicateInvoiceNumber)

	after, err := repo.Export(ctx)
	require.NoError(t, err)
	require.Len(t, after.Bills, 1, "failed import rolls back")
}
