package invoice_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"retailshop/m/domain"
	"retailshop/m/internal/invoice"
)

type staticSource struct {
	numbers []string
	err     error
	prefix  []string
}

func (s *staticSource) InvoiceNumbers(_ context.Context, prefix string) ([]string, error) {
	s.prefix = append(s.prefix, prefix)
	return s.numbers, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAllocator_FirstAttemptSucceeds(t *testing.T) {
	t.Parallel()

	src := &staticSource{numbers: []string{"415", "416"}}
	a := invoice.NewAllocator(src, 3, fixedClock(y2025))

	var tried []string

	got, err := a.Allocate(context.Background(), domain.BillTypeGSTInvoice, func(_ context.Context, n string) error {
		tried = append(tried, n)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "417", got)
	require.Equal(t, []string{"417"}, tried)
	require.Equal(t, []string{""}, src.prefix)
}

func TestAllocator_RetriesOnDuplicate(t *testing.T) {
	t.Parallel()

	src := &staticSource{numbers: []string{"EST202500004"}}
	a := invoice.NewAllocator(src, 3, fixedClock(y2025))

	var tried []string

	got, err := a.Allocate(context.Background(), domain.BillTypeEstimate, func(_ context.Context, n string) error {
		tried = append(tried, n)
		if len(tried) < 3 {
			return fmt.Errorf("insert bill: %w", domain.ErrDuplicateInvoiceNumber)
		}

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "EST202500007", got)
	require.Equal(t, []string{"EST202500005", "EST202500006", "EST202500007"}, tried)
	require.Equal(t, []string{"EST2025"}, src.prefix)
}

func TestAllocator_BudgetExhausted(t *testing.T) {
	t.Parallel()

	a := invoice.NewAllocator(&staticSource{}, 3, fixedClock(y2025))

	calls := 0

	_, err := a.Allocate(context.Background(), domain.BillTypeGSTInvoice, func(context.Context, string) error {
		calls++
		return domain.ErrDuplicateInvoiceNumber
	})
	require.ErrorIs(t, err, domain.ErrInvoiceNumberExhausted)
	require.ErrorIs(t, err, domain.ErrDuplicateInvoiceNumber)
	require.Equal(t, 3, calls)
}

func TestAllocator_OtherErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	a := invoice.NewAllocator(&staticSource{}, 5, fixedClock(y2025))
	boom := errors.New("disk full")

	calls := 0

	_, err := a.Allocate(context.Background(), domain.BillTypeGSTInvoice, func(context.Context, string) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, domain.ErrInvoiceNumberExhausted)
	require.Equal(t, 1, calls)
}

func TestAllocator_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	a := invoice.NewAllocator(&staticSource{err: boom}, 3, fixedClock(y2025))

	_, err := a.Allocate(context.Background(), domain.BillTypeGSTInvoice, func(context.Context, string) error {
		t.Fatal("insert must not be called")
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestAllocator_PreviewIsIdempotent(t *testing.T) {
	t.Parallel()

	a := invoice.NewAllocator(&staticSource{numbers: []string{"415", "416", "EST2025abc"}}, 3, fixedClock(y2025))

	first, err := a.Preview(context.Background(), domain.BillTypeGSTInvoice)
	require.NoError(t, err)

	second, err := a.Preview(context.Background(), domain.BillTypeGSTInvoice)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, "417", first.String())
}

func TestNewAllocator_DefaultBudget(t *testing.T) {
	t.Parallel()

	a := invoice.NewAllocator(&staticSource{}, 0, fixedClock(y2025))

	calls := 0

	_, err := a.Allocate(context.Background(), domain.BillTypeGSTInvoice, func(context.Context, string) error {
		calls++
		return domain.ErrDuplicateInvoiceNumber
	})
	require.ErrorIs(t, err, domain.ErrInvoiceNumberExhausted)
	require.Equal(t, invoice.DefaultMaxAttempts, calls)
}
