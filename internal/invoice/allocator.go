package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"retailshop/m/domain"
)

// DefaultMaxAttempts is the insert budget per allocation.
const DefaultMaxAttempts = 3

// NumberSource lists stored invoice numbers starting with prefix. An empty
// prefix lists all of them.
type NumberSource interface {
	InvoiceNumbers(ctx context.Context, prefix string) ([]string, error)
}

// InsertFunc persists a bill under number. It must return an error wrapping
// domain.ErrDuplicateInvoiceNumber when the number is already taken and
// nothing was written.
type InsertFunc func(ctx context.Context, number string) error

type state uint8

const (
	stateComputeCandidate state = iota
	stateAttemptInsert
	stateSuccess
	stateRetryExhausted
)

type Allocator struct {
	source      NumberSource
	maxAttempts int
	now         func() time.Time
}

func NewAllocator(source NumberSource, maxAttempts int, now func() time.Time) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	if now == nil {
		now = time.Now
	}

	return &Allocator{
		source:      source,
		maxAttempts: maxAttempts,
		now:         now,
	}
}

// Preview computes the number the next allocation of type t would try first.
// Nothing is reserved, so the answer is advisory.
func (a *Allocator) Preview(ctx context.Context, t domain.BillType) (Number, error) {
	p := PartitionFor(t, a.now())

	existing, err := a.source.InvoiceNumbers(ctx, p.Prefix())
	if err != nil {
		return Number{}, fmt.Errorf("list invoice numbers: %w", err)
	}

	return p.Next(existing), nil
}

// Allocate finds a free number for a bill of type t and calls insert with it.
// A duplicate-number failure moves on to the following number until the
// attempt budget runs out; any other failure is returned as is.
func (a *Allocator) Allocate(ctx context.Context, t domain.BillType, insert InsertFunc) (string, error) {
	var (
		st        = stateComputeCandidate
		candidate Number
		attempts  int
		lastErr   error
	)

	for {
		switch st {
		case stateComputeCandidate:
			n, err := a.Preview(ctx, t)
			if err != nil {
				return "", err
			}

			candidate = n
			st = stateAttemptInsert

		case stateAttemptInsert:
			attempts++

			err := insert(ctx, candidate.String())

			switch {
			case err == nil:
				st = stateSuccess
			case errors.Is(err, domain.ErrDuplicateInvoiceNumber):
				lastErr = err

				if attempts >= a.maxAttempts {
					st = stateRetryExhausted
					continue
				}

				slog.WarnContext(ctx, "invoice number taken, retrying",
					"invoice_no", candidate.String(), "attempt", attempts)

				candidate = candidate.Next()
			default:
				return "", err
			}

		case stateSuccess:
			return candidate.String(), nil

		case stateRetryExhausted:
			return "", fmt.Errorf("%w after %d attempts: %w", domain.ErrInvoiceNumberExhausted, attempts, lastErr)
		}
	}
}
