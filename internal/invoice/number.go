// Package invoice assigns invoice numbers without a central counter. The next
// number is derived from the numbers already stored, and collisions with
// concurrent writers are resolved by retrying against the store's unique
// constraint.
package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"retailshop/m/domain"
)

const (
	// EstimatePrefix starts every estimate number, followed by the year.
	EstimatePrefix = "EST"

	// GSTFloor is the first number handed out when no numeric invoice exists.
	GSTFloor int64 = 415

	estimateDigits = 5
	yearDigits     = 4
)

var numeric = regexp.MustCompile(`^\d+$`)

// Number is a parsed invoice number. Year is only meaningful for estimates.
type Number struct {
	Type domain.BillType
	Year int
	Seq  int64
}

func (n Number) String() string {
	if n.Type == domain.BillTypeEstimate {
		return fmt.Sprintf("%s%0*d%0*d", EstimatePrefix, yearDigits, n.Year, estimateDigits, n.Seq)
	}

	return strconv.FormatInt(n.Seq, 10)
}

// Next is the candidate that follows n within the same partition.
func (n Number) Next() Number {
	n.Seq++
	return n
}

// Parse recognises plain numeric GST invoice numbers and EST{year}{seq}
// estimate numbers. Anything else is rejected.
func Parse(s string) (Number, error) {
	if numeric.MatchString(s) {
		seq, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Number{}, fmt.Errorf("%w: invoice number %q: %w", domain.ErrInvalidArgument, s, err)
		}

		return Number{Type: domain.BillTypeGSTInvoice, Seq: seq}, nil
	}

	rest, ok := strings.CutPrefix(s, EstimatePrefix)
	if !ok || len(rest) <= yearDigits {
		return Number{}, fmt.Errorf("%w: unrecognised invoice number %q", domain.ErrInvalidArgument, s)
	}

	year, suffix := rest[:yearDigits], rest[yearDigits:]
	if !numeric.MatchString(year) || !numeric.MatchString(suffix) {
		return Number{}, fmt.Errorf("%w: unrecognised estimate number %q", domain.ErrInvalidArgument, s)
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return Number{}, fmt.Errorf("%w: estimate year %q: %w", domain.ErrInvalidArgument, s, err)
	}

	seq, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return Number{}, fmt.Errorf("%w: estimate sequence %q: %w", domain.ErrInvalidArgument, s, err)
	}

	return Number{Type: domain.BillTypeEstimate, Year: y, Seq: seq}, nil
}

// Partition is the (type, year) bucket inside which numbers are sequenced.
// GST invoices share a single partition across years.
type Partition struct {
	Type domain.BillType
	Year int
}

// PartitionFor returns the partition a bill of type t allocated at now falls in.
func PartitionFor(t domain.BillType, now time.Time) Partition {
	if t == domain.BillTypeEstimate {
		return Partition{Type: t, Year: now.Year()}
	}

	return Partition{Type: domain.BillTypeGSTInvoice}
}

// Prefix narrows the store query. It is empty for GST invoices because their
// partition rule ("purely numeric") cannot be expressed as a prefix.
func (p Partition) Prefix() string {
	if p.Type == domain.BillTypeEstimate {
		return fmt.Sprintf("%s%0*d", EstimatePrefix, yearDigits, p.Year)
	}

	return ""
}

// Contains reports whether n belongs to the partition.
func (p Partition) Contains(n Number) bool {
	if n.Type != p.Type {
		return false
	}

	return p.Type != domain.BillTypeEstimate || n.Year == p.Year
}

// First is the number used when the partition is empty.
func (p Partition) First() Number {
	if p.Type == domain.BillTypeEstimate {
		return Number{Type: p.Type, Year: p.Year, Seq: 1}
	}

	return Number{Type: p.Type, Seq: GSTFloor}
}

// Next returns max+1 over the existing numbers that fall in the partition,
// or First when none do.
func (p Partition) Next(existing []string) Number {
	var (
		highest Number
		found   bool
	)

	for _, s := range existing {
		n, err := Parse(s)
		if err != nil || !p.Contains(n) {
			continue
		}

		if !found || n.Seq > highest.Seq {
			highest = n
			found = true
		}
	}

	if !found {
		return p.First()
	}

	return highest.Next()
}
