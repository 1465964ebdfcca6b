package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FallbackPolicy picks the row returned when no bracket contains a value.
type FallbackPolicy int

const (
	// FallbackFirst returns the lowest bracket.
	FallbackFirst FallbackPolicy = iota
	// FallbackLast returns the highest bracket.
	FallbackLast
)

// Bracket is a [Low, High) range carrying a fixed set of values. The last
// bracket of a table has no upper bound.
type Bracket[T any] struct {
	Low       decimal.Decimal
	High      decimal.Decimal
	Unbounded bool
	Values    T
}

// Contains reports whether value falls inside the bracket.
func (b Bracket[T]) Contains(value decimal.Decimal) bool {
	if value.LessThan(b.Low) {
		return false
	}
	return b.Unbounded || value.LessThan(b.High)
}

// BracketTable is an ordered, read-only list of contiguous brackets.
type BracketTable[T any] struct {
	rows     []Bracket[T]
	fallback FallbackPolicy
}

// MustBracketTable builds a table from rows sorted ascending. The final row is
// made open-ended. It panics if rows are empty, unsorted or not contiguous,
// since tables are static configuration.
func MustBracketTable[T any](fallback FallbackPolicy, rows ...Bracket[T]) BracketTable[T] {
	if len(rows) == 0 {
		panic("bracket table must have at least one row")
	}
	copied := make([]Bracket[T], len(rows))
	copy(copied, rows)

	for i := range copied {
		last := i == len(copied)-1
		if last {
			copied[i].Unbounded = true
			continue
		}
		if copied[i].Unbounded {
			panic(fmt.Sprintf("bracket %d: only the last bracket may be open-ended", i))
		}
		if !copied[i].Low.LessThan(copied[i].High) {
			panic(fmt.Sprintf("bracket %d: low %s must be below high %s", i, copied[i].Low, copied[i].High))
		}
		if !copied[i].High.Equal(copied[i+1].Low) {
			panic(fmt.Sprintf("bracket %d: high %s does not meet next low %s", i, copied[i].High, copied[i+1].Low))
		}
	}

	return BracketTable[T]{rows: copied, fallback: fallback}
}

// Find returns the first bracket containing value.
func (t BracketTable[T]) Find(value decimal.Decimal) (Bracket[T], bool) {
	for _, row := range t.rows {
		if row.Contains(value) {
			return row, true
		}
	}
	return Bracket[T]{}, false
}

// Lookup returns the first bracket containing value, or the table's fallback
// bracket when none does.
func (t BracketTable[T]) Lookup(value decimal.Decimal) Bracket[T] {
	if row, ok := t.Find(value); ok {
		return row
	}
	if t.fallback == FallbackLast {
		return t.rows[len(t.rows)-1]
	}
	return t.rows[0]
}

// Len returns the number of brackets.
func (t BracketTable[T]) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the brackets in ascending order.
func (t BracketTable[T]) Rows() []Bracket[T] {
	rows := make([]Bracket[T], len(t.rows))
	copy(rows, t.rows)
	return rows
}

func between[T any](low, high int64, values T) Bracket[T] {
	return Bracket[T]{Low: decimal.NewFromInt(low), High: decimal.NewFromInt(high), Values: values}
}

func andOver[T any](low int64, values T) Bracket[T] {
	return Bracket[T]{Low: decimal.NewFromInt(low), Unbounded: true, Values: values}
}
