// Package money holds the cent-level arithmetic shared by the allocation
// engine and the editing surfaces. All amounts are decimal.Decimal values
// denominated in a single currency with two minor-unit places.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of minor-unit digits kept for presentation.
const Places = 2

var (
	// ErrInvalidAmount is returned when amount text is empty or not a number.
	ErrInvalidAmount = errors.New("amount must be a number")
	// ErrNegativeAmount is returned for amounts below zero.
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

var hundred = decimal.NewFromInt(100)

// Round rounds to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// thousands matches digits grouped with commas, such as 1,250 or 12,000.50.
var thousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d*)?$`)

// ParseAmount parses user-entered amount text such as "3.87", " $12 ",
// "1,250.10" or "0.5". Commas are only accepted as thousands separators.
// The result is rounded to cents.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	if strings.Contains(s, ",") {
		if !thousands.MatchString(s) {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if d.IsNegative() || (negative && !d.IsZero()) {
		return decimal.Zero, ErrNegativeAmount
	}
	return Round(d), nil
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Split divides amount into n shares that sum exactly to the cent-rounded
// amount. Leftover cents go to the first shares, so 1.00 split three ways
// is 0.34, 0.33, 0.33.
func Split(amount decimal.Decimal, n int) []decimal.Decimal {
	return SplitFrom(amount, n, 0)
}

// SplitFrom is Split with leftover cents handed out from share start
// onwards, wrapping around. Rotating start spreads the extra cents of many
// splits across everyone.
func SplitFrom(amount decimal.Decimal, n, start int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	cents := toCents(amount)
	base := cents / int64(n)
	rem := int(cents % int64(n))
	start %= n
	if start < 0 {
		start += n
	}

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if (i-start+n)%n < rem {
			c++
		}
		shares[i] = fromCents(c)
	}
	return shares
}

// Apportion distributes amount across weights proportionally, using the
// largest-remainder method so the shares sum exactly to the cent-rounded
// amount. Ties go to the lower index. When every weight is zero all shares
// are zero.
func Apportion(amount decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(weights))
	for i := range shares {
		shares[i] = decimal.Zero
	}

	total := decimal.Zero
	for _, w := range weights {
		if w.IsPositive() {
			total = total.Add(w)
		}
	}
	if total.IsZero() {
		return shares
	}

	cents := toCents(amount)
	type remainder struct {
		index int
		frac  decimal.Decimal
	}
	rems := make([]remainder, 0, len(weights))
	allocated := int64(0)
	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		exact := decimal.NewFromInt(cents).Mul(w).Div(total)
		floor := exact.Floor()
		shares[i] = floor
		allocated += floor.IntPart()
		rems = append(rems, remainder{index: i, frac: exact.Sub(floor)})
	}

	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].frac.GreaterThan(rems[b].frac)
	})
	for left, k := cents-allocated, 0; left > 0 && len(rems) > 0; left, k = left-1, k+1 {
		idx := rems[k%len(rems)].index
		shares[idx] = shares[idx].Add(decimal.NewFromInt(1))
	}

	for i := range shares {
		shares[i] = shares[i].Div(hundred)
	}
	return shares
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

func toCents(d decimal.Decimal) int64 {
	return Round(d).Shift(Places).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -Places)
}
