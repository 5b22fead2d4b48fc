package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(t *testing.T, values ...string) []decimal.Decimal {
	t.Helper()
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func assertAmounts(t *testing.T, want []string, got []decimal.Decimal) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i], Format(got[i]), "share %d", i)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "3.87", want: "3.87"},
		{in: " 12 ", want: "12.00"},
		{in: "$4.5", want: "4.50"},
		{in: "1,250.10", want: "1250.10"},
		{in: "2.005", want: "2.01"},
		{in: "0", want: "0.00"},
		{in: "", wantErr: ErrInvalidAmount},
		{in: "abc", wantErr: ErrInvalidAmount},
		{in: "-1.00", wantErr: ErrNegativeAmount},
		{in: "-$5", wantErr: ErrNegativeAmount},
		{in: "$-5", wantErr: ErrNegativeAmount},
		{in: "-0", want: "0.00"},
		{in: "12,000", want: "12000.00"},
		{in: "1,50", wantErr: ErrInvalidAmount},
		{in: "1,2345", wantErr: ErrInvalidAmount},
		{in: ",100", wantErr: ErrInvalidAmount},
		{in: "1.000,50", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestSplit(t *testing.T) {
	assertAmounts(t, []string{"1.29", "1.29", "1.29"}, Split(decimal.RequireFromString("3.87"), 3))
	assertAmounts(t, []string{"0.34", "0.33", "0.33"}, Split(decimal.RequireFromString("1.00"), 3))
	assertAmounts(t, []string{"7.50", "7.50"}, Split(decimal.RequireFromString("15"), 2))
	assertAmounts(t, []string{"0.00", "0.00"}, Split(decimal.Zero, 2))
	assert.Nil(t, Split(decimal.RequireFromString("5"), 0))
}

func TestSplitFrom(t *testing.T) {
	one := decimal.RequireFromString("1.00")
	assertAmounts(t, []string{"0.34", "0.33", "0.33"}, SplitFrom(one, 3, 0))
	assertAmounts(t, []string{"0.33", "0.34", "0.33"}, SplitFrom(one, 3, 1))
	assertAmounts(t, []string{"0.33", "0.33", "0.34"}, SplitFrom(one, 3, 5))
	assertAmounts(t, []string{"0.34", "0.33", "0.33"}, SplitFrom(one, 3, -3))
	assertAmounts(t, []string{"0.26", "0.25", "0.25", "0.26"}, SplitFrom(decimal.RequireFromString("1.02"), 4, 3))
	assert.Nil(t, SplitFrom(one, 0, 1))
}

func TestSplit_Conserves(t *testing.T) {
	for _, price := range []string{"0.01", "0.02", "9.99", "100.00", "33.33", "1234.57"} {
		for n := 1; n <= 7; n++ {
			p := decimal.RequireFromString(price)
			assert.True(t, Sum(Split(p, n)...).Equal(p), "price %s split %d", price, n)
		}
	}
}

func TestApportion(t *testing.T) {
	t.Run("exact proportions", func(t *testing.T) {
		got := Apportion(decimal.RequireFromString("2.00"), amounts(t, "17.50", "7.50"))
		assertAmounts(t, []string{"1.40", "0.60"}, got)
	})

	t.Run("remainder goes to largest fraction", func(t *testing.T) {
		got := Apportion(decimal.RequireFromString("1.00"), amounts(t, "1", "1", "1"))
		assertAmounts(t, []string{"0.34", "0.33", "0.33"}, got)
	})

	t.Run("zero weights get nothing", func(t *testing.T) {
		got := Apportion(decimal.RequireFromString("5.00"), amounts(t, "0", "10"))
		assertAmounts(t, []string{"0.00", "5.00"}, got)
	})

	t.Run("all zero weights", func(t *testing.T) {
		got := Apportion(decimal.RequireFromString("5.00"), amounts(t, "0", "0"))
		assertAmounts(t, []string{"0.00", "0.00"}, got)
	})

	t.Run("sums to amount", func(t *testing.T) {
		amount := decimal.RequireFromString("0.07")
		got := Apportion(amount, amounts(t, "3.87", "3.59", "3.87"))
		assert.True(t, Sum(got...).Equal(amount))
	})
}
