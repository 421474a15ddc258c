package repositories

import (
	"github.com/shopspring/decimal"
)

// decimalArg matches a decimal.Decimal query argument by value rather than representation.
type decimalArg struct {
	want decimal.Decimal
}

func (a decimalArg) Match(v interface{}) bool {
	got, ok := v.(decimal.Decimal)
	return ok && got.Equal(a.want)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stringPtr(s string) *string {
	return &s
}
