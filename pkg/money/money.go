package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrSubCent 金额精度超过分。
	ErrSubCent = errors.New("more than two fractional digits")
	// ErrNotAmount 去掉 $ 后仍含数字与单个小数点以外的字符（符号、指数、千分位等）。
	ErrNotAmount = errors.New("not a plain decimal amount")
	// ErrOutOfRange 换算成分后超出 int64。
	ErrOutOfRange = errors.New("amount out of range")
)

// ParseDollars 将 "$12.99" / "12.99" 解析为分。
func ParseDollars(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, errors.New("empty amount")
	}
	if !plainDecimal(s) {
		return 0, ErrNotAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, ErrSubCent
	}
	cents := d.Shift(2)
	if !cents.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return cents.IntPart(), nil
}

// plainDecimal 只允许数字和至多一个小数点，且至少一位数字。
func plainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// FormatCents 将分格式化为 "$12.99"。
func FormatCents(cents int64) string {
	d := decimal.New(cents, -2)
	if d.IsNegative() {
		return fmt.Sprintf("-$%s", d.Abs().StringFixed(2))
	}
	return "$" + d.StringFixed(2)
}
