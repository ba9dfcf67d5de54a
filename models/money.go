package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the fixed scale of every monetary column.
const MoneyPlaces = 2

// moneyLimit bounds numeric(10,2): at most 8 integer digits.
var moneyLimit = decimal.New(1, 8)

// MaxDecimalExponent bounds the exponent of client supplied numbers. Rescaling
// a decimal allocates a 10^|exp| big.Int, so 1e999999999 must be rejected
// before any arithmetic.
const MaxDecimalExponent = 20

// maxDecimalLength bounds the digits parsed into a big.Int coefficient.
const maxDecimalLength = 64

var (
	ErrDecimalFormat   = errors.New("must be a valid number")
	ErrDecimalExponent = errors.New("must be a number of reasonable magnitude")

	ErrMoneyFormat    = errors.New("must be a valid decimal number")
	ErrMoneyPrecision = errors.New("must have no more than 2 decimal places")
	ErrMoneyRange     = errors.New("must have no more than 10 digits in total")
)

// Money is a fixed-point amount with two decimal places. It is stored as
// numeric(10,2) and rendered in JSON as a number such as 122.00.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to the money scale.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(MoneyPlaces)}
}

// ParseDecimal parses s and rejects overlong input and exponents outside
// ±MaxDecimalExponent. Client supplied numbers go through it.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxDecimalLength {
		return decimal.Decimal{}, ErrDecimalExponent
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrDecimalFormat
	}
	if exp := d.Exponent(); exp > MaxDecimalExponent || exp < -MaxDecimalExponent {
		return decimal.Decimal{}, ErrDecimalExponent
	}
	return d, nil
}

// MoneyFromString parses a plain decimal string, e.g. "120.50".
func MoneyFromString(s string) (Money, error) {
	d, err := ParseDecimal(s)
	switch {
	case errors.Is(err, ErrDecimalExponent):
		return Money{}, ErrMoneyRange
	case err != nil:
		return Money{}, ErrMoneyFormat
	}
	if !d.Equal(d.Truncate(MoneyPlaces)) {
		return Money{}, ErrMoneyPrecision
	}
	m := NewMoney(d)
	if !m.FitsColumn() {
		return Money{}, ErrMoneyRange
	}
	return m, nil
}

// ParseMoney accepts a raw JSON number or a JSON string holding a number.
func ParseMoney(raw []byte) (Money, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return Money{}, ErrMoneyFormat
		}
		text = s
	}
	return MoneyFromString(text)
}

// FitsColumn reports whether m can be stored in a numeric(10,2) column.
func (m Money) FitsColumn() bool {
	return m.Decimal.Abs().LessThan(moneyLimit)
}

func (m Money) Add(o Money) Money {
	return NewMoney(m.Decimal.Add(o.Decimal))
}

func (m Money) Sub(o Money) Money {
	return NewMoney(m.Decimal.Sub(o.Decimal))
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) Cmp(o Money) int {
	return m.Decimal.Cmp(o.Decimal)
}

func (m Money) String() string {
	return m.Decimal.StringFixed(MoneyPlaces)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.StringFixed(MoneyPlaces)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Money{}
		return nil
	}
	parsed, err := ParseMoney(data)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
