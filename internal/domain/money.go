package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// iso4217 is the set of recognized currency codes. Codes are matched after
// uppercasing, so "usd" and "USD" are the same currency.
var iso4217 = map[string]struct{}{
	"AED": {}, "ARS": {}, "AUD": {}, "BGN": {}, "BRL": {}, "CAD": {},
	"CHF": {}, "CLP": {}, "CNY": {}, "COP": {}, "CZK": {}, "DKK": {},
	"EGP": {}, "EUR": {}, "GBP": {}, "HKD": {}, "HUF": {}, "IDR": {},
	"ILS": {}, "INR": {}, "ISK": {}, "JPY": {}, "KRW": {}, "KWD": {},
	"MAD": {}, "MXN": {}, "MYR": {}, "NGN": {}, "NOK": {}, "NZD": {},
	"PEN": {}, "PHP": {}, "PKR": {}, "PLN": {}, "QAR": {}, "RON": {},
	"RSD": {}, "SAR": {}, "SEK": {}, "SGD": {}, "THB": {}, "TRY": {},
	"TWD": {}, "UAH": {}, "USD": {}, "UYU": {}, "VND": {}, "ZAR": {},
}

// Currency is a validated ISO 4217 currency code, normalized to uppercase.
type Currency struct {
	code string
}

// NewCurrency validates and normalizes an ISO 4217 code.
func NewCurrency(code string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := iso4217[normalized]; !ok {
		return Currency{}, &InvalidCurrencyError{Code: code}
	}
	return Currency{code: normalized}, nil
}

// MustCurrency panics on an invalid code. For tests and literals only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Currency) Code() string   { return c.code }
func (c Currency) String() string { return c.code }
func (c Currency) IsZero() bool   { return c.code == "" }

// Money is a non-negative decimal amount in a single currency. Arithmetic
// requires matching currencies and never produces a negative amount.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a validated Money value.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeMoneyAmount
	}
	if currency.IsZero() {
		return Money{}, requiredField("Money", "currency")
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney panics on invalid input. For tests and literals only.
func MustMoney(amount decimal.Decimal, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney is the zero amount in the given currency.
func ZeroMoney(currency Currency) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency     { return m.currency }
func (m Money) IsZero() bool           { return m.currency.IsZero() }

func (m Money) String() string {
	return m.amount.String() + " " + m.currency.Code()
}

// Equal reports value equality regardless of decimal exponent.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) checkSameCurrency(other Money) error {
	if m.currency != other.currency {
		return &CurrencyMismatchError{A: m.currency.Code(), B: other.currency.Code()}
	}
	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.checkSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.checkSameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, ErrNegativeMoneyResult
	}
	return Money{amount: result, currency: m.currency}, nil
}

func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, ErrNegativeMultiplier
	}
	return Money{amount: m.amount.Mul(factor), currency: m.currency}, nil
}

// GreaterThan compares amounts; currencies must already match.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}
