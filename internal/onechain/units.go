package onechain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits of OCT. 1 OCT = 10^9 MIST.
const Decimals = 9

// Symbol is the display ticker of the native coin.
const Symbol = "OCT"

var ErrInvalidPrice = errors.New("price must be greater than zero")

// ParseDisplayAmount parses a user supplied amount such as "12.5".
func ParseDisplayAmount(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("amount cannot be empty")
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return amount, nil
}

// ToSmallestUnit converts a display amount to MIST, flooring any excess precision.
func ToSmallestUnit(amount decimal.Decimal) *big.Int {
	return amount.Shift(Decimals).Floor().BigInt()
}

// FromSmallestUnit converts MIST to a display amount.
func FromSmallestUnit(mist *big.Int) decimal.Decimal {
	if mist == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(mist, -Decimals)
}

// ParseSmallestUnit parses a MIST amount as returned by the RPC (a base-10 string).
func ParseSmallestUnit(value string) (*big.Int, error) {
	mist, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount %q", value)
	}
	return mist, nil
}

// FormatOCT renders a MIST amount as OCT with a fixed number of places.
func FormatOCT(mist *big.Int, places int32) string {
	return FromSmallestUnit(mist).StringFixed(places) + " " + Symbol
}

// validatePrice rejects amounts that would list for nothing.
func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() || ToSmallestUnit(price).Sign() <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
