package common

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		price  decimal.NullDecimal
		places int32
		want   string
	}{
		{"no price", decimal.NullDecimal{}, 2, "-"},
		{"rounded", decimal.NewNullDecimal(decimal.RequireFromString("12.345")), 2, "12.35 OCT"},
		{"padded", decimal.NewNullDecimal(decimal.NewFromInt(8)), 4, "8.0000 OCT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.price, tt.places); got != tt.want {
				t.Errorf("FormatPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFaucetHint(t *testing.T) {
	hint := FaucetHint("0xalice")
	if !strings.Contains(hint, "OCT") || !strings.HasSuffix(hint, "go run ./cmd/faucet -address 0xalice") {
		t.Errorf("Unexpected faucet hint %q", hint)
	}
}
