package common

import (
	"fmt"
	"strings"

	"anime-vault-go/internal/onechain"

	"github.com/shopspring/decimal"
)

const (
	DefaultWidth = 80
	// WideWidth fits a full object id next to the collection columns.
	WideWidth = 100
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

func PrintFooter(message string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxSeparator closes a box header opened with "┌─" in a report of the given width.
func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width-2))
}

func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix returns the prefix for detail lines under list items
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}

// PrintBoxField prints one aligned "label: value" row of a box.
func PrintBoxField(label, value string, isLast bool) {
	fmt.Printf("%s %-12s: %s\n", BoxPrefix(isLast), label, value)
}

// FormatPrice renders an OCT amount for reports, or "-" when there is none.
func FormatPrice(price decimal.NullDecimal, places int32) string {
	if !price.Valid {
		return "-"
	}
	return price.Decimal.StringFixed(places) + " " + onechain.Symbol
}

// PrintLink prints an indented explorer line, skipping empty links.
func PrintLink(label, link string) {
	if link == "" {
		return
	}
	fmt.Printf("   %-12s %s\n", label+":", link)
}

// FaucetHint tells the user how to fund address from the testnet faucet.
func FaucetHint(address string) string {
	return fmt.Sprintf("Request testnet %s with: go run ./cmd/faucet -address %s", onechain.Symbol, address)
}
