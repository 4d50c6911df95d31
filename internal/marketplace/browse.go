package marketplace

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"anime-vault-go/internal/models"

	"github.com/shopspring/decimal"
)

type SortOrder string

const (
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortName      SortOrder = "name"
)

var SortOrders = []SortOrder{SortPriceLow, SortPriceHigh, SortNewest, SortOldest, SortName}

func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortNewest, nil
	}
	order := SortOrder(s)
	if !slices.Contains(SortOrders, order) {
		return "", fmt.Errorf("unknown sort order %q", s)
	}
	return order, nil
}

// Filter narrows a list of NFTs. Empty fields match everything.
type Filter struct {
	Search     string
	Categories []models.Category
	Rarities   []models.Rarity
	Statuses   []models.NFTStatus
	MinPrice   decimal.NullDecimal
	MaxPrice   decimal.NullDecimal
}

// Matches reports whether nft passes every criterion of the filter.
func (f Filter) Matches(nft models.NFT) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(nft.Name), q) &&
			!strings.Contains(strings.ToLower(nft.Series), q) &&
			!strings.Contains(strings.ToLower(nft.Character), q) {
			return false
		}
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, nft.Category) {
		return false
	}
	if len(f.Rarities) > 0 && !slices.Contains(f.Rarities, nft.Rarity) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, nft.Status) {
		return false
	}

	price := nft.DisplayPrice()
	if f.MinPrice.Valid && price.LessThan(f.MinPrice.Decimal) {
		return false
	}
	if f.MaxPrice.Valid && price.GreaterThan(f.MaxPrice.Decimal) {
		return false
	}
	return true
}

// Apply returns the matching NFTs in their original order. The input is not modified.
func (f Filter) Apply(nfts []models.NFT) []models.NFT {
	out := make([]models.NFT, 0, len(nfts))
	for _, nft := range nfts {
		if f.Matches(nft) {
			out = append(out, nft)
		}
	}
	return out
}

// Sort orders nfts in place. Ties keep their relative order.
func Sort(nfts []models.NFT, order SortOrder) {
	var less func(a, b models.NFT) bool
	switch order {
	case SortPriceLow:
		less = func(a, b models.NFT) bool { return a.DisplayPrice().LessThan(b.DisplayPrice()) }
	case SortPriceHigh:
		less = func(a, b models.NFT) bool { return a.DisplayPrice().GreaterThan(b.DisplayPrice()) }
	case SortNewest:
		less = func(a, b models.NFT) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b models.NFT) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortName:
		less = func(a, b models.NFT) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return
	}
	sort.SliceStable(nfts, func(i, j int) bool { return less(nfts[i], nfts[j]) })
}

// Browse filters then sorts into a new slice.
func Browse(nfts []models.NFT, filter Filter, order SortOrder) []models.NFT {
	out := filter.Apply(nfts)
	Sort(out, order)
	return out
}
