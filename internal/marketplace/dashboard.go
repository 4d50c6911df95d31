package marketplace

import (
	"fmt"
	"strings"
	"time"

	"anime-vault-go/internal/models"

	"github.com/shopspring/decimal"
)

// CollectionFilter is the dashboard selector: all, listed, unlisted or a category.
type CollectionFilter string

const (
	CollectionAll      CollectionFilter = "all"
	CollectionListed   CollectionFilter = "listed"
	CollectionUnlisted CollectionFilter = "unlisted"
)

func ParseCollectionFilter(s string) (CollectionFilter, error) {
	switch f := CollectionFilter(strings.ToLower(s)); f {
	case "":
		return CollectionAll, nil
	case CollectionAll, CollectionListed, CollectionUnlisted:
		return f, nil
	default:
		if models.Category(f).Valid() {
			return f, nil
		}
		return "", fmt.Errorf("unknown collection filter %q", s)
	}
}

func (f CollectionFilter) Matches(nft models.NFT) bool {
	switch f {
	case "", CollectionAll:
		return true
	case CollectionListed:
		return nft.Status == models.StatusListed
	case CollectionUnlisted:
		return nft.Status != models.StatusListed
	default:
		return nft.Category == models.Category(f)
	}
}

// FilterCollection applies the selector and a name search.
func FilterCollection(nfts []models.NFT, filter CollectionFilter, search string) []models.NFT {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.NFT, 0, len(nfts))
	for _, nft := range nfts {
		if q != "" && !strings.Contains(strings.ToLower(nft.Name), q) {
			continue
		}
		if filter.Matches(nft) {
			out = append(out, nft)
		}
	}
	return out
}

// Summarize computes dashboard stats from the full owned collection and the
// address's transaction history.
func Summarize(owned []models.NFT, transactions []models.NFTTransaction) models.DashboardStats {
	stats := models.DashboardStats{
		TotalNFTs:          len(owned),
		PortfolioValue:     decimal.Zero,
		ListedValue:        decimal.Zero,
		TotalVolume:        decimal.Zero,
		TransactionsLogged: len(transactions),
		CategoryBreakdown:  make(map[models.Category]int),
		TransactionCounts:  make(map[models.TransactionType]int),
	}

	for _, nft := range owned {
		stats.PortfolioValue = stats.PortfolioValue.Add(nft.DisplayPrice())

		category := nft.Category
		if category == "" {
			category = models.CategoryOther
		}
		stats.CategoryBreakdown[category]++

		if nft.Status == models.StatusListed {
			stats.ListedCount++
			if nft.ListingPriceOct.Valid {
				stats.ListedValue = stats.ListedValue.Add(nft.ListingPriceOct.Decimal)
			}
		}
	}

	var earliest time.Time
	for _, tx := range transactions {
		stats.TransactionCounts[tx.Type]++
		if tx.PriceOct.Valid {
			stats.TotalVolume = stats.TotalVolume.Add(tx.PriceOct.Decimal)
		}
		if earliest.IsZero() || tx.CreatedAt.Before(earliest) {
			earliest = tx.CreatedAt
		}
	}
	if !earliest.IsZero() {
		stats.MemberSince = &earliest
	}

	return stats
}
