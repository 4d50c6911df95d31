package api

import (
	"context"
	"errors"
	"fmt"

	"anime-vault-go/internal/marketplace"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/store"
)

// DashboardQuery selects part of an owner's collection.
type DashboardQuery struct {
	Filter marketplace.CollectionFilter
	Search string
}

// Marketplace returns the active listings filtered and sorted.
func (s *VaultService) Marketplace(ctx context.Context, filter marketplace.Filter, order marketplace.SortOrder) ([]models.NFT, error) {
	listings, err := s.store.GetMarketplaceListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load marketplace: %w", err)
	}
	return marketplace.Browse(listings, filter, order), nil
}

// NFTDetail resolves id as an on-chain object id, then as an internal id.
func (s *VaultService) NFTDetail(ctx context.Context, id string) (*models.NFTDetail, error) {
	nft, err := s.store.GetNFTByObjectId(ctx, id)
	if errors.Is(err, store.ErrNFTNotFound) {
		nft, err = s.store.GetNFTById(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.GetNFTTransactions(ctx, nft.ObjectId)
	if err != nil {
		return nil, fmt.Errorf("unable to load history for %s: %w", nft.ObjectId, err)
	}

	return &models.NFTDetail{NFT: *nft, Transactions: transactions}, nil
}

func (s *VaultService) Dashboard(ctx context.Context, address string, query DashboardQuery) (*models.Dashboard, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	owned, err := s.store.GetOwnedNFTs(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("unable to load collection: %w", err)
	}

	transactions, err := s.store.GetTransactionsForAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("unable to load transactions: %w", err)
	}

	return &models.Dashboard{
		Address:      address,
		Collection:   marketplace.FilterCollection(owned, query.Filter, query.Search),
		Transactions: transactions,
		Stats:        marketplace.Summarize(owned, transactions),
	}, nil
}
