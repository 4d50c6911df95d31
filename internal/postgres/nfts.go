package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"anime-vault-go/internal/models"
	"anime-vault-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func (s *Service) SaveMintedNFT(ctx context.Context, params store.SaveMintedNFTParams) (*models.NFT, error) {
	if params.ObjectId == "" {
		return nil, fmt.Errorf("nft object id cannot be empty")
	}

	createdAt := now()
	var nft models.NFT
	err := s.db.GetContext(ctx, &nft, queryInsertNFT,
		uuid.New().String(), params.ObjectId, params.Name, params.Description, params.ImageURL,
		string(params.Category), string(params.Rarity), params.Series, params.Character,
		nullableString(params.Manufacturer), params.ReleaseYear, nullableString(params.Condition),
		params.CreatorAddress, params.PriceOct, nullableString(params.MintTxDigest), createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("nft %s: %w", params.ObjectId, store.ErrDuplicateNFT)
		}
		zap.L().Error("Failed to insert NFT", zap.String("nft_object_id", params.ObjectId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert nft: %w", err)
	}

	zap.L().Info("Minted NFT saved",
		zap.String("id", nft.Id),
		zap.String("nft_object_id", nft.ObjectId),
		zap.String("creator", nft.CreatorAddress))
	return &nft, nil
}

func (s *Service) UpdateListing(ctx context.Context, objectId string, params store.UpdateListingParams) (*models.NFT, error) {
	var nft models.NFT
	err := s.db.GetContext(ctx, &nft, queryUpdateListing,
		params.ListingId, params.ListingPriceOct, nullableString(params.ListTxDigest), now(), objectId)
	if err != nil {
		return nil, notFoundOr(err, objectId, "unable to update listing")
	}

	zap.L().Info("NFT listing recorded",
		zap.String("nft_object_id", objectId),
		zap.String("listing_id", params.ListingId),
		zap.String("price_oct", params.ListingPriceOct.String()))
	return &nft, nil
}

func (s *Service) CompletePurchase(ctx context.Context, objectId string, params store.CompletePurchaseParams) (*models.NFT, error) {
	var nft models.NFT
	err := s.db.GetContext(ctx, &nft, queryCompletePurchase,
		params.NewOwnerAddress, nullableString(params.PurchaseTxDigest), now(), objectId)
	if err != nil {
		return nil, notFoundOr(err, objectId, "unable to complete purchase")
	}

	zap.L().Info("NFT purchase recorded",
		zap.String("nft_object_id", objectId),
		zap.String("new_owner", params.NewOwnerAddress))
	return &nft, nil
}

func (s *Service) GetNFTByObjectId(ctx context.Context, objectId string) (*models.NFT, error) {
	return s.getNFT(ctx, queryGetNFTByObjectId, objectId)
}

func (s *Service) GetNFTById(ctx context.Context, id string) (*models.NFT, error) {
	return s.getNFT(ctx, queryGetNFTById, id)
}

func (s *Service) GetNFTByListingId(ctx context.Context, listingId string) (*models.NFT, error) {
	return s.getNFT(ctx, queryGetNFTByListingId, listingId)
}

func (s *Service) getNFT(ctx context.Context, query, key string) (*models.NFT, error) {
	var nft models.NFT
	if err := s.db.GetContext(ctx, &nft, query, key); err != nil {
		return nil, notFoundOr(err, key, "unable to query nft")
	}
	return &nft, nil
}

func (s *Service) GetMarketplaceListings(ctx context.Context) ([]models.NFT, error) {
	nfts := []models.NFT{}
	if err := s.db.SelectContext(ctx, &nfts, queryGetMarketplaceListings); err != nil {
		return nil, fmt.Errorf("unable to query marketplace listings: %w", err)
	}
	return nfts, nil
}

func (s *Service) GetOwnedNFTs(ctx context.Context, ownerAddress string) ([]models.NFT, error) {
	nfts := []models.NFT{}
	if err := s.db.SelectContext(ctx, &nfts, queryGetOwnedNFTs, ownerAddress); err != nil {
		return nil, fmt.Errorf("unable to query owned nfts: %w", err)
	}
	return nfts, nil
}

func notFoundOr(err error, key, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("nft %s: %w", key, store.ErrNFTNotFound)
	}
	zap.L().Error("Postgres query failed", zap.String("key", key), zap.Error(err))
	return fmt.Errorf("%s: %w", message, err)
}
