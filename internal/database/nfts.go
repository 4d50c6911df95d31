/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNFT(row rowScanner) (*models.NFT, error) {
	var nft models.NFT
	err := row.Scan(
		&nft.Id, &nft.ObjectId, &nft.Name, &nft.Description, &nft.ImageURL,
		&nft.Category, &nft.Rarity, &nft.Series, &nft.Character,
		&nft.Manufacturer, &nft.ReleaseYear, &nft.Condition,
		&nft.OwnerAddress, &nft.CreatorAddress, &nft.Status,
		&nft.PriceOct, &nft.ListingPriceOct, &nft.ListingId,
		&nft.MintTxDigest, &nft.ListTxDigest, &nft.PurchaseTxDigest,
		&nft.CreatedAt, &nft.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &nft, nil
}

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

	id := uuid.New().String()
	now := s.now()

	zap.L().Info("Saving minted NFT",
		zap.String("id", id),
		zap.String("nft_object_id", params.ObjectId),
		zap.String("name", params.Name),
		zap.String("creator", params.CreatorAddress))

	_, err := s.db.ExecContext(ctx, queryInsertNFT,
		id, params.ObjectId, params.Name, params.Description, params.ImageURL,
		string(params.Category), string(params.Rarity), params.Series, params.Character,
		nullableString(params.Manufacturer), params.ReleaseYear, nullableString(params.Condition),
		params.CreatorAddress, params.CreatorAddress, string(models.StatusMinted),
		params.PriceOct, nullableString(params.MintTxDigest), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("nft %s: %w", params.ObjectId, store.ErrDuplicateNFT)
		}
		zap.L().Error("Failed to insert NFT", zap.String("nft_object_id", params.ObjectId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert nft: %w", err)
	}

	return s.GetNFTByObjectId(ctx, params.ObjectId)
}

func (s *Service) UpdateListing(ctx context.Context, objectId string, params store.UpdateListingParams) (*models.NFT, error) {
	zap.L().Info("Recording NFT listing",
		zap.String("nft_object_id", objectId),
		zap.String("listing_id", params.ListingId),
		zap.String("price_oct", params.ListingPriceOct.String()))

	result, err := s.db.ExecContext(ctx, queryUpdateListing,
		params.ListingId, params.ListingPriceOct, nullableString(params.ListTxDigest), s.now(), objectId)
	if err != nil {
		zap.L().Error("Failed to update listing", zap.String("nft_object_id", objectId), zap.Error(err))
		return nil, fmt.Errorf("unable to update listing: %w", err)
	}

	if err := requireAffected(result, objectId); err != nil {
		return nil, err
	}

	return s.GetNFTByObjectId(ctx, objectId)
}

func (s *Service) CompletePurchase(ctx context.Context, objectId string, params store.CompletePurchaseParams) (*models.NFT, error) {
	zap.L().Info("Recording NFT purchase",
		zap.String("nft_object_id", objectId),
		zap.String("new_owner", params.NewOwnerAddress),
		zap.String("tx_digest", params.PurchaseTxDigest))

	result, err := s.db.ExecContext(ctx, queryCompletePurchase,
		params.NewOwnerAddress, nullableString(params.PurchaseTxDigest), s.now(), objectId)
	if err != nil {
		zap.L().Error("Failed to complete purchase", zap.String("nft_object_id", objectId), zap.Error(err))
		return nil, fmt.Errorf("unable to complete purchase: %w", err)
	}

	if err := requireAffected(result, objectId); err != nil {
		return nil, err
	}

	return s.GetNFTByObjectId(ctx, objectId)
}

func requireAffected(result sql.Result, objectId string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("nft %s: %w", objectId, store.ErrNFTNotFound)
	}
	return nil
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
	nft, err := scanNFT(s.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("nft %s: %w", key, store.ErrNFTNotFound)
		}
		zap.L().Error("Failed to query NFT", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unable to query nft: %w", err)
	}
	return nft, nil
}

func (s *Service) GetMarketplaceListings(ctx context.Context) ([]models.NFT, error) {
	return s.listNFTs(ctx, queryGetMarketplaceListings)
}

func (s *Service) GetOwnedNFTs(ctx context.Context, ownerAddress string) ([]models.NFT, error) {
	return s.listNFTs(ctx, queryGetOwnedNFTs, ownerAddress)
}

func (s *Service) listNFTs(ctx context.Context, query string, args ...any) ([]models.NFT, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query NFTs", zap.Error(err))
		return nil, fmt.Errorf("unable to query nfts: %w", err)
	}
	defer closeRows(rows)

	nfts := []models.NFT{}
	for rows.Next() {
		nft, err := scanNFT(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan nft row: %w", err)
		}
		nfts = append(nfts, *nft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nft rows: %w", err)
	}

	zap.L().Debug("Retrieved NFTs", zap.Int("count", len(nfts)))
	return nfts, nil
}
