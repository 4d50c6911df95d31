package api

import (
	"context"
	"time"

	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/store"
	"anime-vault-go/internal/wallet"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListForSale offers an owned NFT at price, in OCT.
func (s *VaultService) ListForSale(ctx context.Context, objectId string, price decimal.Decimal) (result *models.ListResult, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("list", start, err) }()

	tx, err := onechain.NewListForSaleTransaction(s.contract, objectId, price)
	if err != nil {
		return nil, err
	}

	sender, ok := s.wallet.Address()
	if !ok {
		return nil, wallet.ErrNotConnected
	}

	release, err := s.acquire(objectId)
	if err != nil {
		return nil, err
	}
	defer release()

	nft, err := s.store.GetNFTByObjectId(ctx, objectId)
	if err != nil {
		return nil, err
	}
	if nft.IsListed() {
		return nil, ErrAlreadyListed
	}
	if nft.OwnerAddress != sender {
		return nil, ErrNotOwner
	}

	zap.L().Info("Listing nft for sale",
		zap.String("object_id", objectId),
		zap.String("price_oct", price.String()),
		zap.String("seller", sender))

	resp, err := s.submit(ctx, tx)
	if err != nil {
		zap.L().Error("List transaction failed", zap.String("object_id", objectId), zap.Error(err))
		return nil, err
	}
	digest := resp.Digest

	listingId, found := onechain.FindCreatedObject(resp.ObjectChanges, s.contract.Module, s.contract.ListingStructName)
	if !found {
		return nil, &MirrorError{Op: "locating the listing", Digest: digest, Err: ErrObjectNotCreated}
	}

	if _, err := s.store.UpdateListing(ctx, objectId, store.UpdateListingParams{
		ListingId:       listingId,
		ListingPriceOct: price,
		ListTxDigest:    digest,
	}); err != nil {
		zap.L().Error("Failed to record listing",
			zap.String("object_id", objectId),
			zap.String("listing_id", listingId),
			zap.Error(err))
		return nil, &MirrorError{Op: "recording the listing", Digest: digest, Err: err}
	}

	if _, err := s.store.LogTransaction(ctx, store.LogTransactionParams{
		NFTObjectId:  objectId,
		Type:         models.TransactionList,
		TxDigest:     digest,
		ActorAddress: sender,
		PriceOct:     decimal.NewNullDecimal(price),
	}); err != nil {
		return nil, &MirrorError{Op: "logging the listing", Digest: digest, Err: err}
	}

	refreshed, err := s.store.GetNFTByObjectId(ctx, objectId)
	if err != nil {
		return nil, &MirrorError{Op: "refreshing the listed nft", Digest: digest, Err: err}
	}

	zap.L().Info("NFT listed",
		zap.String("object_id", objectId),
		zap.String("listing_id", listingId),
		zap.String("price_oct", price.String()),
		zap.String("digest", digest))

	return &models.ListResult{
		NFT:         refreshed,
		ListingId:   listingId,
		PriceOct:    price,
		TxDigest:    digest,
		ExplorerURL: s.txExplorerURL(digest),
	}, nil
}

// Purchase buys a listed NFT for the connected wallet. The price is whatever
// the on-chain listing holds.
func (s *VaultService) Purchase(ctx context.Context, objectId string) (result *models.PurchaseResult, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("purchase", start, err) }()

	buyer, ok := s.wallet.Address()
	if !ok {
		return nil, wallet.ErrNotConnected
	}

	release, err := s.acquire(objectId)
	if err != nil {
		return nil, err
	}
	defer release()

	// Read under the guard so a purchase or relist that just finished is seen.
	nft, err := s.store.GetNFTByObjectId(ctx, objectId)
	if err != nil {
		return nil, err
	}
	if !nft.IsListed() {
		return nil, ErrNotListed
	}

	tx, err := onechain.NewPurchaseTransaction(s.contract, *nft.ListingId)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Purchasing nft",
		zap.String("object_id", objectId),
		zap.String("listing_id", *nft.ListingId),
		zap.String("buyer", buyer))

	resp, err := s.submit(ctx, tx)
	if err != nil {
		zap.L().Error("Purchase transaction failed", zap.String("object_id", objectId), zap.Error(err))
		return nil, err
	}
	digest := resp.Digest

	if _, err := s.store.CompletePurchase(ctx, objectId, store.CompletePurchaseParams{
		NewOwnerAddress:  buyer,
		PurchaseTxDigest: digest,
	}); err != nil {
		zap.L().Error("Failed to record purchase",
			zap.String("object_id", objectId),
			zap.String("digest", digest),
			zap.Error(err))
		return nil, &MirrorError{Op: "recording the purchase", Digest: digest, Err: err}
	}

	if _, err := s.store.LogTransaction(ctx, store.LogTransactionParams{
		NFTObjectId:  objectId,
		Type:         models.TransactionPurchase,
		TxDigest:     digest,
		ActorAddress: buyer,
		PriceOct:     nft.ListingPriceOct,
	}); err != nil {
		return nil, &MirrorError{Op: "logging the purchase", Digest: digest, Err: err}
	}

	refreshed, err := s.store.GetNFTByObjectId(ctx, objectId)
	if err != nil {
		return nil, &MirrorError{Op: "refreshing the purchased nft", Digest: digest, Err: err}
	}

	zap.L().Info("NFT purchased",
		zap.String("object_id", objectId),
		zap.String("buyer", buyer),
		zap.String("seller", nft.OwnerAddress),
		zap.String("digest", digest))

	return &models.PurchaseResult{
		NFT:         refreshed,
		PriceOct:    nft.ListingPriceOct.Decimal,
		TxDigest:    digest,
		ExplorerURL: s.txExplorerURL(digest),
	}, nil
}
