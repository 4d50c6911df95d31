package api

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"anime-vault-go/internal/media"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/store"
	"anime-vault-go/internal/tokenize"
	"anime-vault-go/internal/wallet"

	"go.uber.org/zap"
)

// Mint tokenizes a validated draft. The first image is uploaded before any
// transaction is built; an upload failure never reaches the chain.
func (s *VaultService) Mint(ctx context.Context, draft tokenize.Draft) (result *models.MintResult, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("mint", start, err) }()

	if err := tokenize.Validate(draft).Err(); err != nil {
		return nil, err
	}

	sender, ok := s.wallet.Address()
	if !ok {
		return nil, wallet.ErrNotConnected
	}
	if s.images == nil {
		return nil, ErrNoImageStorage
	}
	if !s.contract.Configured() {
		return nil, onechain.ErrContractNotConfigured
	}

	release, err := s.acquire("mint:" + sender)
	if err != nil {
		return nil, err
	}
	defer release()

	details := draft.Details
	image := details.Images[0]

	zap.L().Info("Uploading image for mint",
		zap.String("name", details.Name),
		zap.String("filename", image.Filename),
		zap.String("sender", sender))

	imageURL, err := s.images.Upload(ctx, media.Image{
		Filename:    image.Filename,
		ContentType: image.ContentType,
		Body:        bytes.NewReader(image.Data),
	})
	if err != nil {
		zap.L().Error("Image upload failed", zap.String("filename", image.Filename), zap.Error(err))
		return nil, fmt.Errorf("unable to upload image: %w", err)
	}

	tx, err := onechain.NewMintTransaction(s.contract, imageURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.submit(ctx, tx)
	if err != nil {
		zap.L().Error("Mint transaction failed", zap.String("sender", sender), zap.Error(err))
		return nil, err
	}
	digest := resp.Digest

	objectId, found := onechain.FindCreatedObject(resp.ObjectChanges, s.contract.Module, s.contract.NFTStructName)
	if !found {
		zap.L().Error("Minted object missing from transaction changes",
			zap.String("digest", digest),
			zap.String("struct", s.contract.NFTStructName))
		return nil, &MirrorError{Op: "locating the minted object", Digest: digest, Err: ErrObjectNotCreated}
	}

	if _, err := s.store.SaveMintedNFT(ctx, store.SaveMintedNFTParams{
		ObjectId:       objectId,
		Name:           details.Name,
		Description:    details.Description,
		ImageURL:       imageURL,
		Category:       details.Category,
		Rarity:         details.Rarity,
		Series:         details.Series,
		Character:      details.Character,
		Manufacturer:   details.Manufacturer,
		ReleaseYear:    details.ReleaseYear,
		Condition:      details.Condition,
		CreatorAddress: sender,
		MintTxDigest:   digest,
	}); err != nil {
		zap.L().Error("Failed to record minted nft",
			zap.String("object_id", objectId),
			zap.String("digest", digest),
			zap.Error(err))
		return nil, &MirrorError{Op: "recording the mint", Digest: digest, Err: err}
	}

	if _, err := s.store.LogTransaction(ctx, store.LogTransactionParams{
		NFTObjectId:  objectId,
		Type:         models.TransactionMint,
		TxDigest:     digest,
		ActorAddress: sender,
	}); err != nil {
		zap.L().Error("Failed to log mint transaction", zap.String("digest", digest), zap.Error(err))
		return nil, &MirrorError{Op: "logging the mint", Digest: digest, Err: err}
	}

	nft, err := s.store.GetNFTByObjectId(ctx, objectId)
	if err != nil {
		return nil, &MirrorError{Op: "refreshing the minted nft", Digest: digest, Err: err}
	}

	zap.L().Info("NFT minted",
		zap.String("object_id", objectId),
		zap.String("name", nft.Name),
		zap.String("owner", sender),
		zap.String("digest", digest))

	return &models.MintResult{
		NFT:         nft,
		TxDigest:    digest,
		ExplorerURL: s.txExplorerURL(digest),
	}, nil
}
