package store

import (
	"context"
	"errors"

	"anime-vault-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrDuplicateNFT         = errors.New("nft already recorded")
	ErrNFTNotFound          = errors.New("nft not found")
)

// SaveMintedNFTParams contains the fields recorded after a confirmed mint.
// Owner and creator are both the minting address.
type SaveMintedNFTParams struct {
	ObjectId       string
	Name           string
	Description    string
	ImageURL       string
	Category       models.Category
	Rarity         models.Rarity
	Series         string
	Character      string
	Manufacturer   string
	ReleaseYear    *int
	Condition      string
	CreatorAddress string
	MintTxDigest   string
	PriceOct       decimal.NullDecimal
}

// LogTransactionParams describes one lifecycle event.
type LogTransactionParams struct {
	NFTObjectId  string
	Type         models.TransactionType
	TxDigest     string
	ActorAddress string
	PriceOct     decimal.NullDecimal
}

// UpdateListingParams records a confirmed listing.
type UpdateListingParams struct {
	ListingId       string
	ListingPriceOct decimal.Decimal
	ListTxDigest    string
}

// CompletePurchaseParams records a confirmed purchase. The listing fields are cleared.
type CompletePurchaseParams struct {
	NewOwnerAddress  string
	PurchaseTxDigest string
}

// NFTStore defines the contract that every backend (SQLite, Postgres, ...) must satisfy.
type NFTStore interface {
	// --- Mutations ---
	SaveMintedNFT(ctx context.Context, params SaveMintedNFTParams) (*models.NFT, error)
	LogTransaction(ctx context.Context, params LogTransactionParams) (*models.NFTTransaction, error)
	UpdateListing(ctx context.Context, objectId string, params UpdateListingParams) (*models.NFT, error)
	CompletePurchase(ctx context.Context, objectId string, params CompletePurchaseParams) (*models.NFT, error)

	// --- Lookups ---
	GetNFTByObjectId(ctx context.Context, objectId string) (*models.NFT, error)
	GetNFTById(ctx context.Context, id string) (*models.NFT, error)
	GetNFTByListingId(ctx context.Context, listingId string) (*models.NFT, error)
	GetMarketplaceListings(ctx context.Context) ([]models.NFT, error)
	GetOwnedNFTs(ctx context.Context, ownerAddress string) ([]models.NFT, error)

	// --- History ---
	GetNFTTransactions(ctx context.Context, objectId string) ([]models.NFTTransaction, error)
	GetTransactionsForAddress(ctx context.Context, address string) ([]models.NFTTransaction, error)

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}
