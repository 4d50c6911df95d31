package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies the physical item behind an NFT
type Category string

const (
	CategoryFigure    Category = "figure"
	CategoryCard      Category = "card"
	CategoryPoster    Category = "poster"
	CategoryAccessory Category = "accessory"
	CategoryOther     Category = "other"
)

// Categories lists every known category in display order
var Categories = []Category{CategoryFigure, CategoryCard, CategoryPoster, CategoryAccessory, CategoryOther}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Rarity grades how scarce the item is
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

func (r Rarity) Valid() bool {
	for _, known := range Rarities {
		if r == known {
			return true
		}
	}
	return false
}

// NFTStatus is the mirrored lifecycle state. The chain is authoritative.
type NFTStatus string

const (
	StatusMinted NFTStatus = "minted"
	StatusListed NFTStatus = "listed"
	StatusOwned  NFTStatus = "owned"
	StatusSold   NFTStatus = "sold"
)

// TransactionType is the kind of lifecycle event logged for an NFT
type TransactionType string

const (
	TransactionMint     TransactionType = "mint"
	TransactionList     TransactionType = "list"
	TransactionPurchase TransactionType = "purchase"
)

// NFT mirrors one tokenized item
type NFT struct {
	Id               string              `db:"id" json:"id"`
	ObjectId         string              `db:"nft_object_id" json:"nft_object_id"`
	Name             string              `db:"name" json:"name"`
	Description      string              `db:"description" json:"description"`
	ImageURL         string              `db:"image_url" json:"image_url"`
	Category         Category            `db:"category" json:"category"`
	Rarity           Rarity              `db:"rarity" json:"rarity"`
	Series           string              `db:"series" json:"series"`
	Character        string              `db:"character" json:"character"`
	Manufacturer     *string             `db:"manufacturer" json:"manufacturer,omitempty"`
	ReleaseYear      *int                `db:"release_year" json:"release_year,omitempty"`
	Condition        *string             `db:"condition" json:"condition,omitempty"`
	OwnerAddress     string              `db:"owner_address" json:"owner_address"`
	CreatorAddress   string              `db:"creator_address" json:"creator_address"`
	Status           NFTStatus           `db:"status" json:"status"`
	PriceOct         decimal.NullDecimal `db:"price_oct" json:"price_oct"`
	ListingPriceOct  decimal.NullDecimal `db:"listing_price_oct" json:"listing_price_oct"`
	ListingId        *string             `db:"listing_id" json:"listing_id,omitempty"`
	MintTxDigest     *string             `db:"mint_tx_digest" json:"mint_tx_digest,omitempty"`
	ListTxDigest     *string             `db:"list_tx_digest" json:"list_tx_digest,omitempty"`
	PurchaseTxDigest *string             `db:"purchase_tx_digest" json:"purchase_tx_digest,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`
}

// IsListed reports whether the record currently carries an active listing
func (n *NFT) IsListed() bool {
	return n.Status == StatusListed && n.ListingId != nil && *n.ListingId != ""
}

// DisplayPrice is the listing price when present, then the base price, then zero
func (n *NFT) DisplayPrice() decimal.Decimal {
	if n.ListingPriceOct.Valid {
		return n.ListingPriceOct.Decimal
	}
	if n.PriceOct.Valid {
		return n.PriceOct.Decimal
	}
	return decimal.Zero
}

// NFTTransaction is an immutable lifecycle event
type NFTTransaction struct {
	Id           string              `db:"id" json:"id"`
	NFTObjectId  string              `db:"nft_object_id" json:"nft_object_id"`
	Type         TransactionType     `db:"type" json:"type"`
	TxDigest     string              `db:"tx_digest" json:"tx_digest"`
	ActorAddress string              `db:"actor_address" json:"actor_address"`
	PriceOct     decimal.NullDecimal `db:"price_oct" json:"price_oct"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
}
