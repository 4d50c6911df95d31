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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFTDetail is an NFT with its transaction history, newest first
type NFTDetail struct {
	NFT          NFT              `json:"nft"`
	Transactions []NFTTransaction `json:"transactions"`
}

// MintResult represents the outcome of tokenizing an item
type MintResult struct {
	NFT         *NFT   `json:"nft"`
	TxDigest    string `json:"tx_digest"`
	ExplorerURL string `json:"explorer_url"`
}

// ListResult represents the outcome of listing an NFT for sale
type ListResult struct {
	NFT         *NFT            `json:"nft"`
	ListingId   string          `json:"listing_id"`
	PriceOct    decimal.Decimal `json:"price_oct"`
	TxDigest    string          `json:"tx_digest"`
	ExplorerURL string          `json:"explorer_url"`
}

// PurchaseResult represents the outcome of buying a listed NFT
type PurchaseResult struct {
	NFT         *NFT            `json:"nft"`
	PriceOct    decimal.Decimal `json:"price_oct"`
	TxDigest    string          `json:"tx_digest"`
	ExplorerURL string          `json:"explorer_url"`
}

// DashboardStats summarizes an owner's collection
type DashboardStats struct {
	TotalNFTs          int                     `json:"total_nfts"`
	ListedCount        int                     `json:"listed_count"`
	PortfolioValue     decimal.Decimal         `json:"portfolio_value"`
	ListedValue        decimal.Decimal         `json:"listed_value"`
	TotalVolume        decimal.Decimal         `json:"total_volume"`
	TransactionsLogged int                     `json:"transactions_logged"`
	CategoryBreakdown  map[Category]int        `json:"category_breakdown"`
	TransactionCounts  map[TransactionType]int `json:"transaction_counts"`
	MemberSince        *time.Time              `json:"member_since,omitempty"`
}

// Dashboard is the personal collection view for one address
type Dashboard struct {
	Address      string           `json:"address"`
	Collection   []NFT            `json:"collection"`
	Transactions []NFTTransaction `json:"transactions"`
	Stats        DashboardStats   `json:"stats"`
}
