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

const (
	nftColumns = `
		id, nft_object_id, name, description, image_url, category, rarity, series, character,
		manufacturer, release_year, condition, owner_address, creator_address, status,
		price_oct, listing_price_oct, listing_id, mint_tx_digest, list_tx_digest, purchase_tx_digest,
		created_at, updated_at`

	transactionColumns = `
		id, nft_object_id, "type", tx_digest, actor_address, price_oct, created_at`

	// NFT queries
	queryInsertNFT = `
		INSERT INTO nfts (
			id, nft_object_id, name, description, image_url, category, rarity, series, character,
			manufacturer, release_year, condition, owner_address, creator_address, status,
			price_oct, mint_tx_digest, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetNFTByObjectId = `
		SELECT` + nftColumns + `
		FROM nfts
		WHERE nft_object_id = ?`

	queryGetNFTById = `
		SELECT` + nftColumns + `
		FROM nfts
		WHERE id = ?`

	queryGetNFTByListingId = `
		SELECT` + nftColumns + `
		FROM nfts
		WHERE listing_id = ?`

	queryGetMarketplaceListings = `
		SELECT` + nftColumns + `
		FROM nfts
		WHERE status = 'listed'
		ORDER BY updated_at DESC`

	queryGetOwnedNFTs = `
		SELECT` + nftColumns + `
		FROM nfts
		WHERE owner_address = ?
		ORDER BY created_at DESC`

	queryUpdateListing = `
		UPDATE nfts
		SET status = 'listed', listing_id = ?, listing_price_oct = ?, list_tx_digest = ?, updated_at = ?
		WHERE nft_object_id = ?`

	queryCompletePurchase = `
		UPDATE nfts
		SET owner_address = ?, purchase_tx_digest = ?, status = 'owned',
		    listing_id = NULL, listing_price_oct = NULL, list_tx_digest = NULL, updated_at = ?
		WHERE nft_object_id = ?`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO nft_transactions (id, nft_object_id, "type", tx_digest, actor_address, price_oct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetNFTTransactions = `
		SELECT` + transactionColumns + `
		FROM nft_transactions
		WHERE nft_object_id = ?
		ORDER BY created_at DESC`

	queryGetTransactionsForAddress = `
		SELECT` + transactionColumns + `
		FROM nft_transactions
		WHERE actor_address = ?
		ORDER BY created_at DESC`
)
