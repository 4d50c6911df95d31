package postgres

const (
	schema = `
	CREATE TABLE IF NOT EXISTS nfts (
		id UUID PRIMARY KEY,
		nft_object_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL,
		category TEXT NOT NULL,
		rarity TEXT NOT NULL,
		series TEXT NOT NULL,
		"character" TEXT NOT NULL,
		manufacturer TEXT,
		release_year INTEGER,
		condition TEXT,
		owner_address TEXT NOT NULL,
		creator_address TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'minted',
		price_oct NUMERIC(38, 9),
		listing_price_oct NUMERIC(38, 9),
		listing_id TEXT,
		mint_tx_digest TEXT,
		list_tx_digest TEXT,
		purchase_tx_digest TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nfts_owner ON nfts(owner_address, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_nfts_status ON nfts(status, updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_nfts_listing_id ON nfts(listing_id);

	CREATE TABLE IF NOT EXISTS nft_transactions (
		id UUID PRIMARY KEY,
		nft_object_id TEXT NOT NULL,
		"type" TEXT NOT NULL CHECK ("type" IN ('mint', 'list', 'purchase')),
		tx_digest TEXT NOT NULL,
		actor_address TEXT NOT NULL,
		price_oct NUMERIC(38, 9),
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (tx_digest, "type")
	);
	CREATE INDEX IF NOT EXISTS idx_nft_transactions_nft ON nft_transactions(nft_object_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_nft_transactions_actor ON nft_transactions(actor_address, created_at DESC);`

	nftColumns = `
		id, nft_object_id, name, description, image_url, category, rarity, series, "character",
		manufacturer, release_year, condition, owner_address, creator_address, status,
		price_oct, listing_price_oct, listing_id, mint_tx_digest, list_tx_digest, purchase_tx_digest,
		created_at, updated_at`

	transactionColumns = `
		id, nft_object_id, "type", tx_digest, actor_address, price_oct, created_at`

	queryInsertNFT = `
		INSERT INTO nfts (
			id, nft_object_id, name, description, image_url, category, rarity, series, "character",
			manufacturer, release_year, condition, owner_address, creator_address, status,
			price_oct, mint_tx_digest, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13, 'minted', $14, $15, $16, $16)
		RETURNING` + nftColumns

	queryGetNFTByObjectId = `SELECT` + nftColumns + ` FROM nfts WHERE nft_object_id = $1`

	queryGetNFTById = `SELECT` + nftColumns + ` FROM nfts WHERE id::text = $1`

	queryGetNFTByListingId = `SELECT` + nftColumns + ` FROM nfts WHERE listing_id = $1`

	queryGetMarketplaceListings = `SELECT` + nftColumns + `
		FROM nfts
		WHERE status = 'listed'
		ORDER BY updated_at DESC`

	queryGetOwnedNFTs = `SELECT` + nftColumns + `
		FROM nfts
		WHERE owner_address = $1
		ORDER BY created_at DESC`

	queryUpdateListing = `
		UPDATE nfts
		SET status = 'listed', listing_id = $1, listing_price_oct = $2, list_tx_digest = $3, updated_at = $4
		WHERE nft_object_id = $5
		RETURNING` + nftColumns

	queryCompletePurchase = `
		UPDATE nfts
		SET owner_address = $1, purchase_tx_digest = $2, status = 'owned',
		    listing_id = NULL, listing_price_oct = NULL, list_tx_digest = NULL, updated_at = $3
		WHERE nft_object_id = $4
		RETURNING` + nftColumns

	queryInsertTransaction = `
		INSERT INTO nft_transactions (id, nft_object_id, "type", tx_digest, actor_address, price_oct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING` + transactionColumns

	queryGetNFTTransactions = `SELECT` + transactionColumns + `
		FROM nft_transactions
		WHERE nft_object_id = $1
		ORDER BY created_at DESC`

	queryGetTransactionsForAddress = `SELECT` + transactionColumns + `
		FROM nft_transactions
		WHERE actor_address = $1
		ORDER BY created_at DESC`
)
