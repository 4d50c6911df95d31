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

package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"anime-vault-go/internal/common"
	"anime-vault-go/internal/config"
	"anime-vault-go/internal/marketplace"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/wallet"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func printOwnerHeader(address string, stats models.DashboardStats) {
	fmt.Printf("\n┌─ Owner: %s (%s)\n", wallet.ShortenAddress(address, 6), address)
	fmt.Printf("│  NFTs: %d (%d listed)\n", stats.TotalNFTs, stats.ListedCount)
	fmt.Printf("│  Portfolio: %s OCT, listed %s OCT, volume %s OCT\n",
		stats.PortfolioValue.StringFixed(2), stats.ListedValue.StringFixed(2), stats.TotalVolume.StringFixed(2))
	if stats.MemberSince != nil {
		fmt.Printf("│  Member since: %s\n", stats.MemberSince.Format("2006-01-02"))
	}
	common.PrintBoxSeparator(common.WideWidth)
}

func printNFT(nft models.NFT, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	price := "-"
	if nft.IsListed() || nft.PriceOct.Valid {
		price = common.FormatPrice(decimal.NewNullDecimal(nft.DisplayPrice()), 2)
	}
	fmt.Printf("%s %-36s %-10s %-9s %14s\n", symbol, nft.Name, nft.Category, nft.Status, price)

	detail := common.BoxDetailPrefix(isLast)
	fmt.Printf("%s   %s · %s · %s\n", detail, nft.Series, nft.Character, nft.Rarity)
	fmt.Printf("%s   Object: %s\n", detail, nft.ObjectId)
}

func printBreakdown(stats models.DashboardStats) {
	categories := make([]string, 0, len(stats.CategoryBreakdown))
	for category := range stats.CategoryBreakdown {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Printf("   %-10s %d\n", category, stats.CategoryBreakdown[models.Category(category)])
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	addressFlag := flag.String("address", "", "Owner address (default: the keystore key)")
	filterFlag := flag.String("filter", "all", "Collection filter: all, listed, unlisted or a category")
	searchFlag := flag.String("search", "", "Only show NFTs whose name contains this text")
	flag.Parse()

	filter, err := marketplace.ParseCollectionFilter(*filterFlag)
	if err != nil {
		logger.Fatal("Invalid filter", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	address, err := common.ResolveAddress(*addressFlag, cfg.Wallet)
	if err != nil {
		logger.Fatal("Failed to resolve address", zap.Error(err))
	}

	logger.Info("Connecting to store", zap.String("backend", cfg.Database.Backend))
	nftStore, err := common.InitializeStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer nftStore.Close()

	owned, err := nftStore.GetOwnedNFTs(ctx, address)
	if err != nil {
		logger.Fatal("Failed to load collection", zap.Error(err))
	}
	txs, err := nftStore.GetTransactionsForAddress(ctx, address)
	if err != nil {
		logger.Fatal("Failed to load transactions", zap.Error(err))
	}

	stats := marketplace.Summarize(owned, txs)
	shown := marketplace.FilterCollection(owned, filter, *searchFlag)

	common.PrintHeader("COLLECTION REPORT", common.WideWidth)
	printOwnerHeader(address, stats)
	for i, nft := range shown {
		printNFT(nft, i == len(shown)-1)
	}
	if len(stats.CategoryBreakdown) > 0 {
		fmt.Println("\nBy category:")
		printBreakdown(stats)
	}

	summary := fmt.Sprintf("SUMMARY: showing %d of %d NFTs (filter: %s), %d transactions logged",
		len(shown), len(owned), filter, stats.TransactionsLogged)
	common.PrintFooter(summary, common.WideWidth)

	logger.Info("Collection query completed",
		zap.String("address", address),
		zap.Int("owned", len(owned)),
		zap.Int("shown", len(shown)))
}
