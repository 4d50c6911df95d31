package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"time"

	"anime-vault-go/internal/common"
	"anime-vault-go/internal/config"
	"anime-vault-go/internal/onechain"

	"go.uber.org/zap"
)

func printCoins(coins []onechain.FaucetCoin, explorerURL string) {
	for i, coin := range coins {
		isLast := i == len(coins)-1
		fmt.Printf("%s %s  %s\n", common.BoxPrefix(isLast),
			onechain.FormatOCT(new(big.Int).SetUint64(coin.Amount), 4), coin.Id)
		if coin.TransferTxDigest != "" {
			fmt.Printf("%s   tx: %s\n", common.BoxDetailPrefix(isLast),
				onechain.ExplorerURL(explorerURL, onechain.ExplorerTransaction, coin.TransferTxDigest))
		}
	}
}

func main() {
	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	addressFlag := flag.String("address", "", "Address to fund (default: the keystore key)")
	timeout := flag.Duration("timeout", time.Minute, "How long to wait for the faucet")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	address, err := common.ResolveAddress(*addressFlag, cfg.Wallet)
	if err != nil {
		logger.Fatal("Failed to resolve address", zap.Error(err))
	}

	client, err := onechain.NewClient(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to create chain client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := client.RequestFaucet(ctx, address)
	if err != nil {
		logger.Fatal("Faucet request failed", zap.String("address", address), zap.Error(err))
	}

	common.PrintHeader("FAUCET REQUEST", common.DefaultWidth)
	fmt.Printf("┌─ Recipient: %s\n", address)
	fmt.Printf("│  Coins: %d\n", len(resp.TransferredGasObjects))
	common.PrintBoxSeparator(common.DefaultWidth)
	printCoins(resp.TransferredGasObjects, cfg.Chain.ExplorerURL)

	total := new(big.Int)
	for _, coin := range resp.TransferredGasObjects {
		total.Add(total, new(big.Int).SetUint64(coin.Amount))
	}
	common.PrintFooter(fmt.Sprintf("Received %s", onechain.FormatOCT(total, 4)), common.DefaultWidth)

	logger.Info("Faucet request completed",
		zap.String("address", address),
		zap.Int("coins", len(resp.TransferredGasObjects)),
		zap.String("mist", total.String()))
}
