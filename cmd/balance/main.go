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
	"math/big"
	"strconv"

	"anime-vault-go/internal/common"
	"anime-vault-go/internal/config"
	"anime-vault-go/internal/onechain"

	"go.uber.org/zap"
)

// lowBalanceMist is 0.1 OCT, roughly one publish worth of gas.
const lowBalanceMist = 100_000_000

func printBalance(address string, mist *big.Int, coinObjects int, explorerURL string) {
	fmt.Printf("┌─ Address: %s\n", address)
	fmt.Printf("│  Explorer: %s\n", onechain.ExplorerURL(explorerURL, onechain.ExplorerAccount, address))
	common.PrintBoxSeparator(common.DefaultWidth)
	common.PrintBoxField("Balance", onechain.FormatOCT(mist, 4), false)
	common.PrintBoxField("Raw", mist.String()+" MIST", false)
	common.PrintBoxField("Coin objects", strconv.Itoa(coinObjects), true)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	addressFlag := flag.String("address", "", "Address to query (default: the keystore key)")
	flag.Parse()
	if *addressFlag == "" && flag.NArg() > 0 {
		*addressFlag = flag.Arg(0)
	}

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

	logger.Info("Querying balance", zap.String("address", address), zap.String("rpc", cfg.Chain.RpcURL))
	balance, err := client.GetBalance(ctx, address)
	if err != nil {
		logger.Fatal("Failed to query balance", zap.Error(err))
	}

	mist, err := onechain.ParseSmallestUnit(balance.TotalBalance)
	if err != nil {
		logger.Fatal("Unexpected balance from node", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("%s BALANCE (%s)", onechain.Symbol, cfg.Chain.Network), common.DefaultWidth)
	printBalance(address, mist, balance.CoinObjectCount, cfg.Chain.ExplorerURL)

	switch {
	case mist.Sign() == 0:
		common.PrintFooter("No funds. "+common.FaucetHint(address), common.DefaultWidth)
	case mist.Cmp(big.NewInt(lowBalanceMist)) < 0:
		common.PrintFooter(fmt.Sprintf("Low balance: deploying and minting may fail for lack of gas (below %s)",
			onechain.FormatOCT(big.NewInt(lowBalanceMist), 1)), common.DefaultWidth)
	default:
		common.PrintFooter("Balance is sufficient for deployment and minting", common.DefaultWidth)
	}

	logger.Info("Balance query completed",
		zap.String("address", address),
		zap.String("mist", mist.String()))
}
