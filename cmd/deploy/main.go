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
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"anime-vault-go/internal/common"
	"anime-vault-go/internal/config"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/wallet"

	"go.uber.org/zap"
)

// Shared objects created by the package initializer, keyed by struct name.
const (
	nftCountStruct            = "NftCount"
	landRegistryStruct        = "LandRegistry"
	landRegistryAddressStruct = "LandRegistryAddress"
	marketplaceStruct         = "Marketplace"
	marketplaceCapStruct      = "MarketplaceCap"
)

type deployRequest struct {
	bytecodeDir  string
	dependencies []string
	gasBudget    uint64
	module       string
	output       string
}

func parseFlags() *deployRequest {
	bytecodeDir := flag.String("bytecode-dir", "build/anime_merchandise/bytecode_modules", "Directory of compiled .mv modules")
	deps := flag.String("deps", "0x1,0x2", "Comma separated dependency package ids")
	gasBudget := flag.Uint64("gas", config.DefaultGasBudget, "Gas budget in MIST")
	module := flag.String("module", "", "Module holding the NFT functions (default: the only module, or MODULE_NAME)")
	output := flag.String("out", "", "Deployment info file (default: DEPLOYMENT_INFO or deployment-info.json)")
	flag.Parse()

	var dependencies []string
	for _, dep := range strings.Split(*deps, ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			dependencies = append(dependencies, dep)
		}
	}

	return &deployRequest{
		bytecodeDir:  *bytecodeDir,
		dependencies: dependencies,
		gasBudget:    *gasBudget,
		module:       *module,
		output:       *output,
	}
}

// loadModules returns the base64 bytecode and names of every .mv file, in name order.
func loadModules(dir string) ([]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read %s (run `sui move build` first): %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".mv") {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no .mv modules in %s", dir)
	}
	sort.Strings(files)

	modules := make([]string, 0, len(files))
	names := make([]string, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("unable to read %s: %w", name, err)
		}
		modules = append(modules, base64.StdEncoding.EncodeToString(data))
		names = append(names, strings.TrimSuffix(name, ".mv"))
	}
	return modules, names, nil
}

func publish(ctx context.Context, client *onechain.Client, keypair *wallet.Keypair, req *deployRequest, modules []string) (*onechain.TransactionBlockResponse, error) {
	sender := keypair.Address()

	built, err := client.BuildPublish(ctx, sender, modules, req.dependencies, req.gasBudget)
	if err != nil {
		return nil, err
	}

	signature, err := keypair.SignTransaction(built.TxBytes)
	if err != nil {
		return nil, fmt.Errorf("unable to sign publish: %w", err)
	}

	executed, err := client.ExecuteTransaction(ctx, built.TxBytes, []string{signature})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Waiting for publish to finalize", zap.String("digest", executed.Digest))
	return client.WaitForTransaction(ctx, executed.Digest)
}

func printDeployment(info *models.DeploymentInfo, explorerURL string) {
	common.PrintHeader("DEPLOYMENT COMPLETE", common.WideWidth)
	fmt.Printf("Package ID:            %s\n", info.PackageId)
	fmt.Printf("Module:                %s\n", info.ModuleName)
	fmt.Printf("NftCount:              %s\n", info.NftCountId)
	fmt.Printf("LandRegistry:          %s\n", info.LandRegistryId)
	fmt.Printf("LandRegistryAddress:   %s\n", info.LandRegistryAddressId)
	if info.MarketplaceId != "" {
		fmt.Printf("Marketplace:           %s\n", info.MarketplaceId)
		fmt.Printf("MarketplaceCap:        %s\n", info.MarketplaceCapId)
	}
	fmt.Printf("Transaction:           %s\n", onechain.ExplorerURL(explorerURL, onechain.ExplorerTransaction, info.DeploymentTx))
	common.PrintSeparator("=", common.WideWidth)
}

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if req.output == "" {
		req.output = cfg.Contract.DeploymentFile
	}

	modules, names, err := loadModules(req.bytecodeDir)
	if err != nil {
		zap.L().Fatal("Failed to load modules", zap.Error(err))
	}
	module := req.module
	if module == "" {
		module = cfg.Contract.Module
	}
	if module == "" && len(names) == 1 {
		module = names[0]
	}
	if module == "" {
		zap.L().Fatal("Several modules found, choose one with -module", zap.Strings("modules", names))
	}

	keypair, err := wallet.LoadKeypair(cfg.Wallet.KeystorePath, cfg.Wallet.KeyIndex)
	if err != nil {
		zap.L().Fatal("Failed to load deployer key", zap.Error(err))
	}
	deployer := keypair.Address()

	client, err := onechain.NewClient(cfg.Chain)
	if err != nil {
		zap.L().Fatal("Failed to create chain client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Chain.RequestTimeout+cfg.Chain.FinalityTimeout)
	defer cancel()

	balance, err := client.GetBalance(ctx, deployer)
	if err != nil {
		zap.L().Fatal("Failed to query deployer balance", zap.Error(err))
	}
	if balance.CoinObjectCount == 0 {
		fmt.Printf("No gas coins for %s\n", deployer)
		fmt.Println(common.FaucetHint(deployer))
		zap.L().Fatal("Deployer has no gas coins", zap.String("address", deployer))
	}

	zap.L().Info("Publishing package",
		zap.String("deployer", deployer),
		zap.Strings("modules", names),
		zap.Strings("dependencies", req.dependencies),
		zap.Uint64("gas_budget", req.gasBudget))

	resp, err := publish(ctx, client, keypair, req, modules)
	if err != nil {
		zap.L().Fatal("Publish failed", zap.Error(err))
	}

	packageId, ok := onechain.FindPublishedPackage(resp.ObjectChanges)
	if !ok {
		zap.L().Fatal("Package id not found in publish result",
			zap.String("digest", resp.Digest),
			zap.String("explorer", onechain.ExplorerURL(cfg.Chain.ExplorerURL, onechain.ExplorerTransaction, resp.Digest)))
	}

	find := func(structName string) string {
		id, _ := onechain.FindCreatedObject(resp.ObjectChanges, module, structName)
		return id
	}

	info := &models.DeploymentInfo{
		PackageId:             packageId,
		NftCountId:            find(nftCountStruct),
		LandRegistryId:        find(landRegistryStruct),
		LandRegistryAddressId: find(landRegistryAddressStruct),
		MarketplaceId:         find(marketplaceStruct),
		MarketplaceCapId:      find(marketplaceCapStruct),
		ModuleName:            module,
		DeploymentTx:          resp.Digest,
		DeployerAddress:       deployer,
		Network:               cfg.Chain.Network,
		RpcURL:                cfg.Chain.RpcURL,
		DeployedAt:            time.Now().UTC().Format(time.RFC3339),
	}

	if info.NftCountId == "" || info.LandRegistryId == "" || info.LandRegistryAddressId == "" {
		zap.L().Warn("Some shared objects were not found, minting will not work until they are set",
			zap.String("nft_count_id", info.NftCountId),
			zap.String("land_registry_id", info.LandRegistryId),
			zap.String("land_registry_address_id", info.LandRegistryAddressId))
	}

	if err := common.WriteDeploymentInfo(req.output, info); err != nil {
		zap.L().Fatal("Failed to write deployment info", zap.Error(err))
	}

	printDeployment(info, cfg.Chain.ExplorerURL)
	fmt.Printf("\nDeployment info written to %s\n", req.output)

	zap.L().Info("Deployment completed",
		zap.String("package_id", packageId),
		zap.String("digest", resp.Digest))
}
