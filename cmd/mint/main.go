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
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"anime-vault-go/internal/common"
	"anime-vault-go/internal/config"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/tokenize"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type mintRequest struct {
	details      tokenize.ItemDetails
	verification tokenize.Verification
	listPrice    decimal.Decimal
}

func parseFlags() (*mintRequest, error) {
	name := flag.String("name", "", "Item name (required)")
	description := flag.String("description", "", "Item description (required)")
	category := flag.String("category", "", "figure, card, poster, accessory or other (required)")
	rarity := flag.String("rarity", "", "common, uncommon, rare, epic or legendary (required)")
	series := flag.String("series", "", "Anime series (required)")
	character := flag.String("character", "", "Character (required)")
	manufacturer := flag.String("manufacturer", "", "Manufacturer")
	releaseYear := flag.Int("release-year", 0, "Release year")
	condition := flag.String("condition", "", "Item condition")
	images := flag.String("images", "", "Comma separated item image files (required)")
	photos := flag.String("photos", "", "Comma separated verification photo files (required)")
	certificates := flag.String("certificates", "", "Comma separated certificate files")
	provenance := flag.String("provenance", "", "Comma separated provenance documents")
	listPrice := flag.String("list-price", "", "List the NFT for sale at this OCT price after minting")
	flag.Parse()

	req := &mintRequest{
		details: tokenize.ItemDetails{
			Name:         *name,
			Description:  *description,
			Category:     models.Category(strings.ToLower(*category)),
			Rarity:       models.Rarity(strings.ToLower(*rarity)),
			Series:       *series,
			Character:    *character,
			Manufacturer: *manufacturer,
			Condition:    *condition,
		},
	}
	if *releaseYear != 0 {
		req.details.ReleaseYear = releaseYear
	}

	var err error
	if req.details.Images, err = readFiles(*images); err != nil {
		return nil, err
	}
	if req.verification.Photos, err = readFiles(*photos); err != nil {
		return nil, err
	}
	if req.verification.Certificates, err = readFiles(*certificates); err != nil {
		return nil, err
	}
	if req.verification.ProvenanceDocuments, err = readFiles(*provenance); err != nil {
		return nil, err
	}

	if *listPrice != "" {
		if req.listPrice, err = onechain.ParseDisplayAmount(*listPrice); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func readFiles(list string) ([]tokenize.ImageFile, error) {
	var files []tokenize.ImageFile
	for _, path := range strings.Split(list, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", path, err)
		}
		files = append(files, tokenize.ImageFile{
			Filename:    filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
		})
	}
	return files, nil
}

// fillWizard walks the wizard through both input steps to the preview.
// Each submit advances on its own when the step is valid.
func fillWizard(req *mintRequest) (*tokenize.Wizard, error) {
	wizard := tokenize.NewWizard()

	if err := wizard.SubmitDetails(req.details); err != nil {
		return nil, fmt.Errorf("%s: %w", tokenize.StepItemDetails, err)
	}
	if err := wizard.SubmitVerification(req.verification); err != nil {
		return nil, fmt.Errorf("%s: %w", tokenize.StepVerification, err)
	}
	return wizard, nil
}

func printPreview(preview tokenize.Preview) {
	common.PrintHeader("MINT PREVIEW", common.DefaultWidth)
	fmt.Printf("Name:         %s\n", preview.Name)
	fmt.Printf("Description:  %s\n", preview.Description)
	fmt.Printf("Category:     %s\n", preview.Category)
	fmt.Printf("Rarity:       %s\n", preview.Rarity)
	fmt.Printf("Series:       %s\n", preview.Series)
	fmt.Printf("Character:    %s\n", preview.Character)
	if preview.Manufacturer != "" {
		fmt.Printf("Manufacturer: %s\n", preview.Manufacturer)
	}
	if preview.ReleaseYear != nil {
		fmt.Printf("Release year: %d\n", *preview.ReleaseYear)
	}
	if preview.Condition != "" {
		fmt.Printf("Condition:    %s\n", preview.Condition)
	}
	fmt.Printf("Images:       %d (+%d verification photos)\n", preview.ImageCount, preview.PhotoCount)
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseFlags()
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	wizard, err := fillWizard(req)
	if err != nil {
		var validationErr *tokenize.ValidationError
		if errors.As(err, &validationErr) {
			common.PrintHeader("MINT FAILED", common.DefaultWidth)
			fmt.Println(validationErr.Error())
			common.PrintSeparator("=", common.DefaultWidth)
		}
		zap.L().Fatal("Item is not ready to mint", zap.Error(err))
	}

	preview, err := wizard.Preview()
	if err != nil {
		zap.L().Fatal("Failed to build preview", zap.Error(err))
	}
	printPreview(preview)

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Initializing services")
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if err := services.Wallet.ConnectWallet(ctx); err != nil {
		zap.L().Fatal("Failed to connect wallet", zap.Error(err))
	}
	address, _ := services.Wallet.Address()
	fmt.Printf("\nMinting as %s...\n", address)

	result, err := services.Vault.Mint(ctx, wizard.Draft())
	if err != nil {
		fmt.Println("\n❌ Mint failed")
		zap.L().Fatal("Mint failed", zap.Error(err))
	}
	if err := wizard.MarkMinted(result); err != nil {
		zap.L().Warn("Wizard did not accept the mint result", zap.Error(err))
	}

	fmt.Printf("\n✅ NFT minted successfully!\n")
	common.PrintLink("Object ID", result.NFT.ObjectId)
	common.PrintLink("Image", result.NFT.ImageURL)
	common.PrintLink("Transaction", result.TxDigest)
	common.PrintLink("Explorer", result.ExplorerURL)

	if req.listPrice.IsZero() {
		return
	}

	fmt.Printf("\nListing for %s %s...\n", req.listPrice.String(), onechain.Symbol)
	listed, err := services.Vault.ListForSale(ctx, result.NFT.ObjectId, req.listPrice)
	if err != nil {
		fmt.Println("\n❌ Listing failed, the NFT stays in your collection")
		zap.L().Fatal("Listing failed", zap.String("object_id", result.NFT.ObjectId), zap.Error(err))
	}

	fmt.Printf("✅ Listed for sale\n")
	common.PrintLink("Listing ID", listed.ListingId)
	common.PrintLink("Transaction", listed.TxDigest)
	common.PrintLink("Explorer", listed.ExplorerURL)

	zap.L().Info("Mint completed successfully",
		zap.String("object_id", result.NFT.ObjectId),
		zap.String("digest", result.TxDigest))
}
