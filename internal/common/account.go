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

package common

import (
	"fmt"
	"strings"

	"anime-vault-go/internal/models"
	"anime-vault-go/internal/wallet"

	"go.uber.org/zap"
)

// ResolveAddress returns explicit when given; otherwise it derives the address
// of the configured keystore key. Command-line utilities use it to pick the
// account to report on.
func ResolveAddress(explicit string, cfg models.WalletConfig) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if !strings.HasPrefix(explicit, "0x") {
			return "", fmt.Errorf("address must start with 0x: %q", explicit)
		}
		return strings.ToLower(explicit), nil
	}

	zap.L().Info("No address given, using keystore",
		zap.String("keystore", cfg.KeystorePath),
		zap.Int("index", cfg.KeyIndex))

	keypair, err := wallet.LoadKeypair(cfg.KeystorePath, cfg.KeyIndex)
	if err != nil {
		return "", fmt.Errorf("no address given and keystore unavailable: %w", err)
	}
	return keypair.Address(), nil
}
