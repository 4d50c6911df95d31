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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"anime-vault-go/internal/models"
)

const (
	DefaultRpcURL      = "https://rpc-testnet.onelabs.cc:443"
	DefaultFaucetURL   = "https://faucet-testnet.onelabs.cc:443"
	DefaultExplorerURL = "https://onescan.cc/testnet"
	DefaultGasBudget   = 100_000_000
)

// DefaultContract returns the testnet deployment used when neither the
// environment nor a deployment-info file provides ids.
func DefaultContract() models.ContractConfig {
	return models.ContractConfig{
		PackageId:             "0x02c23edcb0cc861f892d22776d83e21e5b6a953c17e6b2011b5721b608c6fc64",
		Module:                "animetranferprotocolnew",
		NftCountId:            "0x801f449ccb8d78ff3b8cdd20824806aff8d866087bc0faafdca365309d602d52",
		LandRegistryId:        "0x9c125a32b0f1645361d112b62baab2ae25cecce732bb0b539dbbb7fb1bf7d5ae",
		LandRegistryAddressId: "0xe738a6a7bd81fbe533b363bb5efcd726b3afea1a2107d3667319062c520a173b",
		NFTStructName:         "LandData",
		ListingStructName:     "Listing",
	}
}

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getEnvDuration("ONECHAIN_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	finalityTimeout, err := getEnvDuration("ONECHAIN_FINALITY_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	pollInterval, err := getEnvDuration("ONECHAIN_POLL_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	gasBudget, err := getEnvUint64("ONECHAIN_GAS_BUDGET", DefaultGasBudget)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Backend:         getEnvString("STORE_BACKEND", "sqlite"),
			Path:            getEnvString("DATABASE_PATH", "animevault.db"),
			URL:             getEnvString("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Chain: models.ChainConfig{
			Network:         getEnvString("ONECHAIN_NETWORK", "testnet"),
			RpcURL:          getEnvString("ONECHAIN_RPC_URL", DefaultRpcURL),
			FaucetURL:       getEnvString("ONECHAIN_FAUCET_URL", DefaultFaucetURL),
			ExplorerURL:     getEnvString("ONECHAIN_EXPLORER_URL", DefaultExplorerURL),
			RequestTimeout:  requestTimeout,
			FinalityTimeout: finalityTimeout,
			PollInterval:    pollInterval,
			GasBudget:       gasBudget,
		},
		// Contract ids left empty here are filled from the deployment file, then defaults.
		Contract: models.ContractConfig{
			PackageId:             getEnvString("PACKAGE_ID", ""),
			Module:                getEnvString("MODULE_NAME", ""),
			NftCountId:            getEnvString("NFT_COUNT_ID", ""),
			LandRegistryId:        getEnvString("LAND_REGISTRY_ID", ""),
			LandRegistryAddressId: getEnvString("LAND_REGISTRY_ADDRESS_ID", ""),
			NFTStructName:         getEnvString("NFT_STRUCT_NAME", ""),
			ListingStructName:     getEnvString("LISTING_STRUCT_NAME", ""),
			DeploymentFile:        getEnvString("DEPLOYMENT_INFO", "deployment-info.json"),
		},
		Storage: models.StorageConfig{
			Backend:            getEnvString("STORAGE_BACKEND", "supabase"),
			SupabaseURL:        getEnvString("SUPABASE_URL", ""),
			SupabaseAnonKey:    getEnvString("SUPABASE_ANON_KEY", ""),
			Bucket:             getEnvString("STORAGE_BUCKET", "images"),
			PathPrefix:         getEnvString("STORAGE_PATH_PREFIX", "merchandise"),
			GCSBucket:          getEnvString("GCS_BUCKET", ""),
			GCSCredentialsFile: getEnvString("GCS_CREDENTIALS_FILE", ""),
		},
		Wallet: models.WalletConfig{
			Name:         getEnvString("WALLET_NAME", "OneWallet"),
			KeystorePath: getEnvString("ONECHAIN_KEYSTORE", defaultKeystorePath()),
			KeyIndex:     getEnvInt("ONECHAIN_KEY_INDEX", 0),
		},
		Server: models.ServerConfig{
			Address:         getEnvString("SERVER_ADDRESS", ":8080"),
			MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
			ShutdownTimeout: shutdownTimeout,
		},
	}, nil
}

func defaultKeystorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sui.keystore"
	}
	return home + "/.sui/sui_config/sui.keystore"
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvUint64(key string, defaultValue uint64) (uint64, error) {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid unsigned integer for %s: %q (%w)", key, value, err)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
