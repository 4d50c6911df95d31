package common

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"anime-vault-go/internal/api"
	"anime-vault-go/internal/database"
	"anime-vault-go/internal/media"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/postgres"
	"anime-vault-go/internal/store"
	"anime-vault-go/internal/wallet"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store    store.NFTStore
	Chain    *onechain.Client
	Wallet   *wallet.Adapter
	Images   media.ImageStore
	Vault    *api.VaultService
	Registry *prometheus.Registry
	Contract models.ContractConfig

	closers []io.Closer
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices builds everything the server and the write CLIs need.
// The wallet starts disconnected.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	contract, err := ResolveContract(cfg.Contract)
	if err != nil {
		return nil, err
	}
	zap.L().Info("Using contract",
		zap.String("package_id", contract.PackageId),
		zap.String("module", contract.Module))

	nftStore, err := InitializeStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	services := &Services{Store: nftStore, Contract: contract}

	chain, err := onechain.NewClient(cfg.Chain)
	if err != nil {
		services.Close()
		return nil, fmt.Errorf("unable to create chain client: %w", err)
	}
	services.Chain = chain

	images, err := InitializeImageStore(ctx, cfg.Storage, cfg.Chain)
	if err != nil {
		services.Close()
		return nil, err
	}
	services.Images = images
	if closer, ok := images.(io.Closer); ok {
		services.closers = append(services.closers, closer)
	}

	services.Wallet = InitializeWallet(cfg.Wallet, chain)

	services.Registry = prometheus.NewRegistry()
	services.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	vault, err := api.NewVaultService(api.ServiceConfig{
		Store:       nftStore,
		Images:      images,
		Wallet:      services.Wallet,
		Chain:       chain,
		Contract:    contract,
		ExplorerURL: cfg.Chain.ExplorerURL,
		Metrics:     api.NewMetrics(services.Registry),
	})
	if err != nil {
		services.Close()
		return nil, err
	}
	services.Vault = vault

	return services, nil
}

// InitializeStore opens the configured repository backend. Useful on its own
// for read-only commands.
func InitializeStore(ctx context.Context, cfg models.DatabaseConfig) (store.NFTStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "sqlite":
		return database.NewService(ctx, cfg)
	case "postgres":
		return postgres.NewService(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// InitializeImageStore returns nil without error when Supabase is selected
// but not configured; minting then fails with a clear message.
func InitializeImageStore(ctx context.Context, cfg models.StorageConfig, chain models.ChainConfig) (media.ImageStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "supabase":
		if cfg.SupabaseURL == "" {
			zap.L().Warn("Image storage not configured, minting is disabled")
			return nil, nil
		}
		images, err := media.NewSupabaseStore(cfg, chain.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("unable to create supabase storage: %w", err)
		}
		return images, nil
	case "gcs":
		images, err := media.NewGCSStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("unable to create gcs storage: %w", err)
		}
		return images, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// InitializeWallet registers the keystore wallet under the configured name.
// A missing keystore leaves the adapter with no wallets, so connecting
// reports the wallet as not installed.
func InitializeWallet(cfg models.WalletConfig, submitter wallet.TransactionSubmitter) *wallet.Adapter {
	var wallets []wallet.Wallet

	keypair, err := wallet.LoadKeypair(cfg.KeystorePath, cfg.KeyIndex)
	if err != nil {
		zap.L().Warn("No signing key available",
			zap.String("keystore", cfg.KeystorePath),
			zap.Error(err))
	} else {
		wallets = append(wallets, wallet.NewKeystoreWallet(cfg.Name, keypair))
		zap.L().Info("Loaded wallet",
			zap.String("name", cfg.Name),
			zap.String("address", keypair.Address()))
	}

	return wallet.NewAdapter(wallet.AdapterConfig{
		Wallets:   wallets,
		Submitter: submitter,
	})
}

func (cs *Services) Close() {
	if cs.Wallet != nil {
		cs.Wallet.Close()
	}
	for _, closer := range cs.closers {
		if err := closer.Close(); err != nil {
			zap.L().Warn("Failed to close resource", zap.Error(err))
		}
	}
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
