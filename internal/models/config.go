package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Chain    ChainConfig
	Contract ContractConfig
	Storage  StorageConfig
	Wallet   WalletConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Backend         string // "sqlite" or "postgres"
	Path            string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ChainConfig holds OneChain network endpoints and timing
type ChainConfig struct {
	Network         string
	RpcURL          string
	FaucetURL       string
	ExplorerURL     string
	RequestTimeout  time.Duration
	FinalityTimeout time.Duration
	PollInterval    time.Duration
	GasBudget       uint64
}

// ContractConfig identifies the deployed Move package and its shared objects
type ContractConfig struct {
	PackageId             string
	Module                string
	NftCountId            string
	LandRegistryId        string
	LandRegistryAddressId string
	NFTStructName         string
	ListingStructName     string
	DeploymentFile        string
}

// Configured reports whether the ids needed for minting are present
func (c ContractConfig) Configured() bool {
	return c.PackageId != "" && c.Module != "" && c.NftCountId != "" &&
		c.LandRegistryId != "" && c.LandRegistryAddressId != ""
}

// StorageConfig holds image storage settings
type StorageConfig struct {
	Backend            string // "supabase" or "gcs"
	SupabaseURL        string
	SupabaseAnonKey    string
	Bucket             string
	PathPrefix         string
	GCSBucket          string
	GCSCredentialsFile string
}

// WalletConfig points at the signing key used by the local wallet
type WalletConfig struct {
	Name         string
	KeystorePath string
	KeyIndex     int
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Address         string
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}
