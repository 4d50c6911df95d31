package models

// DeploymentInfo is the artifact written by the deploy tool
type DeploymentInfo struct {
	PackageId             string `yaml:"packageId" json:"packageId"`
	NftCountId            string `yaml:"nftCountId" json:"nftCountId"`
	LandRegistryId        string `yaml:"landRegistryId" json:"landRegistryId"`
	LandRegistryAddressId string `yaml:"landRegistryAddressId" json:"landRegistryAddressId"`
	MarketplaceId         string `yaml:"marketplaceId,omitempty" json:"marketplaceId,omitempty"`
	MarketplaceCapId      string `yaml:"marketplaceCapId,omitempty" json:"marketplaceCapId,omitempty"`
	ModuleName            string `yaml:"moduleName" json:"moduleName"`
	DeploymentTx          string `yaml:"deploymentTx" json:"deploymentTx"`
	DeployerAddress       string `yaml:"deployerAddress" json:"deployerAddress"`
	Network               string `yaml:"network" json:"network"`
	RpcURL                string `yaml:"rpcUrl" json:"rpcUrl"`
	DeployedAt            string `yaml:"deployedAt" json:"deployedAt"`
}

// Balance is an address's coin balance in the smallest unit
type Balance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}
