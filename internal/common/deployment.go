package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"anime-vault-go/internal/config"
	"anime-vault-go/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

func resolvePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, file), nil
}

// LoadDeploymentInfo reads the artifact written by cmd/deploy. JSON and YAML
// are both accepted.
func LoadDeploymentInfo(deploymentFile string) (*models.DeploymentInfo, error) {
	path, err := resolvePath(deploymentFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", deploymentFile, err)
	}

	var info models.DeploymentInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", deploymentFile, err)
	}

	if info.PackageId == "" {
		return nil, fmt.Errorf("%s missing packageId", deploymentFile)
	}

	return &info, nil
}

// WriteDeploymentInfo writes info as YAML when the file name ends in .yaml or
// .yml and as indented JSON otherwise.
func WriteDeploymentInfo(deploymentFile string, info *models.DeploymentInfo) error {
	path, err := resolvePath(deploymentFile)
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(info)
	default:
		data, err = json.MarshalIndent(info, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("unable to encode deployment info: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", deploymentFile, err)
	}
	return nil
}

// ResolveContract fills every contract id the environment left empty, first
// from the deployment file and then from the built-in testnet deployment.
func ResolveContract(env models.ContractConfig) (models.ContractConfig, error) {
	resolved := env

	if env.DeploymentFile != "" {
		info, err := LoadDeploymentInfo(env.DeploymentFile)
		switch {
		case err == nil:
			zap.L().Info("Loaded deployment info",
				zap.String("file", env.DeploymentFile),
				zap.String("package_id", info.PackageId),
				zap.String("network", info.Network))
			resolved = mergeContract(resolved, contractFromDeployment(info))
		case errors.Is(err, fs.ErrNotExist):
			zap.L().Debug("No deployment info file", zap.String("file", env.DeploymentFile))
		default:
			return models.ContractConfig{}, err
		}
	}

	return mergeContract(resolved, config.DefaultContract()), nil
}

func contractFromDeployment(info *models.DeploymentInfo) models.ContractConfig {
	return models.ContractConfig{
		PackageId:             info.PackageId,
		Module:                info.ModuleName,
		NftCountId:            info.NftCountId,
		LandRegistryId:        info.LandRegistryId,
		LandRegistryAddressId: info.LandRegistryAddressId,
	}
}

func mergeContract(c, fallback models.ContractConfig) models.ContractConfig {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.PackageId, fallback.PackageId)
	fill(&c.Module, fallback.Module)
	fill(&c.NftCountId, fallback.NftCountId)
	fill(&c.LandRegistryId, fallback.LandRegistryId)
	fill(&c.LandRegistryAddressId, fallback.LandRegistryAddressId)
	fill(&c.NFTStructName, fallback.NFTStructName)
	fill(&c.ListingStructName, fallback.ListingStructName)
	return c
}
