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

package api

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"anime-vault-go/internal/media"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/store"
)

var (
	ErrNotListed         = errors.New("nft is not currently listed")
	ErrAlreadyListed     = errors.New("nft is already listed")
	ErrNotOwner          = errors.New("connected wallet does not own this nft")
	ErrOperationInFlight = errors.New("another operation is already in progress for this nft")
	ErrObjectNotCreated  = errors.New("expected object not found in transaction changes")
	ErrNoImageStorage    = errors.New("image storage not configured")
)

// MirrorError reports a transaction that succeeded on chain but could not be
// recorded. The chain state is authoritative and is not rolled back.
type MirrorError struct {
	Op     string
	Digest string
	Err    error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("transaction %s confirmed on chain but %s failed: %v", e.Digest, e.Op, e.Err)
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}

// Signer is the connected wallet.
type Signer interface {
	Address() (string, bool)
	SignAndExecuteTransaction(ctx context.Context, tx *onechain.Transaction) (string, error)
}

// FinalityWaiter resolves a digest to its effects and object changes.
type FinalityWaiter interface {
	WaitForTransaction(ctx context.Context, digest string) (*onechain.TransactionBlockResponse, error)
}

type ServiceConfig struct {
	Store       store.NFTStore
	Images      media.ImageStore
	Wallet      Signer
	Chain       FinalityWaiter
	Contract    models.ContractConfig
	ExplorerURL string
	Metrics     *Metrics
}

// VaultService runs every user action: chain transaction, finality wait,
// repository mirror, then a fresh read.
type VaultService struct {
	store       store.NFTStore
	images      media.ImageStore
	wallet      Signer
	chain       FinalityWaiter
	contract    models.ContractConfig
	explorerURL string
	metrics     *Metrics

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewVaultService(cfg ServiceConfig) (*VaultService, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Wallet == nil {
		return nil, fmt.Errorf("wallet is required")
	}
	if cfg.Chain == nil {
		return nil, fmt.Errorf("chain client is required")
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &VaultService{
		store:       cfg.Store,
		images:      cfg.Images,
		wallet:      cfg.Wallet,
		chain:       cfg.Chain,
		contract:    cfg.Contract,
		explorerURL: cfg.ExplorerURL,
		metrics:     metrics,
		inflight:    make(map[string]struct{}),
	}, nil
}

func (s *VaultService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// acquire marks key busy until the returned release is called.
func (s *VaultService) acquire(key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return nil, ErrOperationInFlight
	}
	s.inflight[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}, nil
}

func (s *VaultService) txExplorerURL(digest string) string {
	if s.explorerURL == "" {
		return ""
	}
	return onechain.ExplorerURL(s.explorerURL, onechain.ExplorerTransaction, digest)
}

// submit signs and executes tx, then waits for finality.
func (s *VaultService) submit(ctx context.Context, tx *onechain.Transaction) (*onechain.TransactionBlockResponse, error) {
	digest, err := s.wallet.SignAndExecuteTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("unable to execute %s: %w", tx.Function, err)
	}

	resp, err := s.chain.WaitForTransaction(ctx, digest)
	if err != nil {
		return nil, fmt.Errorf("transaction %s did not reach finality: %w", digest, err)
	}
	if resp.Digest == "" {
		resp.Digest = digest
	}
	return resp, nil
}
