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

package onechain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"anime-vault-go/internal/models"

	"github.com/ybbus/jsonrpc/v3"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

var ErrExecutionFailed = errors.New("transaction execution failed")

// Client talks to a OneChain full node over JSON-RPC.
type Client struct {
	rpc        jsonrpc.RPCClient
	httpClient *http.Client
	cfg        models.ChainConfig
}

func NewClient(cfg models.ChainConfig) (*Client, error) {
	if cfg.RpcURL == "" {
		return nil, fmt.Errorf("rpc url cannot be empty")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.FinalityTimeout <= 0 {
		cfg.FinalityTimeout = 60 * time.Second
	}

	httpClient, err := createCustomHttpClient(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	rpc := jsonrpc.NewClientWithOpts(cfg.RpcURL, &jsonrpc.RPCClientOpts{
		HTTPClient: httpClient,
	})

	return &Client{rpc: rpc, httpClient: httpClient, cfg: cfg}, nil
}

func createCustomHttpClient(timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// Config returns the network settings the client was built with.
func (c *Client) Config() models.ChainConfig {
	return c.cfg
}

func (c *Client) gasBudget(budget uint64) string {
	if budget == 0 {
		budget = c.cfg.GasBudget
	}
	return strconv.FormatUint(budget, 10)
}

// BuildMoveCall asks the node to assemble transaction bytes for a single Move call.
func (c *Client) BuildMoveCall(ctx context.Context, sender string, tx *Transaction) (*TransactionBytes, error) {
	args := make([]any, len(tx.Arguments))
	for i, arg := range tx.Arguments {
		args[i] = arg.rpcValue()
	}

	zap.L().Debug("Building move call",
		zap.String("target", tx.Target()),
		zap.String("sender", sender),
		zap.Int("arguments", len(args)))

	var out TransactionBytes
	err := c.rpc.CallFor(ctx, &out, "unsafe_moveCall",
		sender, tx.PackageId, tx.Module, tx.Function, tx.TypeArguments, args, nil, c.gasBudget(tx.GasBudget))
	if err != nil {
		zap.L().Error("Failed to build move call", zap.String("target", tx.Target()), zap.Error(err))
		return nil, fmt.Errorf("unable to build %s: %w", tx.Function, err)
	}
	return &out, nil
}

// BuildPublish assembles a package publish. Modules are base64 encoded bytecode.
func (c *Client) BuildPublish(ctx context.Context, sender string, modules, dependencies []string, gasBudget uint64) (*TransactionBytes, error) {
	var out TransactionBytes
	err := c.rpc.CallFor(ctx, &out, "unsafe_publish", sender, modules, dependencies, nil, c.gasBudget(gasBudget))
	if err != nil {
		return nil, fmt.Errorf("unable to build publish: %w", err)
	}
	return &out, nil
}

// ExecuteTransaction submits signed transaction bytes and waits for local execution.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*TransactionBlockResponse, error) {
	var out TransactionBlockResponse
	err := c.rpc.CallFor(ctx, &out, "sui_executeTransactionBlock",
		txBytes, signatures, EffectsAndChanges, "WaitForLocalExecution")
	if err != nil {
		zap.L().Error("Failed to execute transaction", zap.Error(err))
		return nil, fmt.Errorf("unable to execute transaction: %w", err)
	}

	if err := checkEffects(&out); err != nil {
		return &out, err
	}

	zap.L().Info("Transaction executed", zap.String("digest", out.Digest))
	return &out, nil
}

func (c *Client) GetTransactionBlock(ctx context.Context, digest string, options ResponseOptions) (*TransactionBlockResponse, error) {
	var out TransactionBlockResponse
	if err := c.rpc.CallFor(ctx, &out, "sui_getTransactionBlock", digest, options); err != nil {
		return nil, fmt.Errorf("unable to get transaction %s: %w", digest, err)
	}
	return &out, nil
}

func (c *Client) GetBalance(ctx context.Context, owner string) (*models.Balance, error) {
	var out models.Balance
	if err := c.rpc.CallFor(ctx, &out, "suix_getBalance", owner); err != nil {
		return nil, fmt.Errorf("unable to get balance for %s: %w", owner, err)
	}
	return &out, nil
}

func (c *Client) GetObject(ctx context.Context, objectId string) (*ObjectResponse, error) {
	var out ObjectResponse
	options := map[string]bool{"showType": true, "showOwner": true}
	if err := c.rpc.CallFor(ctx, &out, "sui_getObject", objectId, options); err != nil {
		return nil, fmt.Errorf("unable to get object %s: %w", objectId, err)
	}
	return &out, nil
}

func (c *Client) GetLatestCheckpointSequenceNumber(ctx context.Context) (uint64, error) {
	var out string
	if err := c.rpc.CallFor(ctx, &out, "sui_getLatestCheckpointSequenceNumber"); err != nil {
		return 0, fmt.Errorf("unable to get latest checkpoint: %w", err)
	}
	seq, err := strconv.ParseUint(out, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid checkpoint sequence %q: %w", out, err)
	}
	return seq, nil
}

func checkEffects(resp *TransactionBlockResponse) error {
	if resp.Effects == nil || resp.Succeeded() {
		return nil
	}
	return fmt.Errorf("%w: %s (digest %s)", ErrExecutionFailed, resp.Effects.Status.Error, resp.Digest)
}
