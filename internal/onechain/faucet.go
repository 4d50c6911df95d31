package onechain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type faucetRequest struct {
	FixedAmountRequest struct {
		Recipient string `json:"recipient"`
	} `json:"FixedAmountRequest"`
}

// RequestFaucet asks the testnet faucet to send gas coins to address.
func (c *Client) RequestFaucet(ctx context.Context, address string) (*FaucetResponse, error) {
	if c.cfg.FaucetURL == "" {
		return nil, fmt.Errorf("faucet url not configured")
	}

	var body faucetRequest
	body.FixedAmountRequest.Recipient = address
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("unable to encode faucet request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.FaucetURL, "/") + "/gas"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("unable to create faucet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	zap.L().Info("Requesting faucet tokens", zap.String("address", address), zap.String("faucet", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("faucet request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close faucet response body", zap.Error(err))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read faucet response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("faucet returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var out FaucetResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to decode faucet response: %w", err)
	}
	if out.Error != nil && *out.Error != "" {
		return &out, fmt.Errorf("faucet error: %s", *out.Error)
	}

	return &out, nil
}
