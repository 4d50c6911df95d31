package onechain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// WaitForTransaction polls until the node can return the transaction with
// effects and object changes, or until the finality timeout elapses.
func (c *Client) WaitForTransaction(ctx context.Context, digest string) (*TransactionBlockResponse, error) {
	if digest == "" {
		return nil, fmt.Errorf("transaction digest cannot be empty")
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.FinalityTimeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	started := time.Now()
	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := c.GetTransactionBlock(waitCtx, digest, EffectsAndChanges)
		if err == nil && resp.Digest != "" && resp.Effects != nil {
			zap.L().Info("Transaction confirmed",
				zap.String("digest", digest),
				zap.Int("attempts", attempt),
				zap.Duration("elapsed", time.Since(started)))
			return resp, checkEffects(resp)
		}
		if err != nil {
			lastErr = err
			zap.L().Debug("Transaction not yet available",
				zap.String("digest", digest),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("timed out waiting for transaction %s: %w", digest, errors.Join(waitCtx.Err(), lastErr))
		case <-ticker.C:
		}
	}
}
