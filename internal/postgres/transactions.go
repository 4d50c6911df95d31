package postgres

import (
	"context"
	"fmt"

	"anime-vault-go/internal/models"
	"anime-vault-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) LogTransaction(ctx context.Context, params store.LogTransactionParams) (*models.NFTTransaction, error) {
	if params.TxDigest == "" {
		return nil, fmt.Errorf("transaction digest cannot be empty")
	}

	var tx models.NFTTransaction
	err := s.db.GetContext(ctx, &tx, queryInsertTransaction,
		uuid.New().String(), params.NFTObjectId, string(params.Type), params.TxDigest,
		params.ActorAddress, params.PriceOct, now())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s %s: %w", params.Type, params.TxDigest, store.ErrDuplicateTransaction)
		}
		zap.L().Error("Failed to insert transaction", zap.String("tx_digest", params.TxDigest), zap.Error(err))
		return nil, fmt.Errorf("unable to insert transaction: %w", err)
	}

	zap.L().Info("Transaction logged",
		zap.String("nft_object_id", tx.NFTObjectId),
		zap.String("type", string(tx.Type)),
		zap.String("tx_digest", tx.TxDigest))
	return &tx, nil
}

func (s *Service) GetNFTTransactions(ctx context.Context, objectId string) ([]models.NFTTransaction, error) {
	transactions := []models.NFTTransaction{}
	if err := s.db.SelectContext(ctx, &transactions, queryGetNFTTransactions, objectId); err != nil {
		return nil, fmt.Errorf("unable to query nft transactions: %w", err)
	}
	return transactions, nil
}

func (s *Service) GetTransactionsForAddress(ctx context.Context, address string) ([]models.NFTTransaction, error) {
	transactions := []models.NFTTransaction{}
	if err := s.db.SelectContext(ctx, &transactions, queryGetTransactionsForAddress, address); err != nil {
		return nil, fmt.Errorf("unable to query address transactions: %w", err)
	}
	return transactions, nil
}
