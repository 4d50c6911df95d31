package database

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

	tx := &models.NFTTransaction{
		Id:           uuid.New().String(),
		NFTObjectId:  params.NFTObjectId,
		Type:         params.Type,
		TxDigest:     params.TxDigest,
		ActorAddress: params.ActorAddress,
		PriceOct:     params.PriceOct,
		CreatedAt:    s.now(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertTransaction,
		tx.Id, tx.NFTObjectId, string(tx.Type), tx.TxDigest, tx.ActorAddress, tx.PriceOct, tx.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			zap.L().Info("Duplicate transaction detected",
				zap.String("tx_digest", params.TxDigest),
				zap.String("type", string(params.Type)))
			return nil, fmt.Errorf("%s %s: %w", params.Type, params.TxDigest, store.ErrDuplicateTransaction)
		}
		zap.L().Error("Failed to insert transaction", zap.String("tx_digest", params.TxDigest), zap.Error(err))
		return nil, fmt.Errorf("unable to insert transaction: %w", err)
	}

	zap.L().Info("Transaction logged",
		zap.String("nft_object_id", tx.NFTObjectId),
		zap.String("type", string(tx.Type)),
		zap.String("tx_digest", tx.TxDigest),
		zap.String("actor", tx.ActorAddress))
	return tx, nil
}

func (s *Service) GetNFTTransactions(ctx context.Context, objectId string) ([]models.NFTTransaction, error) {
	return s.listTransactions(ctx, queryGetNFTTransactions, objectId)
}

func (s *Service) GetTransactionsForAddress(ctx context.Context, address string) ([]models.NFTTransaction, error) {
	return s.listTransactions(ctx, queryGetTransactionsForAddress, address)
}

func (s *Service) listTransactions(ctx context.Context, query, key string) ([]models.NFTTransaction, error) {
	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		zap.L().Error("Failed to query transactions", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unable to query transactions: %w", err)
	}
	defer closeRows(rows)

	transactions := []models.NFTTransaction{}
	for rows.Next() {
		var tx models.NFTTransaction
		err := rows.Scan(&tx.Id, &tx.NFTObjectId, &tx.Type, &tx.TxDigest, &tx.ActorAddress, &tx.PriceOct, &tx.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}
