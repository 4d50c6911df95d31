package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anime-vault-go/internal/models"
	"anime-vault-go/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.NFTStore.
var _ store.NFTStore = (*Service)(nil)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Service implements store.NFTStore against a hosted Postgres database
// (for example the database behind a Supabase project).
type Service struct {
	db *sqlx.DB
}

// NewService connects, applies pool limits and creates the tables if they do not exist.
func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres backend requires DATABASE_URL")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}

	zap.L().Info("Connecting to Postgres")

	connectCtx := ctx
	if cfg.PingTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.PingTimeout)
		defer cancel()
	}

	db, err := sqlx.ConnectContext(connectCtx, "postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	service := &Service{db: db}
	if err := service.initSchema(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close postgres after schema failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Postgres service initialized successfully")
	return service, nil
}

func (s *Service) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close postgres connection", zap.Error(err))
	}
}

func now() time.Time {
	return time.Now().UTC()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
