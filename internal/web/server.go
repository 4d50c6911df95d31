package web

import (
	"context"
	"net/http"
	"time"

	"anime-vault-go/internal/api"
	"anime-vault-go/internal/marketplace"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/tokenize"
	"anime-vault-go/internal/wallet"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultMaxUploadBytes = 32 << 20

// Vault is the set of user actions served over HTTP.
type Vault interface {
	HealthCheck(ctx context.Context) error
	Mint(ctx context.Context, draft tokenize.Draft) (*models.MintResult, error)
	ListForSale(ctx context.Context, objectId string, price decimal.Decimal) (*models.ListResult, error)
	Purchase(ctx context.Context, objectId string) (*models.PurchaseResult, error)
	Marketplace(ctx context.Context, filter marketplace.Filter, order marketplace.SortOrder) ([]models.NFT, error)
	NFTDetail(ctx context.Context, id string) (*models.NFTDetail, error)
	Dashboard(ctx context.Context, address string, query api.DashboardQuery) (*models.Dashboard, error)
}

type WalletController interface {
	ConnectWallet(ctx context.Context) error
	DisconnectWallet(ctx context.Context) error
	State() wallet.State
	Subscribe() (<-chan wallet.State, func())
}

type Faucet interface {
	RequestFaucet(ctx context.Context, address string) (*onechain.FaucetResponse, error)
}

type Config struct {
	Vault  Vault
	Wallet WalletController
	Faucet Faucet
	// Metrics is served on /metrics when set.
	Metrics        http.Handler
	MaxUploadBytes int64
}

type Server struct {
	router         *mux.Router
	vault          Vault
	wallet         WalletController
	faucet         Faucet
	maxUploadBytes int64
}

func NewServer(cfg Config) *Server {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	s := &Server{
		router:         mux.NewRouter(),
		vault:          cfg.Vault,
		wallet:         cfg.Wallet,
		faucet:         cfg.Faucet,
		maxUploadBytes: maxUpload,
	}
	s.routes(cfg.Metrics)
	return s
}

func (s *Server) routes(metrics http.Handler) {
	r := s.router
	r.Use(logRequests)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	apiRouter.HandleFunc("/wallet", s.handleWalletState).Methods(http.MethodGet)
	apiRouter.HandleFunc("/wallet/connect", s.handleWalletConnect).Methods(http.MethodPost)
	apiRouter.HandleFunc("/wallet/disconnect", s.handleWalletDisconnect).Methods(http.MethodPost)
	apiRouter.HandleFunc("/wallet/events", s.handleWalletEvents).Methods(http.MethodGet)

	apiRouter.HandleFunc("/tokenize/validate", s.handleValidate).Methods(http.MethodPost)
	apiRouter.HandleFunc("/tokenize/mint", s.handleMint).Methods(http.MethodPost)

	apiRouter.HandleFunc("/marketplace", s.handleMarketplace).Methods(http.MethodGet)
	apiRouter.HandleFunc("/nfts/{id}", s.handleNFTDetail).Methods(http.MethodGet)
	apiRouter.HandleFunc("/nfts/{id}/list", s.handleList).Methods(http.MethodPost)
	apiRouter.HandleFunc("/nfts/{id}/purchase", s.handlePurchase).Methods(http.MethodPost)

	apiRouter.HandleFunc("/dashboard/{address}", s.handleDashboard).Methods(http.MethodGet)
	apiRouter.HandleFunc("/faucet", s.handleFaucet).Methods(http.MethodPost)

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/wallet/events" {
			// the websocket upgrade needs the raw http.Hijacker
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		zap.L().Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
