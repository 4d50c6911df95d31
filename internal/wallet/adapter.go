package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"anime-vault-go/internal/onechain"

	"go.uber.org/zap"
)

var (
	ErrWalletNotFound       = errors.New("OneWallet not found. Please install the OneChain wallet extension.")
	ErrNotConnected         = errors.New("wallet not connected")
	ErrConnectionInProgress = errors.New("wallet connection already in progress")
	ErrAdapterClosed        = errors.New("wallet adapter closed")
	ErrConnectionCancelled  = errors.New("wallet disconnected before the connection completed")
)

// DefaultNamePatterns match the supported wallet by case-insensitive substring.
var DefaultNamePatterns = []string{"onewallet", "onechain"}

// Account is a connected address.
type Account struct {
	Address   string
	PublicKey []byte
}

// Wallet is an installed wallet implementation.
type Wallet interface {
	Name() string
	Connect(ctx context.Context) (Account, error)
	Disconnect(ctx context.Context) error
	SignTransaction(ctx context.Context, account Account, txBytes string) (string, error)
}

// TransactionSubmitter builds and executes transactions on behalf of the connected account.
type TransactionSubmitter interface {
	BuildMoveCall(ctx context.Context, sender string, tx *onechain.Transaction) (*onechain.TransactionBytes, error)
	ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*onechain.TransactionBlockResponse, error)
}

// State is a snapshot of the connection.
type State struct {
	Connected  bool   `json:"connected"`
	Connecting bool   `json:"connecting"`
	Address    string `json:"address,omitempty"`
	WalletName string `json:"wallet_name,omitempty"`
}

type AdapterConfig struct {
	Wallets      []Wallet
	Submitter    TransactionSubmitter
	NamePatterns []string
}

// Adapter holds the process-wide wallet connection. It is mutated only by
// ConnectWallet and DisconnectWallet; readers use State or Subscribe.
type Adapter struct {
	mu         sync.RWMutex
	wallets    []Wallet
	submitter  TransactionSubmitter
	patterns   []string
	active     Wallet
	account    *Account
	connecting bool
	closed     bool
	// generation changes on every disconnect; a connect started under an
	// older generation is discarded when it completes.
	generation uint64

	subMu       sync.Mutex
	subscribers map[int]chan State
	nextSub     int
}

func NewAdapter(cfg AdapterConfig) *Adapter {
	patterns := cfg.NamePatterns
	if len(patterns) == 0 {
		patterns = DefaultNamePatterns
	}
	return &Adapter{
		wallets:     cfg.Wallets,
		submitter:   cfg.Submitter,
		patterns:    patterns,
		subscribers: make(map[int]chan State),
	}
}

func (a *Adapter) findWallet() Wallet {
	for _, w := range a.wallets {
		name := strings.ToLower(w.Name())
		for _, pattern := range a.patterns {
			if strings.Contains(name, pattern) {
				return w
			}
		}
	}
	return nil
}

// ConnectWallet connects the supported wallet. Calling it while connected is a no-op.
func (a *Adapter) ConnectWallet(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrAdapterClosed
	}
	if a.account != nil {
		a.mu.Unlock()
		return nil
	}
	if a.connecting {
		a.mu.Unlock()
		return ErrConnectionInProgress
	}
	w := a.findWallet()
	if w == nil {
		a.mu.Unlock()
		zap.L().Warn("No supported wallet installed", zap.Int("installed", len(a.wallets)))
		return ErrWalletNotFound
	}
	a.connecting = true
	generation := a.generation
	a.mu.Unlock()
	a.publish()

	account, err := w.Connect(ctx)

	a.mu.Lock()
	cancelled := a.generation != generation
	if !cancelled {
		a.connecting = false
		if err == nil {
			a.active = w
			a.account = &account
		}
	}
	a.mu.Unlock()

	if cancelled {
		zap.L().Info("Discarded wallet connection after disconnect", zap.String("wallet", w.Name()))
		return ErrConnectionCancelled
	}
	a.publish()

	if err != nil {
		zap.L().Error("Wallet connection failed", zap.String("wallet", w.Name()), zap.Error(err))
		return fmt.Errorf("unable to connect %s: %w", w.Name(), err)
	}

	zap.L().Info("Wallet connected", zap.String("wallet", w.Name()), zap.String("address", account.Address))
	return nil
}

// DisconnectWallet clears the session and abandons any connect in flight.
func (a *Adapter) DisconnectWallet(ctx context.Context) error {
	a.mu.Lock()
	w := a.active
	wasConnecting := a.connecting
	a.generation++
	a.active = nil
	a.account = nil
	a.connecting = false
	a.mu.Unlock()

	if w == nil {
		if wasConnecting {
			a.publish()
		}
		return nil
	}
	a.publish()

	if err := w.Disconnect(ctx); err != nil {
		zap.L().Warn("Wallet disconnect reported an error", zap.String("wallet", w.Name()), zap.Error(err))
	}
	zap.L().Info("Wallet disconnected", zap.String("wallet", w.Name()))
	return nil
}

func (a *Adapter) Address() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.account == nil {
		return "", false
	}
	return a.account.Address, true
}

func (a *Adapter) IsConnected() bool {
	_, ok := a.Address()
	return ok
}

func (a *Adapter) IsConnecting() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.connecting
}

func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	state := State{Connecting: a.connecting}
	if a.account != nil {
		state.Connected = true
		state.Address = a.account.Address
		state.WalletName = a.active.Name()
	}
	return state
}

// Subscribe returns a channel receiving the latest state after every change.
// Slow readers only ever see the most recent state.
func (a *Adapter) Subscribe() (<-chan State, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	ch := make(chan State, 1)
	if a.subscribers == nil {
		close(ch)
		return ch, func() {}
	}

	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = ch
	ch <- a.State()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subMu.Lock()
			defer a.subMu.Unlock()
			if sub, ok := a.subscribers[id]; ok {
				delete(a.subscribers, id)
				close(sub)
			}
		})
	}
}

func (a *Adapter) publish() {
	state := a.State()

	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subscribers {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

// SignAndExecuteTransaction builds tx for the connected sender, signs it with
// the connected wallet and submits it. It returns the transaction digest.
func (a *Adapter) SignAndExecuteTransaction(ctx context.Context, tx *onechain.Transaction) (string, error) {
	a.mu.RLock()
	w, account := a.active, a.account
	a.mu.RUnlock()

	if account == nil {
		return "", ErrNotConnected
	}
	if a.submitter == nil {
		return "", fmt.Errorf("no transaction submitter configured")
	}

	built, err := a.submitter.BuildMoveCall(ctx, account.Address, tx)
	if err != nil {
		return "", err
	}

	signature, err := w.SignTransaction(ctx, *account, built.TxBytes)
	if err != nil {
		return "", fmt.Errorf("unable to sign %s: %w", tx.Function, err)
	}

	resp, err := a.submitter.ExecuteTransaction(ctx, built.TxBytes, []string{signature})
	if err != nil {
		return "", err
	}

	zap.L().Info("Transaction submitted",
		zap.String("function", tx.Function),
		zap.String("sender", account.Address),
		zap.String("digest", resp.Digest))
	return resp.Digest, nil
}

// Close disconnects and ends every subscription.
func (a *Adapter) Close() {
	if err := a.DisconnectWallet(context.Background()); err != nil {
		zap.L().Warn("Failed to disconnect wallet on close", zap.Error(err))
	}

	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.subMu.Lock()
	defer a.subMu.Unlock()
	for id, ch := range a.subscribers {
		close(ch)
		delete(a.subscribers, id)
	}
	a.subscribers = nil
}
