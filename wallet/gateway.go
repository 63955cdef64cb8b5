package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// WalletState is the single shared piece of wallet state. It is owned by the
// Gateway and mutated only through gateway operations and the two provider
// notifications.
type WalletState struct {
	Address          string `json:"address"`
	Balance          string `json:"balance"`
	IsConnected      bool   `json:"isConnected"`
	IsCorrectNetwork bool   `json:"isCorrectNetwork"`
}

func emptyWalletState() WalletState {
	return WalletState{Balance: "0"}
}

// Gateway mediates every wallet interaction. It is an injectable object, not a
// package singleton; construct one per process and Close it on shutdown so the
// provider subscriptions are deregistered.
type Gateway struct {
	provider Provider
	chain    ChainParams

	mu    sync.RWMutex
	state WalletState

	unsubOnce   sync.Once
	unsubscribe func()
}

func NewGateway(provider Provider, chain ChainParams) *Gateway {
	g := &Gateway{
		provider: provider,
		chain:    chain,
		state:    emptyWalletState(),
	}
	if provider != nil {
		g.unsubscribe = provider.Subscribe(NotificationHandlers{
			AccountsChanged: g.handleAccountsChanged,
			ChainChanged:    g.handleChainChanged,
		})
	}
	return g
}

// Close deregisters the provider notification handlers. Safe to call more
// than once.
func (g *Gateway) Close() {
	g.unsubOnce.Do(func() {
		if g.unsubscribe != nil {
			g.unsubscribe()
		}
	})
}

// State returns a copy of the current wallet state.
func (g *Gateway) State() WalletState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Connect requests account access, ensures the provider sits on the expected
// chain (switching, and registering the chain first when the provider does not
// know it), and loads the first account's balance into the wallet state.
// Provider rejections propagate unchanged.
func (g *Gateway) Connect(ctx context.Context) (string, error) {
	if g.provider == nil {
		return "", ErrProviderUnavailable
	}

	accounts, err := g.provider.RequestAccounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}
	address := accounts[0]

	chainID, err := g.provider.ChainID(ctx)
	if err != nil {
		return "", err
	}
	if chainID != g.chain.ChainID {
		if err := g.switchToExpectedChain(ctx); err != nil {
			return "", err
		}
	}

	balance, err := g.provider.BalanceAt(ctx, address)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	g.state = WalletState{
		Address:          address,
		Balance:          FromMinimalUnit(balance, g.decimals()),
		IsConnected:      true,
		IsCorrectNetwork: true,
	}
	g.mu.Unlock()

	log.Info().Str("address", address).Str("chain", g.chain.ChainID).Msg("wallet connected")
	return address, nil
}

// Resume restores an existing wallet session without prompting: the provider
// is asked for already-authorized accounts and the connect sequence runs only
// when one exists. No account means no session; that is not an error.
func (g *Gateway) Resume(ctx context.Context) (bool, error) {
	if g.provider == nil {
		return false, nil
	}
	accounts, err := g.provider.Accounts(ctx)
	if err != nil {
		return false, err
	}
	if len(accounts) == 0 {
		return false, nil
	}
	if _, err := g.Connect(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (g *Gateway) switchToExpectedChain(ctx context.Context) error {
	err := g.provider.SwitchChain(ctx, g.chain.ChainID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUnknownChain) {
		return err
	}
	// Provider has never seen this chain: register it, then switch again.
	if err := g.provider.AddChain(ctx, g.chain); err != nil {
		return err
	}
	return g.provider.SwitchChain(ctx, g.chain.ChainID)
}

// Sign requests a signature over an opaque text payload from the connected
// account. The signature is an authentication gesture only; it is neither
// verified nor persisted here.
func (g *Gateway) Sign(ctx context.Context, message string) (string, error) {
	g.mu.RLock()
	address := g.state.Address
	connected := g.state.IsConnected
	g.mu.RUnlock()

	if g.provider == nil || !connected {
		return "", ErrNotConnected
	}
	return g.provider.SignMessage(ctx, address, message)
}

// Send normalizes the recipient to its checksummed form, converts the amount
// from token units to the chain's minimal unit and submits a value transfer.
func (g *Gateway) Send(ctx context.Context, to, amount string) (*TxHandle, error) {
	g.mu.RLock()
	from := g.state.Address
	connected := g.state.IsConnected
	g.mu.RUnlock()

	if g.provider == nil || !connected {
		return nil, ErrNotConnected
	}

	checksummed, err := ChecksumAddress(to)
	if err != nil {
		return nil, err
	}

	value, err := ToMinimalUnit(amount, g.decimals())
	if err != nil {
		return nil, err
	}

	return g.provider.SendTransaction(ctx, from, checksummed, value)
}

// AwaitConfirmation suspends until the provider reports the transaction mined
// and returns the terminal outcome. No internal timeout is applied; pass a
// cancellable ctx if the caller wants one.
func (g *Gateway) AwaitConfirmation(ctx context.Context, handle *TxHandle) (bool, error) {
	if g.provider == nil {
		return false, ErrProviderUnavailable
	}
	receipt, err := g.provider.WaitMined(ctx, handle.Hash)
	if err != nil {
		return false, err
	}
	return receipt.Succeeded, nil
}

// RefreshBalance re-queries and overwrites the balance for the current
// address. No-op while disconnected.
func (g *Gateway) RefreshBalance(ctx context.Context) error {
	g.mu.RLock()
	address := g.state.Address
	connected := g.state.IsConnected
	g.mu.RUnlock()

	if g.provider == nil || !connected {
		return nil
	}

	balance, err := g.provider.BalanceAt(ctx, address)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.state.Balance = FromMinimalUnit(balance, g.decimals())
	g.mu.Unlock()
	return nil
}

// An empty account list disconnects; a non-empty one re-runs the connect
// sequence for the new active account.
func (g *Gateway) handleAccountsChanged(accounts []string) {
	if len(accounts) == 0 {
		g.mu.Lock()
		g.state = emptyWalletState()
		g.mu.Unlock()
		log.Info().Msg("wallet disconnected by provider")
		return
	}
	if _, err := g.Connect(context.Background()); err != nil {
		log.Error().Err(err).Msg("reconnect after account change failed")
	}
}

// A chain change forces a reconnect: wallet state is rebuilt from scratch.
func (g *Gateway) handleChainChanged(chainID string) {
	log.Info().Str("chain", chainID).Msg("provider chain changed, reconnecting")
	if _, err := g.Connect(context.Background()); err != nil {
		log.Error().Err(err).Msg("reconnect after chain change failed")
	}
}

func (g *Gateway) decimals() int {
	if g.chain.Currency.Decimals == 0 {
		return 18
	}
	return g.chain.Currency.Decimals
}
