// Package wallet wraps an external wallet provider behind a narrow interface
// and owns the single piece of shared wallet state. Two implementations ship
// with the service: an in-memory simulator and a JSON-RPC client signing with
// a local key.
package wallet

import (
	"context"
	"math/big"
)

// ChainCurrency describes the native currency of a chain.
type ChainCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// ChainParams identifies the expected network: chain id (hex encoded), RPC
// endpoint and block-explorer base URL. Treated as configuration constants.
type ChainParams struct {
	ChainID           string        `json:"chainId"`
	ChainName         string        `json:"chainName"`
	Currency          ChainCurrency `json:"nativeCurrency"`
	RPCURLs           []string      `json:"rpcUrls"`
	BlockExplorerURLs []string      `json:"blockExplorerUrls"`
}

// TxHandle is the submission handle returned by SendTransaction: a transaction
// identifier plus, via Provider.WaitMined, an awaitable confirmation.
type TxHandle struct {
	Hash string `json:"hash"`
}

// Receipt is the terminal outcome of a mined transaction.
type Receipt struct {
	TxHash    string
	Succeeded bool
}

// NotificationHandlers are the provider-level subscriptions held for the
// lifetime of a gateway. Either handler may be nil.
type NotificationHandlers struct {
	AccountsChanged func(accounts []string)
	ChainChanged    func(chainID string)
}

// Provider is the boundary to the external wallet: account discovery, chain
// identity and switching, balance queries, message signing, transaction
// submission and confirmation, and change notifications.
type Provider interface {
	// RequestAccounts asks the provider for account access. May prompt.
	RequestAccounts(ctx context.Context) ([]string, error)
	// Accounts returns already-authorized accounts without prompting.
	Accounts(ctx context.Context) ([]string, error)

	ChainID(ctx context.Context) (string, error)
	// SwitchChain moves the provider to the given chain, returning
	// ErrUnknownChain when the chain has not been registered.
	SwitchChain(ctx context.Context, chainID string) error
	AddChain(ctx context.Context, params ChainParams) error

	BalanceAt(ctx context.Context, address string) (*big.Int, error)
	SignMessage(ctx context.Context, address, message string) (string, error)
	SendTransaction(ctx context.Context, from, to string, value *big.Int) (*TxHandle, error)
	// WaitMined blocks until the transaction is mined or ctx is cancelled.
	WaitMined(ctx context.Context, txHash string) (*Receipt, error)

	// Subscribe registers change handlers and returns the deregistration
	// function. Implementations must tolerate deregistration happening once.
	Subscribe(h NotificationHandlers) (unsubscribe func())
}
