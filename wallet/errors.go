package wallet

import "errors"

var (
	// ErrProviderUnavailable means no provider was injected into the gateway.
	ErrProviderUnavailable = errors.New("wallet provider not available")

	// ErrNoAccounts means the provider returned an empty account list.
	ErrNoAccounts = errors.New("no accounts found")

	// ErrNotConnected guards operations that need a connected account.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrInvalidAddress means an address could not be normalized to its
	// checksummed form.
	ErrInvalidAddress = errors.New("invalid address format")

	// ErrUnknownChain is returned by SwitchChain when the provider does not
	// know the requested chain. Callers are expected to AddChain and retry.
	ErrUnknownChain = errors.New("unknown chain")
)
