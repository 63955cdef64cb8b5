package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const testAccount = "0x742d35Cc6634C0532925a3b8D4C9db96590c6C8C"

func testChain() ChainParams {
	return ChainParams{
		ChainID:   "0xa410",
		ChainName: "Helios Testnet",
		Currency: ChainCurrency{
			Name:     "tHELIOS",
			Symbol:   "tHELIOS",
			Decimals: 18,
		},
		RPCURLs:           []string{"https://testnet1.helioschainlabs.org"},
		BlockExplorerURLs: []string{"https://explorer.helioschainlabs.org"},
	}
}

func connectedGateway(t *testing.T) (*Gateway, *MemoryProvider) {
	t.Helper()
	p := NewMemoryProvider("0xa410", testAccount)
	g := NewGateway(p, testChain())
	t.Cleanup(g.Close)
	if _, err := g.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return g, p
}

func TestConnectPopulatesState(t *testing.T) {
	g, _ := connectedGateway(t)

	state := g.State()
	if state.Address != testAccount {
		t.Errorf("address: got %s, want %s", state.Address, testAccount)
	}
	if state.Balance != "100" {
		t.Errorf("balance: got %s, want 100", state.Balance)
	}
	if !state.IsConnected || !state.IsCorrectNetwork {
		t.Errorf("expected connected on correct network, got %+v", state)
	}
}

func TestConnectWithoutProvider(t *testing.T) {
	g := NewGateway(nil, testChain())
	defer g.Close()

	if _, err := g.Connect(context.Background()); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestConnectWithoutAccounts(t *testing.T) {
	p := NewMemoryProvider("0xa410")
	g := NewGateway(p, testChain())
	defer g.Close()

	if _, err := g.Connect(context.Background()); !errors.Is(err, ErrNoAccounts) {
		t.Errorf("expected ErrNoAccounts, got %v", err)
	}
}

// A provider sitting on a foreign chain that has never seen the expected one
// must be registered first, then switched.
func TestConnectRegistersUnknownChain(t *testing.T) {
	p := NewMemoryProvider("0x1", testAccount)
	g := NewGateway(p, testChain())
	defer g.Close()

	if _, err := g.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	chainID, _ := p.ChainID(context.Background())
	if chainID != "0xa410" {
		t.Errorf("provider chain: got %s, want 0xa410", chainID)
	}
	if state := g.State(); !state.IsCorrectNetwork {
		t.Error("expected correct-network flag after switch")
	}
}

func TestResumeReconnectsAuthorizedAccount(t *testing.T) {
	p := NewMemoryProvider("0xa410", testAccount)
	g := NewGateway(p, testChain())
	defer g.Close()

	resumed, err := g.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !resumed {
		t.Fatal("expected an authorized account to resume the session")
	}
	state := g.State()
	if state.Address != testAccount || !state.IsConnected {
		t.Errorf("expected connected state for %s, got %+v", testAccount, state)
	}
}

func TestResumeWithoutAccountsStaysDisconnected(t *testing.T) {
	p := NewMemoryProvider("0xa410")
	g := NewGateway(p, testChain())
	defer g.Close()

	resumed, err := g.Resume(context.Background())
	if err != nil {
		t.Fatalf("no authorized account is not an error, got %v", err)
	}
	if resumed {
		t.Fatal("expected no session to resume")
	}
	if state := g.State(); state.IsConnected {
		t.Errorf("expected disconnected state, got %+v", state)
	}
}

func TestConnectPropagatesDecline(t *testing.T) {
	p := NewMemoryProvider("0xa410", testAccount)
	p.SetRequestError(errors.New("user rejected the request"))
	g := NewGateway(p, testChain())
	defer g.Close()

	_, err := g.Connect(context.Background())
	if err == nil || !strings.Contains(err.Error(), "user rejected") {
		t.Errorf("expected the provider rejection verbatim, got %v", err)
	}
}

func TestAccountsChangedEmptyDisconnects(t *testing.T) {
	g, p := connectedGateway(t)

	p.EmitAccountsChanged(nil)

	state := g.State()
	if state.Address != "" {
		t.Errorf("address: got %q, want empty", state.Address)
	}
	if state.Balance != "0" {
		t.Errorf("balance: got %q, want 0", state.Balance)
	}
	if state.IsConnected || state.IsCorrectNetwork {
		t.Errorf("expected disconnected state, got %+v", state)
	}
}

func TestAccountsChangedNonEmptyReconnects(t *testing.T) {
	g, p := connectedGateway(t)

	p.EmitAccountsChanged([]string{testAccount})

	if state := g.State(); !state.IsConnected {
		t.Errorf("expected reconnect, got %+v", state)
	}
}

func TestChainChangedReconnects(t *testing.T) {
	g, p := connectedGateway(t)

	// The provider wandered off; the expected chain is still registered as
	// the one it serves natively.
	_ = p.AddChain(context.Background(), testChain())
	p.EmitChainChanged("0x1")

	state := g.State()
	if !state.IsConnected || !state.IsCorrectNetwork {
		t.Errorf("expected reconnect onto expected chain, got %+v", state)
	}
}

func TestCloseDeregistersHandlers(t *testing.T) {
	g, p := connectedGateway(t)

	g.Close()
	p.EmitAccountsChanged(nil)

	if state := g.State(); !state.IsConnected {
		t.Error("handler fired after Close")
	}
}

func TestSignRequiresConnection(t *testing.T) {
	p := NewMemoryProvider("0xa410", testAccount)
	g := NewGateway(p, testChain())
	defer g.Close()

	if _, err := g.Sign(context.Background(), "hello"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestSendRequiresConnection(t *testing.T) {
	p := NewMemoryProvider("0xa410", testAccount)
	g := NewGateway(p, testChain())
	defer g.Close()

	if _, err := g.Send(context.Background(), RandomAddress(), "1"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestSendRejectsMalformedRecipient(t *testing.T) {
	g, _ := connectedGateway(t)

	if _, err := g.Send(context.Background(), "0x8ba1f109551bD432803012645Hac136c9c1495bF", "1"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestSendTransfersValue(t *testing.T) {
	g, p := connectedGateway(t)

	handle, err := g.Send(context.Background(), RandomAddress(), "1.5")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if handle.Hash == "" {
		t.Fatal("expected a transaction hash")
	}

	confirmed, err := g.AwaitConfirmation(context.Background(), handle)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if !confirmed {
		t.Fatal("expected success outcome")
	}

	balance, _ := p.BalanceAt(context.Background(), testAccount)
	if got := FromMinimalUnit(balance, 18); got != "98.5" {
		t.Errorf("provider balance: got %s, want 98.5", got)
	}
}

func TestRefreshBalanceNoopWhenDisconnected(t *testing.T) {
	p := NewMemoryProvider("0xa410", testAccount)
	g := NewGateway(p, testChain())
	defer g.Close()

	if err := g.RefreshBalance(context.Background()); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if state := g.State(); state.Balance != "0" {
		t.Errorf("balance: got %s, want 0", state.Balance)
	}
}

func TestRefreshBalanceOverwrites(t *testing.T) {
	g, _ := connectedGateway(t)

	handle, err := g.Send(context.Background(), RandomAddress(), "25")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := g.AwaitConfirmation(context.Background(), handle); err != nil {
		t.Fatalf("await: %v", err)
	}

	if err := g.RefreshBalance(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if state := g.State(); state.Balance != "75" {
		t.Errorf("balance: got %s, want 75", state.Balance)
	}
}
