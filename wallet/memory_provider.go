package wallet

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// MemoryProvider simulates a wallet provider in process. It backs local
// development and tests: accounts, balances and chain identity live in maps,
// transaction hashes are keccak-derived, and notifications can be fired
// explicitly through the Emit methods.
type MemoryProvider struct {
	mu sync.Mutex

	chainID     string
	accounts    []string
	balances    map[string]*big.Int
	knownChains map[string]ChainParams
	receipts    map[string]*Receipt
	nonce       uint64

	requestErr error
	signErr    error
	sendErr    error
	failNext   bool

	subs    map[int]NotificationHandlers
	nextSub int
}

// NewMemoryProvider returns a provider sitting on the given chain with each
// account funded with 100 whole tokens.
func NewMemoryProvider(chainID string, accounts ...string) *MemoryProvider {
	p := &MemoryProvider{
		chainID:     chainID,
		accounts:    append([]string(nil), accounts...),
		balances:    make(map[string]*big.Int),
		knownChains: make(map[string]ChainParams),
		receipts:    make(map[string]*Receipt),
		subs:        make(map[int]NotificationHandlers),
	}
	funding := new(big.Int).Mul(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	for _, a := range accounts {
		p.balances[a] = new(big.Int).Set(funding)
	}
	return p
}

func (p *MemoryProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.requestErr != nil {
		return nil, p.requestErr
	}
	return append([]string(nil), p.accounts...), nil
}

func (p *MemoryProvider) Accounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.accounts...), nil
}

func (p *MemoryProvider) ChainID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID, nil
}

func (p *MemoryProvider) SwitchChain(ctx context.Context, chainID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if chainID == p.chainID {
		return nil
	}
	if _, ok := p.knownChains[chainID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	p.chainID = chainID
	return nil
}

func (p *MemoryProvider) AddChain(ctx context.Context, params ChainParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.knownChains[params.ChainID] = params
	return nil
}

func (p *MemoryProvider) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b, ok := p.balances[address]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (p *MemoryProvider) SignMessage(ctx context.Context, address, message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signErr != nil {
		return "", p.signErr
	}
	return hexutil.Encode(crypto.Keccak256([]byte(address), []byte(message))), nil
}

func (p *MemoryProvider) SendTransaction(ctx context.Context, from, to string, value *big.Int) (*TxHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return nil, p.sendErr
	}

	balance, ok := p.balances[from]
	if !ok || balance.Cmp(value) < 0 {
		return nil, fmt.Errorf("insufficient funds for %s", from)
	}

	p.nonce++
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], p.nonce)
	hash := crypto.Keccak256Hash(nonceBytes[:], []byte(from), []byte(to), value.Bytes()).Hex()

	succeeded := !p.failNext
	p.failNext = false
	if succeeded {
		balance.Sub(balance, value)
		dest := p.balances[to]
		if dest == nil {
			dest = new(big.Int)
			p.balances[to] = dest
		}
		dest.Add(dest, value)
	}
	p.receipts[hash] = &Receipt{TxHash: hash, Succeeded: succeeded}

	return &TxHandle{Hash: hash}, nil
}

func (p *MemoryProvider) WaitMined(ctx context.Context, txHash string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.receipts[txHash]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", txHash)
	}
	out := *r
	return &out, nil
}

func (p *MemoryProvider) Subscribe(h NotificationHandlers) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = h
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// SetAccounts replaces the account list without notifying subscribers.
func (p *MemoryProvider) SetAccounts(accounts ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts = append([]string(nil), accounts...)
}

// FailNextTransaction makes the next submitted transaction mine with a failed
// status.
func (p *MemoryProvider) FailNextTransaction() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = true
}

// SetRequestError scripts RequestAccounts to fail (user decline).
func (p *MemoryProvider) SetRequestError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requestErr = err
}

// SetSignError scripts SignMessage to fail.
func (p *MemoryProvider) SetSignError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signErr = err
}

// SetSendError scripts SendTransaction to fail before a hash exists.
func (p *MemoryProvider) SetSendError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendErr = err
}

// EmitAccountsChanged fires the account-change notification on every
// subscriber. Handlers run on the calling goroutine.
func (p *MemoryProvider) EmitAccountsChanged(accounts []string) {
	for _, h := range p.snapshotSubs() {
		if h.AccountsChanged != nil {
			h.AccountsChanged(accounts)
		}
	}
}

// EmitChainChanged fires the chain-change notification on every subscriber.
func (p *MemoryProvider) EmitChainChanged(chainID string) {
	p.mu.Lock()
	p.chainID = chainID
	p.mu.Unlock()
	for _, h := range p.snapshotSubs() {
		if h.ChainChanged != nil {
			h.ChainChanged(chainID)
		}
	}
}

func (p *MemoryProvider) snapshotSubs() []NotificationHandlers {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]NotificationHandlers, 0, len(p.subs))
	for _, h := range p.subs {
		out = append(out, h)
	}
	return out
}
