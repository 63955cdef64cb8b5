package wallet

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

const transferGasLimit = 21000

// RPCProvider talks JSON-RPC to the configured testnet endpoint and signs with
// a local key, which acts as the single wallet account. Confirmation is
// receipt polling; the chain-change notification is fed by a background chain
// id poll that runs while at least one subscriber is registered.
type RPCProvider struct {
	chain    ChainParams
	endpoint string
	client   *http.Client

	key     *ecdsa.PrivateKey
	address common.Address

	mu          sync.Mutex
	addedChains map[string]ChainParams
	subs        map[int]NotificationHandlers
	nextSub     int
	stopPoll    chan struct{}

	pollInterval time.Duration
}

func NewRPCProvider(chain ChainParams, privateKeyHex string) (*RPCProvider, error) {
	if len(chain.RPCURLs) == 0 {
		return nil, fmt.Errorf("chain %s has no rpc url", chain.ChainID)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("could not parse wallet private key: %w", err)
	}

	return &RPCProvider{
		chain:        chain,
		endpoint:     chain.RPCURLs[0],
		client:       &http.Client{Timeout: 30 * time.Second},
		key:          key,
		address:      crypto.PubkeyToAddress(key.PublicKey),
		addedChains:  map[string]ChainParams{chain.ChainID: chain},
		subs:         make(map[int]NotificationHandlers),
		pollInterval: 15 * time.Second,
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (p *RPCProvider) call(ctx context.Context, method string, params []any, out any) error {
	j, err := json.Marshal(&rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("could not marshal rpc request: %w", err)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBuffer(j))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	requestId, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("could not generate request id: %w", err)
	}
	r.Header.Add("Content-Type", "application/json")
	r.Header.Add("X-Request-ID", requestId.String())

	rsp, err := p.client.Do(r)
	if err != nil {
		return fmt.Errorf("could not execute request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Printf("could not close response body: %v", err)
		}
	}(rsp.Body)

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc endpoint returned a non-OK status code %d: %s", rsp.StatusCode, string(body))
	}

	var res rpcResponse
	if err = json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("could not unmarshal response body: %w", err)
	}
	if res.Error != nil {
		return fmt.Errorf("rpc call %s failed with code %d: %s", method, res.Error.Code, res.Error.Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(res.Result, out)
}

// The local key is the single authorized account; no prompt exists.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	return []string{p.address.Hex()}, nil
}

func (p *RPCProvider) Accounts(ctx context.Context) ([]string, error) {
	return []string{p.address.Hex()}, nil
}

func (p *RPCProvider) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := p.call(ctx, "eth_chainId", nil, &chainID); err != nil {
		return "", err
	}
	return chainID, nil
}

// The provider is pinned to one endpoint: switching succeeds only onto the
// chain that endpoint actually serves.
func (p *RPCProvider) SwitchChain(ctx context.Context, chainID string) error {
	p.mu.Lock()
	_, known := p.addedChains[chainID]
	p.mu.Unlock()
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}

	actual, err := p.ChainID(ctx)
	if err != nil {
		return err
	}
	if actual != chainID {
		return fmt.Errorf("endpoint %s serves chain %s, cannot switch to %s", p.endpoint, actual, chainID)
	}
	return nil
}

func (p *RPCProvider) AddChain(ctx context.Context, params ChainParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addedChains[params.ChainID] = params
	return nil
}

func (p *RPCProvider) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	var hexBalance string
	if err := p.call(ctx, "eth_getBalance", []any{address, "latest"}, &hexBalance); err != nil {
		return nil, err
	}
	return hexutil.DecodeBig(hexBalance)
}

func (p *RPCProvider) SignMessage(ctx context.Context, address, message string) (string, error) {
	if !strings.EqualFold(address, p.address.Hex()) {
		return "", fmt.Errorf("account %s is not held by this provider", address)
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), p.key)
	if err != nil {
		return "", fmt.Errorf("could not sign message: %w", err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

func (p *RPCProvider) SendTransaction(ctx context.Context, from, to string, value *big.Int) (*TxHandle, error) {
	if !strings.EqualFold(from, p.address.Hex()) {
		return nil, fmt.Errorf("account %s is not held by this provider", from)
	}

	var hexNonce string
	if err := p.call(ctx, "eth_getTransactionCount", []any{p.address.Hex(), "pending"}, &hexNonce); err != nil {
		return nil, err
	}
	nonce, err := hexutil.DecodeUint64(hexNonce)
	if err != nil {
		return nil, fmt.Errorf("could not decode nonce: %w", err)
	}

	var hexGasPrice string
	if err := p.call(ctx, "eth_gasPrice", nil, &hexGasPrice); err != nil {
		return nil, err
	}
	gasPrice, err := hexutil.DecodeBig(hexGasPrice)
	if err != nil {
		return nil, fmt.Errorf("could not decode gas price: %w", err)
	}

	chainID, ok := new(big.Int).SetString(strings.TrimPrefix(p.chain.ChainID, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("invalid chain id %s", p.chain.ChainID)
	}

	toAddr := common.HexToAddress(to)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      transferGasLimit,
		To:       &toAddr,
		Value:    value,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), p.key)
	if err != nil {
		return nil, fmt.Errorf("could not sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("could not encode transaction: %w", err)
	}

	var txHash string
	if err := p.call(ctx, "eth_sendRawTransaction", []any{hexutil.Encode(raw)}, &txHash); err != nil {
		return nil, err
	}
	return &TxHandle{Hash: txHash}, nil
}

type rpcReceipt struct {
	Status string `json:"status"`
}

// WaitMined polls for the receipt until it appears or ctx is cancelled. No
// internal deadline: the confirmation wait blocks on the chain's own pace.
func (p *RPCProvider) WaitMined(ctx context.Context, txHash string) (*Receipt, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		var rcpt *rpcReceipt
		if err := p.call(ctx, "eth_getTransactionReceipt", []any{txHash}, &rcpt); err != nil {
			return nil, err
		}
		if rcpt != nil {
			return &Receipt{TxHash: txHash, Succeeded: rcpt.Status == "0x1"}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *RPCProvider) Subscribe(h NotificationHandlers) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = h

	if p.stopPoll == nil {
		p.stopPoll = make(chan struct{})
		go p.pollChain(p.stopPoll)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
		if len(p.subs) == 0 && p.stopPoll != nil {
			close(p.stopPoll)
			p.stopPoll = nil
		}
	}
}

func (p *RPCProvider) pollChain(stop <-chan struct{}) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		chainID, err := p.ChainID(ctx)
		cancel()
		if err != nil {
			log.Printf("chain poll failed: %v", err)
			continue
		}
		if last != "" && chainID != last {
			p.mu.Lock()
			handlers := make([]NotificationHandlers, 0, len(p.subs))
			for _, h := range p.subs {
				handlers = append(handlers, h)
			}
			p.mu.Unlock()
			for _, h := range handlers {
				if h.ChainChanged != nil {
					h.ChainChanged(chainID)
				}
			}
		}
		last = chainID
	}
}
