package wallet

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ChecksumAddress normalizes an address to its canonical EIP-55 mixed-case
// form. Returns ErrInvalidAddress when the input is not a well-formed address.
func ChecksumAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// RandomAddress generates a fresh, checksummed account address. Every payment
// attempt pays a newly generated recipient, not the institution's catalog
// address.
func RandomAddress() string {
	var b [common.AddressLength]byte
	_, _ = rand.Read(b[:])
	return common.BytesToAddress(b[:]).Hex()
}

// ToMinimalUnit converts a decimal token-unit amount into the chain's minimal
// unit (e.g. "50.0" with 18 decimals -> 50 * 10^18).
func ToMinimalUnit(amount string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d.Shift(int32(decimals)).BigInt(), nil
}

// FromMinimalUnit renders a minimal-unit value as a decimal token-unit string.
func FromMinimalUnit(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}
