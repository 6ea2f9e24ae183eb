package token

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/eigerco/tokenledger/internal/constants"
)

// Balance is an unsigned 256-bit amount of the smallest token unit.
type Balance = uint256.Int

func NewBalance(v uint64) Balance {
	return *uint256.NewInt(v)
}

// ParseBalance reads a base-10 amount.
func ParseBalance(s string) (Balance, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Balance{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return *v, nil
}

// EncodeBalance returns the fixed 32 byte big-endian form.
func EncodeBalance(b Balance) []byte {
	out := b.Bytes32()
	return out[:]
}

func DecodeBalance(data []byte) (Balance, error) {
	if len(data) != constants.BalanceSize {
		return Balance{}, fmt.Errorf("balance: expected %d bytes, got %d", constants.BalanceSize, len(data))
	}
	var b Balance
	b.SetBytes32(data)
	return b, nil
}
