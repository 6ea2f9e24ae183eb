package token

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/eigerco/tokenledger/internal/constants"
)

// AccountID identifies a holder. The ledger only compares and stores it.
type AccountID [constants.AccountIDSize]byte

// AccountIDFromPublicKey derives an account as the blake2b-256 hash of an
// ed25519 public key.
func AccountIDFromPublicKey(pub ed25519.PublicKey) (AccountID, error) {
	if len(pub) != ed25519.PublicKeySize {
		return AccountID{}, fmt.Errorf("invalid public key size %d", len(pub))
	}
	return blake2b.Sum256(pub), nil
}

// ParseAccountID decodes the base58 text form.
func ParseAccountID(s string) (AccountID, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("decode account %q: %w", s, err)
	}
	if len(b) != constants.AccountIDSize {
		return AccountID{}, fmt.Errorf("account %q: expected %d bytes, got %d", s, constants.AccountIDSize, len(b))
	}
	var id AccountID
	copy(id[:], b)
	return id, nil
}

func (a AccountID) String() string {
	return base58.Encode(a[:])
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}
