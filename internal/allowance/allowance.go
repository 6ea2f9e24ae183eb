package allowance

import (
	"errors"
	"fmt"

	"github.com/eigerco/tokenledger/internal/safemath"
	"github.com/eigerco/tokenledger/internal/store"
	"github.com/eigerco/tokenledger/internal/token"
	"github.com/eigerco/tokenledger/pkg/db"
)

// Policy decides what a delegated transfer does to the spender's allowance.
type Policy uint8

const (
	// Decrement subtracts the transferred value from the allowance.
	Decrement Policy = iota
	// Zero clears the whole allowance after any delegated transfer, whatever
	// the transferred value was.
	Zero
)

func (p Policy) String() string {
	switch p {
	case Decrement:
		return "decrement"
	case Zero:
		return "zero"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "decrement", "":
		return Decrement, nil
	case "zero":
		return Zero, nil
	default:
		return 0, fmt.Errorf("unknown allowance policy %q", s)
	}
}

// Registry maps (owner, spender) pairs to spending limits. Unset pairs read
// as zero, meaning no authorization.
type Registry struct {
	rw store.ReadWriter
}

func New(rw store.ReadWriter) *Registry {
	return &Registry{rw: rw}
}

func (r *Registry) Allowance(owner, spender token.AccountID) (token.Balance, error) {
	key := store.AllowanceKey(owner, spender)
	data, err := r.rw.Get(key)
	if errors.Is(err, db.ErrNotFound) {
		return token.Balance{}, nil
	}
	if err != nil {
		return token.Balance{}, fmt.Errorf("get allowance: %w", err)
	}
	return token.DecodeBalance(data)
}

// Approve overwrites the allowance with amount.
func (r *Registry) Approve(owner, spender token.AccountID, amount token.Balance) error {
	return r.set(owner, spender, amount)
}

func (r *Registry) Increase(owner, spender token.AccountID, amount token.Balance) error {
	current, err := r.Allowance(owner, spender)
	if err != nil {
		return err
	}
	next, ok := safemath.AddUint256(current, amount)
	if !ok {
		return fmt.Errorf("increase allowance: %w", token.ErrOverflow)
	}
	return r.set(owner, spender, next)
}

func (r *Registry) Decrease(owner, spender token.AccountID, amount token.Balance) error {
	current, err := r.Allowance(owner, spender)
	if err != nil {
		return err
	}
	next, ok := safemath.SubUint256(current, amount)
	if !ok {
		return token.ErrInsufficientAllowance
	}
	return r.set(owner, spender, next)
}

// Require fails with ErrInsufficientAllowance when spender may not move
// amount out of owner's balance.
func (r *Registry) Require(owner, spender token.AccountID, amount token.Balance) error {
	current, err := r.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if current.Lt(&amount) {
		return token.ErrInsufficientAllowance
	}
	return nil
}

// Consume charges a delegated transfer of amount against the allowance
// according to policy.
func (r *Registry) Consume(owner, spender token.AccountID, amount token.Balance, policy Policy) error {
	current, err := r.Allowance(owner, spender)
	if err != nil {
		return err
	}
	next, ok := safemath.SubUint256(current, amount)
	if !ok {
		return token.ErrInsufficientAllowance
	}
	switch policy {
	case Decrement:
		return r.set(owner, spender, next)
	case Zero:
		return r.set(owner, spender, token.Balance{})
	default:
		return fmt.Errorf("consume allowance: unknown policy %s", policy)
	}
}

func (r *Registry) set(owner, spender token.AccountID, amount token.Balance) error {
	key := store.AllowanceKey(owner, spender)
	if amount.IsZero() {
		if err := r.rw.Delete(key); err != nil {
			return fmt.Errorf("delete allowance: %w", err)
		}
		return nil
	}
	if err := r.rw.Put(key, token.EncodeBalance(amount)); err != nil {
		return fmt.Errorf("put allowance: %w", err)
	}
	return nil
}
