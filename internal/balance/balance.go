package balance

import (
	"errors"
	"fmt"

	"github.com/eigerco/tokenledger/internal/safemath"
	"github.com/eigerco/tokenledger/internal/store"
	"github.com/eigerco/tokenledger/internal/token"
	"github.com/eigerco/tokenledger/pkg/db"
)

// Ledger keeps per-account balances and the total supply. A missing balance
// key reads as zero and a balance that drops to zero is deleted, so the store
// only holds live accounts. Every mutation checks before it writes.
type Ledger struct {
	rw store.ReadWriter
}

func New(rw store.ReadWriter) *Ledger {
	return &Ledger{rw: rw}
}

// BalanceOf returns zero for accounts that never held tokens.
func (l *Ledger) BalanceOf(account token.AccountID) (token.Balance, error) {
	return l.read(store.BalanceKey(account))
}

func (l *Ledger) TotalSupply() (token.Balance, error) {
	return l.read(store.TotalSupplyKey())
}

// Mint creates amount new tokens owned by account.
func (l *Ledger) Mint(account token.AccountID, amount token.Balance) error {
	supply, err := l.TotalSupply()
	if err != nil {
		return err
	}
	newSupply, ok := safemath.AddUint256(supply, amount)
	if !ok {
		return fmt.Errorf("mint: total supply: %w", token.ErrOverflow)
	}
	bal, err := l.BalanceOf(account)
	if err != nil {
		return err
	}
	newBal, ok := safemath.AddUint256(bal, amount)
	if !ok {
		return fmt.Errorf("mint: balance: %w", token.ErrOverflow)
	}

	if err := l.write(store.TotalSupplyKey(), newSupply); err != nil {
		return err
	}
	return l.write(store.BalanceKey(account), newBal)
}

// Debit removes amount from account. It never debits partially.
func (l *Ledger) Debit(account token.AccountID, amount token.Balance) error {
	bal, err := l.BalanceOf(account)
	if err != nil {
		return err
	}
	newBal, ok := safemath.SubUint256(bal, amount)
	if !ok {
		return token.ErrInsufficientBalance
	}
	return l.write(store.BalanceKey(account), newBal)
}

func (l *Ledger) Credit(account token.AccountID, amount token.Balance) error {
	bal, err := l.BalanceOf(account)
	if err != nil {
		return err
	}
	newBal, ok := safemath.AddUint256(bal, amount)
	if !ok {
		return fmt.Errorf("credit: %w", token.ErrOverflow)
	}
	return l.write(store.BalanceKey(account), newBal)
}

// Burn destroys amount tokens held by account. Supply is only reduced when
// the debit is possible.
func (l *Ledger) Burn(account token.AccountID, amount token.Balance) error {
	bal, err := l.BalanceOf(account)
	if err != nil {
		return err
	}
	newBal, ok := safemath.SubUint256(bal, amount)
	if !ok {
		return token.ErrInsufficientBalance
	}
	supply, err := l.TotalSupply()
	if err != nil {
		return err
	}
	newSupply, ok := safemath.SubUint256(supply, amount)
	if !ok {
		return fmt.Errorf("burn: total supply %s below balance %s", supply.Dec(), bal.Dec())
	}

	if err := l.write(store.BalanceKey(account), newBal); err != nil {
		return err
	}
	return l.write(store.TotalSupplyKey(), newSupply)
}

func (l *Ledger) read(key []byte) (token.Balance, error) {
	data, err := l.rw.Get(key)
	if errors.Is(err, db.ErrNotFound) {
		return token.Balance{}, nil
	}
	if err != nil {
		return token.Balance{}, fmt.Errorf("get %s: %w", store.PrefixToString(key[0]), err)
	}
	return token.DecodeBalance(data)
}

func (l *Ledger) write(key []byte, v token.Balance) error {
	if v.IsZero() {
		if err := l.rw.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", store.PrefixToString(key[0]), err)
		}
		return nil
	}
	if err := l.rw.Put(key, token.EncodeBalance(v)); err != nil {
		return fmt.Errorf("put %s: %w", store.PrefixToString(key[0]), err)
	}
	return nil
}

// Holders calls fn for every account with a non-zero committed balance, in
// key order. Iteration stops at the first error returned by fn.
func Holders(kv db.KVStore, fn func(token.AccountID, token.Balance) error) error {
	start, end := store.BalanceRange()
	iter, err := kv.NewIterator(start, end)
	if err != nil {
		return fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close() //nolint:errcheck

	for iter.Next() {
		account, ok := store.AccountFromBalanceKey(iter.Key())
		if !ok {
			continue
		}
		value, err := iter.Value()
		if err != nil {
			return fmt.Errorf("get iterator value: %w", err)
		}
		bal, err := token.DecodeBalance(value)
		if err != nil {
			return err
		}
		if err := fn(account, bal); err != nil {
			return err
		}
	}
	return nil
}
