package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eigerco/tokenledger/internal/allowance"
	"github.com/eigerco/tokenledger/internal/balance"
	"github.com/eigerco/tokenledger/internal/history"
	"github.com/eigerco/tokenledger/internal/store"
	"github.com/eigerco/tokenledger/internal/token"
	"github.com/eigerco/tokenledger/pkg/db"
	"github.com/eigerco/tokenledger/pkg/log"
)

var (
	ErrAlreadyInitialized = errors.New("ledger already initialized")
	ErrNotInitialized     = errors.New("ledger not initialized")
)

// Ledger is the token facade. Each mutating method is one call: it runs
// against a staged write set that is committed only when every step
// succeeded, so a failed call leaves balances, allowances and history as
// they were. Calls are serialized.
type Ledger struct {
	db  db.KVStore
	cfg Config
	mu  sync.Mutex
}

// New wraps a store. The store is not closed by the ledger.
func New(kv db.KVStore, cfg Config) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Ledger{db: kv, cfg: cfg}, nil
}

// state is the view of one call.
type state struct {
	txn        *store.Txn
	balances   *balance.Ledger
	allowances *allowance.Registry
	history    *history.Log
}

func (l *Ledger) newState() (*state, error) {
	txn := store.NewTxn(l.db)
	h, err := history.New(txn, l.cfg.RetentionCap)
	if err != nil {
		return nil, err
	}
	return &state{
		txn:        txn,
		balances:   balance.New(txn),
		allowances: allowance.New(txn),
		history:    h,
	}, nil
}

// call runs fn and commits its writes, or discards them if fn fails.
func (l *Ledger) call(op string, env token.Env, fn func(s *state) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.newState()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		s.txn.Discard()
		log.Ledger.Debug().Str("op", op).Stringer("caller", env.Caller).Err(err).Msg("call rejected")
		return err
	}
	writes := s.txn.Len()
	if err := s.txn.Commit(); err != nil {
		log.Ledger.Error().Str("op", op).Stringer("caller", env.Caller).Err(err).Msg("commit failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Ledger.Debug().Str("op", op).Stringer("caller", env.Caller).Int("writes", writes).Msg("call committed")
	return nil
}

// view runs a read-only fn against committed state.
func (l *Ledger) view(fn func(s *state) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.newState()
	if err != nil {
		return err
	}
	defer s.txn.Discard()
	return fn(s)
}

// Genesis mints supply to the caller and stores the token metadata. It can
// run only once per store.
func (l *Ledger) Genesis(env token.Env, supply token.Balance, meta token.Metadata) error {
	return l.call("genesis", env, func(s *state) error {
		_, err := s.txn.Get(store.MetadataKey())
		if err == nil {
			return ErrAlreadyInitialized
		}
		if !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("get metadata: %w", err)
		}
		data, err := meta.MarshalBinary()
		if err != nil {
			return err
		}
		if err := s.balances.Mint(env.Caller, supply); err != nil {
			return err
		}
		return s.txn.Put(store.MetadataKey(), data)
	})
}

// Metadata returns the values stored by Genesis.
func (l *Ledger) Metadata() (token.Metadata, error) {
	var meta token.Metadata
	err := l.view(func(s *state) error {
		data, err := s.txn.Get(store.MetadataKey())
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotInitialized
		}
		if err != nil {
			return fmt.Errorf("get metadata: %w", err)
		}
		return meta.UnmarshalBinary(data)
	})
	return meta, err
}

func (l *Ledger) TokenName() (string, error) {
	meta, err := l.Metadata()
	return meta.Name, err
}

func (l *Ledger) TokenSymbol() (string, error) {
	meta, err := l.Metadata()
	return meta.Symbol, err
}

func (l *Ledger) TokenDecimals() (uint8, error) {
	meta, err := l.Metadata()
	return meta.Decimals, err
}

func (l *Ledger) TotalSupply() (supply token.Balance, err error) {
	err = l.view(func(s *state) error {
		supply, err = s.balances.TotalSupply()
		return err
	})
	return supply, err
}

func (l *Ledger) BalanceOf(owner token.AccountID) (bal token.Balance, err error) {
	err = l.view(func(s *state) error {
		bal, err = s.balances.BalanceOf(owner)
		return err
	})
	return bal, err
}

func (l *Ledger) Allowance(owner, spender token.AccountID) (amount token.Balance, err error) {
	err = l.view(func(s *state) error {
		amount, err = s.allowances.Allowance(owner, spender)
		return err
	})
	return amount, err
}

// Transfer moves value from the caller to to.
func (l *Ledger) Transfer(env token.Env, to token.AccountID, value token.Balance) error {
	return l.call("transfer", env, func(s *state) error {
		return s.move(env, env.Caller, to, value)
	})
}

// TransferFrom moves value from from to to on behalf of the caller, charging
// the caller's allowance according to the configured policy. The allowance is
// only touched after the balances moved.
func (l *Ledger) TransferFrom(env token.Env, from, to token.AccountID, value token.Balance) error {
	return l.call("transfer_from", env, func(s *state) error {
		if err := s.allowances.Require(from, env.Caller, value); err != nil {
			return err
		}
		if err := s.move(env, from, to, value); err != nil {
			return err
		}
		return s.allowances.Consume(from, env.Caller, value, l.cfg.AllowancePolicy)
	})
}

func (s *state) move(env token.Env, from, to token.AccountID, value token.Balance) error {
	if err := s.balances.Debit(from, value); err != nil {
		return err
	}
	if err := s.balances.Credit(to, value); err != nil {
		return err
	}
	return s.history.Record(token.TransferRecord{
		From:      from,
		To:        to,
		Value:     value,
		Timestamp: env.Timestamp,
	})
}

// Approve sets the caller's allowance for spender to value.
func (l *Ledger) Approve(env token.Env, spender token.AccountID, value token.Balance) error {
	return l.call("approve", env, func(s *state) error {
		return s.allowances.Approve(env.Caller, spender, value)
	})
}

func (l *Ledger) IncreaseAllowance(env token.Env, spender token.AccountID, value token.Balance) error {
	return l.call("increase_allowance", env, func(s *state) error {
		return s.allowances.Increase(env.Caller, spender, value)
	})
}

func (l *Ledger) DecreaseAllowance(env token.Env, spender token.AccountID, value token.Balance) error {
	return l.call("decrease_allowance", env, func(s *state) error {
		return s.allowances.Decrease(env.Caller, spender, value)
	})
}

// Burn destroys value tokens from the caller's own balance.
func (l *Ledger) Burn(env token.Env, value token.Balance) error {
	return l.call("burn", env, func(s *state) error {
		return s.balances.Burn(env.Caller, value)
	})
}

// History returns a page of the caller's transfer history, oldest first.
func (l *Ledger) History(env token.Env, page, limit uint64) ([]token.TransferRecord, error) {
	return l.HistoryOf(env.Caller, page, limit)
}

func (l *Ledger) HistoryOf(account token.AccountID, page, limit uint64) (records []token.TransferRecord, err error) {
	err = l.view(func(s *state) error {
		records, err = s.history.Query(account, page, limit)
		return err
	})
	return records, err
}

// HistoryLen returns the number of records retained for account.
func (l *Ledger) HistoryLen(account token.AccountID) (n uint64, err error) {
	err = l.view(func(s *state) error {
		n, err = s.history.Len(account)
		return err
	})
	return n, err
}

// Holders visits every account with a non-zero balance.
func (l *Ledger) Holders(fn func(token.AccountID, token.Balance) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return balance.Holders(l.db, fn)
}
