package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/eigerco/tokenledger/pkg/db"
)

var ErrTxnDone = errors.New("transaction already committed or discarded")

// ReadWriter is the storage view the ledger components operate on.
type ReadWriter interface {
	// Get returns db.ErrNotFound for absent keys.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Txn stages the writes of one ledger call on top of a KVStore. Reads observe
// the committed store overlaid with the staged writes. Nothing reaches the
// store until Commit, which applies the whole write set in one batch.
type Txn struct {
	db      db.KVStore
	pending map[string][]byte // nil value marks a deletion
	done    bool
}

// NewTxn opens a staged write set over the given store
func NewTxn(store db.KVStore) *Txn {
	return &Txn{db: store, pending: make(map[string][]byte)}
}

func (t *Txn) Get(key []byte) ([]byte, error) {
	if t.done {
		return nil, ErrTxnDone
	}
	if v, ok := t.pending[string(key)]; ok {
		if v == nil {
			return nil, db.ErrNotFound
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	}
	return t.db.Get(key)
}

func (t *Txn) Put(key, value []byte) error {
	if t.done {
		return ErrTxnDone
	}
	v := make([]byte, len(value))
	copy(v, value)
	t.pending[string(key)] = v
	return nil
}

func (t *Txn) Delete(key []byte) error {
	if t.done {
		return ErrTxnDone
	}
	t.pending[string(key)] = nil
	return nil
}

// Len returns the number of staged keys.
func (t *Txn) Len() int {
	return len(t.pending)
}

// Commit writes every staged change atomically. Keys are applied in sorted
// order so the batch content is deterministic.
func (t *Txn) Commit() error {
	if t.done {
		return ErrTxnDone
	}
	t.done = true

	if len(t.pending) == 0 {
		return nil
	}

	batch := t.db.NewBatch()
	defer batch.Close() //nolint:errcheck

	keys := make([]string, 0, len(t.pending))
	for k := range t.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := t.pending[k]
		if v == nil {
			if err := batch.Delete([]byte(k)); err != nil {
				return fmt.Errorf("batch delete: %w", err)
			}
			continue
		}
		if err := batch.Put([]byte(k), v); err != nil {
			return fmt.Errorf("batch put: %w", err)
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf(ErrFailedBatchCommit, err)
	}
	return nil
}

// Discard drops the staged writes.
func (t *Txn) Discard() {
	t.done = true
	t.pending = nil
}
