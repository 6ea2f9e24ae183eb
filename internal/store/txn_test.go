package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/tokenledger/internal/constants"
	"github.com/eigerco/tokenledger/internal/token"
	"github.com/eigerco/tokenledger/pkg/db"
	"github.com/eigerco/tokenledger/pkg/db/pebble"
)

func newStore(t *testing.T) db.KVStore {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, kv.Close(), "failed to close db")
	})
	return kv
}

func TestTxnReadsOwnWrites(t *testing.T) {
	kv := newStore(t)
	require.NoError(t, kv.Put([]byte("committed"), []byte("old")))

	txn := NewTxn(kv)
	require.NoError(t, txn.Put([]byte("committed"), []byte("new")))
	require.NoError(t, txn.Put([]byte("staged"), []byte("value")))

	v, err := txn.Get([]byte("committed"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)

	// The store itself is untouched until commit
	v, err = kv.Get([]byte("committed"))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), v)
	_, err = kv.Get([]byte("staged"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, txn.Delete([]byte("committed")))
	_, err = txn.Get([]byte("committed"))
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Equal(t, 2, txn.Len())
}

func TestTxnCommit(t *testing.T) {
	kv := newStore(t)
	require.NoError(t, kv.Put([]byte("gone"), []byte("x")))

	txn := NewTxn(kv)
	require.NoError(t, txn.Put([]byte("a"), []byte("1")))
	require.NoError(t, txn.Delete([]byte("gone")))
	require.NoError(t, txn.Commit())

	v, err := kv.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	_, err = kv.Get([]byte("gone"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	assert.ErrorIs(t, txn.Commit(), ErrTxnDone)
	assert.ErrorIs(t, txn.Put([]byte("b"), nil), ErrTxnDone)
	_, err = txn.Get([]byte("a"))
	assert.ErrorIs(t, err, ErrTxnDone)
}

func TestTxnDiscard(t *testing.T) {
	kv := newStore(t)

	txn := NewTxn(kv)
	require.NoError(t, txn.Put([]byte("a"), []byte("1")))
	txn.Discard()

	_, err := kv.Get([]byte("a"))
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, txn.Commit(), ErrTxnDone)
}

func TestTxnCopiesValues(t *testing.T) {
	txn := NewTxn(newStore(t))
	value := []byte("abc")
	require.NoError(t, txn.Put([]byte("k"), value))
	value[0] = 'z'

	v, err := txn.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)
}

func TestBalanceKeyRoundTrip(t *testing.T) {
	account := token.AccountID{9, 8, 7}
	key := BalanceKey(account)
	start, end := BalanceRange()
	assert.True(t, string(key) >= string(start) && string(key) < string(end))

	got, ok := AccountFromBalanceKey(key)
	require.True(t, ok)
	assert.Equal(t, account, got)

	_, ok = AccountFromBalanceKey(AllowanceKey(account, account))
	assert.False(t, ok)
	assert.Equal(t, "balance", PrefixToString(key[0]))
}

func TestHistoryRecordKeyOrder(t *testing.T) {
	account := token.AccountID{1}
	assert.Less(t, string(HistoryRecordKey(account, 255)), string(HistoryRecordKey(account, 256)))
	assert.Len(t, HistoryRecordKey(account, 0), 1+constants.AccountIDSize+constants.SequenceSize)
}
