// Package dbtest holds the behaviour every db.KVStore backend must share.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/tokenledger/pkg/db"
)

// Run executes the backend suite. open must return a fresh, empty store.
func Run(t *testing.T, open func() (db.KVStore, error)) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.KVStore)
	}{
		{name: "basic_put_get", fn: testBasicPutGet},
		{name: "delete_operations", fn: testDelete},
		{name: "store_closure", fn: testStoreClosure},
		{name: "batch_operations", fn: testBatchOperations},
		{name: "batch_commit_closure", fn: testBatchCommitAndClose},
		{name: "batch_discarded_on_close", fn: testBatchDiscarded},
		{name: "bounded_range_iteration", fn: testBoundedRangeIteration},
		{name: "iterator_validity", fn: testIteratorValidity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := open()
			require.NoError(t, err)
			defer store.Close() //nolint:errcheck

			tc.fn(t, store)
		})
	}
}

func testBasicPutGet(t *testing.T, store db.KVStore) {
	key := []byte("test-key")
	value := []byte("test-value")

	require.NoError(t, store.Put(key, value))

	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)

	_, err = store.Get([]byte("non-existent"))
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func testDelete(t *testing.T, store db.KVStore) {
	key := []byte("delete-test")

	require.NoError(t, store.Put(key, []byte("to-be-deleted")))
	require.NoError(t, store.Delete(key))

	_, err := store.Get(key)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, store.Delete([]byte("non-existent")))
}

func testStoreClosure(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Close())

	_, err := store.Get([]byte("key"))
	assert.ErrorIs(t, err, db.ErrClosed)

	err = store.Put([]byte("key"), []byte("value"))
	assert.ErrorIs(t, err, db.ErrClosed)

	err = store.Delete([]byte("key"))
	assert.ErrorIs(t, err, db.ErrClosed)

	assert.NoError(t, store.Close())
}

func testBatchOperations(t *testing.T, store db.KVStore) {
	batch := store.NewBatch()
	defer batch.Close() //nolint:errcheck

	keys := [][]byte{[]byte("key1"), []byte("key2"), []byte("key3")}
	values := [][]byte{[]byte("value1"), []byte("value2"), []byte("value3")}
	for i := range keys {
		require.NoError(t, batch.Put(keys[i], values[i]))
	}
	require.NoError(t, batch.Delete(keys[1]))

	// Nothing is visible before commit
	_, err := store.Get(keys[0])
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, batch.Commit())

	val1, err := store.Get(keys[0])
	require.NoError(t, err)
	assert.Equal(t, values[0], val1)

	_, err = store.Get(keys[1])
	assert.ErrorIs(t, err, db.ErrNotFound)

	val3, err := store.Get(keys[2])
	require.NoError(t, err)
	assert.Equal(t, values[2], val3)
}

func testBatchCommitAndClose(t *testing.T, store db.KVStore) {
	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("key"), []byte("value")))
	require.NoError(t, batch.Commit())

	assert.ErrorIs(t, batch.Put([]byte("key2"), []byte("value2")), db.ErrBatchDone)
	assert.ErrorIs(t, batch.Delete([]byte("key2")), db.ErrBatchDone)
	assert.ErrorIs(t, batch.Commit(), db.ErrBatchDone)

	assert.NoError(t, batch.Close())
	assert.NoError(t, batch.Close())
}

func testBatchDiscarded(t *testing.T, store db.KVStore) {
	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("staged"), []byte("value")))
	require.NoError(t, batch.Close())

	_, err := store.Get([]byte("staged"))
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, batch.Commit(), db.ErrBatchDone)
}

func testBoundedRangeIteration(t *testing.T, store db.KVStore) {
	data := map[string]string{
		"a": "value-a",
		"b": "value-b",
		"c": "value-c",
		"d": "value-d",
		"e": "value-e",
	}
	for k, v := range data {
		require.NoError(t, store.Put([]byte(k), []byte(v)))
	}

	iter, err := store.NewIterator([]byte("b"), []byte("e"))
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	var keys []string
	for iter.Next() {
		value, err := iter.Value()
		require.NoError(t, err)
		assert.Equal(t, data[string(iter.Key())], string(value))
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"b", "c", "d"}, keys)
}

func testIteratorValidity(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Put([]byte("key1"), []byte("value1")))
	require.NoError(t, store.Put([]byte("key2"), []byte("value2")))

	iter, err := store.NewIterator(nil, nil)
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	assert.False(t, iter.Valid())

	assert.True(t, iter.Next())
	assert.True(t, iter.Valid())
	assert.Equal(t, []byte("key1"), iter.Key())

	assert.True(t, iter.Next())
	assert.Equal(t, []byte("key2"), iter.Key())
	val, err := iter.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("value2"), val)

	assert.False(t, iter.Next())
	assert.False(t, iter.Valid())

	_, err = iter.Value()
	assert.Error(t, err)
}
