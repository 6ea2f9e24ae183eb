package leveldb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/eigerco/tokenledger/pkg/db"
)

var (
	ErrClosed          = db.ErrClosed
	ErrNotFound        = db.ErrNotFound
	ErrBatchDone       = db.ErrBatchDone
	ErrIteratorInvalid = errors.New("kv-store: iterator is not positioned")
)

var _ db.KVStore = (*KVStore)(nil)

var syncWrite = &opt.WriteOptions{Sync: true}

// KVStore is a db.KVStore backed by goleveldb.
type KVStore struct {
	db     *leveldb.DB
	closed bool
	mu     sync.RWMutex
}

// NewKVStore opens an in-memory leveldb store. Data is lost on Close.
func NewKVStore() (*KVStore, error) {
	l, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &KVStore{db: l}, nil
}

// Open opens or creates a leveldb store in the given directory.
func Open(path string) (*KVStore, error) {
	if path == "" {
		return nil, errors.New("leveldb: empty database path")
	}
	l, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &KVStore{db: l}, nil
}

func (l *KVStore) Get(key []byte) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, ErrClosed
	}

	value, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (l *KVStore) Put(key, value []byte) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}
	return l.db.Put(key, value, syncWrite)
}

func (l *KVStore) Delete(key []byte) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}
	return l.db.Delete(key, syncWrite)
}

func (l *KVStore) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}

type Batch struct {
	store *KVStore
	batch *leveldb.Batch
	done  bool
}

func (l *KVStore) NewBatch() db.Batch {
	return &Batch{
		store: l,
		batch: new(leveldb.Batch),
	}
}

func (b *Batch) Put(key, value []byte) error {
	if b.done {
		return ErrBatchDone
	}
	b.batch.Put(key, value)
	return nil
}

func (b *Batch) Delete(key []byte) error {
	if b.done {
		return ErrBatchDone
	}
	b.batch.Delete(key)
	return nil
}

func (b *Batch) Commit() error {
	if b.done {
		return ErrBatchDone
	}

	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	if b.store.closed {
		return ErrClosed
	}

	if err := b.store.db.Write(b.batch, syncWrite); err != nil {
		return err
	}
	b.done = true
	return nil
}

func (b *Batch) Close() error {
	if b.done {
		return nil
	}
	b.done = true
	b.batch.Reset()
	return nil
}

type Iterator struct {
	iter iterator.Iterator
}

func (l *KVStore) NewIterator(start, end []byte) (db.Iterator, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrClosed
	}
	return &Iterator{iter: l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)}, nil
}

func (it *Iterator) Next() bool {
	return it.iter.Next()
}

func (it *Iterator) Key() []byte {
	key := it.iter.Key()
	result := make([]byte, len(key))
	copy(result, key)
	return result
}

func (it *Iterator) Value() ([]byte, error) {
	if !it.iter.Valid() {
		return nil, ErrIteratorInvalid
	}
	if err := it.iter.Error(); err != nil {
		return nil, fmt.Errorf("read leveldb iterator value: %w", err)
	}
	val := it.iter.Value()
	result := make([]byte, len(val))
	copy(result, val)
	return result, nil
}

func (it *Iterator) Valid() bool {
	return it.iter.Valid()
}

func (it *Iterator) Close() error {
	err := it.iter.Error()
	it.iter.Release()
	return err
}
