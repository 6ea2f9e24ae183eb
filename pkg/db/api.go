package db

import "errors"

var (
	ErrClosed    = errors.New("kv-store: database is closed")
	ErrNotFound  = errors.New("kv-store: key not found")
	ErrBatchDone = errors.New("kv-store: batch already committed or closed")
)

// KVStore represents a key-value storage interface providing basic operations
// for data manipulation and iteration. Get returns ErrNotFound for missing keys
// regardless of the backend.
type KVStore interface {
	Reader
	Writer
	Delete(key []byte) error
	NewBatch() Batch
	NewIterator(start, end []byte) (Iterator, error)
	Close() error
}

type Reader interface {
	Get(key []byte) ([]byte, error)
}

type Writer interface {
	Put(key []byte, value []byte) error
}

// Batch represents an atomic batch of operations.
// All operations in a batch are performed atomically.
type Batch interface {
	Writer
	Delete(key []byte) error
	Commit() error
	Close() error
}

// Iterator provides sequential access over a range of key-value pairs.
// The range is [start, end); a nil bound is open. Iterators must be closed
// after use.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() ([]byte, error)
	Valid() bool
	Close() error
}
