package pebble

import (
	"errors"

	"github.com/eigerco/tokenledger/pkg/db"
)

var (
	ErrClosed          = db.ErrClosed
	ErrNotFound        = db.ErrNotFound
	ErrBatchDone       = db.ErrBatchDone
	ErrIteratorInvalid = errors.New("kv-store: iterator is not positioned")
)

const (
	ErrInIteratorCreation = "create pebble iterator: %w"
	ErrIteratorValue      = "read pebble iterator value: %w"
)
