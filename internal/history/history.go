package history

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/eigerco/tokenledger/internal/safemath"
	"github.com/eigerco/tokenledger/internal/store"
	"github.com/eigerco/tokenledger/internal/token"
	"github.com/eigerco/tokenledger/pkg/db"
)

var ErrInvalidCapacity = errors.New("history capacity must be at least 1")

// cursor locates an account's retained records: sequence numbers
// [head, head+length) are live, everything below head has been evicted.
type cursor struct {
	head   uint64
	length uint64
}

func (c cursor) bytes() []byte {
	out := make([]byte, 16)
	binary.BigEndian.PutUint64(out[:8], c.head)
	binary.BigEndian.PutUint64(out[8:], c.length)
	return out
}

// Log is the per-account transfer history. Each account keeps at most
// capacity records; appending to a full log evicts the oldest one first.
type Log struct {
	rw       store.ReadWriter
	capacity uint64
}

func New(rw store.ReadWriter, capacity uint64) (*Log, error) {
	if capacity == 0 {
		return nil, ErrInvalidCapacity
	}
	return &Log{rw: rw, capacity: capacity}, nil
}

// Record appends rec to the sender's and the recipient's logs. A transfer to
// oneself is logged once.
func (l *Log) Record(rec token.TransferRecord) error {
	if err := l.Append(rec.From, rec); err != nil {
		return err
	}
	if rec.To == rec.From {
		return nil
	}
	return l.Append(rec.To, rec)
}

// Append adds rec to the end of account's log, evicting from the front while
// the log is at capacity.
func (l *Log) Append(account token.AccountID, rec token.TransferRecord) error {
	c, err := l.cursor(account)
	if err != nil {
		return err
	}
	for c.length >= l.capacity {
		if err := l.rw.Delete(store.HistoryRecordKey(account, c.head)); err != nil {
			return fmt.Errorf("evict record: %w", err)
		}
		c.head++
		c.length--
	}

	seq, ok := safemath.Add64(c.head, c.length)
	if !ok {
		return fmt.Errorf("history sequence: %w", token.ErrOverflow)
	}
	data, err := rec.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := l.rw.Put(store.HistoryRecordKey(account, seq), data); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	c.length++
	if err := l.rw.Put(store.HistoryCursorKey(account), c.bytes()); err != nil {
		return fmt.Errorf("put cursor: %w", err)
	}
	return nil
}

// Len returns how many records account currently retains.
func (l *Log) Len(account token.AccountID) (uint64, error) {
	c, err := l.cursor(account)
	if err != nil {
		return 0, err
	}
	return c.length, nil
}

// Query returns page (1-indexed) of account's records, limit per page, oldest
// first. Page or limit of zero and pages past the end give an empty result.
func (l *Log) Query(account token.AccountID, page, limit uint64) ([]token.TransferRecord, error) {
	c, err := l.cursor(account)
	if err != nil {
		return nil, err
	}
	start, end := safemath.PageBounds(page, limit, c.length)
	records := make([]token.TransferRecord, 0, end-start)
	for i := start; i < end; i++ {
		data, err := l.rw.Get(store.HistoryRecordKey(account, c.head+i))
		if err != nil {
			return nil, fmt.Errorf("get record %d: %w", c.head+i, err)
		}
		var rec token.TransferRecord
		if err := rec.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("unmarshal record %d: %w", c.head+i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *Log) cursor(account token.AccountID) (cursor, error) {
	data, err := l.rw.Get(store.HistoryCursorKey(account))
	if errors.Is(err, db.ErrNotFound) {
		return cursor{}, nil
	}
	if err != nil {
		return cursor{}, fmt.Errorf("get cursor: %w", err)
	}
	if len(data) != 16 {
		return cursor{}, fmt.Errorf("corrupt history cursor of %d bytes", len(data))
	}
	return cursor{
		head:   binary.BigEndian.Uint64(data[:8]),
		length: binary.BigEndian.Uint64(data[8:]),
	}, nil
}
