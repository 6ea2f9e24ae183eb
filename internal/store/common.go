package store

import (
	"encoding/binary"

	"github.com/eigerco/tokenledger/internal/constants"
	"github.com/eigerco/tokenledger/internal/token"
)

const (
	ErrFailedBatchCommit = "failed to commit batch: %w"
)

// Prefix constants for all ledger keys
const (
	prefixTotalSupply byte = iota + 1
	prefixBalance
	prefixAllowance
	prefixHistoryCursor
	prefixHistoryRecord
	prefixMetadata
)

// PrefixToString converts a prefix byte to a string
func PrefixToString(p byte) string {
	switch p {
	case prefixTotalSupply:
		return "totalSupply"
	case prefixBalance:
		return "balance"
	case prefixAllowance:
		return "allowance"
	case prefixHistoryCursor:
		return "historyCursor"
	case prefixHistoryRecord:
		return "historyRecord"
	case prefixMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// makeKey creates a key from a prefix and the concatenated parts
func makeKey(prefix byte, parts ...[]byte) []byte {
	n := 1
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 1, n)
	key[0] = prefix
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func TotalSupplyKey() []byte {
	return []byte{prefixTotalSupply}
}

func MetadataKey() []byte {
	return []byte{prefixMetadata}
}

func BalanceKey(account token.AccountID) []byte {
	return makeKey(prefixBalance, account[:])
}

// BalanceRange returns the [start, end) bounds covering every balance key.
func BalanceRange() (start, end []byte) {
	return []byte{prefixBalance}, []byte{prefixBalance + 1}
}

// AccountFromBalanceKey is the inverse of BalanceKey.
func AccountFromBalanceKey(key []byte) (token.AccountID, bool) {
	var id token.AccountID
	if len(key) != 1+len(id) || key[0] != prefixBalance {
		return id, false
	}
	copy(id[:], key[1:])
	return id, true
}

func AllowanceKey(owner, spender token.AccountID) []byte {
	return makeKey(prefixAllowance, owner[:], spender[:])
}

func HistoryCursorKey(account token.AccountID) []byte {
	return makeKey(prefixHistoryCursor, account[:])
}

// HistoryRecordKey orders an account's records by sequence number.
func HistoryRecordKey(account token.AccountID, seq uint64) []byte {
	var s [constants.SequenceSize]byte
	binary.BigEndian.PutUint64(s[:], seq)
	return makeKey(prefixHistoryRecord, account[:], s[:])
}
