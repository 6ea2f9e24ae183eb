package token

import (
	"encoding/binary"
	"fmt"

	"github.com/eigerco/tokenledger/internal/constants"
)

// TransferRecord is one entry of an account's transfer history.
type TransferRecord struct {
	From      AccountID
	To        AccountID
	Value     Balance
	Timestamp uint64
}

// MarshalBinary encodes the record as from | to | value | timestamp.
func (r TransferRecord) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, constants.TransferRecordSize)
	out = append(out, r.From[:]...)
	out = append(out, r.To[:]...)
	out = append(out, EncodeBalance(r.Value)...)
	out = binary.BigEndian.AppendUint64(out, r.Timestamp)
	return out, nil
}

func (r *TransferRecord) UnmarshalBinary(data []byte) error {
	if len(data) != constants.TransferRecordSize {
		return fmt.Errorf("transfer record: expected %d bytes, got %d", constants.TransferRecordSize, len(data))
	}
	off := 0
	copy(r.From[:], data[off:off+constants.AccountIDSize])
	off += constants.AccountIDSize
	copy(r.To[:], data[off:off+constants.AccountIDSize])
	off += constants.AccountIDSize
	value, err := DecodeBalance(data[off : off+constants.BalanceSize])
	if err != nil {
		return err
	}
	r.Value = value
	off += constants.BalanceSize
	r.Timestamp = binary.BigEndian.Uint64(data[off:])
	return nil
}
