package constants

// Constants that are the same for all ledger configurations

const (
	AccountIDSize      = 32 // Size of an account identifier in octets
	BalanceSize        = 32 // 256-bit unsigned balances, big-endian
	TimestampSize      = 8
	SequenceSize       = 8 // History sequence numbers, big-endian
	TransferRecordSize = 2*AccountIDSize + BalanceSize + TimestampSize

	// MaxTokenNameSize bounds name and symbol octets in stored metadata
	MaxTokenNameSize = 255
)
