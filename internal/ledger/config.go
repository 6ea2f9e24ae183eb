package ledger

import (
	"errors"
	"fmt"

	"github.com/eigerco/tokenledger/internal/allowance"
	"github.com/eigerco/tokenledger/internal/constants"
)

var ErrInvalidConfig = errors.New("invalid ledger config")

// Config holds the ledger policies fixed for the lifetime of an instance.
type Config struct {
	// RetentionCap is the number of transfer records kept per account.
	RetentionCap uint64
	// AllowancePolicy selects how TransferFrom charges the allowance.
	AllowancePolicy allowance.Policy
}

func DefaultConfig() Config {
	return Config{
		RetentionCap:    constants.HistoryRetention,
		AllowancePolicy: allowance.Decrement,
	}
}

func (c Config) Validate() error {
	if c.RetentionCap == 0 {
		return fmt.Errorf("%w: retention cap must be at least 1", ErrInvalidConfig)
	}
	switch c.AllowancePolicy {
	case allowance.Decrement, allowance.Zero:
	default:
		return fmt.Errorf("%w: unknown allowance policy %s", ErrInvalidConfig, c.AllowancePolicy)
	}
	return nil
}
