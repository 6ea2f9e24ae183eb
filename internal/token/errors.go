package token

import "errors"

// Error kinds returned by ledger operations. None of them leave partial state
// behind; callers branch on them with errors.Is.
var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrOverflow              = errors.New("arithmetic overflow")
)
