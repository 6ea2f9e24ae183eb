package token

import (
	"errors"
	"fmt"

	"github.com/eigerco/tokenledger/internal/constants"
)

var ErrInvalidMetadata = errors.New("invalid token metadata")

// Metadata describes the token. Name and Symbol may be empty.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// MarshalBinary encodes len(name) | name | len(symbol) | symbol | decimals.
func (m Metadata) MarshalBinary() ([]byte, error) {
	if len(m.Name) > constants.MaxTokenNameSize || len(m.Symbol) > constants.MaxTokenNameSize {
		return nil, fmt.Errorf("%w: name or symbol longer than %d bytes", ErrInvalidMetadata, constants.MaxTokenNameSize)
	}
	out := make([]byte, 0, 3+len(m.Name)+len(m.Symbol))
	out = append(out, byte(len(m.Name)))
	out = append(out, m.Name...)
	out = append(out, byte(len(m.Symbol)))
	out = append(out, m.Symbol...)
	out = append(out, m.Decimals)
	return out, nil
}

func (m *Metadata) UnmarshalBinary(data []byte) error {
	name, rest, err := readShortString(data)
	if err != nil {
		return err
	}
	symbol, rest, err := readShortString(rest)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: trailing %d bytes", ErrInvalidMetadata, len(rest))
	}
	m.Name, m.Symbol, m.Decimals = name, symbol, rest[0]
	return nil
}

func readShortString(data []byte) (string, []byte, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: truncated", ErrInvalidMetadata)
	}
	n := int(data[0])
	if len(data) < 1+n {
		return "", nil, fmt.Errorf("%w: truncated", ErrInvalidMetadata)
	}
	return string(data[1 : 1+n]), data[1+n:], nil
}
