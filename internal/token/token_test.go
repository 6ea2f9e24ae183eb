package token

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestAccountIDText(t *testing.T) {
	var id AccountID
	for i := range id {
		id[i] = byte(i)
	}

	parsed, err := ParseAccountID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseAccountID("0OIl") // not in the base58 alphabet
	assert.Error(t, err)

	_, err = ParseAccountID("2g") // valid base58, wrong length
	assert.Error(t, err)
}

func TestAccountIDFromPublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	id, err := AccountIDFromPublicKey(pub)
	require.NoError(t, err)
	assert.Equal(t, AccountID(blake2b.Sum256(pub)), id)

	_, err = AccountIDFromPublicKey(pub[:10])
	assert.Error(t, err)
}

func TestParseBalance(t *testing.T) {
	b, err := ParseBalance("1000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", b.Dec())

	_, err = ParseBalance("-1")
	assert.Error(t, err)

	_, err = DecodeBalance([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestTransferRecordEncoding(t *testing.T) {
	rec := TransferRecord{
		From:      AccountID{1},
		To:        AccountID{2},
		Value:     NewBalance(300),
		Timestamp: 1_700_000_000,
	}
	data, err := rec.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 104)

	var decoded TransferRecord
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, rec, decoded)

	assert.Error(t, decoded.UnmarshalBinary(data[:50]))
}

func TestMetadataEncoding(t *testing.T) {
	m := Metadata{Name: "PidChat", Symbol: "PID", Decimals: 12}
	data, err := m.MarshalBinary()
	require.NoError(t, err)

	var decoded Metadata
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, m, decoded)

	assert.ErrorIs(t, decoded.UnmarshalBinary(data[:4]), ErrInvalidMetadata)

	_, err = Metadata{Name: strings.Repeat("x", 256)}.MarshalBinary()
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}
