package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/tokenledger/internal/ledger"
	"github.com/eigerco/tokenledger/internal/token"
)

var (
	alice = token.AccountID{0xa}.String()
	bob   = token.AccountID{0xb}.String()
	carol = token.AccountID{0xc}.String()
)

// run executes one ledgerctl invocation and returns its standard output.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	full := append([]string{"ledgerctl", "--db", dir, "--log-level", "disabled", "--timestamp", "1700000000"}, args...)
	err := app.Run(full)
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	require.NoError(t, err, "ledgerctl %s", strings.Join(args, " "))
	return strings.TrimSpace(out)
}

func TestCommandsPersistAcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "--caller", alice, "genesis", "--name", "PidChat", "--symbol", "PID", "--decimals", "12", "1000000")
	assert.Contains(t, mustRun(t, dir, "info"), "symbol: PID")

	mustRun(t, dir, "--caller", alice, "transfer", bob, "100")
	assert.Equal(t, "999900", mustRun(t, dir, "balance", alice))
	assert.Equal(t, "100", mustRun(t, dir, "balance", bob))

	_, err := run(t, dir, "--caller", alice, "transfer", bob, "2000000")
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)
	assert.Equal(t, "100", mustRun(t, dir, "balance", bob))

	mustRun(t, dir, "--caller", alice, "approve", bob, "500")
	mustRun(t, dir, "--caller", bob, "transfer-from", alice, carol, "300")
	assert.Equal(t, "300", mustRun(t, dir, "balance", carol))
	assert.Equal(t, "200", mustRun(t, dir, "allowance", alice, bob))

	mustRun(t, dir, "--caller", alice, "increase-allowance", bob, "50")
	mustRun(t, dir, "--caller", alice, "decrease-allowance", bob, "25")
	assert.Equal(t, "225", mustRun(t, dir, "allowance", alice, bob))

	mustRun(t, dir, "--caller", carol, "burn", "100")
	assert.Equal(t, "999900", mustRun(t, dir, "supply"))

	lines := strings.Split(mustRun(t, dir, "history", "--page", "1", "--limit", "10", carol), "\n")
	require.Len(t, lines, 1)
	var rec recordJSON
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "300", rec.Value)
	assert.Equal(t, uint64(1700000000), rec.Timestamp)
	assert.Equal(t, carol, rec.To.String())

	holders := mustRun(t, dir, "holders")
	assert.Len(t, strings.Split(holders, "\n"), 3)
}

func TestCallerRequired(t *testing.T) {
	_, err := run(t, t.TempDir(), "transfer", bob, "1")
	assert.ErrorContains(t, err, "--caller")
}

func TestGenesisDecimalsRange(t *testing.T) {
	dir := t.TempDir()

	for _, decimals := range []string{"256", "300"} {
		_, err := run(t, dir, "--caller", alice, "genesis", "--decimals", decimals, "1000")
		assert.ErrorContains(t, err, "out of range", "decimals %s", decimals)
	}
	_, err := run(t, dir, "info")
	assert.ErrorIs(t, err, ledger.ErrNotInitialized)

	mustRun(t, dir, "--caller", alice, "genesis", "--decimals", "255", "1000")
	assert.Contains(t, mustRun(t, dir, "info"), "decimals: 255")
}

func TestArgumentCount(t *testing.T) {
	_, err := run(t, t.TempDir(), "--caller", alice, "transfer", bob)
	assert.ErrorContains(t, err, "expected 2 arguments")
}

func TestAccountFromPublicKey(t *testing.T) {
	pub := strings.Repeat("ab", 32)
	out := mustRun(t, t.TempDir(), "account", "--public-key", pub)
	_, err := token.ParseAccountID(out)
	assert.NoError(t, err)

	generated := mustRun(t, t.TempDir(), "account")
	assert.Contains(t, generated, "private key: ")
}
