package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/urfave/cli"

	"github.com/eigerco/tokenledger/internal/token"
)

func commands(s *session) []cli.Command {
	return []cli.Command{
		{
			Name:      "genesis",
			Usage:     "mint the initial supply to the caller",
			ArgsUsage: "<supply>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "name"},
				cli.StringFlag{Name: "symbol"},
				cli.UintFlag{Name: "decimals"},
			},
			Action: s.genesis,
		},
		{Name: "info", Usage: "print token metadata and supply", Action: s.info},
		{Name: "supply", Usage: "print the total supply", Action: s.supply},
		{Name: "balance", Usage: "print an account balance", ArgsUsage: "<account>", Action: s.balance},
		{Name: "allowance", Usage: "print a spending limit", ArgsUsage: "<owner> <spender>", Action: s.allowance},
		{Name: "transfer", Usage: "move tokens from the caller", ArgsUsage: "<to> <value>", Action: s.transfer},
		{Name: "transfer-from", Usage: "move tokens under an allowance", ArgsUsage: "<from> <to> <value>", Action: s.transferFrom},
		{Name: "approve", Usage: "set the allowance of a spender", ArgsUsage: "<spender> <value>", Action: s.approve},
		{Name: "increase-allowance", ArgsUsage: "<spender> <value>", Action: s.increaseAllowance},
		{Name: "decrease-allowance", ArgsUsage: "<spender> <value>", Action: s.decreaseAllowance},
		{Name: "burn", Usage: "destroy tokens held by the caller", ArgsUsage: "<value>", Action: s.burn},
		{
			Name:      "history",
			Usage:     "print a page of transfer history, oldest first",
			ArgsUsage: "[account]",
			Flags: []cli.Flag{
				cli.Uint64Flag{Name: "page", Value: 1},
				cli.Uint64Flag{Name: "limit", Value: 20},
			},
			Action: s.history,
		},
		{Name: "holders", Usage: "list every account with a balance", Action: s.holders},
		{
			Name:  "account",
			Usage: "derive an account id from an ed25519 public key, or from a new key pair",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "public-key", Usage: "hex encoded ed25519 public key"},
			},
			Action: s.account,
		},
	}
}

func args(c *cli.Context, n int) ([]string, error) {
	if c.NArg() != n {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", c.Command.Name, n, c.NArg())
	}
	return c.Args(), nil
}

func parseAccounts(raw ...string) ([]token.AccountID, error) {
	out := make([]token.AccountID, len(raw))
	for i, r := range raw {
		id, err := token.ParseAccountID(r)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func (s *session) genesis(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}
	env, err := s.env(c)
	if err != nil {
		return err
	}
	supply, err := token.ParseBalance(a[0])
	if err != nil {
		return err
	}
	decimals := c.Uint("decimals")
	if decimals > math.MaxUint8 {
		return fmt.Errorf("decimals %d out of range, at most %d", decimals, math.MaxUint8)
	}
	meta := token.Metadata{
		Name:     c.String("name"),
		Symbol:   c.String("symbol"),
		Decimals: uint8(decimals),
	}
	return s.ledger.Genesis(env, supply, meta)
}

func (s *session) info(c *cli.Context) error {
	meta, err := s.ledger.Metadata()
	if err != nil {
		return err
	}
	supply, err := s.ledger.TotalSupply()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "name: %s\nsymbol: %s\ndecimals: %d\ntotal supply: %s\n", meta.Name, meta.Symbol, meta.Decimals, supply.Dec())
	return nil
}

func (s *session) supply(c *cli.Context) error {
	supply, err := s.ledger.TotalSupply()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, supply.Dec())
	return nil
}

func (s *session) balance(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}
	ids, err := parseAccounts(a...)
	if err != nil {
		return err
	}
	bal, err := s.ledger.BalanceOf(ids[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, bal.Dec())
	return nil
}

func (s *session) allowance(c *cli.Context) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	ids, err := parseAccounts(a...)
	if err != nil {
		return err
	}
	amount, err := s.ledger.Allowance(ids[0], ids[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, amount.Dec())
	return nil
}

// accountValueCall handles the "<account> <value>" commands run as the caller.
func (s *session) accountValueCall(c *cli.Context, call func(token.Env, token.AccountID, token.Balance) error) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	env, err := s.env(c)
	if err != nil {
		return err
	}
	ids, err := parseAccounts(a[0])
	if err != nil {
		return err
	}
	value, err := token.ParseBalance(a[1])
	if err != nil {
		return err
	}
	return call(env, ids[0], value)
}

func (s *session) transfer(c *cli.Context) error {
	return s.accountValueCall(c, s.ledger.Transfer)
}

func (s *session) approve(c *cli.Context) error {
	return s.accountValueCall(c, s.ledger.Approve)
}

func (s *session) increaseAllowance(c *cli.Context) error {
	return s.accountValueCall(c, s.ledger.IncreaseAllowance)
}

func (s *session) decreaseAllowance(c *cli.Context) error {
	return s.accountValueCall(c, s.ledger.DecreaseAllowance)
}

func (s *session) transferFrom(c *cli.Context) error {
	a, err := args(c, 3)
	if err != nil {
		return err
	}
	env, err := s.env(c)
	if err != nil {
		return err
	}
	ids, err := parseAccounts(a[0], a[1])
	if err != nil {
		return err
	}
	value, err := token.ParseBalance(a[2])
	if err != nil {
		return err
	}
	return s.ledger.TransferFrom(env, ids[0], ids[1], value)
}

func (s *session) burn(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}
	env, err := s.env(c)
	if err != nil {
		return err
	}
	value, err := token.ParseBalance(a[0])
	if err != nil {
		return err
	}
	return s.ledger.Burn(env, value)
}

type recordJSON struct {
	From      token.AccountID `json:"from"`
	To        token.AccountID `json:"to"`
	Value     string          `json:"value"`
	Timestamp uint64          `json:"timestamp"`
}

func (s *session) history(c *cli.Context) error {
	var account token.AccountID
	switch c.NArg() {
	case 0:
		env, err := s.env(c)
		if err != nil {
			return err
		}
		account = env.Caller
	case 1:
		ids, err := parseAccounts(c.Args().First())
		if err != nil {
			return err
		}
		account = ids[0]
	default:
		return fmt.Errorf("history: expected at most one account")
	}

	records, err := s.ledger.HistoryOf(account, c.Uint64("page"), c.Uint64("limit"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(s.out)
	for _, r := range records {
		if err := enc.Encode(recordJSON{From: r.From, To: r.To, Value: r.Value.Dec(), Timestamp: r.Timestamp}); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) holders(c *cli.Context) error {
	return s.ledger.Holders(func(account token.AccountID, bal token.Balance) error {
		_, err := fmt.Fprintf(s.out, "%s %s\n", account, bal.Dec())
		return err
	})
}

func (s *session) account(c *cli.Context) error {
	out := c.App.Writer
	if raw := c.String("public-key"); raw != "" {
		pub, err := hex.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("decode public key: %w", err)
		}
		id, err := token.AccountIDFromPublicKey(pub)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, id)
		return nil
	}

	pub, prv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return err
	}
	id, err := token.AccountIDFromPublicKey(pub)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "account: %s\npublic key: %s\nprivate key: %s\n", id, hex.EncodeToString(pub), hex.EncodeToString(prv))
	return nil
}
