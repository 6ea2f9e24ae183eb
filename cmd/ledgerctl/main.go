package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/eigerco/tokenledger/internal/ledger"
	"github.com/eigerco/tokenledger/internal/token"
	"github.com/eigerco/tokenledger/pkg/db"
	"github.com/eigerco/tokenledger/pkg/log"
)

// session is the state shared by the commands of one invocation.
type session struct {
	kv     db.KVStore
	ledger *ledger.Ledger
	out    io.Writer
}

// main runs one ledger call against a local store.
// go run ./cmd/ledgerctl --caller <account> transfer <to> <value>
func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	s := &session{}

	app := cli.NewApp()
	app.Name = "ledgerctl"
	app.Usage = "inspect and drive a fungible-token ledger"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML configuration `FILE`"},
		cli.StringFlag{Name: "backend", Usage: "store backend: pebble or leveldb"},
		cli.StringFlag{Name: "db", Usage: "store `DIR`"},
		cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
		cli.StringFlag{Name: "caller", Usage: "base58 `ACCOUNT` performing the call"},
		cli.Uint64Flag{Name: "timestamp", Usage: "call timestamp in unix seconds, defaults to now"},
	}
	app.Before = func(c *cli.Context) error {
		switch c.Args().First() {
		case "", "account", "help", "h":
			return nil
		}
		return s.open(c)
	}
	app.After = func(c *cli.Context) error {
		if s.kv == nil {
			return nil
		}
		return s.kv.Close()
	}
	app.Commands = commands(s)
	return app
}

func (s *session) open(c *cli.Context) error {
	cfg, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return err
	}
	if v := c.GlobalString("backend"); v != "" {
		cfg.Store.Backend = v
	}
	if v := c.GlobalString("db"); v != "" {
		cfg.Store.Path = v
	}
	if v := c.GlobalString("log-level"); v != "" {
		cfg.Log.Level = v
	}

	level, err := log.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	format, err := log.ParseLoggerType(cfg.Log.Format)
	if err != nil {
		return err
	}
	log.Init(log.Options{LogLevel: level, Type: format})

	lcfg, err := cfg.ledgerConfig()
	if err != nil {
		return err
	}
	kv, err := cfg.openStore()
	if err != nil {
		return err
	}
	l, err := ledger.New(kv, lcfg)
	if err != nil {
		kv.Close() //nolint:errcheck
		return err
	}
	s.kv, s.ledger, s.out = kv, l, c.App.Writer
	log.Store.Debug().Str("backend", cfg.Store.Backend).Str("path", cfg.Store.Path).Msg("store opened")
	return nil
}

// env builds the execution context of the call from the global flags.
func (s *session) env(c *cli.Context) (token.Env, error) {
	raw := c.GlobalString("caller")
	if raw == "" {
		return token.Env{}, fmt.Errorf("--caller is required for %s", c.Command.Name)
	}
	caller, err := token.ParseAccountID(raw)
	if err != nil {
		return token.Env{}, err
	}
	ts := c.GlobalUint64("timestamp")
	if ts == 0 {
		ts = uint64(time.Now().Unix())
	}
	log.CLI.Debug().Str("command", c.Command.Name).Stringer("caller", caller).Uint64("timestamp", ts).Msg("call context")
	return token.Env{Caller: caller, Timestamp: ts}, nil
}
