package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eigerco/tokenledger/internal/allowance"
	"github.com/eigerco/tokenledger/internal/ledger"
	"github.com/eigerco/tokenledger/pkg/db"
	"github.com/eigerco/tokenledger/pkg/db/leveldb"
	"github.com/eigerco/tokenledger/pkg/db/pebble"
)

const (
	backendPebble  = "pebble"
	backendLevelDB = "leveldb"
)

// Config is the layout of the optional YAML configuration file.
type Config struct {
	Store struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"store"`
	Ledger struct {
		Retention       uint64 `yaml:"retention"`
		AllowancePolicy string `yaml:"allowance_policy"`
	} `yaml:"ledger"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func defaultConfig() Config {
	var c Config
	c.Store.Backend = backendPebble
	c.Store.Path = "ledger-data"
	c.Ledger.Retention = ledger.DefaultConfig().RetentionCap
	c.Ledger.AllowancePolicy = ledger.DefaultConfig().AllowancePolicy.String()
	c.Log.Level = "info"
	c.Log.Format = "console"
	return c
}

// loadConfig overlays the file at path onto the defaults. An empty path
// returns the defaults.
func loadConfig(path string) (Config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling YAML: %w", err)
	}
	return c, nil
}

func (c Config) ledgerConfig() (ledger.Config, error) {
	policy, err := allowance.ParsePolicy(c.Ledger.AllowancePolicy)
	if err != nil {
		return ledger.Config{}, err
	}
	cfg := ledger.Config{
		RetentionCap:    c.Ledger.Retention,
		AllowancePolicy: policy,
	}
	return cfg, cfg.Validate()
}

func (c Config) openStore() (db.KVStore, error) {
	var (
		kv  db.KVStore
		err error
	)
	switch c.Store.Backend {
	case backendPebble, "":
		kv, err = pebble.Open(c.Store.Path)
	case backendLevelDB:
		kv, err = leveldb.Open(c.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	return kv, nil
}
