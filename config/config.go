// Package config centralizes runtime configuration for the ledger demo. It
// decodes an optional JSON file over the defaults, so any field present in
// the file wins, even a zero value. LEDGER_* environment variables are
// applied last (a .env file in the working directory is loaded first when
// present).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds configurable options.
type Config struct {
	Signer        string   `json:"signer"`
	GenesisAmount string   `json:"genesis_amount"`
	GenesisPayee  string   `json:"genesis_payee"`
	Difficulty    int      `json:"difficulty"`
	MaxAttempts   int64    `json:"max_attempts"`
	ArchiveDriver string   `json:"archive_driver"`
	ArchiveDSN    string   `json:"archive_dsn"`
	KafkaBrokers  []string `json:"kafka_brokers"`
	KafkaTopic    string   `json:"kafka_topic"`
	LogLevel      string   `json:"log_level"`
}

// Default returns the built-in configuration: RSA keys, a 500 genesis
// transfer, four hex digits of proof-of-work difficulty and no archive or
// event publishing.
func Default() *Config {
	return &Config{
		Signer:        "rsa",
		GenesisAmount: "500",
		GenesisPayee:  "satoshi",
		Difficulty:    4,
		MaxAttempts:   1 << 24,
		KafkaTopic:    "ledger.blocks",
		LogLevel:      "info",
	}
}

// LoadConfig decodes the JSON file at path, if any, over Default() and
// applies environment overrides. A missing file is not an error; a file
// that cannot be parsed is.
func LoadConfig(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := json.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("LEDGER_SIGNER"); ok {
		c.Signer = v
	}
	if v, ok := os.LookupEnv("LEDGER_GENESIS_AMOUNT"); ok {
		c.GenesisAmount = v
	}
	if v, ok := os.LookupEnv("LEDGER_GENESIS_PAYEE"); ok {
		c.GenesisPayee = v
	}
	if v, ok := os.LookupEnv("LEDGER_DIFFICULTY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEDGER_DIFFICULTY: %w", err)
		}
		c.Difficulty = n
	}
	if v, ok := os.LookupEnv("LEDGER_MAX_ATTEMPTS"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LEDGER_MAX_ATTEMPTS: %w", err)
		}
		c.MaxAttempts = n
	}
	if v, ok := os.LookupEnv("LEDGER_ARCHIVE_DRIVER"); ok {
		c.ArchiveDriver = v
	}
	if v, ok := os.LookupEnv("LEDGER_ARCHIVE_DSN"); ok {
		c.ArchiveDSN = v
	}
	if v, ok := os.LookupEnv("LEDGER_KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}
	if v, ok := os.LookupEnv("LEDGER_KAFKA_TOPIC"); ok {
		c.KafkaTopic = v
	}
	if v, ok := os.LookupEnv("LEDGER_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
