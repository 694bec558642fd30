package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"starkraffle/internal/amount"
	"starkraffle/internal/codec"
	"starkraffle/internal/logger"
	"starkraffle/internal/raffle"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Network struct {
		RPCURL        string        `env:"STARKNET_RPC_URL,required,notEmpty"`
		Timeout       time.Duration `env:"RPC_TIMEOUT" envDefault:"15s"`
		ChainID       string        `env:"STARKNET_CHAIN_ID" envDefault:"SN_SEPOLIA"`
		BlockID       string        `env:"STARKNET_BLOCK_ID" envDefault:"latest"`
		ExplorerTxURL string        `env:"EXPLORER_TX_URL" envDefault:"https://sepolia.voyager.online/tx/"`
		PollInterval  time.Duration `env:"TX_POLL_INTERVAL" envDefault:"3s"`
	}

	Contracts struct {
		Raffle        string `env:"RAFFLE_CONTRACT,required,notEmpty"`
		TokenAddress  string `env:"TOKEN_ADDRESS" envDefault:"0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"`
		TokenSymbol   string `env:"TOKEN_SYMBOL" envDefault:"STRK"`
		TokenDecimals uint8  `env:"TOKEN_DECIMALS" envDefault:"18"`
	}

	FetchConcurrency int    `env:"FETCH_CONCURRENCY" envDefault:"1"`
	JournalPath      string `env:"JOURNAL_PATH" envDefault:"journal.db"`
	ShareURL         string `env:"SHARE_URL"`

	Log struct {
		Level     string `env:"LOG_LEVEL" envDefault:"info"`
		File      string `env:"LOG_FILE"`
		ErrorFile string `env:"LOG_ERROR_FILE"`
		Console   bool   `env:"LOG_CONSOLE" envDefault:"true"`

		MaxSizeMB  int `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
		MaxBackups int `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment and parses it. Missing .env files are ignored since
// variables may be set directly.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize canonicalizes contract addresses and checks value ranges.
func (c *Config) normalize() error {
	raffleAddress, err := codec.CanonicalAddress(c.Contracts.Raffle)
	if err != nil {
		return fmt.Errorf("%w: RAFFLE_CONTRACT: %w", ErrInvalidConfig, err)
	}
	c.Contracts.Raffle = raffleAddress

	tokenAddress, err := codec.CanonicalAddress(c.Contracts.TokenAddress)
	if err != nil {
		return fmt.Errorf("%w: TOKEN_ADDRESS: %w", ErrInvalidConfig, err)
	}
	c.Contracts.TokenAddress = tokenAddress

	if c.Contracts.TokenDecimals > amount.MaxDecimals {
		return fmt.Errorf("%w: TOKEN_DECIMALS %d above %d", ErrInvalidConfig, c.Contracts.TokenDecimals, amount.MaxDecimals)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("%w: FETCH_CONCURRENCY must be at least 1", ErrInvalidConfig)
	}
	if c.Network.Timeout <= 0 {
		return fmt.Errorf("%w: RPC_TIMEOUT must be positive", ErrInvalidConfig)
	}
	switch c.Network.BlockID {
	case "latest", "pending", "pre_confirmed", "l1_accepted":
	default:
		return fmt.Errorf("%w: STARKNET_BLOCK_ID %q is not a block tag", ErrInvalidConfig, c.Network.BlockID)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("%w: LOG_MAX_SIZE_MB and LOG_MAX_BACKUPS must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) RaffleContracts() raffle.Contracts {
	return raffle.Contracts{
		Raffle: c.Contracts.Raffle,
		Token: amount.Token{
			Address:  c.Contracts.TokenAddress,
			Symbol:   c.Contracts.TokenSymbol,
			Decimals: c.Contracts.TokenDecimals,
		},
	}
}

func (c *Config) Logger() logger.Configuration {
	return logger.Configuration{
		LogFile:   c.Log.File,
		ErrorFile: c.Log.ErrorFile,
		Level:     c.Log.Level,
		Console:   c.Log.Console,

		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
