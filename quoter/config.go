package quoter

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	commonconfig "github.com/smartcontractkit/chainlink-common/pkg/config"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

var (
	DefaultQuoteTTL      = commonconfig.MustNewDuration(5 * time.Minute)
	DefaultListenAddress = ":8090"
)

// ChainPricing prices one chain. BaseFee and GasPrice apply when the chain is the destination,
// NativePrice is used on both sides of a route. Prices share one fixed point unit across chains.
type ChainPricing struct {
	ChainID     uint16 `toml:"chain_id"`
	BaseFee     uint64 `toml:"base_fee"`
	GasPrice    uint64 `toml:"gas_price"`
	NativePrice uint64 `toml:"native_price"`
}

type QuoterConfig struct {
	ListenAddress string                 `toml:"listen_address"`
	QuoteTTL      *commonconfig.Duration `toml:"quote_ttl"`
	// PayeeAddress receives payments on the destination. 0x-prefixed, at most 32 bytes.
	PayeeAddress string         `toml:"payee_address"`
	Chains       []ChainPricing `toml:"Chains"`
}

func (c *QuoterConfig) Validate() error {
	if c.QuoteTTL == nil || c.QuoteTTL.Duration() <= 0 {
		return errors.New("quote_ttl must be positive")
	}
	if _, err := protocol.NewBytes32FromString(c.PayeeAddress); err != nil {
		return fmt.Errorf("invalid payee_address: %w", err)
	}
	if len(c.Chains) == 0 {
		return errors.New("at least one chain must be priced")
	}
	seen := make(map[uint16]struct{}, len(c.Chains))
	for _, ch := range c.Chains {
		if ch.ChainID == 0 {
			return errors.New("chain_id must be set")
		}
		if _, ok := seen[ch.ChainID]; ok {
			return fmt.Errorf("chain %d is priced twice", ch.ChainID)
		}
		seen[ch.ChainID] = struct{}{}
		if ch.NativePrice == 0 {
			return fmt.Errorf("chain %d: native_price must be positive", ch.ChainID)
		}
	}
	return nil
}

func (c *QuoterConfig) SetDefaults() {
	if c.QuoteTTL == nil {
		c.QuoteTTL = DefaultQuoteTTL
	}
	if c.ListenAddress == "" {
		c.ListenAddress = DefaultListenAddress
	}
}

type Config struct {
	// Product specific config.
	QuoterConfig
	LogLevel zapcore.Level `toml:"loglevel"`
}

func (c *Config) Validate() error {
	if err := c.QuoterConfig.Validate(); err != nil {
		return fmt.Errorf("invalid quoter config: %w", err)
	}
	return nil
}

func (c *Config) SetDefaults() {
	c.QuoterConfig.SetDefaults()
	if c.LogLevel == zapcore.Level(0) {
		c.LogLevel = zapcore.InfoLevel
	}
}
