package executor

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

const (
	DefaultConfigFile = "/etc/config.toml"

	backoffDurationDefault     = 15 * time.Second
	maxRetryDurationDefault    = 8 * time.Hour
	executionIntervalDefault   = 30 * time.Second
	ntpServerDefault           = "time.google.com"
	workerCountDefault         = 16
	listenAddressDefault       = ":8080"
	vaaRequestTimeoutDefault   = 10 * time.Second
	maxResolverIterDefault     = 5
	storageDriverDefault       = "sqlite"
	storageDSNDefault          = "executor.db"
	commitmentDefault          = "confirmed"
	resolverModeDefault        = ResolverModeSimulation
	resolverCacheSizeDefault   = 1024
	resolverCacheTTLDefault    = time.Minute
	resolverRetriesDefault     = 3
	resolverReqTimeoutDefault  = 10 * time.Second
	resolverBreakerFailDefault = 5
)

// Resolver modes.
const (
	// ResolverModeSimulation resolves by simulating the destination program's resolving entrypoint.
	ResolverModeSimulation = "simulation"
	// ResolverModeLocal resolves with the built-in token bridge relayer resolver.
	ResolverModeLocal = "local"
)

// Configuration is the executor's TOML configuration. Zero values are replaced with defaults by
// GetNormalizedConfig.
type Configuration struct {
	ExecutorID        string        `toml:"executor_id"`
	ExecutorPool      []string      `toml:"executor_pool"`
	OurChain          uint16        `toml:"our_chain"`
	QuoterAddresses   []string      `toml:"quoter_addresses"`
	ExecutionInterval time.Duration `toml:"execution_interval"`
	MaxRetryDuration  time.Duration `toml:"max_retry_duration"`
	BackoffDuration   time.Duration `toml:"ntp_backoff_duration"`
	NtpServer         string        `toml:"ntp_server"`
	WorkerCount       int           `toml:"worker_count"`
	PyroscopeURL      string        `toml:"pyroscope_url"`

	API        APIConfig        `toml:"API"`
	Solana     SolanaConfig     `toml:"Solana"`
	VAA        VAAConfig        `toml:"VAA"`
	Storage    StorageConfig    `toml:"Storage"`
	Monitoring MonitoringConfig `toml:"Monitoring"`
}

type APIConfig struct {
	ListenAddress string `toml:"listen_address"`
}

// SolanaConfig describes the destination chain connection and the programs the executor relays to.
type SolanaConfig struct {
	RPCURL               string `toml:"rpc_url"`
	Commitment           string `toml:"commitment"`
	RelayerProgramID     string `toml:"relayer_program_id"`
	TokenBridgeProgramID string `toml:"token_bridge_program_id"`
	WormholeProgramID    string `toml:"wormhole_program_id"`

	ResolverMode          string        `toml:"resolver_mode"`
	MaxResolverIterations int           `toml:"max_resolver_iterations"`
	ResolverCacheSize     int           `toml:"resolver_cache_size"`
	ResolverCacheTTL      time.Duration `toml:"resolver_cache_ttl"`
	// RPC resilience
	MaxRetries       int           `toml:"max_retries"`
	RequestTimeout   time.Duration `toml:"request_timeout"`
	FailureThreshold uint          `toml:"failure_threshold"`
}

// VAAConfig points at the attestation API serving signed VAAs.
type VAAConfig struct {
	APIURL         string        `toml:"api_url"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// StorageConfig selects the status store backend, sqlite or postgres.
type StorageConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// MonitoringConfig provides monitoring configuration for executor.
type MonitoringConfig struct {
	// Enabled enables the monitoring system.
	Enabled bool `toml:"Enabled"`
	// Type is the type of monitoring system to use (beholder, noop).
	Type string `toml:"Type"`
	// Beholder is the configuration for the beholder client (Not required if type is noop).
	Beholder BeholderConfig `toml:"Beholder"`
}

// BeholderConfig wraps OpenTelemetry configuration for the beholder client.
type BeholderConfig struct {
	// InsecureConnection disables TLS for the beholder client.
	InsecureConnection bool `toml:"InsecureConnection"`
	// CACertFile is the path to the CA certificate file for the beholder client.
	CACertFile string `toml:"CACertFile"`
	// OtelExporterGRPCEndpoint is the endpoint for the beholder client to export to the collector.
	OtelExporterGRPCEndpoint string `toml:"OtelExporterGRPCEndpoint"`
	// OtelExporterHTTPEndpoint is the endpoint for the beholder client to export to the collector.
	OtelExporterHTTPEndpoint string `toml:"OtelExporterHTTPEndpoint"`
	// LogStreamingEnabled enables log streaming to the collector.
	LogStreamingEnabled bool `toml:"LogStreamingEnabled"`
	// MetricReaderInterval is the interval to scrape metrics (in seconds).
	MetricReaderInterval int64 `toml:"MetricReaderInterval"`
	// TraceSampleRatio is the ratio of traces to sample.
	TraceSampleRatio float64 `toml:"TraceSampleRatio"`
	// TraceBatchTimeout is the timeout for a batch of traces.
	TraceBatchTimeout int64 `toml:"TraceBatchTimeout"`
}

func (c *Configuration) Validate() error {
	if c.ExecutorID == "" {
		return errors.New("executor_id must be configured")
	}
	if len(c.ExecutorPool) == 0 {
		return errors.New("executor_pool must be configured")
	}
	if !slices.Contains(c.ExecutorPool, c.ExecutorID) {
		return fmt.Errorf("executor_id '%s' not found in executor_pool", c.ExecutorID)
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.OurChain, validation.Required),
		validation.Field(&c.QuoterAddresses, validation.Each(validation.By(isHexAddress))),
		validation.Field(&c.WorkerCount, validation.Min(0)),
		validation.Field(&c.MaxRetryDuration, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return err
	}
	if err = c.Solana.Validate(); err != nil {
		return fmt.Errorf("invalid Solana config: %w", err)
	}
	if err = c.VAA.Validate(); err != nil {
		return fmt.Errorf("invalid VAA config: %w", err)
	}
	if err = c.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}
	return c.Monitoring.Validate()
}

func (s *SolanaConfig) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.RPCURL, validation.Required),
		validation.Field(&s.RelayerProgramID, validation.Required, validation.By(isBase58PublicKey)),
		validation.Field(&s.TokenBridgeProgramID, validation.By(isBase58PublicKey)),
		validation.Field(&s.WormholeProgramID, validation.Required, validation.By(isBase58PublicKey)),
		validation.Field(&s.ResolverMode, validation.In(ResolverModeSimulation, ResolverModeLocal)),
		validation.Field(&s.Commitment, validation.In("processed", "confirmed", "finalized")),
		validation.Field(&s.MaxResolverIterations, validation.Min(0)),
	)
}

func (v *VAAConfig) Validate() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.APIURL, validation.Required),
	)
}

func (s *StorageConfig) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Driver, validation.In("sqlite", "postgres")),
	)
}

// Validate performs validation on the monitoring configuration.
func (m *MonitoringConfig) Validate() error {
	if m.Enabled && m.Type == "" {
		return fmt.Errorf("monitoring type is required when monitoring is enabled")
	}

	if m.Enabled && m.Type == "beholder" {
		if err := m.Beholder.Validate(); err != nil {
			return fmt.Errorf("beholder config validation failed: %w", err)
		}
	}

	return nil
}

// Validate performs validation on the beholder configuration.
func (b *BeholderConfig) Validate() error {
	if b.MetricReaderInterval <= 0 {
		return fmt.Errorf("metric_reader_interval must be positive, got %d", b.MetricReaderInterval)
	}

	if b.TraceSampleRatio < 0 || b.TraceSampleRatio > 1 {
		return fmt.Errorf("trace_sample_ratio must be between 0 and 1, got %f", b.TraceSampleRatio)
	}

	if b.TraceBatchTimeout <= 0 {
		return fmt.Errorf("trace_batch_timeout must be positive, got %d", b.TraceBatchTimeout)
	}

	return nil
}

// GetNormalizedConfig validates the configuration and returns a copy with defaults applied.
func (c *Configuration) GetNormalizedConfig() (*Configuration, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := *c
	setDefault(&out.ExecutionInterval, executionIntervalDefault)
	setDefault(&out.MaxRetryDuration, maxRetryDurationDefault)
	setDefault(&out.BackoffDuration, backoffDurationDefault)
	setDefault(&out.NtpServer, ntpServerDefault)
	setDefault(&out.WorkerCount, workerCountDefault)
	setDefault(&out.API.ListenAddress, listenAddressDefault)
	setDefault(&out.VAA.RequestTimeout, vaaRequestTimeoutDefault)
	setDefault(&out.Storage.Driver, storageDriverDefault)
	setDefault(&out.Storage.DSN, storageDSNDefault)
	setDefault(&out.Solana.Commitment, commitmentDefault)
	setDefault(&out.Solana.ResolverMode, resolverModeDefault)
	setDefault(&out.Solana.MaxResolverIterations, maxResolverIterDefault)
	setDefault(&out.Solana.ResolverCacheSize, resolverCacheSizeDefault)
	setDefault(&out.Solana.ResolverCacheTTL, resolverCacheTTLDefault)
	setDefault(&out.Solana.MaxRetries, resolverRetriesDefault)
	setDefault(&out.Solana.RequestTimeout, resolverReqTimeoutDefault)
	setDefault(&out.Solana.FailureThreshold, resolverBreakerFailDefault)
	out.ExecutorPool = slices.Clone(c.ExecutorPool)
	out.QuoterAddresses = slices.Clone(c.QuoterAddresses)
	return &out, nil
}

// ChainID is the destination chain this executor serves.
func (c *Configuration) ChainID() protocol.ChainID {
	return protocol.ChainID(c.OurChain)
}

// Quoters returns the accepted quoter addresses. An empty list accepts any quoter.
func (c *Configuration) Quoters() []common.Address {
	out := make([]common.Address, 0, len(c.QuoterAddresses))
	for _, a := range c.QuoterAddresses {
		out = append(out, common.HexToAddress(a))
	}
	return out
}

func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

func isHexAddress(value any) error {
	s, _ := value.(string)
	if !common.IsHexAddress(s) {
		return fmt.Errorf("%q is not a hex address", s)
	}
	return nil
}

func isBase58PublicKey(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := solana.PublicKeyFromBase58(s); err != nil {
		return fmt.Errorf("%q is not a base58 public key: %w", s, err)
	}
	return nil
}
