package executor

import (
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

func validConfig() Configuration {
	return Configuration{
		ExecutorID:   "executor-1",
		ExecutorPool: []string{"executor-1", "executor-2"},
		OurChain:     1,
		Solana: SolanaConfig{
			RPCURL:            "http://solana:8899",
			RelayerProgramID:  "tbr7Qje6qBzPwfM52csL5KFi8ps5c5vDyiVVBLYVdRf",
			WormholeProgramID: "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth",
		},
		VAA: VAAConfig{APIURL: "https://api.wormholescan.io"},
	}
}

func TestConfiguration_Validate(t *testing.T) {
	cases := []struct {
		name            string
		mutate          func(c *Configuration)
		wantErrContains string
	}{
		{
			name:   "valid",
			mutate: func(*Configuration) {},
		},
		{
			name:            "missing_executor_id_fails",
			mutate:          func(c *Configuration) { c.ExecutorID = "" },
			wantErrContains: "executor_id must be configured",
		},
		{
			name:            "empty_pool_fails",
			mutate:          func(c *Configuration) { c.ExecutorPool = nil },
			wantErrContains: "executor_pool must be configured",
		},
		{
			name:            "executor_not_in_pool_fails",
			mutate:          func(c *Configuration) { c.ExecutorID = "executor-3" },
			wantErrContains: "not found in executor_pool",
		},
		{
			name:            "missing_chain_fails",
			mutate:          func(c *Configuration) { c.OurChain = 0 },
			wantErrContains: "OurChain",
		},
		{
			name:            "bad_quoter_address_fails",
			mutate:          func(c *Configuration) { c.QuoterAddresses = []string{"0x1234"} },
			wantErrContains: "not a hex address",
		},
		{
			name:            "bad_program_id_fails",
			mutate:          func(c *Configuration) { c.Solana.RelayerProgramID = "not-base58!" },
			wantErrContains: "not a base58 public key",
		},
		{
			name:            "missing_rpc_url_fails",
			mutate:          func(c *Configuration) { c.Solana.RPCURL = "" },
			wantErrContains: "invalid Solana config",
		},
		{
			name:            "unknown_resolver_mode_fails",
			mutate:          func(c *Configuration) { c.Solana.ResolverMode = "magic" },
			wantErrContains: "ResolverMode",
		},
		{
			name:            "missing_vaa_api_fails",
			mutate:          func(c *Configuration) { c.VAA.APIURL = "" },
			wantErrContains: "invalid VAA config",
		},
		{
			name:            "unknown_storage_driver_fails",
			mutate:          func(c *Configuration) { c.Storage.Driver = "mysql" },
			wantErrContains: "invalid storage config",
		},
		{
			name: "beholder_requires_reader_interval",
			mutate: func(c *Configuration) {
				c.Monitoring = MonitoringConfig{Enabled: true, Type: "beholder"}
			},
			wantErrContains: "metric_reader_interval must be positive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErrContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorContains(t, err, tc.wantErrContains)
		})
	}
}

func TestConfiguration_GetNormalizedConfig(t *testing.T) {
	t.Run("defaults_applied_when_zero", func(t *testing.T) {
		c := validConfig()
		normalized, err := c.GetNormalizedConfig()
		require.NoError(t, err)

		assert.Equal(t, executionIntervalDefault, normalized.ExecutionInterval)
		assert.Equal(t, maxRetryDurationDefault, normalized.MaxRetryDuration)
		assert.Equal(t, backoffDurationDefault, normalized.BackoffDuration)
		assert.Equal(t, ntpServerDefault, normalized.NtpServer)
		assert.Equal(t, workerCountDefault, normalized.WorkerCount)
		assert.Equal(t, listenAddressDefault, normalized.API.ListenAddress)
		assert.Equal(t, storageDriverDefault, normalized.Storage.Driver)
		assert.Equal(t, ResolverModeSimulation, normalized.Solana.ResolverMode)
		assert.Equal(t, maxResolverIterDefault, normalized.Solana.MaxResolverIterations)
		assert.Equal(t, commitmentDefault, normalized.Solana.Commitment)
		assert.Equal(t, protocol.ChainIDSolana, normalized.ChainID())

		// The receiver is not modified.
		assert.Zero(t, c.WorkerCount)
	})

	t.Run("custom_values_preserved", func(t *testing.T) {
		c := validConfig()
		c.ExecutionInterval = 2 * time.Minute
		c.MaxRetryDuration = 12 * time.Hour
		c.NtpServer = "custom.ntp.com"
		c.WorkerCount = 200
		c.Solana.ResolverMode = ResolverModeLocal

		normalized, err := c.GetNormalizedConfig()
		require.NoError(t, err)
		assert.Equal(t, 2*time.Minute, normalized.ExecutionInterval)
		assert.Equal(t, 12*time.Hour, normalized.MaxRetryDuration)
		assert.Equal(t, "custom.ntp.com", normalized.NtpServer)
		assert.Equal(t, 200, normalized.WorkerCount)
		assert.Equal(t, ResolverModeLocal, normalized.Solana.ResolverMode)
	})

	t.Run("validation_errors_propagated", func(t *testing.T) {
		c := validConfig()
		c.ExecutorID = ""
		_, err := c.GetNormalizedConfig()
		require.ErrorContains(t, err, "executor_id must be configured")
	})
}

func TestConfiguration_DecodeTOML(t *testing.T) {
	const raw = `
executor_id = "executor-a"
executor_pool = ["executor-a", "executor-b"]
our_chain = 1
quoter_addresses = ["0x5241c9276698439fef2780dbab76fec90b633fbd"]
execution_interval = "15s"
max_retry_duration = "1h"

[Solana]
rpc_url = "http://solana:8899"
relayer_program_id = "tbr7Qje6qBzPwfM52csL5KFi8ps5c5vDyiVVBLYVdRf"
wormhole_program_id = "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth"
resolver_mode = "local"

[VAA]
api_url = "https://api.wormholescan.io"

[Storage]
driver = "sqlite"
dsn = "/data/executor.db"
`
	var c Configuration
	_, err := toml.Decode(raw, &c)
	require.NoError(t, err)

	normalized, err := c.GetNormalizedConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, normalized.ExecutionInterval)
	assert.Equal(t, time.Hour, normalized.MaxRetryDuration)
	require.Len(t, normalized.Quoters(), 1)
	assert.Equal(t, common.HexToAddress("0x5241c9276698439fef2780dbab76fec90b633fbd"), normalized.Quoters()[0])
	assert.Equal(t, "/data/executor.db", normalized.Storage.DSN)
}
