package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap/zapcore"

	"github.com/smartcontractkit/chainlink-common/pkg/beholder"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/api"
	x "github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/leaderelector"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/monitoring"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/statusstore"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/timeprovider"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/transmitter"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/vaafetcher"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/internal/logging"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver/tokenbridge"
)

const (
	configPathEnvVar = "EXECUTOR_CONFIG_PATH"
	privateKeyEnvVar = "EXECUTOR_PAYER_PRIVATE_KEY"
	// localTimeEnvVar skips NTP, for local networks without outbound UDP.
	localTimeEnvVar = "EXECUTOR_LOCAL_TIME"

	shutdownTimeout = 30 * time.Second
)

func main() {
	//
	// Load configuration
	// ------------------------------------------------------------------------------------------------
	configPath := executor.DefaultConfigFile
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	envConfig := os.Getenv(configPathEnvVar)
	if envConfig != "" {
		configPath = envConfig
	}

	//
	// Initialize logger
	// ------------------------------------------------------------------------------------------------
	lggr, err := logger.NewWith(logging.DevelopmentConfig(zapcore.InfoLevel))
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	lggr = logger.Sugared(logger.Named(lggr, "executor"))

	executorConfig, err := loadConfiguration(configPath)
	if err != nil {
		lggr.Errorw("Failed to load configuration", "path", configPath, "error", err)
		os.Exit(1)
	}

	if executorConfig.PyroscopeURL != "" {
		if _, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "executor",
			ServerAddress:   executorConfig.PyroscopeURL,
			Logger:          nil,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileGoroutines,
			},
		}); err != nil {
			lggr.Errorw("Failed to start pyroscope", "error", err)
		}
	}

	lggr.Infow("Executor configuration", "config", executorConfig)

	//
	// Setup OTEL Monitoring (via beholder)
	// ------------------------------------------------------------------------------------------------
	executorMonitoring, err := setupMonitoring(lggr, executorConfig.Monitoring)
	if err != nil {
		lggr.Errorw("Failed to set up monitoring", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	//
	// Destination chain access
	// ------------------------------------------------------------------------------------------------
	pk := os.Getenv(privateKeyEnvVar)
	if pk == "" {
		lggr.Errorf("Environment variable %s is not set", privateKeyEnvVar)
		os.Exit(1)
	}
	payer, err := solana.PrivateKeyFromBase58(pk)
	if err != nil {
		lggr.Errorw("Failed to parse payer key", "error", err)
		os.Exit(1)
	}

	solanaCfg := executorConfig.Solana
	rpcClient := rpc.New(solanaCfg.RPCURL)
	commitment := rpc.CommitmentType(solanaCfg.Commitment)

	tx, err := transmitter.NewSolanaTransmitter(lggr, rpcClient, payer,
		solana.MustPublicKeyFromBase58(solanaCfg.WormholeProgramID), commitment)
	if err != nil {
		lggr.Errorw("Failed to create transmitter", "error", err)
		os.Exit(1)
	}

	resolverClient, err := newResolverClient(lggr, executorConfig, rpcClient, payer.PublicKey())
	if err != nil {
		lggr.Errorw("Failed to create resolver client", "error", err)
		os.Exit(1)
	}

	//
	// Storage and intake
	// ------------------------------------------------------------------------------------------------
	store, err := statusstore.New(ctx, lggr, executorConfig.Storage.Driver, executorConfig.Storage.DSN)
	if err != nil {
		lggr.Errorw("Failed to open status store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var timeProvider executor.TimeProvider = timeprovider.NewNTPProvider(lggr, executorConfig.NtpServer, executorConfig.BackoffDuration)
	if os.Getenv(localTimeEnvVar) != "" {
		timeProvider = timeprovider.LocalProvider{}
	}

	gin.SetMode(gin.ReleaseMode)
	apiServer := api.NewServer(lggr, store, timeProvider, 0)

	//
	// Initialize Message Handler
	// ------------------------------------------------------------------------------------------------
	ex, err := x.NewRelayExecutor(
		lggr,
		executorConfig.ChainID(),
		executorConfig.Quoters(),
		vaafetcher.NewFetcher(lggr, executorConfig.VAA.APIURL, executorConfig.VAA.RequestTimeout),
		resolverClient,
		tx,
		store,
		executorMonitoring,
		timeProvider,
	)
	if err != nil {
		lggr.Errorw("Failed to create relay executor", "error", err)
		os.Exit(1)
	}

	le := leaderelector.NewHashBasedLeaderElector(
		lggr,
		executorConfig.ExecutorPool,
		executorConfig.ExecutorID,
		executorConfig.ExecutionInterval,
	)

	//
	// Initialize executor coordinator
	// ------------------------------------------------------------------------------------------------
	coordinator, err := executor.NewCoordinator(
		lggr,
		ex,
		apiServer,
		le,
		executorMonitoring,
		store,
		executorConfig.MaxRetryDuration,
		timeProvider,
		executorConfig.WorkerCount,
	)
	if err != nil {
		lggr.Errorw("Failed to create execution coordinator", "error", err)
		os.Exit(1)
	}
	apiServer.AddHealthReporters(coordinator)

	if err := coordinator.Start(ctx); err != nil {
		lggr.Errorw("Failed to start execution coordinator", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              executorConfig.API.ListenAddress,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		lggr.Infow("API listening", "address", httpServer.Addr, "payer", tx.Payer())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lggr.Errorw("API server failed", "error", err)
			sigCh <- syscall.SIGTERM
		}
	}()

	//
	// Wait for shutdown signal
	// ------------------------------------------------------------------------------------------------
	<-sigCh
	lggr.Infow("Shutdown signal received, stopping executor")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lggr.Errorw("API server shutdown error", "error", err)
	}
	if err := coordinator.Close(); err != nil {
		lggr.Errorw("Execution coordinator stop error", "error", err)
	}

	lggr.Infow("Execution service stopped gracefully")
}

func loadConfiguration(filepath string) (*executor.Configuration, error) {
	var config executor.Configuration
	if _, err := toml.DecodeFile(filepath, &config); err != nil {
		return nil, err
	}
	return config.GetNormalizedConfig()
}

func setupMonitoring(lggr logger.Logger, cfg executor.MonitoringConfig) (executor.Monitoring, error) {
	if !cfg.Enabled || cfg.Type != "beholder" {
		lggr.Info("Using noop monitoring")
		return monitoring.NewNoopExecutorMonitoring(), nil
	}

	beholderClient, err := beholder.NewClient(beholder.Config{
		InsecureConnection:       cfg.Beholder.InsecureConnection,
		CACertFile:               cfg.Beholder.CACertFile,
		OtelExporterHTTPEndpoint: cfg.Beholder.OtelExporterHTTPEndpoint,
		OtelExporterGRPCEndpoint: cfg.Beholder.OtelExporterGRPCEndpoint,
		LogStreamingEnabled:      cfg.Beholder.LogStreamingEnabled,
		MetricReaderInterval:     time.Second * time.Duration(cfg.Beholder.MetricReaderInterval),
		TraceSampleRatio:         cfg.Beholder.TraceSampleRatio,
		TraceBatchTimeout:        time.Second * time.Duration(cfg.Beholder.TraceBatchTimeout),
		// Histogram buckets must be known when the client is created.
		MetricViews: monitoring.MetricViews(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create beholder client: %w", err)
	}
	beholder.SetClient(beholderClient)
	beholder.SetGlobalOtelProviders()
	return monitoring.InitMonitoring()
}

// newResolverClient stacks the resolver: the program or local resolver, then resilience, then the
// cache, driven by a client that fetches missing accounts.
func newResolverClient(lggr logger.Logger, cfg *executor.Configuration, rpcClient *rpc.Client, payer solana.PublicKey) (*resolver.Client, error) {
	solanaCfg := cfg.Solana
	relayerProgram := solana.MustPublicKeyFromBase58(solanaCfg.RelayerProgramID)

	var base resolver.Resolver
	switch solanaCfg.ResolverMode {
	case executor.ResolverModeLocal:
		tbCfg := tokenbridge.MainnetConfig()
		tbCfg.RelayerProgramID = relayerProgram
		tbCfg.WormholeProgramID = solana.MustPublicKeyFromBase58(solanaCfg.WormholeProgramID)
		if solanaCfg.TokenBridgeProgramID != "" {
			tbCfg.TokenBridgeProgramID = solana.MustPublicKeyFromBase58(solanaCfg.TokenBridgeProgramID)
		}
		tbCfg.OurChain = cfg.ChainID()
		base = tokenbridge.NewResolver(lggr, tbCfg)
	default:
		base = resolver.NewSimulationResolver(lggr, rpcClient, relayerProgram, payer)
	}

	resilience := resolver.DefaultResilienceConfig()
	resilience.MaxRetries = solanaCfg.MaxRetries
	resilience.RequestTimeout = solanaCfg.RequestTimeout
	resilience.FailureThreshold = solanaCfg.FailureThreshold

	res := resolver.NewCachingResolver(lggr,
		resolver.NewResilientResolver(base, lggr, resilience),
		solanaCfg.ResolverCacheSize, solanaCfg.ResolverCacheTTL)
	fetcher := resolver.NewResilientAccountFetcher(
		resolver.NewRPCAccountFetcher(lggr, rpcClient, rpc.CommitmentType(solanaCfg.Commitment)),
		lggr, resilience)

	return resolver.NewClient(lggr, res, fetcher, resolver.WithMaxIterations(solanaCfg.MaxResolverIterations))
}
