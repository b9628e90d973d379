// Package main provides the entry point for the quoter service.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/oklog/run"
	"github.com/spf13/cobra"

	commonconfig "github.com/smartcontractkit/chainlink-common/pkg/config"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/internal/logging"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/quoter"
)

const privateKeyEnvVar = "QUOTER_PRIVATE_KEY"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "quoter",
		Short:        "Quoter service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			return runQuoter(configFile)
		},
	}
	cmd.Flags().String("config", "config.toml", "path to config file")
	return cmd
}

func loadConfig(configFile string) (quoter.Config, error) {
	var cfg quoter.Config
	f, err := os.Open(configFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config %s: %w", configFile, err)
	}
	defer f.Close()

	if err := commonconfig.DecodeTOML(f, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", configFile, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runQuoter(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	lggr, err := logger.NewWith(logging.DevelopmentConfig(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	lggr = logger.Named(lggr, "quoter")

	pk := os.Getenv(privateKeyEnvVar)
	if pk == "" {
		return fmt.Errorf("environment variable %s is not set", privateKeyEnvVar)
	}
	signer, err := protocol.NewPrivateKeySignerFromHex(pk)
	if err != nil {
		return err
	}

	q, err := quoter.New(lggr, cfg.QuoterConfig, signer)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := quoter.NewServer(lggr, q, cfg.ListenAddress)

	var g run.Group
	g.Add(srv.Run, srv.Shutdown)

	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	g.Add(func() error {
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			lggr.Infow("Received signal, shutting down", "signal", sig)
		case <-done:
		}
		return nil
	}, func(error) {
		signal.Stop(sigCh)
		close(done)
	})

	return g.Run()
}
