package executorshim

import _ "embed"

// Executor configuration.
var (
	//go:embed cmd/executor/executor_config.toml
	DefaultExecutorConfigTOML string
)

// Quoter configuration.
var (
	//go:embed cmd/quoter/quoter_config.toml
	DefaultQuoterConfigTOML string
)
