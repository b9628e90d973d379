// Generates the OpenAPI spec for the executor and quoter HTTP APIs.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/api"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/quoter"
)

type submitInput struct {
	Body api.SubmitRequest
}

type submitOutput struct {
	Body api.SubmitResponse
}

type statusInput struct {
	ID string `path:"id" doc:"Request id returned by POST /v0/requests."`
}

type statusOutput struct {
	Body executor.StatusRecord
}

type quoteInput struct {
	Body quoter.QuoteRequest
}

type quoteOutput struct {
	Body quoter.QuoteResponse
}

//go:generate go run generator.go ../../openapi_v0.yaml
func main() {
	// Expect a single argument: output file path. Writing to stdout is NOT supported.
	if len(os.Args) != 2 {
		_, _ = fmt.Fprintf(os.Stderr, "usage: %s <output-file> (writing to stdout is not supported)\n", os.Args[0])
		os.Exit(2)
	}

	outPath := os.Args[1]
	if st, err := os.Stat(outPath); err == nil && st.IsDir() {
		_, _ = fmt.Fprintf(os.Stderr, "output path is an existing directory: %s\n", outPath)
		os.Exit(2)
	}
	out, err := os.Create(filepath.Clean(outPath))
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "failed to open output file:", err)
		os.Exit(1)
	}
	defer func() { _ = out.Close() }()

	if err := generate(out); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_, _ = fmt.Fprintf(os.Stderr, "wrote OpenAPI YAML to %s\n", outPath)
}

func generate(w io.Writer) error {
	yml, err := newAPI().OpenAPI().YAML()
	if err != nil {
		return fmt.Errorf("failed to generate openapi yaml: %w", err)
	}
	if _, err := w.Write(yml); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// newAPI describes the routes served by api.Server and quoter.Server. The handlers are never
// invoked; only the operation metadata is used.
func newAPI() huma.API {
	h := humago.New(http.NewServeMux(), huma.DefaultConfig("Executor API", "0.1.0"))
	grp := huma.NewGroup(h, "/v0")

	huma.Register(grp, huma.Operation{
		OperationID:   "submit-request",
		Method:        http.MethodPost,
		Path:          "/requests",
		Description:   "Submit a RequestForExecution emitted on the source chain",
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *submitInput) (*submitOutput, error) {
		return nil, nil
	})

	huma.Register(grp, huma.Operation{
		OperationID: "request-status",
		Method:      http.MethodGet,
		Path:        "/status/{id}",
		Description: "Get the execution status of a submitted request",
	}, func(ctx context.Context, input *statusInput) (*statusOutput, error) {
		return nil, nil
	})

	huma.Register(grp, huma.Operation{
		OperationID: "quote",
		Method:      http.MethodPost,
		Path:        "/quote",
		Description: "Get a signed quote for relaying to the destination chain",
	}, func(ctx context.Context, input *quoteInput) (*quoteOutput, error) {
		return nil, nil
	})

	return h
}
