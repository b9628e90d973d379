package vaafetcher

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

var _ executor.VAAFetcher = (*Fetcher)(nil)

const signedVAAPath = "/v1/signed_vaa/{chain}/{emitter}/{sequence}"

type signedVAAResponse struct {
	// encoding/json decodes the base64 string.
	VAABytes []byte `json:"vaaBytes"`
}

// Fetcher loads signed VAAs from a guardian or Wormholescan style API.
type Fetcher struct {
	lggr   logger.Logger
	client *resty.Client
}

func NewFetcher(lggr logger.Logger, baseURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		lggr: logger.Named(lggr, "VAAFetcher"),
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (f *Fetcher) FetchVAA(ctx context.Context, chain protocol.ChainID, emitter protocol.Bytes32, sequence uint64) ([]byte, error) {
	var out signedVAAResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"chain":    strconv.FormatUint(uint64(chain), 10),
			"emitter":  emitter.Hex(),
			"sequence": strconv.FormatUint(sequence, 10),
		}).
		SetResult(&out).
		Get(signedVAAPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch VAA %d/%s/%d: %w", chain, emitter.Hex(), sequence, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, executor.ErrVAANotFound
	default:
		return nil, fmt.Errorf("VAA API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.VAABytes) == 0 {
		return nil, executor.ErrVAANotFound
	}

	f.lggr.Debugw("Fetched VAA", "chain", uint16(chain), "emitter", emitter, "sequence", sequence, "size", len(out.VAABytes))
	return out.VAABytes, nil
}
