package quoter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/holiman/uint256"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

// Client requests quotes from a quoter service.
type Client struct {
	client *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// FetchQuote asks the quoter to price relayInstructions on the src to dst route. The returned
// quote is decoded but not verified; callers check it against the quoter they expect.
func (c *Client) FetchQuote(ctx context.Context, src, dst protocol.ChainID, relayInstructions []byte) (*Quote, error) {
	var (
		out    QuoteResponse
		errOut ErrorResponse
	)
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(QuoteRequest{SrcChain: src, DstChain: dst, RelayInstructions: relayInstructions}).
		SetResult(&out).
		SetError(&errOut).
		Post("/v0/quote")
	if err != nil {
		return nil, fmt.Errorf("failed to request quote: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		if errOut.Error != "" {
			return nil, fmt.Errorf("quoter returned status %d: %s", resp.StatusCode(), errOut.Error)
		}
		return nil, fmt.Errorf("quoter returned status %d", resp.StatusCode())
	}

	signed, err := protocol.DecodeSignedQuote(out.SignedQuote)
	if err != nil {
		return nil, fmt.Errorf("quoter returned a malformed quote: %w", err)
	}
	cost, err := uint256.FromDecimal(out.EstimatedCost)
	if err != nil {
		return nil, fmt.Errorf("quoter returned a malformed estimated cost %q: %w", out.EstimatedCost, err)
	}
	return &Quote{SignedQuote: signed, EstimatedCost: cost}, nil
}
