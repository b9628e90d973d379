package quoter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

func toHex(b []byte) string {
	return hexutil.Encode(b)
}

func TestClient_FetchQuote(t *testing.T) {
	s, signer := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second)
	quote, err := c.FetchQuote(t.Context(), protocol.ChainIDEthereum, protocol.ChainIDSolana, gasInstructions(250_000, 0))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1_251_000), quote.EstimatedCost)
	require.NoError(t, quote.SignedQuote.Verify(time.Now(), signer.Address(), protocol.ChainIDEthereum, protocol.ChainIDSolana))

	_, err = c.FetchQuote(t.Context(), protocol.ChainIDEthereum, protocol.ChainIDAvalanche, nil)
	require.ErrorContains(t, err, "status 400")
	require.ErrorContains(t, err, ErrUnsupportedChain.Error())
}

func TestClient_MalformedResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testcases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: "status 500"},
		{name: "bad quote", status: http.StatusOK, body: `{"signedQuote":"0x01","estimatedCost":"1"}`, wantErr: "malformed quote"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)

			_, err := NewClient(srv.URL, time.Second).FetchQuote(t.Context(), protocol.ChainIDEthereum, protocol.ChainIDSolana, nil)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestClient_MalformedCost(t *testing.T) {
	signer := protocol.NewTestSigner(t)
	sq := protocol.NewTestQuote(t, signer, protocol.RandomBytes32(t), protocol.ChainIDEthereum, protocol.ChainIDSolana, time.Minute)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signedQuote":"` + toHex(sq.Encode()) + `","estimatedCost":"-5"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, time.Second).FetchQuote(t.Context(), protocol.ChainIDEthereum, protocol.ChainIDSolana, nil)
	require.ErrorContains(t, err, "malformed estimated cost")
}
