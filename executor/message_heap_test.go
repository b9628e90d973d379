package executor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

func scheduled(n int, ready time.Time) scheduledRequest {
	id := NewRequestID(protocol.ChainIDEthereum, fmt.Sprintf("0x%064x", n), 0)
	return scheduledRequest{
		Request:   Request{ID: id, SrcChain: protocol.ChainIDEthereum},
		ReadyTime: ready,
	}
}

func TestRequestHeap_PopAllReady(t *testing.T) {
	t05 := time.Unix(50, 0)
	t1 := time.Unix(100, 0)
	t15 := time.Unix(150, 0)
	t2 := time.Unix(200, 0)
	t3 := time.Unix(300, 0)

	tests := []struct {
		name           string
		requests       []scheduledRequest
		now            time.Time
		expected       []scheduledRequest
		remainingCount int
	}{
		{
			name: "empty heap",
			now:  t1,
		},
		{
			name:           "nothing ready",
			requests:       []scheduledRequest{scheduled(2, t3), scheduled(1, t2)},
			now:            t1,
			remainingCount: 2,
		},
		{
			name:           "some ready in order",
			requests:       []scheduledRequest{scheduled(4, t3), scheduled(3, t2), scheduled(1, t05), scheduled(2, t1)},
			now:            t15,
			expected:       []scheduledRequest{scheduled(1, t05), scheduled(2, t1)},
			remainingCount: 2,
		},
		{
			name:     "ready time equal to now is ready",
			requests: []scheduledRequest{scheduled(1, t1)},
			now:      t1,
			expected: []scheduledRequest{scheduled(1, t1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRequestHeap()
			for _, r := range tt.requests {
				require.True(t, h.Push(r))
			}
			got := h.PopAllReady(tt.now)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.remainingCount, h.Len())
			for _, r := range got {
				assert.False(t, h.Has(r.Request.ID))
			}
		})
	}
}

func TestRequestHeap_PushDuplicate(t *testing.T) {
	h := newRequestHeap()
	first := scheduled(1, time.Unix(100, 0))
	require.True(t, h.Push(first))
	require.True(t, h.Has(first.Request.ID))

	require.False(t, h.Push(scheduled(1, time.Unix(50, 0))))
	assert.Equal(t, 1, h.Len())

	// The original schedule is kept.
	assert.Empty(t, h.PopAllReady(time.Unix(60, 0)))
	assert.Equal(t, []scheduledRequest{first}, h.PopAllReady(time.Unix(100, 0)))

	require.True(t, h.Push(first))
}
