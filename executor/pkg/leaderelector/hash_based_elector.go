package leaderelector

import (
	"encoding/binary"
	"slices"
	"time"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
)

var _ executor.LeaderElector = (*HashBasedLeaderElector)(nil)

// HashBasedLeaderElector implements deterministic turn taking based on the request ID hash
// and the executor's position in the sorted executor pool.
type HashBasedLeaderElector struct {
	lggr              logger.Logger
	executorIDs       []string
	thisExecutorID    string
	executionInterval time.Duration
	executorIndex     int
}

// NewHashBasedLeaderElector creates a new hash-based leader elector. Every executor in the pool
// must be configured with the same pool and interval to agree on the turn order.
func NewHashBasedLeaderElector(
	lggr logger.Logger,
	executorIDs []string,
	thisExecutorID string,
	executionInterval time.Duration,
) *HashBasedLeaderElector {
	sorted := slices.Clone(executorIDs)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	return &HashBasedLeaderElector{
		lggr:              logger.Named(lggr, "HashBasedLeaderElector"),
		executorIDs:       sorted,
		thisExecutorID:    thisExecutorID,
		executionInterval: executionInterval,
		executorIndex:     slices.Index(sorted, thisExecutorID),
	}
}

// GetReadyTimestamp returns baseTime + (turn * executionInterval) where turn is this executor's
// circular distance from the request's starting executor.
func (h *HashBasedLeaderElector) GetReadyTimestamp(id executor.RequestID, baseTime time.Time) time.Time {
	if h.executorIndex == -1 {
		// Not in the pool, should not happen if config is validated.
		return baseTime
	}

	hash := id.Hash()
	hashValue := binary.BigEndian.Uint64(hash[:8])
	startIndex := int(hashValue % uint64(len(h.executorIDs))) //nolint:gosec // G115: modulo will result in positive

	turn := getSliceIncreasingDistance(len(h.executorIDs), startIndex, h.executorIndex)
	delay := time.Duration(turn) * h.executionInterval

	h.lggr.Debugw("computed turn", "requestID", id, "turn", turn, "delay", delay)
	return baseTime.Add(delay)
}

// GetRetryDelay is one full round of the pool.
func (h *HashBasedLeaderElector) GetRetryDelay() time.Duration {
	return time.Duration(len(h.executorIDs)) * h.executionInterval
}

func getSliceIncreasingDistance(sliceLen, startIndex, selectedIndex int) int64 {
	// invalid inputs, return 0
	if sliceLen <= 0 ||
		startIndex < 0 || startIndex >= sliceLen ||
		selectedIndex < 0 || selectedIndex >= sliceLen {
		return 0
	}

	if selectedIndex == startIndex {
		return 0
	} else if selectedIndex < startIndex {
		// if selectedIndex is lower, we cycle
		return int64(sliceLen - startIndex + selectedIndex)
	}
	return int64(selectedIndex - startIndex)
}
