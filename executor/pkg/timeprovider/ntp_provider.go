// Package timeprovider supplies the clock used for turn taking and expiry. Executors in a pool
// compare ready times computed on different hosts, so the clock follows an NTP server and falls
// back to the local clock, corrected by the last known offset, while the server is unreachable.
package timeprovider

import (
	"sync"
	"time"

	"github.com/beevik/ntp"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
)

const maxFailedAttempts = 20

var (
	_ executor.TimeProvider = (*NTPProvider)(nil)
	_ executor.TimeProvider = LocalProvider{}

	// queryOffset is overridden in tests.
	queryOffset = func(server string) (time.Duration, error) {
		resp, err := ntp.Query(server)
		if err != nil {
			return 0, err
		}
		if err = resp.Validate(); err != nil {
			return 0, err
		}
		return resp.ClockOffset, nil
	}
	localNow = func() time.Time { return time.Now().UTC() }
)

// LocalProvider uses the host clock. Used when no NTP server is configured.
type LocalProvider struct{}

func (LocalProvider) GetTime() time.Time {
	return time.Now().UTC()
}

// NTPProvider returns NTP-corrected time. After a failed query it stops asking the server for a
// growing backoff window and applies the last good offset to the local clock.
type NTPProvider struct {
	lggr            logger.Logger
	server          string
	backoffDuration time.Duration

	mu              sync.Mutex
	failedAttempts  int
	lastFailureTime time.Time
	offset          time.Duration
}

func NewNTPProvider(lggr logger.Logger, server string, backoffDuration time.Duration) *NTPProvider {
	return &NTPProvider{
		lggr:            logger.Named(lggr, "NTPProvider"),
		server:          server,
		backoffDuration: backoffDuration,
	}
}

func (p *NTPProvider) GetTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := localNow()
	if p.failedAttempts > 0 {
		backoff := p.backoff()
		if since := now.Sub(p.lastFailureTime); since < backoff {
			p.lggr.Debugw("In NTP backoff, using local clock",
				"failedAttempts", p.failedAttempts,
				"backoffRemaining", backoff-since)
			return now.Add(p.offset)
		}
	}

	offset, err := queryOffset(p.server)
	if err != nil {
		p.failedAttempts++
		p.lastFailureTime = now
		p.lggr.Warnw("NTP query failed, using local clock",
			"server", p.server,
			"error", err,
			"failedAttempts", p.failedAttempts,
			"nextAttemptIn", p.backoff())
		return now.Add(p.offset)
	}

	if p.failedAttempts > 0 {
		p.lggr.Infow("NTP query recovered", "failedAttempts", p.failedAttempts)
	}
	p.failedAttempts = 0
	p.lastFailureTime = time.Time{}
	p.offset = offset
	return now.Add(offset)
}

// backoff grows with the triangular numbers (1x, 3x, 6x, 10x...) and stops growing after
// maxFailedAttempts.
func (p *NTPProvider) backoff() time.Duration {
	attempts := min(p.failedAttempts, maxFailedAttempts)
	return p.backoffDuration * time.Duration(attempts*(attempts+1)/2)
}
