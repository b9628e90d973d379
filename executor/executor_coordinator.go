package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/patrickmn/go-cache"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/smartcontractkit/chainlink-common/pkg/services"
)

const (
	coordinatorName = "executor.Coordinator"
	// processInterval is how often the heap is checked for ready requests.
	processInterval = 1 * time.Second
)

// Coordinator takes requests from a subscriber, waits for this executor's turn on each one and
// hands them to the executor on a bounded worker pool. Failed attempts are rescheduled until the
// request expires.
type Coordinator struct {
	services.StateMachine
	stopCh services.StopChan
	wg     sync.WaitGroup

	lggr             logger.Logger
	executor         Executor
	subscriber       RequestSubscriber
	leaderElector    LeaderElector
	monitoring       Monitoring
	store            StatusStore
	timeProvider     TimeProvider
	maxRetryDuration time.Duration
	workerCount      int

	requestHeap *requestHeap
	// seen remembers requests that reached a final state so that re-submissions inside the retry
	// window are dropped.
	seen *cache.Cache
	pool *ants.Pool

	inFlightMu sync.Mutex
	inFlight   map[RequestID]struct{}
}

func NewCoordinator(
	lggr logger.Logger,
	executor Executor,
	subscriber RequestSubscriber,
	leaderElector LeaderElector,
	monitoring Monitoring,
	store StatusStore,
	maxRetryDuration time.Duration,
	timeProvider TimeProvider,
	workerCount int,
) (*Coordinator, error) {
	var errs []error
	appendIfNil := func(field interface{}, fieldName string) {
		if field == nil {
			errs = append(errs, fmt.Errorf("%s is not set", fieldName))
		}
	}
	appendIfNil(lggr, "logger")
	appendIfNil(executor, "executor")
	appendIfNil(subscriber, "requestSubscriber")
	appendIfNil(leaderElector, "leaderElector")
	appendIfNil(monitoring, "monitoring")
	appendIfNil(store, "statusStore")
	appendIfNil(timeProvider, "timeProvider")
	if maxRetryDuration <= 0 {
		errs = append(errs, fmt.Errorf("maxRetryDuration must be positive, got %s", maxRetryDuration))
	}
	if workerCount < 1 {
		errs = append(errs, fmt.Errorf("workerCount must be positive, got %d", workerCount))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Coordinator{
		stopCh:           make(chan struct{}),
		lggr:             logger.Named(lggr, "Coordinator"),
		executor:         executor,
		subscriber:       subscriber,
		leaderElector:    leaderElector,
		monitoring:       monitoring,
		store:            store,
		timeProvider:     timeProvider,
		maxRetryDuration: maxRetryDuration,
		workerCount:      workerCount,
		requestHeap:      newRequestHeap(),
		// No janitor, expired entries are dropped on every processing tick.
		seen:     cache.New(maxRetryDuration, 0),
		inFlight: make(map[RequestID]struct{}),
	}, nil
}

func (ec *Coordinator) Start(ctx context.Context) error {
	return ec.StartOnce(coordinatorName, func() error {
		if err := ec.executor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start executor: %w", err)
		}

		pool, err := ants.NewPool(ec.workerCount)
		if err != nil {
			return fmt.Errorf("failed to create worker pool: %w", err)
		}
		ec.pool = pool

		ec.wg.Go(ec.run)

		ec.lggr.Infow("Coordinator started", "workerCount", ec.workerCount, "maxRetryDuration", ec.maxRetryDuration)
		return nil
	})
}

func (ec *Coordinator) Close() error {
	return ec.StopOnce(coordinatorName, func() error {
		ec.lggr.Infow("Coordinator stopping")
		close(ec.stopCh)
		ec.wg.Wait()
		ec.pool.Release()
		ec.lggr.Infow("Coordinator stopped")
		return nil
	})
}

func (ec *Coordinator) Name() string {
	return coordinatorName
}

func (ec *Coordinator) HealthReport() map[string]error {
	return map[string]error{ec.Name(): ec.Ready()}
}

func (ec *Coordinator) run() {
	ctx, cancel := ec.stopCh.NewCtx()
	defer cancel()

	requests, subErrs, err := ec.subscriber.Start(ctx)
	if err != nil {
		ec.lggr.Errorw("failed to start request subscriber", "error", err)
		return
	}

	ticker := time.NewTicker(processInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ec.lggr.Infow("Coordinator run loop exiting")
			return
		case req, ok := <-requests:
			if !ok {
				ec.lggr.Warnw("request channel closed")
				requests = nil
				continue
			}
			ec.intake(ctx, req)
		case subErr, ok := <-subErrs:
			if !ok {
				subErrs = nil
				continue
			}
			ec.lggr.Errorw("request subscriber error", "error", subErr)
		case <-ticker.C:
			ec.processReady(ctx)
		}
	}
}

func (ec *Coordinator) intake(ctx context.Context, req Request) {
	lggr := logger.With(ec.lggr, "requestID", req.ID)

	if ec.isInFlight(req.ID) {
		lggr.Infow("request already in flight, skipping")
		return
	}
	if ec.requestHeap.Has(req.ID) {
		lggr.Debugw("request already scheduled, skipping")
		return
	}
	if _, found := ec.seen.Get(req.ID.String()); found {
		lggr.Infow("request already processed, skipping")
		return
	}
	if rec, err := ec.store.Get(ctx, req.ID); err == nil && (rec.Status == StatusSubmitted || rec.Status == StatusUnsupported) {
		lggr.Infow("request already completed, skipping", "status", rec.Status)
		ec.seen.SetDefault(req.ID.String(), struct{}{})
		return
	}

	if req.ReceivedAt.IsZero() {
		req.ReceivedAt = ec.timeProvider.GetTime()
	}

	if err := ec.executor.CheckValidRequest(ctx, req); err != nil {
		lggr.Warnw("invalid request, skipping", "error", err)
		ec.finish(ctx, req, StatusFailed, err)
		return
	}

	ready := ec.leaderElector.GetReadyTimestamp(req.ID, req.ReceivedAt)
	ec.requestHeap.Push(scheduledRequest{
		Request:       req,
		ReadyTime:     ready,
		ExpiryTime:    req.ReceivedAt.Add(ec.maxRetryDuration),
		RetryInterval: ec.leaderElector.GetRetryDelay(),
	})
	ec.putStatus(ctx, req, StatusPending, nil)
	lggr.Infow("request scheduled", "readyTime", ready)
}

func (ec *Coordinator) processReady(ctx context.Context) {
	now := ec.timeProvider.GetTime()
	for _, s := range ec.requestHeap.PopAllReady(now) {
		if now.After(s.ExpiryTime) {
			ec.lggr.Infow("request has expired", "requestID", s.Request.ID, "expiryTime", s.ExpiryTime)
			ec.monitoring.Metrics().IncrementExpiredRequests(ctx)
			ec.finish(ctx, s.Request, StatusExpired, nil)
			continue
		}

		ec.markInFlight(s.Request.ID)
		ec.wg.Add(1)
		err := ec.pool.Submit(func() {
			defer ec.wg.Done()
			defer ec.clearInFlight(s.Request.ID)
			ec.handle(ctx, s)
		})
		if err != nil {
			ec.wg.Done()
			ec.clearInFlight(s.Request.ID)
			ec.lggr.Errorw("failed to submit request to worker pool", "requestID", s.Request.ID, "error", err)
		}
	}

	ec.monitoring.Metrics().RecordRequestHeapSize(ctx, int64(ec.requestHeap.Len()))
	ec.seen.DeleteExpired()
}

func (ec *Coordinator) handle(ctx context.Context, s scheduledRequest) {
	lggr := logger.With(ec.lggr, "requestID", s.Request.ID)

	shouldRetry, err := ec.executor.HandleRequest(ctx, s.Request)
	if err == nil {
		ec.seen.SetDefault(s.Request.ID.String(), struct{}{})
		return
	}
	if ctx.Err() != nil {
		lggr.Infow("dropping request to exit", "error", err)
		return
	}

	ec.monitoring.Metrics().IncrementRequestsProcessingFailed(ctx)
	if shouldRetry {
		s.ReadyTime = ec.timeProvider.GetTime().Add(s.RetryInterval)
		lggr.Infow("request should be retried", "error", err, "retryAt", s.ReadyTime)
		ec.requestHeap.Push(s)
		return
	}

	lggr.Errorw("request failed", "error", err)
	ec.finish(ctx, s.Request, StatusFailed, err)
}

// finish records a final status and keeps the request out of intake for the retry window.
func (ec *Coordinator) finish(ctx context.Context, req Request, status Status, cause error) {
	ec.seen.SetDefault(req.ID.String(), struct{}{})
	ec.putStatus(ctx, req, status, cause)
}

func (ec *Coordinator) putStatus(ctx context.Context, req Request, status Status, cause error) {
	rec := StatusRecord{
		ID:          req.ID,
		SrcChain:    req.SrcChain,
		TxHash:      req.TxHash,
		LogIndex:    req.LogIndex,
		RequestType: req.Type(),
		Status:      status,
		UpdatedAt:   ec.timeProvider.GetTime(),
	}
	if cause != nil {
		rec.FailureCause = cause.Error()
	}
	if err := ec.store.Put(ctx, rec); err != nil {
		ec.lggr.Errorw("failed to store request status", "requestID", req.ID, "status", status, "error", err)
	}
}

func (ec *Coordinator) isInFlight(id RequestID) bool {
	ec.inFlightMu.Lock()
	defer ec.inFlightMu.Unlock()
	_, ok := ec.inFlight[id]
	return ok
}

func (ec *Coordinator) markInFlight(id RequestID) {
	ec.inFlightMu.Lock()
	defer ec.inFlightMu.Unlock()
	ec.inFlight[id] = struct{}{}
}

func (ec *Coordinator) clearInFlight(id RequestID) {
	ec.inFlightMu.Lock()
	defer ec.inFlightMu.Unlock()
	delete(ec.inFlight, id)
}
