// Package api is the executor's HTTP surface. Relayers and indexers post observed requests here,
// and clients poll request statuses.
package api

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/smartcontractkit/chainlink-common/pkg/services"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/internal/health"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

const defaultQueueSize = 256

var _ executor.RequestSubscriber = (*Server)(nil)

// SubmitRequest is the body of POST /v0/requests.
type SubmitRequest struct {
	SrcChain protocol.ChainID             `json:"srcChain" doc:"Wormhole chain id the request was emitted on."`
	TxHash   string                       `json:"txHash"   doc:"Hash of the source chain transaction that emitted the request."`
	LogIndex uint64                       `json:"logIndex" doc:"Index of the RequestForExecution log in the transaction. Defaults to 0."`
	Request  protocol.RequestForExecution `json:"request"  doc:"The RequestForExecution event as emitted on the source chain."`
}

type SubmitResponse struct {
	ID executor.RequestID `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Server accepts requests over HTTP and hands them to the coordinator as a RequestSubscriber.
type Server struct {
	lggr         logger.Logger
	store        executor.StatusStore
	timeProvider executor.TimeProvider
	router       *gin.Engine

	mu        sync.RWMutex
	requests  chan executor.Request
	closed    bool
	reporters []services.HealthReporter
}

func NewServer(lggr logger.Logger, store executor.StatusStore, timeProvider executor.TimeProvider, queueSize int) *Server {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	s := &Server{
		lggr:         logger.Named(lggr, "API"),
		store:        store,
		timeProvider: timeProvider,
		requests:     make(chan executor.Request, queueSize),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	v0 := router.Group("/v0")
	v0.POST("/requests", s.handleSubmit)
	v0.GET("/status/:id", s.handleStatus)
	router.GET("/health", s.handleHealth)
	s.router = router
	return s
}

// AddHealthReporters registers services reported by /health.
func (s *Server) AddHealthReporters(reporters ...services.HealthReporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reporters = append(s.reporters, reporters...)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start returns the channel of submitted requests. It is closed when ctx is done, after which
// submissions are rejected.
func (s *Server) Start(ctx context.Context) (<-chan executor.Request, <-chan error, error) {
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.closed {
			s.closed = true
			close(s.requests)
		}
	}()
	return s.requests, nil, nil
}

func (s *Server) handleSubmit(c *gin.Context) {
	var body SubmitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if body.SrcChain == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "srcChain is required"})
		return
	}
	if err := validateTxHash(body.TxHash); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := protocol.DecodeExecutionRequest(body.Request.Request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid requestBytes: " + err.Error()})
		return
	}

	req := executor.Request{
		ID:         executor.NewRequestID(body.SrcChain, body.TxHash, body.LogIndex),
		SrcChain:   body.SrcChain,
		TxHash:     body.TxHash,
		LogIndex:   body.LogIndex,
		Envelope:   body.Request,
		ReceivedAt: s.timeProvider.GetTime(),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "executor is shutting down"})
		return
	}
	select {
	case s.requests <- req:
	default:
		s.lggr.Warnw("request queue is full, rejecting request", "requestID", req.ID)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "request queue is full"})
		return
	}

	s.lggr.Infow("request accepted", "requestID", req.ID, "type", req.Type())
	c.JSON(http.StatusAccepted, SubmitResponse{ID: req.ID})
}

func (s *Server) handleStatus(c *gin.Context) {
	id := executor.RequestID(strings.ToLower(c.Param("id")))
	rec, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, executor.ErrStatusNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "request not found"})
		return
	}
	if err != nil {
		s.lggr.Errorw("failed to read request status", "requestID", id, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleHealth(c *gin.Context) {
	s.mu.RLock()
	reporters := s.reporters
	s.mu.RUnlock()

	resp := health.Check(reporters...)
	c.JSON(resp.StatusCode(), resp)
}

func validateTxHash(txHash string) error {
	trimmed := strings.TrimPrefix(txHash, "0x")
	if trimmed == "" {
		return errors.New("txHash is required")
	}
	if _, err := hex.DecodeString(trimmed); err != nil {
		return errors.New("txHash must be hex encoded")
	}
	return nil
}
