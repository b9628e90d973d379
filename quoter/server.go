package quoter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

const shutdownTimeout = 5 * time.Second

// QuoteRequest is the body of POST /v0/quote.
type QuoteRequest struct {
	SrcChain          protocol.ChainID `json:"srcChain"          doc:"Wormhole chain id the request will be paid on."`
	DstChain          protocol.ChainID `json:"dstChain"          doc:"Wormhole chain id the request will be executed on."`
	RelayInstructions hexutil.Bytes    `json:"relayInstructions" doc:"Encoded relay instructions used to estimate the cost."`
}

type QuoteResponse struct {
	SignedQuote hexutil.Bytes `json:"signedQuote"`
	// EstimatedCost is a decimal string in source chain units.
	EstimatedCost string `json:"estimatedCost"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes a Quoter over HTTP.
type Server struct {
	lggr   logger.Logger
	quoter *Quoter
	srv    *http.Server
}

func NewServer(lggr logger.Logger, quoter *Quoter, listenAddress string) *Server {
	s := &Server{lggr: logger.Named(lggr, "QuoterServer"), quoter: quoter}

	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/v0/quote", s.handleQuote)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "quoter": quoter.Address()})
	})

	s.srv = &http.Server{
		Addr:              listenAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until Shutdown is called. It is shaped for a run.Group actor.
func (s *Server) Run() error {
	s.lggr.Infow("Quoter listening", "address", s.srv.Addr, "quoter", s.quoter.Address())
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.lggr.Errorw("Failed to shut down quoter server", "error", err)
	}
}

func (s *Server) handleQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	quote, err := s.quoter.Quote(req.SrcChain, req.DstChain, req.RelayInstructions)
	switch {
	case errors.Is(err, ErrUnsupportedChain), errors.Is(err, ErrInvalidInstructions):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		s.lggr.Errorw("Failed to issue quote", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		SignedQuote:   quote.SignedQuote.Encode(),
		EstimatedCost: quote.EstimatedCost.Dec(),
	})
}
