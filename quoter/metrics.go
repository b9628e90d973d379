package quoter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PromQuotesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoter_quotes_issued_total",
			Help: "Number of signed quotes issued",
		},
		[]string{"srcChain", "dstChain"},
	)
	PromQuoteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoter_quote_errors_total",
			Help: "Number of quote requests that were rejected",
		},
		[]string{"reason"},
	)
	PromQuoteEstimatedCost = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quoter_quote_estimated_cost",
			Help:    "Estimated cost of issued quotes in source chain units",
			Buckets: prometheus.ExponentialBuckets(1, 10, 19),
		},
		[]string{"srcChain", "dstChain"},
	)
)

const (
	reasonUnsupportedChain   = "unsupported_chain"
	reasonInvalidInstruction = "invalid_instructions"
	reasonInternal           = "internal"
)
