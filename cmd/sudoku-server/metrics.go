package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// solveCount counts solve requests by outcome.
	// Labels: outcome (solved, failed, rejected)
	solveCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sudoku",
		Subsystem: "server",
		Name:      "solves_total",
		Help:      "Total solve requests by outcome",
	}, []string{"outcome"})

	// guessCount totals the squares filled by brute-force search
	// rather than deduction
	guessCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sudoku",
		Subsystem: "server",
		Name:      "guessed_squares_total",
		Help:      "Total squares filled by brute-force search",
	})

	// cacheHitCount counts solve requests answered from storage
	// instead of being solved again
	cacheHitCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sudoku",
		Subsystem: "server",
		Name:      "cache_hits_total",
		Help:      "Total solve requests answered from storage",
	})
)
