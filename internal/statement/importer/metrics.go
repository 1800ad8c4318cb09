package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_imports_total",
		Help: "Statement documents imported, by provider and outcome.",
	}, []string{"provider", "outcome"})

	rowsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_rows_created_total",
		Help: "Purchase rows persisted from statement imports.",
	}, []string{"provider"})

	rowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_rows_skipped_total",
		Help: "Purchase rows skipped because their fingerprint was already imported.",
	}, []string{"provider"})
)
