package services

import "github.com/prometheus/client_golang/prometheus"

var (
	syncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookkeeper_vendor_sync_runs_total",
			Help: "Vendor transaction synchronizations by trigger",
		},
		[]string{"trigger"},
	)

	transactionsGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookkeeper_vendor_transactions_generated_total",
			Help: "Vendor transactions written by the synchronizer",
		},
	)

	reconcileFindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookkeeper_reconcile_findings_total",
			Help: "Divergences found by the vendor transaction audit",
		},
		[]string{"kind"},
	)
)

// RegisterMetrics registers the ledger collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{syncRunsTotal, transactionsGeneratedTotal, reconcileFindingsTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
