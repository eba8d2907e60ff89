package ledger

import "expvar"

var (
	metricSettleTotal    = expvar.NewInt("ledger_settle_total")
	metricSettleRejected = expvar.NewInt("ledger_settle_rejected_total")
	metricSettleErrors   = expvar.NewInt("ledger_settle_errors_total")
	metricSettleReplays  = expvar.NewInt("ledger_settle_replays_total")

	metricTransferTotal    = expvar.NewInt("ledger_transfer_total")
	metricTransferRejected = expvar.NewInt("ledger_transfer_rejected_total")
	metricTransferErrors   = expvar.NewInt("ledger_transfer_errors_total")

	metricStatsRebuilt = expvar.NewInt("ledger_stats_rebuilt_total")
)

func countOutcome(err error, ok, rejected, failed *expvar.Int) {
	if err == nil {
		ok.Add(1)
		return
	}
	switch Classify(err) {
	case KindInternal:
		failed.Add(1)
	default:
		rejected.Add(1)
	}
}
