package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"bookkeeper/internal/logger"
	"bookkeeper/internal/services"
)

// AuditJob checks the vendor transaction ledger against the orders and,
// when Repair is set, rebuilds it if they have drifted apart.
type AuditJob struct {
	Reconcile services.ReconcileService
	Repair    bool
	log       zerolog.Logger
}

func NewAuditJob(reconcile services.ReconcileService, repair bool) *AuditJob {
	return &AuditJob{Reconcile: reconcile, Repair: repair, log: logger.WithComponent("scheduler")}
}

// Run performs one audit. It returns the report so callers and tests can
// inspect it; scheduled runs only log.
func (j *AuditJob) Run() (*services.AuditReport, error) {
	report, err := j.Reconcile.Audit()
	if err != nil {
		j.log.Error().Err(err).Msg("Scheduled audit failed")
		return nil, err
	}
	if report.Consistent() {
		j.log.Info().Int("orders", report.Orders).Msg("Vendor ledger consistent")
		return report, nil
	}

	for _, f := range report.Findings {
		j.log.Warn().
			Str("kind", f.Kind).
			Str("order_id", f.OrderID).
			Str("transaction_id", f.TransactionID).
			Str("detail", f.Detail).
			Msg("Vendor ledger divergence")
	}
	if j.Repair {
		result, err := j.Reconcile.Repair()
		if err != nil {
			j.log.Error().Err(err).Msg("Scheduled repair failed")
			return report, err
		}
		j.log.Info().Int("transactions", result.Transactions).Msg("Vendor ledger rebuilt")
	}
	return report, nil
}

// Start schedules the audit daily at the given "HH:MM" in loc and starts the
// scheduler in the background. An empty time disables scheduling and
// returns a nil scheduler.
func Start(job *AuditJob, at string, loc *time.Location) (*gocron.Scheduler, error) {
	if at == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	s := gocron.NewScheduler(loc)
	if _, err := s.Every(1).Day().At(at).Do(func() { _, _ = job.Run() }); err != nil {
		return nil, fmt.Errorf("failed to schedule audit at %q: %w", at, err)
	}
	s.StartAsync()
	job.log.Info().Str("at", at).Str("timezone", loc.String()).Bool("repair", job.Repair).Msg("Daily audit scheduled")
	return s, nil
}
