// Package jobs runs the periodic maintenance work: expired session purge and
// aggregate stats reconciliation.
package jobs

import (
	"context"
	"time"

	"xbet/internal/ledger"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type StatsReconciler interface {
	ReconcileStats(ctx context.Context) (ledger.ReconcileReport, error)
}

type Schedule struct {
	SessionPurgeEvery   time.Duration
	StatsReconcileEvery time.Duration
}

type Runner struct {
	sched  gocron.Scheduler
	cancel context.CancelFunc
}

// Start registers the jobs and starts the scheduler. A zero interval
// disables that job.
func Start(ctx context.Context, sch Schedule, sessions SessionPurger, stats StatsReconciler) (*Runner, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	r := &Runner{sched: sched, cancel: cancel}

	if sch.SessionPurgeEvery > 0 && sessions != nil {
		if _, err := sched.NewJob(
			gocron.DurationJob(sch.SessionPurgeEvery),
			gocron.NewTask(func() { PurgeSessions(ctx, sessions) }),
			gocron.WithName("session_purge"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			cancel()
			return nil, err
		}
	}
	if sch.StatsReconcileEvery > 0 && stats != nil {
		if _, err := sched.NewJob(
			gocron.DurationJob(sch.StatsReconcileEvery),
			gocron.NewTask(func() { ReconcileStats(ctx, stats) }),
			gocron.WithName("stats_reconcile"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			cancel()
			return nil, err
		}
	}
	sched.Start()
	log.Info().Int("jobs", len(sched.Jobs())).Msg("job scheduler started")
	return r, nil
}

func (r *Runner) Stop() error {
	r.cancel()
	return r.sched.Shutdown()
}

func PurgeSessions(ctx context.Context, p SessionPurger) int64 {
	n, err := p.PurgeExpiredSessions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("session purge failed")
		return 0
	}
	if n > 0 {
		log.Info().Int64("purged", n).Msg("expired sessions purged")
	}
	return n
}

func ReconcileStats(ctx context.Context, s StatsReconciler) ledger.ReconcileReport {
	started := time.Now()
	rep, err := s.ReconcileStats(ctx)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	} else if rep.Fixed > 0 || rep.Failed > 0 {
		ev = log.Warn()
	}
	ev.Int("checked", rep.Checked).
		Int("fixed", rep.Fixed).
		Int("failed", rep.Failed).
		Dur("took", time.Since(started)).
		Msg("stats reconcile finished")
	return rep
}
