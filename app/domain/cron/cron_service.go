package cron

import (
	"context"
	"time"

	"github.com/mileusna/crontab"

	"github.com/scholarfed/engine/app/utils/logger"
	"github.com/scholarfed/engine/config/environment_variables"
)

// QuotaResetter is the governor's daily-counter reset hook, narrowed to an
// interface so this package doesn't import the governor package directly
// and so the composition root can bind a concrete governor to it.
type QuotaResetter interface {
	ResetDailyCounters()
}

// CronService runs the module's two background ticks: reloading
// environment-sourced configuration (so rotated API keys take effect
// without a restart) every minute, and resetting each provider's daily
// quota counters at UTC midnight (spec §5 "token buckets refill
// continuously; daily counters reset at UTC midnight").
type CronService struct {
	governor QuotaResetter
}

// NewService wires the cron service to the shared governor instance.
func NewService(governor QuotaResetter) *CronService {
	return &CronService{governor: governor}
}

func (cs *CronService) Start(ctx context.Context, ctab *crontab.Crontab) {
	// mileusna/crontab schedules every job against time.Now(), which
	// resolves through time.Local; pin the process clock to UTC so
	// "0 0 * * *" fires at UTC midnight (spec §4.3/§5) regardless of the
	// host's configured timezone.
	time.Local = time.UTC

	ctab.AddJob("* * * * *", func() {
		environment_variables.EnvironmentVariables.LoadFromEnv()
	})

	ctab.AddJob("0 0 * * *", func() {
		cs.resetDailyQuotas(ctx)
	})
}

func (cs *CronService) resetDailyQuotas(ctx context.Context) {
	if cs.governor == nil {
		return
	}
	cs.governor.ResetDailyCounters()
	logger.GetLogger().Info("cron: reset provider daily quota counters")
}
