package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler owns the infinite loop: every cycle runs all accounts in
// their fixed startup order, then sleeps the cooldown. A quota pause
// from any account suspends the whole scheduler until the computed
// wake-up and restarts the account list from the top; it never kills
// the process.
type Scheduler struct {
	accounts []*Account
	runner   *AccountRunner
	clock    Clock
	sleeper  Sleeper
	observer Observer
	cooldown time.Duration
}

func NewScheduler(accounts []*Account, runner *AccountRunner, clock Clock, sleeper Sleeper, observer Observer, cooldown time.Duration) *Scheduler {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Scheduler{
		accounts: accounts,
		runner:   runner,
		clock:    clock,
		sleeper:  sleeper,
		observer: observer,
		cooldown: cooldown,
	}
}

// Run loops until the context is cancelled; that is the only exit.
func (s *Scheduler) Run(ctx context.Context) error {
	for cycle := 1; ; cycle++ {
		s.observer.OnCycle(cycle)
		log.Info().Int("cycle", cycle).Int("accounts", len(s.accounts)).Msg("starting cycle")

		paused := false
		for _, acct := range s.accounts {
			step, err := s.runner.Run(ctx, acct)
			if err != nil {
				return err
			}
			if step.Paused() {
				log.Warn().Time("until", step.PauseUntil).Msg("pausing all accounts for quota reset")
				s.observer.OnPause(step.PauseUntil)
				if err := sleepUntil(ctx, s.clock, s.sleeper, step.PauseUntil); err != nil {
					return err
				}
				s.observer.OnResume()
				log.Info().Msg("quota pause over, restarting account list")
				paused = true
				break
			}
		}
		if paused {
			continue
		}

		log.Info().Dur("cooldown", s.cooldown).Msg("cycle complete, cooling down")
		if err := s.sleeper.Sleep(ctx, s.cooldown); err != nil {
			return err
		}
	}
}
