// Package scheduler runs the periodic maintenance the chat stack needs:
// an hourly sweep of idle rate-limit windows and a daily usage summary
// from the interaction log.
package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"task-chatter/internal/ratelimit"
	"task-chatter/internal/storage"
)

type Scheduler struct {
	cron     *cron.Cron
	limiter  *ratelimit.Limiter
	recorder storage.Recorder // optional
}

func New(limiter *ratelimit.Limiter, recorder storage.Recorder) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		limiter:  limiter,
		recorder: recorder,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", func() {
		s.limiter.Sweep()
	}); err != nil {
		return err
	}

	// Daily at 21:00 UTC, like the operator expects to read it
	if _, err := s.cron.AddFunc("0 21 * * *", func() {
		s.logUsageSummary()
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("📅 Maintenance scheduler started (hourly limiter sweep, daily usage summary)")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Println("📅 Maintenance scheduler stopped")
}

func (s *Scheduler) logUsageSummary() {
	if s.recorder == nil {
		return
	}
	events, err := s.recorder.LoadInteractions()
	if err != nil {
		log.Printf("❌ usage summary failed: %v", err)
		return
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	byIntent := make(map[string]int)
	users := make(map[int64]struct{})
	tokens := 0
	for _, ev := range events {
		if ev.Timestamp.Before(since) {
			continue
		}
		byIntent[ev.Intent]++
		users[ev.UserID] = struct{}{}
		tokens += ev.TotalTokens
	}

	log.Printf("📊 Last 24h: %d users, turns by intent %v, %d llm tokens", len(users), byIntent, tokens)
}
