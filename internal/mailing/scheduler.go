package mailing

import (
	"context"
	"errors"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/pkg/logger"
)

// DueCampaignSource lists scheduled campaigns whose send time has passed.
type DueCampaignSource interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.Campaign, error)
}

// Scheduler polls for due scheduled campaigns and feeds them to the
// dispatcher. The lease and status CAS inside Send make it safe to run
// one scheduler per server instance.
type Scheduler struct {
	campaigns  DueCampaignSource
	dispatcher *Dispatcher
	interval   time.Duration
}

// NewScheduler creates a scheduler. interval at or below zero defaults
// to one minute.
func NewScheduler(campaigns DueCampaignSource, dispatcher *Dispatcher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{campaigns: campaigns, dispatcher: dispatcher, interval: interval}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info("campaign scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("campaign scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	due, err := s.campaigns.ListDue(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("list due campaigns failed", "error", err)
		return
	}

	for _, c := range due {
		err := s.dispatcher.Send(ctx, c.UserID, c.ID)
		switch {
		case err == nil:
			logger.Info("scheduled campaign sent", "campaign_id", c.ID)
		case errors.Is(err, ErrAlreadySending):
			// Another instance picked it up first.
		default:
			logger.Error("scheduled send failed", "campaign_id", c.ID, "error", err)
		}
	}
}
