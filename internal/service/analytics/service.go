package analytics

import (
	"context"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Service computes campaign and dashboard statistics.
type Service struct {
	repo Repository
}

// NewService creates an analytics service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CampaignStats returns per-campaign aggregates. Open and click rates are
// percentages of the sent count; a campaign with zero sends reports 0.
func (s *Service) CampaignStats(ctx context.Context, userID, campaignID string) (*domain.CampaignStats, error) {
	counts, err := s.repo.EventCounts(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	stats := &domain.CampaignStats{
		CampaignID:   campaignID,
		Sent:         counts[domain.EventSent],
		Opened:       counts[domain.EventOpened],
		Clicked:      counts[domain.EventClicked],
		Bounced:      counts[domain.EventBounced],
		Unsubscribed: counts[domain.EventUnsubscribed],
	}
	stats.OpenRate = rate(stats.Opened, stats.Sent)
	stats.ClickRate = rate(stats.Clicked, stats.Sent)
	return stats, nil
}

// Dashboard returns account-wide totals across contacts, lists, campaigns
// and the whole event log.
func (s *Service) Dashboard(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	totalContacts, activeContacts, err := s.repo.ContactCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	lists, err := s.repo.ListCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalCampaigns, sentCampaigns, err := s.repo.CampaignCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.TotalEventCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		TotalContacts:  totalContacts,
		ActiveContacts: activeContacts,
		TotalLists:     lists,
		TotalCampaigns: totalCampaigns,
		SentCampaigns:  sentCampaigns,
		TotalSent:      counts[domain.EventSent],
		TotalOpened:    counts[domain.EventOpened],
		TotalClicked:   counts[domain.EventClicked],
	}
	stats.AverageOpenRate = rate(stats.TotalOpened, stats.TotalSent)
	return stats, nil
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
