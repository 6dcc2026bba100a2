package mailing

import (
	"context"
	"testing"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

type memDueSource struct {
	due []domain.Campaign
}

func (m *memDueSource) ListDue(_ context.Context, _ time.Time) ([]domain.Campaign, error) {
	return m.due, nil
}

func TestSchedulerTickDispatchesDueCampaigns(t *testing.T) {
	c := testCampaign()
	c.Status = domain.CampaignScheduled
	past := time.Now().Add(-time.Minute)
	c.ScheduledAt = &past

	f := newFixture(t, c, []domain.Contact{
		{ID: "ct-1", UserID: "user-1", Email: "a@x.com", Status: domain.ContactActive},
	})

	s := NewScheduler(&memDueSource{due: []domain.Campaign{*c}}, f.dispatcher, time.Minute)
	s.tick(context.Background())

	if got := f.campaigns.status("camp-1"); got != domain.CampaignSent {
		t.Errorf("status = %q, want sent", got)
	}
	if got := len(f.events.byType(domain.EventSent)); got != 1 {
		t.Errorf("sent events = %d, want 1", got)
	}
}

func TestSchedulerTickSkipsContested(t *testing.T) {
	c := testCampaign()
	c.Status = domain.CampaignSending

	f := newFixture(t, c, nil)

	s := NewScheduler(&memDueSource{due: []domain.Campaign{*c}}, f.dispatcher, time.Minute)
	s.tick(context.Background())

	if got := f.campaigns.status("camp-1"); got != domain.CampaignSending {
		t.Errorf("status = %q, want sending untouched", got)
	}
}
