package mailing

import (
	"context"
	"sync"
	"testing"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

type memEventRepo struct {
	mu     sync.Mutex
	events []domain.CampaignEvent
}

func (m *memEventRepo) Insert(_ context.Context, e *domain.CampaignEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return nil
}

func (m *memEventRepo) HasOpened(_ context.Context, campaignID, contactID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.CampaignID == campaignID && e.ContactID == contactID && e.EventType == domain.EventOpened {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEventRepo) byType(t domain.EventType) []domain.CampaignEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CampaignEvent
	for _, e := range m.events {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

func TestRecordOpenDeduplicates(t *testing.T) {
	repo := &memEventRepo{}
	rec := NewEventRecorder(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := rec.RecordOpen(ctx, "camp-1", "ct-1", "1.2.3.4", "Mozilla/5.0"); err != nil {
			t.Fatalf("RecordOpen: %v", err)
		}
	}

	if got := len(repo.byType(domain.EventOpened)); got != 1 {
		t.Errorf("opened events = %d, want 1", got)
	}
}

func TestRecordClickNotDeduplicated(t *testing.T) {
	repo := &memEventRepo{}
	rec := NewEventRecorder(repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := rec.RecordClick(ctx, "camp-1", "ct-1", "https://example.com", "1.2.3.4", "Mozilla/5.0"); err != nil {
			t.Fatalf("RecordClick: %v", err)
		}
	}

	clicks := repo.byType(domain.EventClicked)
	if len(clicks) != 2 {
		t.Fatalf("clicked events = %d, want 2", len(clicks))
	}
	if clicks[0].LinkURL != "https://example.com" {
		t.Errorf("link url = %q", clicks[0].LinkURL)
	}
}

func TestRecordBounced(t *testing.T) {
	repo := &memEventRepo{}
	rec := NewEventRecorder(repo)

	if err := rec.RecordBounced(context.Background(), "camp-1", "ct-1", "550 mailbox unavailable"); err != nil {
		t.Fatalf("RecordBounced: %v", err)
	}

	bounces := repo.byType(domain.EventBounced)
	if len(bounces) != 1 {
		t.Fatalf("bounced events = %d, want 1", len(bounces))
	}
	if bounces[0].BounceType != "soft" {
		t.Errorf("bounce type = %q, want soft", bounces[0].BounceType)
	}
	if bounces[0].BounceReason != "550 mailbox unavailable" {
		t.Errorf("bounce reason = %q", bounces[0].BounceReason)
	}
}

func TestRecordUnsubscribedAppends(t *testing.T) {
	repo := &memEventRepo{}
	rec := NewEventRecorder(repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := rec.RecordUnsubscribed(ctx, "camp-1", "ct-1"); err != nil {
			t.Fatalf("RecordUnsubscribed: %v", err)
		}
	}

	if got := len(repo.byType(domain.EventUnsubscribed)); got != 2 {
		t.Errorf("unsubscribed events = %d, want 2", got)
	}
}
