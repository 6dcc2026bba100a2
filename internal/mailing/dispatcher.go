package mailing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/pkg/distlock"
	"github.com/harikishants/MarketingMailPro/internal/pkg/logger"
	"github.com/harikishants/MarketingMailPro/internal/service/campaign"
	"github.com/harikishants/MarketingMailPro/internal/service/settings"
	"github.com/harikishants/MarketingMailPro/internal/tracking"
)

// CampaignStore is the slice of campaign persistence the dispatcher drives.
type CampaignStore interface {
	Get(ctx context.Context, userID, id string) (*domain.Campaign, error)
	BeginSending(ctx context.Context, id string) (bool, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
}

// SettingsStore loads a user's transport settings.
type SettingsStore interface {
	Get(ctx context.Context, userID string) (*domain.TransportSettings, error)
}

// RecipientSource resolves the eligible recipients of a list: members
// with active status, in membership order.
type RecipientSource interface {
	ActiveMembers(ctx context.Context, listID string) ([]domain.Contact, error)
}

// LockFactory builds a distributed lock for a key. A nil factory disables
// the lease; the status CAS in BeginSending still guards double-sends
// within one database.
type LockFactory func(key string) distlock.DistLock

// Dispatcher orchestrates one send attempt per campaign: lease, status
// CAS, recipient resolution, composition, pooled SMTP delivery, and the
// final status transition.
type Dispatcher struct {
	campaigns  CampaignStore
	settings   SettingsStore
	recipients RecipientSource
	recorder   *EventRecorder
	composer   *Composer
	transport  Transport
	links      *tracking.LinkBuilder
	newLock    LockFactory
	workers    int
	now        func() time.Time
}

// NewDispatcher wires the send pipeline. workers below 1 is clamped to 1.
func NewDispatcher(
	campaigns CampaignStore,
	settingsStore SettingsStore,
	recipients RecipientSource,
	recorder *EventRecorder,
	composer *Composer,
	transport Transport,
	links *tracking.LinkBuilder,
	newLock LockFactory,
	workers int,
) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		campaigns:  campaigns,
		settings:   settingsStore,
		recipients: recipients,
		recorder:   recorder,
		composer:   composer,
		transport:  transport,
		links:      links,
		newLock:    newLock,
		workers:    workers,
		now:        time.Now,
	}
}

// Send runs one complete send attempt for the caller's campaign. The call
// blocks until every recipient has been attempted. Per-recipient delivery
// failures become bounced events and never fail the campaign; any error
// escaping the pipeline after the sending transition marks it failed.
func (d *Dispatcher) Send(ctx context.Context, userID, campaignID string) error {
	c, err := d.campaigns.Get(ctx, userID, campaignID)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			return ErrCampaignNotFound
		}
		return err
	}

	ts, err := d.settings.Get(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			return ErrTransportNotConfigured
		}
		return err
	}
	if !ts.Configured() {
		return ErrTransportNotConfigured
	}

	if d.newLock != nil {
		lock := d.newLock(distlock.SendLeaseKey(campaignID))
		acquired, err := lock.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire send lease: %w", err)
		}
		if !acquired {
			return ErrAlreadySending
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				logger.Warn("release send lease failed", "campaign_id", campaignID, "error", err)
			}
		}()
	}

	began, err := d.campaigns.BeginSending(ctx, campaignID)
	if err != nil {
		return err
	}
	if !began {
		return ErrAlreadySending
	}

	if err := d.run(ctx, c, ts); err != nil {
		logger.Error("campaign send failed", "campaign_id", campaignID, "error", err)
		if mfErr := d.campaigns.MarkFailed(context.Background(), campaignID); mfErr != nil {
			logger.Error("mark campaign failed", "campaign_id", campaignID, "error", mfErr)
		}
		return err
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, c *domain.Campaign, ts *domain.TransportSettings) error {
	var listID string
	if c.ListID != nil {
		listID = *c.ListID
	}
	recipients, err := d.recipients.ActiveMembers(ctx, listID)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}

	// A campaign to an empty list is sent with zero deliveries.
	if len(recipients) == 0 {
		logger.Info("campaign has no eligible recipients", "campaign_id", c.ID)
		return d.campaigns.MarkSent(ctx, c.ID, d.now().UTC())
	}

	base := d.composer.ComposeBase(c, ts)

	session, err := d.transport.Connect(ts)
	if err != nil {
		return fmt.Errorf("open smtp session: %w", err)
	}
	defer session.Close()

	from := c.FromEmail
	if from == "" {
		from = ts.FromEmail
	}
	fromName := c.FromName
	if fromName == "" {
		fromName = ts.FromName
	}

	var sent, bounced int64
	jobs := make(chan domain.Contact)
	var wg sync.WaitGroup

	workers := d.workers
	if workers > len(recipients) {
		workers = len(recipients)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for contact := range jobs {
				d.deliver(ctx, session, c, contact, base, from, fromName, &sent, &bounced)
			}
		}()
	}

	for _, r := range recipients {
		jobs <- r
	}
	close(jobs)
	wg.Wait()

	logger.Info("campaign dispatched",
		"campaign_id", c.ID,
		"recipients", len(recipients),
		"sent", atomic.LoadInt64(&sent),
		"bounced", atomic.LoadInt64(&bounced))

	return d.campaigns.MarkSent(ctx, c.ID, d.now().UTC())
}

// deliver handles one recipient end to end. Failures are absorbed into
// the event log so one bad address never aborts the batch.
func (d *Dispatcher) deliver(ctx context.Context, session Sender, c *domain.Campaign, contact domain.Contact, base, from, fromName string, sent, bounced *int64) {
	msg := &Message{
		From:     from,
		FromName: fromName,
		ReplyTo:  c.ReplyTo,
		To:       contact.Email,
		Subject:  d.composer.PersonalizeSubject(c.Subject, &contact),
		HTML:     d.composer.Personalize(base, c, &contact),
		Headers: map[string]string{
			"List-Unsubscribe":      "<" + d.links.SignedUnsubscribeURL(c.ID, contact.ID) + ">",
			"List-Unsubscribe-Post": "List-Unsubscribe=One-Click",
		},
	}

	if err := session.Send(msg); err != nil {
		atomic.AddInt64(bounced, 1)
		logger.Warn("delivery failed",
			"campaign_id", c.ID, "recipient", contact.Email, "error", err)
		if rerr := d.recorder.RecordBounced(ctx, c.ID, contact.ID, err.Error()); rerr != nil {
			logger.Error("record bounce failed", "campaign_id", c.ID, "contact_id", contact.ID, "error", rerr)
		}
		return
	}

	atomic.AddInt64(sent, 1)
	if err := d.recorder.RecordSent(ctx, c.ID, contact.ID); err != nil {
		logger.Error("record sent failed", "campaign_id", c.ID, "contact_id", contact.ID, "error", err)
	}
}
