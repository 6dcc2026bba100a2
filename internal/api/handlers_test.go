package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/mailing"
	"github.com/harikishants/MarketingMailPro/internal/service/analytics"
	"github.com/harikishants/MarketingMailPro/internal/service/campaign"
	"github.com/harikishants/MarketingMailPro/internal/service/contact"
	"github.com/harikishants/MarketingMailPro/internal/service/settings"
	"github.com/harikishants/MarketingMailPro/internal/service/template"
	"github.com/harikishants/MarketingMailPro/internal/tracking"
)

// ---- in-memory fixtures ----

type memUsers struct {
	byKey map[string]*domain.User
}

var errNoSuchKey = errors.New("no such key")

func (m *memUsers) FindByAPIKey(_ context.Context, key string) (*domain.User, error) {
	u, ok := m.byKey[key]
	if !ok {
		return nil, errNoSuchKey
	}
	return u, nil
}

type memCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
}

func newMemCampaignRepo() *memCampaignRepo {
	return &memCampaignRepo{campaigns: make(map[string]*domain.Campaign)}
}

func (m *memCampaignRepo) Get(_ context.Context, userID, id string) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return nil, campaign.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCampaignRepo) List(_ context.Context, userID string, f campaign.ListFilter) ([]domain.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Campaign
	for _, c := range m.campaigns {
		if c.UserID == userID && (f.Status == "" || string(c.Status) == f.Status) {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (m *memCampaignRepo) Create(_ context.Context, c *domain.Campaign) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.campaigns[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memCampaignRepo) Update(_ context.Context, userID, id string, u campaign.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return campaign.ErrNotFound
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Subject != nil {
		c.Subject = *u.Subject
	}
	if u.HTMLContent != nil {
		c.HTMLContent = *u.HTMLContent
	}
	if u.ScheduledAt != nil {
		c.ScheduledAt = u.ScheduledAt
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	return nil
}

func (m *memCampaignRepo) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return campaign.ErrNotFound
	}
	delete(m.campaigns, id)
	return nil
}

func (m *memCampaignRepo) BeginSending(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || (c.Status != domain.CampaignDraft && c.Status != domain.CampaignScheduled) {
		return false, nil
	}
	c.Status = domain.CampaignSending
	return true, nil
}

func (m *memCampaignRepo) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.campaigns[id]
	c.Status = domain.CampaignSent
	c.SentAt = &sentAt
	return nil
}

func (m *memCampaignRepo) MarkFailed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns[id].Status = domain.CampaignFailed
	return nil
}

type memSettingsRepo struct {
	byUser map[string]*domain.TransportSettings
}

func (m *memSettingsRepo) Get(_ context.Context, userID string) (*domain.TransportSettings, error) {
	s, ok := m.byUser[userID]
	if !ok {
		return nil, settings.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSettingsRepo) Save(_ context.Context, s *domain.TransportSettings) error {
	cp := *s
	m.byUser[cp.UserID] = &cp
	return nil
}

type memRecipients struct {
	byList map[string][]domain.Contact
}

func (m *memRecipients) ActiveMembers(_ context.Context, listID string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range m.byList[listID] {
		if c.Status == domain.ContactActive {
			out = append(out, c)
		}
	}
	return out, nil
}

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

type memStatsRepo struct {
	campaigns *memCampaignRepo
	events    *memEventRepo
}

func (m *memStatsRepo) EventCounts(_ context.Context, userID, campaignID string) (map[domain.EventType]int, error) {
	m.campaigns.mu.Lock()
	c, ok := m.campaigns.campaigns[campaignID]
	m.campaigns.mu.Unlock()
	if !ok || c.UserID != userID {
		return nil, analytics.ErrCampaignNotFound
	}
	counts := make(map[domain.EventType]int)
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	for _, e := range m.events.events {
		if e.CampaignID == campaignID {
			counts[e.EventType]++
		}
	}
	return counts, nil
}

func (m *memStatsRepo) TotalEventCounts(_ context.Context, _ string) (map[domain.EventType]int, error) {
	counts := make(map[domain.EventType]int)
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	for _, e := range m.events.events {
		counts[e.EventType]++
	}
	return counts, nil
}

func (m *memStatsRepo) ContactCounts(_ context.Context, _ string) (int, int, error) { return 0, 0, nil }
func (m *memStatsRepo) ListCount(_ context.Context, _ string) (int, error)         { return 0, nil }
func (m *memStatsRepo) CampaignCounts(_ context.Context, _ string) (int, int, error) {
	return 0, 0, nil
}

type okSession struct{}

func (okSession) Send(_ *mailing.Message) error { return nil }
func (okSession) Close() error                  { return nil }

type okTransport struct{}

func (okTransport) Connect(_ *domain.TransportSettings) (mailing.Sender, error) {
	return okSession{}, nil
}
func (okTransport) Verify(_ context.Context, _ *domain.TransportSettings) error { return nil }

type noopUnsubscriber struct{}

func (noopUnsubscriber) UnsubscribeByEmail(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}
func (noopUnsubscriber) UnsubscribeByContact(_ context.Context, _, _ string) error { return nil }

type apiFixture struct {
	server    *httptest.Server
	campaigns *memCampaignRepo
	settings  *memSettingsRepo
	events    *memEventRepo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	campaignRepo := newMemCampaignRepo()
	settingsRepo := &memSettingsRepo{byUser: map[string]*domain.TransportSettings{
		"user-1": {
			UserID:    "user-1",
			SMTPHost:  "smtp.example.com",
			SMTPPort:  587,
			FromEmail: "news@example.com",
		},
	}}
	recipients := &memRecipients{byList: map[string][]domain.Contact{
		"list-1": {
			{ID: "ct-1", UserID: "user-1", Email: "a@x.com", Name: "Ada", Status: domain.ContactActive},
		},
	}}
	events := &memEventRepo{}

	links := tracking.NewLinkBuilder("https://mail.example.com", "test-secret")
	recorder := mailing.NewEventRecorder(events)
	dispatcher := mailing.NewDispatcher(
		campaignRepo, settingsRepo, recipients,
		recorder, mailing.NewComposer(links),
		okTransport{}, links, nil, 2,
	)

	campaignSvc := campaign.NewService(campaignRepo, nil)
	settingsSvc := settings.NewService(settingsRepo, okTransport{})
	analyticsSvc := analytics.NewService(&memStatsRepo{campaigns: campaignRepo, events: events})
	templateSvc := template.NewService(nil)
	contactSvc := contact.NewService(nil, recorder, nil)

	h := NewHandlers(campaignSvc, contactSvc, templateSvc, settingsSvc, analyticsSvc, dispatcher)
	users := &memUsers{byKey: map[string]*domain.User{
		"key-1": {ID: "user-1", Email: "owner@example.com", APIKey: "key-1"},
	}}
	track := tracking.NewHandler("test-secret", recorder, noopUnsubscriber{})

	ts := httptest.NewServer(SetupRoutes(h, users, track))
	t.Cleanup(ts.Close)

	return &apiFixture{server: ts, campaigns: campaignRepo, settings: settingsRepo, events: events}
}

func (f *apiFixture) do(t *testing.T, method, path, apiKey string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ---- tests ----

func TestHealthIsPublic(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/api/campaigns", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", resp.StatusCode)
	}

	resp = f.do(t, http.MethodGet, "/api/campaigns", "wrong", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad key: status = %d, want 401", resp.StatusCode)
	}

	resp = f.do(t, http.MethodGet, "/api/campaigns", "key-1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("good key: status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateAndSendCampaign(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/campaigns", "key-1", map[string]interface{}{
		"name":         "Launch",
		"subject":      "Hi [name]",
		"html_content": "<p>Hi [name]</p>",
		"list_id":      "list-1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201", resp.StatusCode)
	}
	var created domain.Campaign
	decodeBody(t, resp, &created)
	if created.Status != domain.CampaignDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}

	resp = f.do(t, http.MethodPost, "/api/campaigns/"+created.ID+"/send", "key-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send: status = %d, want 200", resp.StatusCode)
	}
	var sent domain.Campaign
	decodeBody(t, resp, &sent)
	if sent.Status != domain.CampaignSent {
		t.Errorf("status after send = %q, want sent", sent.Status)
	}

	resp = f.do(t, http.MethodGet, "/api/campaigns/"+created.ID+"/stats", "key-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status = %d, want 200", resp.StatusCode)
	}
	var stats domain.CampaignStats
	decodeBody(t, resp, &stats)
	if stats.Sent != 1 {
		t.Errorf("stats.sent = %d, want 1", stats.Sent)
	}

	// A second send conflicts: the campaign already completed.
	resp = f.do(t, http.MethodPost, "/api/campaigns/"+created.ID+"/send", "key-1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("resend: status = %d, want 409", resp.StatusCode)
	}
}

func TestSendUnknownCampaign(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/campaigns/nope/send", "key-1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSendWithoutTransportSettings(t *testing.T) {
	f := newAPIFixture(t)
	delete(f.settings.byUser, "user-1")

	resp := f.do(t, http.MethodPost, "/api/campaigns", "key-1", map[string]interface{}{
		"name": "Launch", "subject": "Hi", "html_content": "<p>hi</p>", "list_id": "list-1",
	})
	var created domain.Campaign
	decodeBody(t, resp, &created)

	resp = f.do(t, http.MethodPost, "/api/campaigns/"+created.ID+"/send", "key-1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if f.campaigns.campaigns[created.ID].Status != domain.CampaignDraft {
		t.Error("campaign should remain draft")
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/campaigns", "key-1", map[string]interface{}{
		"subject": "Hi", "list_id": "list-1",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name: status = %d, want 400", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPost, "/api/campaigns", "key-1", map[string]interface{}{
		"name": "Launch", "subject": "Hi",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing list: status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateSentCampaignConflicts(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/campaigns", "key-1", map[string]interface{}{
		"name": "Launch", "subject": "Hi", "html_content": "<p>hi</p>", "list_id": "list-1",
		"send_now": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create+send: status = %d, want 201", resp.StatusCode)
	}
	var created domain.Campaign
	decodeBody(t, resp, &created)
	if created.Status != domain.CampaignSent {
		t.Errorf("send_now status = %q, want sent", created.Status)
	}

	resp = f.do(t, http.MethodPut, "/api/campaigns/"+created.ID, "key-1", map[string]interface{}{
		"name": "Renamed",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("edit sent: status = %d, want 409", resp.StatusCode)
	}
}
