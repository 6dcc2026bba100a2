package domain

import "time"

// EventType enumerates the types of per-recipient campaign events.
type EventType string

const (
	EventSent         EventType = "sent"
	EventOpened       EventType = "opened"
	EventClicked      EventType = "clicked"
	EventBounced      EventType = "bounced"
	EventUnsubscribed EventType = "unsubscribed"
)

// CampaignEvent is a single append-only delivery or engagement record.
// Every event references an existing campaign and contact.
type CampaignEvent struct {
	ID           string    `json:"id" db:"id"`
	CampaignID   string    `json:"campaign_id" db:"campaign_id"`
	ContactID    string    `json:"contact_id" db:"contact_id"`
	EventType    EventType `json:"event_type" db:"event_type"`
	LinkURL      string    `json:"link_url,omitempty" db:"link_url"`
	BounceType   string    `json:"bounce_type,omitempty" db:"bounce_type"`
	BounceReason string    `json:"bounce_reason,omitempty" db:"bounce_reason"`
	IPAddress    string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent    string    `json:"user_agent,omitempty" db:"user_agent"`
	EventAt      time.Time `json:"event_at" db:"event_at"`
}

// CampaignStats holds aggregates computed live from campaign events.
type CampaignStats struct {
	CampaignID   string  `json:"campaign_id"`
	Sent         int     `json:"sent"`
	Opened       int     `json:"opened"`
	Clicked      int     `json:"clicked"`
	Bounced      int     `json:"bounced"`
	Unsubscribed int     `json:"unsubscribed"`
	OpenRate     float64 `json:"open_rate"`
	ClickRate    float64 `json:"click_rate"`
}

// DashboardStats holds account-wide totals for the dashboard view.
type DashboardStats struct {
	TotalContacts   int     `json:"total_contacts"`
	ActiveContacts  int     `json:"active_contacts"`
	TotalLists      int     `json:"total_lists"`
	TotalCampaigns  int     `json:"total_campaigns"`
	SentCampaigns   int     `json:"sent_campaigns"`
	TotalSent       int     `json:"total_sent"`
	TotalOpened     int     `json:"total_opened"`
	TotalClicked    int     `json:"total_clicked"`
	AverageOpenRate float64 `json:"average_open_rate"`
}
