package mailing

import (
	"regexp"
	"strings"

	"github.com/harikishants/MarketingMailPro/internal/domain"
	"github.com/harikishants/MarketingMailPro/internal/tracking"
)

// unsubscribePlaceholder is the literal token authors (and the appended
// unsubscribe block) use; it is replaced per recipient.
const unsubscribePlaceholder = "{unsubscribe_url}"

const unsubscribeBlock = `<p style="font-size:12px;color:#888;text-align:center;margin-top:24px">` +
	`You are receiving this email because you subscribed to our list. ` +
	`<a href="` + unsubscribePlaceholder + `">Unsubscribe</a></p>`

// Name token match is case-insensitive; every other token is a literal
// substring.
var nameRe = regexp.MustCompile(`(?i)\[name\]`)

// Composer builds campaign HTML: once per campaign for the shared base,
// then once per recipient for personalization and tracking.
type Composer struct {
	links *tracking.LinkBuilder
}

// NewComposer creates a composer that generates links via the given builder.
func NewComposer(links *tracking.LinkBuilder) *Composer {
	return &Composer{links: links}
}

// ComposeBase merges the campaign body with the owner's sending policy:
// the unsubscribe block when the include flag is set, then the footer.
// Content is trusted as authored; nothing is sanitized.
func (c *Composer) ComposeBase(campaign *domain.Campaign, ts *domain.TransportSettings) string {
	html := campaign.HTMLContent
	if ts.IncludeUnsubscribe {
		html += unsubscribeBlock
	}
	if ts.FooterHTML != "" {
		html += ts.FooterHTML
	}
	return html
}

// Personalize renders the base content for one recipient: name token,
// unsubscribe URL, open pixel, and click-through link rewriting.
func (c *Composer) Personalize(base string, campaign *domain.Campaign, contact *domain.Contact) string {
	html := nameRe.ReplaceAllLiteralString(base, displayName(contact))
	html = strings.ReplaceAll(html, unsubscribePlaceholder,
		c.links.UnsubscribeURL(contact.Email, campaign.ID))
	return c.links.InjectTracking(html, campaign.ID, contact.ID)
}

// PersonalizeSubject replaces the name token in a subject line.
func (c *Composer) PersonalizeSubject(subject string, contact *domain.Contact) string {
	return nameRe.ReplaceAllLiteralString(subject, displayName(contact))
}

func displayName(contact *domain.Contact) string {
	if contact.Name == "" {
		return "there"
	}
	return contact.Name
}
