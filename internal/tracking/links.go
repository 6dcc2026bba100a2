package tracking

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// LinkBuilder generates tracking URLs and rewrites campaign HTML.
type LinkBuilder struct {
	baseURL string
	signer  *Signer
}

// NewLinkBuilder creates a link builder rooted at the public tracking base URL.
func NewLinkBuilder(baseURL, secret string) *LinkBuilder {
	return &LinkBuilder{
		baseURL: strings.TrimRight(baseURL, "/"),
		signer:  NewSigner(secret),
	}
}

// OpenPixelURL returns the signed open-tracking pixel URL for a recipient.
func (b *LinkBuilder) OpenPixelURL(campaignID, contactID string) string {
	encoded, sig := b.signer.Encode(campaignID, contactID)
	return fmt.Sprintf("%s/track/open/%s/%s", b.baseURL, encoded, sig)
}

// ClickURL returns the signed redirect URL wrapping an original link.
func (b *LinkBuilder) ClickURL(campaignID, contactID, originalURL string) string {
	encoded, sig := b.signer.Encode(campaignID, contactID, originalURL)
	return fmt.Sprintf("%s/track/click/%s/%s", b.baseURL, encoded, sig)
}

// UnsubscribeURL returns the plain unsubscribe URL embedded in email bodies.
// It carries the recipient email (URL-encoded) and the campaign id.
func (b *LinkBuilder) UnsubscribeURL(email, campaignID string) string {
	return fmt.Sprintf("%s/unsubscribe?email=%s&campaign=%s",
		b.baseURL, url.QueryEscape(email), campaignID)
}

// SignedUnsubscribeURL returns the one-click unsubscribe URL used in the
// List-Unsubscribe header.
func (b *LinkBuilder) SignedUnsubscribeURL(campaignID, contactID string) string {
	encoded, sig := b.signer.Encode(campaignID, contactID)
	return fmt.Sprintf("%s/track/unsubscribe/%s/%s", b.baseURL, encoded, sig)
}

var linkRe = regexp.MustCompile(`href=["'](https?://[^"']+)["']`)

// InjectTracking appends the open pixel to the HTML and rewrites outbound
// links through the click redirect. Tracking and mailto links are left alone.
func (b *LinkBuilder) InjectTracking(html, campaignID, contactID string) string {
	pixel := fmt.Sprintf(`<img src="%s" width="1" height="1" alt="" style="display:none;width:1px;height:1px" />`,
		b.OpenPixelURL(campaignID, contactID))
	if idx := strings.LastIndex(strings.ToLower(html), "</body>"); idx >= 0 {
		html = html[:idx] + pixel + html[idx:]
	} else {
		html += pixel
	}

	html = linkRe.ReplaceAllStringFunc(html, func(match string) string {
		parts := linkRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		origURL := parts[1]
		if strings.Contains(origURL, "/track/") || strings.Contains(origURL, "/unsubscribe") {
			return match
		}
		return fmt.Sprintf(`href="%s"`, b.ClickURL(campaignID, contactID, origURL))
	})

	return html
}
