package tracking

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/harikishants/MarketingMailPro/internal/pkg/logger"
)

// 1x1 transparent GIF
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x44, 0x01, 0x00, 0x3b,
}

// Recorder persists engagement events decoded from tracking tokens.
type Recorder interface {
	RecordOpen(ctx context.Context, campaignID, contactID, ip, userAgent string) error
	RecordClick(ctx context.Context, campaignID, contactID, linkURL, ip, userAgent string) error
}

// Unsubscriber applies unsubscribe requests from the public surface.
type Unsubscriber interface {
	// UnsubscribeByEmail marks the contact unsubscribed. Returns false when
	// no contact with that email exists.
	UnsubscribeByEmail(ctx context.Context, email, campaignID string) (bool, error)
	// UnsubscribeByContact handles one-click unsubscribes from signed tokens.
	UnsubscribeByContact(ctx context.Context, contactID, campaignID string) error
}

// Handler serves the unauthenticated tracking endpoints.
type Handler struct {
	signer   *Signer
	recorder Recorder
	unsubs   Unsubscriber
	bots     *BotDetector
}

// NewHandler creates the tracking HTTP handler.
func NewHandler(secret string, recorder Recorder, unsubs Unsubscriber) *Handler {
	return &Handler{
		signer:   NewSigner(secret),
		recorder: recorder,
		unsubs:   unsubs,
		bots:     NewBotDetector(),
	}
}

// Register mounts the tracking routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/track/open/{token}/{sig}", h.HandleOpen)
	r.Get("/track/click/{token}/{sig}", h.HandleClick)
	r.Get("/track/unsubscribe/{token}/{sig}", h.HandleSignedUnsubscribe)
	r.Get("/unsubscribe", h.HandleUnsubscribe)
}

// HandleOpen records an open event and serves the pixel. The pixel is
// always served, even for invalid tokens, so broken links never show up as
// missing images in mail clients.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	parts, err := h.signer.Decode(chi.URLParam(r, "token"), chi.URLParam(r, "sig"), 2)
	if err != nil {
		h.servePixel(w)
		return
	}
	if h.bots.IsBot(r.UserAgent()) {
		h.servePixel(w)
		return
	}

	campaignID, contactID := parts[0], parts[1]
	if err := h.recorder.RecordOpen(r.Context(), campaignID, contactID, realIP(r), r.UserAgent()); err != nil {
		logger.Warn("record open failed", "campaign_id", campaignID, "error", err)
	}
	h.servePixel(w)
}

// HandleClick records a click event and redirects to the original URL.
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	parts, err := h.signer.Decode(chi.URLParam(r, "token"), chi.URLParam(r, "sig"), 3)
	if err != nil {
		http.Error(w, "bad link", http.StatusBadRequest)
		return
	}

	campaignID, contactID := parts[0], parts[1]
	// The URL may itself contain pipes; rejoin the remainder.
	originalURL := strings.Join(parts[2:], "|")

	if err := h.recorder.RecordClick(r.Context(), campaignID, contactID, originalURL, realIP(r), r.UserAgent()); err != nil {
		logger.Warn("record click failed", "campaign_id", campaignID, "error", err)
	}
	http.Redirect(w, r, originalURL, http.StatusFound)
}

// HandleSignedUnsubscribe processes one-click unsubscribes from the
// List-Unsubscribe header.
func (h *Handler) HandleSignedUnsubscribe(w http.ResponseWriter, r *http.Request) {
	parts, err := h.signer.Decode(chi.URLParam(r, "token"), chi.URLParam(r, "sig"), 2)
	if err != nil {
		http.Error(w, "bad link", http.StatusBadRequest)
		return
	}

	campaignID, contactID := parts[0], parts[1]
	if err := h.unsubs.UnsubscribeByContact(r.Context(), contactID, campaignID); err != nil {
		logger.Warn("unsubscribe failed", "campaign_id", campaignID, "error", err)
	}
	h.serveUnsubscribed(w)
}

// HandleUnsubscribe processes unsubscribe links from email bodies:
// /unsubscribe?email=...&campaign=...
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	campaignID := r.URL.Query().Get("campaign")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	found, err := h.unsubs.UnsubscribeByEmail(r.Context(), email, campaignID)
	if err != nil {
		logger.Warn("unsubscribe failed", "recipient", email, "error", err)
	}
	if !found {
		logger.Debug("unsubscribe for unknown contact", "recipient", email)
	}
	// Same page either way; the link target should not reveal whether an
	// address is in the system.
	h.serveUnsubscribed(w)
}

func (h *Handler) servePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Write(pixelGIF)
}

func (h *Handler) serveUnsubscribed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;text-align:center;padding:50px;">
		<h1>You have been unsubscribed</h1>
		<p>You will no longer receive emails from us.</p>
	</body></html>`))
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// BotDetector flags known crawler user agents so prefetchers don't count
// as opens.
type BotDetector struct {
	patterns []string
}

// NewBotDetector creates a detector with the default pattern set.
func NewBotDetector() *BotDetector {
	return &BotDetector{
		patterns: []string{
			"bot", "crawler", "spider", "slurp", "googlebot", "bingbot",
			"yahoo", "baidu", "yandex", "preview", "proxy", "scanner",
		},
	}
}

// IsBot checks if the user agent matches a known bot pattern.
func (bd *BotDetector) IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, p := range bd.patterns {
		if strings.Contains(ua, p) {
			return true
		}
	}
	return false
}
