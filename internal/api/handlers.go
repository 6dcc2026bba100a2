package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/mailing"
	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
	"github.com/harikishants/MarketingMailPro/internal/service/analytics"
	"github.com/harikishants/MarketingMailPro/internal/service/campaign"
	"github.com/harikishants/MarketingMailPro/internal/service/contact"
	"github.com/harikishants/MarketingMailPro/internal/service/settings"
	"github.com/harikishants/MarketingMailPro/internal/service/template"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	campaigns  *campaign.Service
	contacts   *contact.Service
	templates  *template.Service
	settings   *settings.Service
	analytics  *analytics.Service
	dispatcher *mailing.Dispatcher
}

// NewHandlers wires the handler set.
func NewHandlers(
	campaigns *campaign.Service,
	contacts *contact.Service,
	templates *template.Service,
	settingsSvc *settings.Service,
	analyticsSvc *analytics.Service,
	dispatcher *mailing.Dispatcher,
) *Handlers {
	return &Handlers{
		campaigns:  campaigns,
		contacts:   contacts,
		templates:  templates,
		settings:   settingsSvc,
		analytics:  analyticsSvc,
		dispatcher: dispatcher,
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// serviceError maps service-layer sentinels onto HTTP status codes.
// Anything unmapped is a 500 with a generic body.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaign.ErrNotFound),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, contact.ErrListNotFound),
		errors.Is(err, template.ErrNotFound),
		errors.Is(err, settings.ErrNotFound),
		errors.Is(err, analytics.ErrCampaignNotFound),
		errors.Is(err, mailing.ErrCampaignNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, campaign.ErrNotDraft),
		errors.Is(err, campaign.ErrAlreadySending),
		errors.Is(err, mailing.ErrAlreadySending),
		errors.Is(err, contact.ErrDuplicateEmail):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, mailing.ErrTransportNotConfigured),
		errors.Is(err, settings.ErrNotConfigured):
		httputil.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, campaign.ErrInvalidInput),
		errors.Is(err, campaign.ErrMissingList),
		errors.Is(err, campaign.ErrInvalidSchedule),
		errors.Is(err, template.ErrInvalidInput),
		errors.Is(err, settings.ErrInvalidInput),
		errors.Is(err, contact.ErrInvalidEmail):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
