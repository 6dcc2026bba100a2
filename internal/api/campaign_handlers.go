package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
	"github.com/harikishants/MarketingMailPro/internal/service/campaign"
)

// HandleListCampaigns returns the caller's campaigns, optionally filtered
// by status.
func (h *Handlers) HandleListCampaigns(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	p := ParsePagination(r, 50, 200)

	campaigns, total, err := h.campaigns.List(r.Context(), user.ID, campaign.ListFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(campaigns, p, total))
}

type createCampaignRequest struct {
	campaign.CreateInput
	SendNow bool `json:"send_now"`
}

// HandleCreateCampaign creates a campaign. With send_now set, dispatch
// runs synchronously before the response is written.
func (h *Handlers) HandleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req createCampaignRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	c, err := h.campaigns.Create(r.Context(), user.ID, req.CreateInput)
	if err != nil {
		serviceError(w, err)
		return
	}

	if req.SendNow {
		if err := h.dispatcher.Send(r.Context(), user.ID, c.ID); err != nil {
			serviceError(w, err)
			return
		}
		c, err = h.campaigns.Get(r.Context(), user.ID, c.ID)
		if err != nil {
			serviceError(w, err)
			return
		}
	}
	httputil.Created(w, c)
}

// HandleGetCampaign returns one campaign.
func (h *Handlers) HandleGetCampaign(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	c, err := h.campaigns.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, c)
}

// HandleUpdateCampaign edits a draft campaign.
func (h *Handlers) HandleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var u campaign.UpdateFields
	if !httputil.Decode(w, r, &u) {
		return
	}
	if err := h.campaigns.Update(r.Context(), user.ID, id, u); err != nil {
		serviceError(w, err)
		return
	}

	c, err := h.campaigns.Get(r.Context(), user.ID, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, c)
}

// HandleDeleteCampaign removes a campaign not currently sending.
func (h *Handlers) HandleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.campaigns.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	httputil.NoContent(w)
}

// HandleSendCampaign triggers one synchronous send attempt. The response
// is written after every recipient has been attempted.
func (h *Handlers) HandleSendCampaign(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.dispatcher.Send(r.Context(), user.ID, id); err != nil {
		serviceError(w, err)
		return
	}

	c, err := h.campaigns.Get(r.Context(), user.ID, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, c)
}

// HandleCampaignStats returns per-campaign aggregates from the event log.
func (h *Handlers) HandleCampaignStats(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	stats, err := h.analytics.CampaignStats(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, stats)
}
