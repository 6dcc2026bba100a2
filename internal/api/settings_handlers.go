package api

import (
	"errors"
	"net/http"

	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
	"github.com/harikishants/MarketingMailPro/internal/service/settings"
)

// HandleGetSettings returns the caller's transport settings. Credentials
// are never serialized.
func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	s, err := h.settings.Get(r.Context(), user.ID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, s)
}

// HandleSaveSettings upserts the caller's transport settings. An empty
// password keeps the stored one.
func (h *Handlers) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input settings.SaveInput
	if !httputil.Decode(w, r, &input) {
		return
	}

	s, err := h.settings.Save(r.Context(), user.ID, input)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, s)
}

// HandleTestSettings opens and closes an SMTP session with the stored
// credentials and reports the outcome.
func (h *Handlers) HandleTestSettings(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.settings.Verify(r.Context(), user.ID); err != nil {
		if errors.Is(err, settings.ErrNotFound) || errors.Is(err, settings.ErrNotConfigured) {
			serviceError(w, err)
			return
		}
		// Credentials exist but the server rejected us.
		httputil.Error(w, http.StatusBadGateway, "smtp verification failed: "+err.Error())
		return
	}
	httputil.OK(w, map[string]string{"status": "ok"})
}
