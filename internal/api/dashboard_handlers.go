package api

import (
	"net/http"

	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
)

// HandleDashboard returns account-wide totals computed live from the
// contact, campaign, and event tables.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	stats, err := h.analytics.Dashboard(r.Context(), user.ID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, stats)
}
