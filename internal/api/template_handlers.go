package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
	"github.com/harikishants/MarketingMailPro/internal/service/template"
)

// HandleListTemplates returns the caller's templates.
func (h *Handlers) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	p := ParsePagination(r, 50, 200)

	templates, total, err := h.templates.List(r.Context(), user.ID, p.Limit, p.Offset)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(templates, p, total))
}

// HandleCreateTemplate saves a template after validating its syntax.
func (h *Handlers) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input template.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}

	t, err := h.templates.Create(r.Context(), user.ID, input)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.Created(w, t)
}

// HandleGetTemplate returns one template.
func (h *Handlers) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	t, err := h.templates.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, t)
}

// HandleUpdateTemplate edits a template.
func (h *Handlers) HandleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var u template.UpdateFields
	if !httputil.Decode(w, r, &u) {
		return
	}
	if err := h.templates.Update(r.Context(), user.ID, id, u); err != nil {
		serviceError(w, err)
		return
	}

	t, err := h.templates.Get(r.Context(), user.ID, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, t)
}

// HandleDeleteTemplate removes a template. Campaigns keep their copies.
func (h *Handlers) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.templates.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	httputil.NoContent(w)
}

// HandlePreviewTemplate renders a stored template against sample data.
func (h *Handlers) HandlePreviewTemplate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input struct {
		Context map[string]interface{} `json:"context"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}

	out, err := h.templates.Preview(r.Context(), user.ID, chi.URLParam(r, "id"), input.Context)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"html": out})
}
