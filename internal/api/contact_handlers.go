package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
	"github.com/harikishants/MarketingMailPro/internal/service/contact"
)

// HandleListContacts returns the caller's contacts with optional status
// filter and search.
func (h *Handlers) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	p := ParsePagination(r, 50, 200)

	contacts, total, err := h.contacts.ListContacts(r.Context(), user.ID, contact.ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(contacts, p, total))
}

// HandleCreateContact adds a contact.
func (h *Handlers) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}

	c, err := h.contacts.CreateContact(r.Context(), user.ID, input.Email, input.Name)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.Created(w, c)
}

// HandleGetContact returns one contact.
func (h *Handlers) HandleGetContact(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	c, err := h.contacts.GetContact(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, c)
}

// HandleUpdateContact edits a contact.
func (h *Handlers) HandleUpdateContact(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var u contact.UpdateFields
	if !httputil.Decode(w, r, &u) {
		return
	}
	if err := h.contacts.UpdateContact(r.Context(), user.ID, id, u); err != nil {
		serviceError(w, err)
		return
	}

	c, err := h.contacts.GetContact(r.Context(), user.ID, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, c)
}

// HandleDeleteContact removes a contact and its memberships.
func (h *Handlers) HandleDeleteContact(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.contacts.DeleteContact(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	httputil.NoContent(w)
}
