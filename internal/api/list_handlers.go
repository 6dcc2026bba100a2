package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harikishants/MarketingMailPro/internal/pkg/httputil"
	"github.com/harikishants/MarketingMailPro/internal/service/contact"
)

// HandleListLists returns the caller's contact lists.
func (h *Handlers) HandleListLists(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	p := ParsePagination(r, 50, 200)

	lists, total, err := h.contacts.ListLists(r.Context(), user.ID, contact.ListFilter{
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(lists, p, total))
}

// HandleCreateList creates a contact list.
func (h *Handlers) HandleCreateList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}
	if input.Name == "" {
		httputil.BadRequest(w, "name is required")
		return
	}

	l, err := h.contacts.CreateList(r.Context(), user.ID, input.Name, input.Description)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.Created(w, l)
}

// HandleGetList returns one list with its contact count.
func (h *Handlers) HandleGetList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	l, err := h.contacts.GetList(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, l)
}

// HandleUpdateList edits a list's name or description.
func (h *Handlers) HandleUpdateList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}
	if err := h.contacts.UpdateList(r.Context(), user.ID, id, input.Name, input.Description); err != nil {
		serviceError(w, err)
		return
	}

	l, err := h.contacts.GetList(r.Context(), user.ID, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, l)
}

// HandleDeleteList removes a list. Its contacts survive.
func (h *Handlers) HandleDeleteList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.contacts.DeleteList(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	httputil.NoContent(w)
}

// HandleListMembers returns the contacts in a list.
func (h *Handlers) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	p := ParsePagination(r, 50, 200)

	members, total, err := h.contacts.ListMembers(r.Context(), user.ID, chi.URLParam(r, "id"), contact.ListFilter{
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(members, p, total))
}

// HandleAddMember adds a contact to a list. Re-adding is a no-op.
func (h *Handlers) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input struct {
		ContactID string `json:"contact_id"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}
	if input.ContactID == "" {
		httputil.BadRequest(w, "contact_id is required")
		return
	}

	if err := h.contacts.AddToList(r.Context(), user.ID, chi.URLParam(r, "id"), input.ContactID); err != nil {
		serviceError(w, err)
		return
	}
	httputil.NoContent(w)
}

// HandleRemoveMember removes a contact from a list.
func (h *Handlers) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	err := h.contacts.RemoveFromList(r.Context(), user.ID,
		chi.URLParam(r, "id"), chi.URLParam(r, "contactID"))
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.NoContent(w)
}
