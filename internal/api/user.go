package api

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username, err := decodeLoginRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	u, err := h.users.Login(r.Context(), username)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeUser(e, *u) })
}
