package api

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := decodeUserIDRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	o, err := h.orders.Place(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeOrder(e, o) })
}
