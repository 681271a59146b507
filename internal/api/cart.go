package api

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		writeDomainError(w, r, errInvalidInput)
		return
	}
	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCartItemRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	c, err := h.carts.AddItem(r.Context(), req.UserID, req.ItemID, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCartItemRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	c, err := h.carts.RemoveItem(r.Context(), req.UserID, req.ItemID, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}
