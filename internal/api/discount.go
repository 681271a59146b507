package api

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDiscountRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	c, err := h.carts.ApplyDiscount(r.Context(), req.UserID, req.Code)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) removeDiscount(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDiscountRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	c, err := h.carts.RemoveDiscount(r.Context(), req.UserID, req.Code)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) listDiscounts(w http.ResponseWriter, r *http.Request) {
	codes, err := h.ledger.Active(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, d := range codes {
			encodeDiscount(e, d)
		}
		e.ArrEnd()
	})
}
