package api

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) getInsights(w http.ResponseWriter, r *http.Request) {
	ins, err := h.insights.Collect(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeInsights(e, ins) })
}

func (h *Handler) createDiscount(w http.ResponseWriter, r *http.Request) {
	pct, err := decodePercentageRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	d, err := h.issuer.Manual(r.Context(), pct)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeDiscount(e, *d) })
}
