package api

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, it := range items {
			encodeCatalogItem(e, it)
		}
		e.ArrEnd()
	})
}
