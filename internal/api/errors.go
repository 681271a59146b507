package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/catalog"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/domain/user"
)

// writeDomainError maps a core failure onto the wire. Absence in any store is
// 404, a quantity conflict is 409, rejected input is 400, and anything
// unrecognized is logged and reported as 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *cart.InsufficientQuantityError

	switch {
	case errors.Is(err, errMissingFields), errors.Is(err, errInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &insufficient):
		writeMessage(w, http.StatusConflict, insufficient.Error())
	case errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrItemNotInCart),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, discount.ErrInvalidCode),
		errors.Is(err, user.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, cart.ErrInvalidQuantity):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		zctx.From(r.Context()).Error("Internal error", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
