package api

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

var (
	errMissingFields = errors.New("Missing required fields")
	errInvalidInput  = errors.New("Invalid input data")
)

// decodeObject reads the request body and walks its top-level object with fn.
// Malformed JSON and mistyped fields both surface as errInvalidInput.
func decodeObject(r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errInvalidInput
	}
	d := jx.DecodeBytes(body)
	if err := d.Obj(fn); err != nil {
		return errInvalidInput
	}
	return nil
}

type cartItemRequest struct {
	UserID   int64
	ItemID   int64
	Quantity int
}

func decodeCartItemRequest(r *http.Request) (cartItemRequest, error) {
	var (
		req  cartItemRequest
		seen struct{ user, item, qty bool }
	)
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "userId":
			req.UserID, err = d.Int64()
			seen.user = true
		case "itemId":
			req.ItemID, err = d.Int64()
			seen.item = true
		case "quantity":
			req.Quantity, err = d.Int()
			seen.qty = true
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return req, err
	}
	if !seen.user || !seen.item || !seen.qty {
		return req, errMissingFields
	}
	return req, nil
}

func decodeUserIDRequest(r *http.Request) (int64, error) {
	var (
		userID int64
		seen   bool
	)
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "userId":
			userID, err = d.Int64()
			seen = true
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	if !seen {
		return 0, errMissingFields
	}
	return userID, nil
}

type discountRequest struct {
	UserID int64
	Code   string
}

func decodeDiscountRequest(r *http.Request) (discountRequest, error) {
	var (
		req  discountRequest
		seen struct{ user, code bool }
	)
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "userId":
			req.UserID, err = d.Int64()
			seen.user = true
		case "discountCode":
			req.Code, err = d.Str()
			seen.code = true
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return req, err
	}
	if !seen.user || !seen.code || req.Code == "" {
		return req, errMissingFields
	}
	return req, nil
}

func decodePercentageRequest(r *http.Request) (decimal.Decimal, error) {
	var (
		pct  decimal.Decimal
		seen bool
	)
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "percentage":
			n, err := d.Num()
			if err != nil {
				return err
			}
			pct, err = decimal.NewFromString(string(n))
			seen = err == nil
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return pct, err
	}
	if !seen {
		return pct, errMissingFields
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return pct, errInvalidInput
	}
	return pct, nil
}

func decodeLoginRequest(r *http.Request) (string, error) {
	var username string
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "username":
			username, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", errMissingFields
	}
	return username, nil
}
