package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/catalog"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/insights"
	"github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/domain/user"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

// encodeDecimal emits a decimal as a bare JSON number so that prices render
// as 999.99 rather than a quoted string.
func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func encodeCatalogItem(e *jx.Encoder, it catalog.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(it.ID)
	e.FieldStart("name")
	e.Str(it.Name)
	e.FieldStart("price")
	encodeDecimal(e, it.Price)
	e.ObjEnd()
}

func encodeCartItem(e *jx.Encoder, it cart.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(it.ID)
	e.FieldStart("name")
	e.Str(it.Name)
	e.FieldStart("price")
	encodeDecimal(e, it.Price)
	e.FieldStart("quantity")
	e.Int(it.Quantity)
	e.FieldStart("totalPrice")
	encodeDecimal(e, it.TotalPrice)
	e.ObjEnd()
}

func encodeDiscount(e *jx.Encoder, d discount.Discount) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(d.Code)
	e.FieldStart("percentage")
	encodeDecimal(e, d.Percentage)
	e.ObjEnd()
}

func encodeCart(e *jx.Encoder, c *cart.Cart) {
	e.ObjStart()
	e.FieldStart("userId")
	e.Int64(c.UserID)
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range c.Items {
		encodeCartItem(e, it)
	}
	e.ArrEnd()
	e.FieldStart("total")
	encodeDecimal(e, c.Total)
	if c.DiscountCodeUsed != "" {
		e.FieldStart("discountCodeUsed")
		e.Str(c.DiscountCodeUsed)
		e.FieldStart("discountAmount")
		encodeDecimal(e, c.DiscountAmount)
	}
	e.FieldStart("grandTotal")
	encodeDecimal(e, c.GrandTotal)
	if len(c.AvailableDiscountCodes) > 0 {
		e.FieldStart("availableDiscountCodes")
		e.ArrStart()
		for _, d := range c.AvailableDiscountCodes {
			encodeDiscount(e, d)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("orderId")
	e.Str(o.OrderID)
	e.FieldStart("userId")
	e.Int64(o.UserID)
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range o.Items {
		encodeCartItem(e, it)
	}
	e.ArrEnd()
	e.FieldStart("total")
	encodeDecimal(e, o.Total)
	if o.DiscountCodeUsed != "" {
		e.FieldStart("discountCodeUsed")
		e.Str(o.DiscountCodeUsed)
		e.FieldStart("discountAmount")
		encodeDecimal(e, o.DiscountAmount)
	}
	e.FieldStart("grandTotal")
	encodeDecimal(e, o.GrandTotal)
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"))
	e.ObjEnd()
}

func encodeUser(e *jx.Encoder, u user.User) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(u.ID)
	e.FieldStart("username")
	e.Str(u.Username)
	e.FieldStart("isAdmin")
	e.Bool(u.IsAdmin)
	e.ObjEnd()
}

func encodeInsights(e *jx.Encoder, in *insights.Insights) {
	e.ObjStart()
	e.FieldStart("totalOrders")
	e.Int(in.TotalOrders)
	e.FieldStart("totalRevenue")
	encodeDecimal(e, in.TotalRevenue)
	e.FieldStart("totalCarts")
	e.Int(in.TotalCarts)
	e.FieldStart("totalItems")
	e.Int(in.TotalItems)
	e.FieldStart("averageOrderValue")
	encodeDecimal(e, in.AverageOrderValue)
	e.FieldStart("averageItemsPerCart")
	encodeDecimal(e, in.AverageItemsPerCart)
	e.FieldStart("totalDiscountAmount")
	encodeDecimal(e, in.TotalDiscountAmount)
	e.FieldStart("totalDiscountCodesUsed")
	e.Int(in.TotalDiscountCodesUsed)
	e.FieldStart("discountCodes")
	e.ArrStart()
	for _, d := range in.DiscountCodes {
		encodeDiscount(e, d)
	}
	e.ArrEnd()
	e.FieldStart("totalDiscountCodes")
	e.Int(in.TotalDiscountCodes)
	e.ObjEnd()
}
