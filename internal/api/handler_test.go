package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/insights"
	"github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/domain/user"
	"github.com/minimart/minimart/internal/storage/memory"
	"github.com/minimart/minimart/pkg/kmutex"
)

const testCatalog = `[
	{"id": 1, "name": "Laptop", "price": 999.99},
	{"id": 2, "name": "Mouse", "price": 49.99},
	{"id": 3, "name": "Widget", "price": 100}
]`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	items, err := memory.NewCatalog([]byte(testCatalog))
	require.NoError(t, err)

	carts := memory.NewCarts()
	orders := memory.NewOrders()
	ledger := memory.NewLedger()
	users := memory.NewUsers(
		user.User{ID: 1, Username: "admin", IsAdmin: true},
		user.User{ID: 2, Username: "user1"},
		user.User{ID: 3, Username: "user2"},
	)
	locks := kmutex.New()
	issuer := discount.NewIssuer(ledger, orders, 5)
	cartSvc := cart.NewService(carts, items, ledger, issuer, locks)
	orderSvc := order.NewService(carts, orders, locks)

	h := NewHandler(
		cartSvc,
		orderSvc,
		user.NewDirectory(users),
		insights.NewAggregator(orders, carts, ledger),
		items,
		ledger,
		issuer,
	)
	return h.Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeObj(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func decodeArr(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestListItems(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeArr(t, rec)
	require.Len(t, items, 3)
	first := items[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Laptop", first["name"])
	assert.Equal(t, 999.99, first["price"])
}

func TestLogin(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/user/login", `{"username":"admin"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeObj(t, rec)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, true, body["isAdmin"])

	// Unknown usernames register on first login.
	rec = do(t, h, http.MethodPost, "/api/user/login", `{"username":"newcomer"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decodeObj(t, rec)
	assert.Equal(t, float64(4), body["id"])
	assert.Equal(t, false, body["isAdmin"])
}

func TestLogin_Validation(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/user/login", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeObj(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/api/user/login", `{"username":123}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid input data", decodeObj(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/api/user/login", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid input data", decodeObj(t, rec)["message"])
}

func TestAddItem(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/cart/add", `{"userId":1,"itemId":1,"quantity":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeObj(t, rec)
	assert.Equal(t, float64(1), body["userId"])
	assert.Equal(t, 2999.97, body["total"])
	assert.Equal(t, 2999.97, body["grandTotal"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(3), items[0].(map[string]any)["quantity"])
}

func TestAddItem_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "unknown item", body: `{"userId":1,"itemId":99,"quantity":1}`, wantCode: http.StatusNotFound},
		{name: "zero quantity", body: `{"userId":1,"itemId":1,"quantity":0}`, wantCode: http.StatusBadRequest},
		{name: "missing field", body: `{"userId":1,"itemId":1}`, wantCode: http.StatusBadRequest, wantMsg: "Missing required fields"},
		{name: "mistyped field", body: `{"userId":1,"itemId":1,"quantity":"three"}`, wantCode: http.StatusBadRequest, wantMsg: "Invalid input data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/cart/add", tt.body)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeObj(t, rec)["message"])
			}
		})
	}
}

func TestGetCart(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/cart/add", `{"userId":5,"itemId":2,"quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/cart/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 49.99, decodeObj(t, rec)["total"])

	rec = do(t, h, http.MethodGet, "/api/cart/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/cart/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItem_Conflict(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/cart/add", `{"userId":1,"itemId":3,"quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/cart/remove", `{"userId":1,"itemId":3,"quantity":5}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceOrder(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/cart/add", `{"userId":1,"itemId":3,"quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/order", `{"userId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeObj(t, rec)
	assert.NotEmpty(t, body["orderId"])
	assert.Equal(t, float64(200), body["total"])
	assert.NotEmpty(t, body["createdAt"])

	// The cart is emptied by placement.
	rec = do(t, h, http.MethodPost, "/api/order", `{"userId":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrder_NoCart(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/order", `{"userId":42}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiscountFlow(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/admin/discount", `{"percentage":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	code := decodeObj(t, rec)["code"].(string)
	require.NotEmpty(t, code)

	rec = do(t, h, http.MethodGet, "/api/discount", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeArr(t, rec), 1)

	rec = do(t, h, http.MethodPost, "/api/cart/add", `{"userId":1,"itemId":3,"quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/discount/apply", `{"userId":1,"discountCode":"`+code+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObj(t, rec)
	assert.Equal(t, code, body["discountCodeUsed"])
	assert.Equal(t, float64(10), body["discountAmount"])
	assert.Equal(t, float64(90), body["grandTotal"])

	// Redeemed codes are gone until removed from the cart.
	rec = do(t, h, http.MethodPost, "/api/discount/apply", `{"userId":1,"discountCode":"`+code+`"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/discount/remove", `{"userId":1,"discountCode":"`+code+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeObj(t, rec)
	assert.Nil(t, body["discountCodeUsed"])
	assert.Equal(t, float64(100), body["grandTotal"])

	rec = do(t, h, http.MethodGet, "/api/discount", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeArr(t, rec), 1)
}

func TestCreateDiscount_Validation(t *testing.T) {
	h := newTestHandler(t)

	for _, body := range []string{`{}`, `{"percentage":150}`, `{"percentage":-5}`} {
		rec := do(t, h, http.MethodPost, "/api/admin/discount", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestInsights(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/cart/add", `{"userId":1,"itemId":3,"quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/order", `{"userId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/admin/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeObj(t, rec)
	assert.Equal(t, float64(1), body["totalOrders"])
	assert.Equal(t, float64(200), body["totalRevenue"])
	assert.Equal(t, float64(200), body["averageOrderValue"])
	assert.Equal(t, float64(1), body["totalCarts"])
}
