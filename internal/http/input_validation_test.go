package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/http/handlers"
)

func TestInputValidation(t *testing.T) {
	a := newTestApp(t)
	alice, staff := a.token(t, "u-alice"), a.token(t, "u-staff")

	cases := []struct {
		name, method, path, token string
		body                      any
		status                    int
		kind                      domain.Kind
	}{
		{"zero quantity", "POST", "/api/v1/cart/items", alice, map[string]any{"product_id": "acc-001", "quantity": 0}, 400, domain.KindValidation},
		{"quantity over stock", "POST", "/api/v1/cart/items", alice, map[string]any{"product_id": "acc-001", "quantity": 100000}, 400, domain.KindInsufficientStock},
		{"malformed product id", "POST", "/api/v1/cart/items", alice, map[string]any{"product_id": "has space"}, 404, domain.KindNotFound},
		{"blank product id", "POST", "/api/v1/cart/items", alice, map[string]any{"product_id": "  "}, 400, domain.KindValidation},
		{"unknown product", "POST", "/api/v1/cart/items", alice, map[string]any{"product_id": "nope"}, 404, domain.KindNotFound},
		{"update missing line", "PUT", "/api/v1/cart/items/acc-001", alice, map[string]any{"quantity": 2}, 404, domain.KindNotFound},
		{"bad payment", "POST", "/api/v1/cart/checkout", alice, map[string]any{"shipping_address": "x", "payment_method": "iou"}, 400, domain.KindValidation},
		{"missing address", "POST", "/api/v1/cart/checkout", alice, map[string]any{"payment_method": "paypal"}, 400, domain.KindValidation},
		{"empty status", "POST", "/api/v1/orders/o1/status", staff, map[string]any{}, 400, domain.KindValidation},
		{"unknown order", "GET", "/api/v1/orders/o1", alice, nil, 404, domain.KindNotFound},
		{"missing stock qty", "POST", "/api/v1/products/acc-001/update_stock", staff, map[string]any{}, 400, domain.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var er handlers.ErrorResponse
			resp := a.do(t, tc.method, tc.path, tc.token, tc.body, &er)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, string(tc.kind), er.Error)
			assert.NotEmpty(t, er.Message)
		})
	}
}

func TestMalformedJSONBody(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token(t, "u-alice"))
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidationFailuresAreLogged(t *testing.T) {
	a := newTestApp(t)
	entries := captureLogs(t, func() {
		a.do(t, "POST", "/api/v1/cart/checkout", a.token(t, "u-alice"), map[string]any{"shipping_address": "x", "payment_method": "iou"}, nil)
	})
	e, ok := findLog(entries, "validation.fail")
	require.True(t, ok)
	assert.Equal(t, "order.place", e.Fields["action"])
}
