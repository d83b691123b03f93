package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopapi/shopapi/internal/handler/dto"
	"github.com/shopapi/shopapi/internal/validation"
)

func createProduct(t *testing.T, api *testAPI, name string, price float64) dto.ProductResponse {
	t.Helper()
	rec := api.do(http.MethodPost, "/products", fmt.Sprintf(`{"product_name":%q,"price":%v}`, name, price))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeJSON[dto.ProductResponse](t, rec)
}

func TestProductHandler_CRUD(t *testing.T) {
	api := newTestAPI(t)

	product := createProduct(t, api, "Keyboard", 49.99)
	if product.ProductName != "Keyboard" || product.Price != 49.99 {
		t.Fatalf("unexpected product: %+v", product)
	}
	path := fmt.Sprintf("/products/%d", product.ID)

	got := decodeJSON[dto.ProductResponse](t, api.do(http.MethodGet, path, ""))
	if got != product {
		t.Errorf("expected %+v, got %+v", product, got)
	}

	rec := api.do(http.MethodPut, path, `{"price":39.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeJSON[dto.ProductResponse](t, rec)
	if updated.Price != 39.5 || updated.ProductName != "Keyboard" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	list := decodeJSON[[]dto.ProductResponse](t, api.do(http.MethodGet, "/products", ""))
	if len(list) != 1 || list[0] != updated {
		t.Errorf("unexpected list: %+v", list)
	}

	rec = api.do(http.MethodDelete, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	msg := decodeJSON[dto.MessageResponse](t, rec)
	if want := fmt.Sprintf("Product with id %d has been deleted.", product.ID); msg.Message != want {
		t.Errorf("expected %q, got %q", want, msg.Message)
	}

	expectError(t, api.do(http.MethodGet, path, ""), http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.")
	expectError(t, api.do(http.MethodPut, path, `{"price":1}`), http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.")
	expectError(t, api.do(http.MethodDelete, path, ""), http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.")
}

func TestProductHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{"negative price", `{"product_name":"Mouse","price":-1}`, "price", validation.MsgNegative},
		{"price as string", `{"product_name":"Mouse","price":"10"}`, "price", validation.MsgNotNumber},
		{"price too large", `{"product_name":"Mouse","price":1e12}`, "price", validation.MsgTooLarge},
		{"price at storage bound", `{"product_name":"Mouse","price":10000000000}`, "price", validation.MsgTooLarge},
		{"missing name", `{"price":10}`, "product_name", validation.MsgMissing},
		{"blank name", `{"product_name":"","price":10}`, "product_name", validation.MsgBlank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			resp := expectError(t, api.do(http.MethodPost, "/products", tt.body), http.StatusBadRequest, "VALIDATION_FAILED", "")
			msgs := resp.Fields[tt.wantField]
			if len(msgs) == 0 || msgs[0] != tt.wantMsg {
				t.Errorf("field %s: expected %q, got %v", tt.wantField, tt.wantMsg, msgs)
			}
		})
	}
}

func TestProductHandler_UpdatePriceTooLarge(t *testing.T) {
	api := newTestAPI(t)
	product := createProduct(t, api, "Monitor", 199.99)

	resp := expectError(t, api.do(http.MethodPut, fmt.Sprintf("/products/%d", product.ID), `{"price":1e10}`),
		http.StatusBadRequest, "VALIDATION_FAILED", "")
	if msgs := resp.Fields["price"]; len(msgs) != 1 || msgs[0] != validation.MsgTooLarge {
		t.Errorf("expected %q, got %v", validation.MsgTooLarge, msgs)
	}

	rec := api.do(http.MethodGet, fmt.Sprintf("/products/%d", product.ID), "")
	if got := decodeJSON[dto.ProductResponse](t, rec); got.Price != 199.99 {
		t.Errorf("price changed to %v", got.Price)
	}
}

func TestProductHandler_PriceRoundsToCents(t *testing.T) {
	api := newTestAPI(t)

	product := createProduct(t, api, "Cable", 3.456)

	if product.Price != 3.46 {
		t.Errorf("expected price 3.46, got %v", product.Price)
	}
}

func TestProductHandler_DeleteWhileInOrder(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "Ada", "ada@example.com")
	product := createProduct(t, api, "Keyboard", 10)
	order := createOrder(t, api, user.ID)
	addProduct(t, api, order.ID, product.ID)

	rec := api.do(http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), "")

	expectError(t, rec, http.StatusBadRequest, "PRODUCT_IN_ORDERS", "Product is part of an order.")
}
