package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopapi/shopapi/internal/handler/dto"
	"github.com/shopapi/shopapi/internal/metrics"
	"github.com/shopapi/shopapi/internal/validation"
)

func createUser(t *testing.T, api *testAPI, name, email string) dto.UserResponse {
	t.Helper()
	rec := api.do(http.MethodPost, "/users", fmt.Sprintf(`{"name":%q,"email":%q}`, name, email))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeJSON[dto.UserResponse](t, rec)
}

func TestUserHandler_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)

	created := createUser(t, api, "Ada Lovelace", "ada@example.com")
	if created.ID < 1 || created.Name != "Ada Lovelace" || created.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", created)
	}

	rec := api.do(http.MethodGet, fmt.Sprintf("/users/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeJSON[dto.UserResponse](t, rec); got != created {
		t.Errorf("expected %+v, got %+v", created, got)
	}

	if n := api.recorder.Snapshot().Created[metrics.EntityUser]; n != 1 {
		t.Errorf("expected 1 user created metric, got %d", n)
	}
}

func TestUserHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{"missing email", `{"name":"Ada"}`, "email", validation.MsgMissing},
		{"bad email", `{"name":"Ada","email":"nope"}`, "email", validation.MsgNotEmail},
		{"blank name", `{"name":"","email":"a@example.com"}`, "name", validation.MsgBlank},
		{"number name", `{"name":5,"email":"a@example.com"}`, "name", validation.MsgNotString},
		{"unknown field", `{"name":"Ada","email":"a@example.com","admin":true}`, "admin", validation.MsgUnknown},
		{"null email", `{"name":"Ada","email":null}`, "email", validation.MsgNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.do(http.MethodPost, "/users", tt.body)
			resp := expectError(t, rec, http.StatusBadRequest, "VALIDATION_FAILED", "")

			msgs := resp.Fields[tt.wantField]
			if len(msgs) == 0 || msgs[0] != tt.wantMsg {
				t.Errorf("field %s: expected %q, got %v", tt.wantField, tt.wantMsg, msgs)
			}
			if api.store.UserCount() != 0 {
				t.Error("rejected input must not create a user")
			}
		})
	}
}

func TestUserHandler_InvalidJSON(t *testing.T) {
	api := newTestAPI(t)

	expectError(t, api.do(http.MethodPost, "/users", `{"name":`), http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
	expectError(t, api.do(http.MethodPost, "/users", ""), http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
}

func TestUserHandler_DuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	createUser(t, api, "Ada", "ada@example.com")

	rec := api.do(http.MethodPost, "/users", `{"name":"Other","email":"ada@example.com"}`)

	expectError(t, rec, http.StatusBadRequest, "EMAIL_EXISTS", "Email already exists.")
	if api.store.UserCount() != 1 {
		t.Errorf("expected 1 user, got %d", api.store.UserCount())
	}
}

func TestUserHandler_List(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/users", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty array, got %d %q", rec.Code, rec.Body.String())
	}

	first := createUser(t, api, "Ada", "ada@example.com")
	second := createUser(t, api, "Grace", "grace@example.com")

	users := decodeJSON[[]dto.UserResponse](t, api.do(http.MethodGet, "/users", ""))
	if len(users) != 2 || users[0].ID != first.ID || users[1].ID != second.ID {
		t.Errorf("unexpected list: %+v", users)
	}
}

func TestUserHandler_GetErrors(t *testing.T) {
	api := newTestAPI(t)

	expectError(t, api.do(http.MethodGet, "/users/99", ""), http.StatusNotFound, "USER_NOT_FOUND", "User not found.")
	expectError(t, api.do(http.MethodGet, "/users/abc", ""), http.StatusBadRequest, "INVALID_ID", "Invalid user id")
	expectError(t, api.do(http.MethodGet, "/users/0", ""), http.StatusBadRequest, "INVALID_ID", "Invalid user id")
}

func TestUserHandler_Update(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "Ada", "ada@example.com")
	createUser(t, api, "Grace", "grace@example.com")
	path := fmt.Sprintf("/users/%d", user.ID)

	rec := api.do(http.MethodPut, path, `{"name":"Ada King"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeJSON[dto.UserResponse](t, rec)
	if updated.Name != "Ada King" || updated.Email != "ada@example.com" {
		t.Errorf("partial update changed the wrong fields: %+v", updated)
	}

	expectError(t, api.do(http.MethodPut, path, `{"email":"grace@example.com"}`),
		http.StatusBadRequest, "EMAIL_EXISTS", "")
	expectError(t, api.do(http.MethodPut, path, `{"email":"not-an-email"}`),
		http.StatusBadRequest, "VALIDATION_FAILED", "")
	expectError(t, api.do(http.MethodPut, "/users/999", `{"name":"Nobody"}`),
		http.StatusBadRequest, "INVALID_ID", "Invalid user id")
	expectError(t, api.do(http.MethodPut, "/users/x", `{"name":"Nobody"}`),
		http.StatusBadRequest, "INVALID_ID", "Invalid user id")
}

func TestUserHandler_Delete(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "Ada", "ada@example.com")
	path := fmt.Sprintf("/users/%d", user.ID)

	rec := api.do(http.MethodDelete, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	msg := decodeJSON[dto.MessageResponse](t, rec)
	if want := fmt.Sprintf("User with id %d has been deleted.", user.ID); msg.Message != want {
		t.Errorf("expected %q, got %q", want, msg.Message)
	}

	expectError(t, api.do(http.MethodDelete, path, ""), http.StatusNotFound, "USER_NOT_FOUND", "User not found.")
}

func TestUserHandler_DeleteWithOrders(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "Ada", "ada@example.com")
	createOrder(t, api, user.ID)

	rec := api.do(http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), "")

	expectError(t, rec, http.StatusBadRequest, "USER_HAS_ORDERS", "User still has orders.")
	if api.store.UserCount() != 1 {
		t.Error("user with orders must not be deleted")
	}
}
