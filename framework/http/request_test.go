package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	gohttp "github.com/km-arc/go-container/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newJSONRequest(t *testing.T, body string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return gohttp.NewRequest(req)
}

func newFormRequest(t *testing.T, values url.Values) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return gohttp.NewRequest(req)
}

// withRouteParams attaches a chi route context as the router would.
func withRouteParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ── Bind ──────────────────────────────────────────────────────────────────────

func TestRequest_BindJSON(t *testing.T) {
	type user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	req := newJSONRequest(t, `{"name":"Alice","email":"alice@example.com"}`)

	var u user
	if err := req.Bind(&u); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if u.Name != "Alice" {
		t.Errorf("Name: got %q want %q", u.Name, "Alice")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("Email: got %q want %q", u.Email, "alice@example.com")
	}
}

func TestRequest_BindJSON_EmptyBody(t *testing.T) {
	req := newJSONRequest(t, "")

	var v any
	if err := req.Bind(&v); !errors.Is(err, gohttp.ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

func TestRequest_BindJSON_InvalidJSON(t *testing.T) {
	req := newJSONRequest(t, `{bad json}`)
	var v map[string]any
	if err := req.Bind(&v); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestRequest_BindForm(t *testing.T) {
	var body struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}
	req := newFormRequest(t, url.Values{"name": {"Bob"}, "tags": {"a", "b"}})

	if err := req.Bind(&body); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if body.Name != "Bob" {
		t.Errorf("Name: got %q want %q", body.Name, "Bob")
	}
	if len(body.Tags) != 2 {
		t.Errorf("Tags: got %v want [a b]", body.Tags)
	}
}

// ── Input ─────────────────────────────────────────────────────────────────────

func TestRequest_Input(t *testing.T) {
	req := newFormRequest(t, url.Values{"name": {"Alice"}})
	if got := req.Input("name"); got != "Alice" {
		t.Errorf("Input: got %q want %q", got, "Alice")
	}
	if got := req.Input("missing", "fallback"); got != "fallback" {
		t.Errorf("Input fallback: got %q want %q", got, "fallback")
	}
}

func TestRequest_Query(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?page=2", nil))
	if got := req.Query("page"); got != "2" {
		t.Errorf("Query: got %q want %q", got, "2")
	}
	if got := req.Query("limit", "10"); got != "10" {
		t.Errorf("Query fallback: got %q want %q", got, "10")
	}
}

// ── Route params ──────────────────────────────────────────────────────────────

func TestRequest_Param(t *testing.T) {
	r := withRouteParams(httptest.NewRequest(http.MethodGet, "/users/42", nil), "id", "42")
	req := gohttp.NewRequest(r)

	if got := req.Param("id"); got != "42" {
		t.Errorf("Param: got %q want %q", got, "42")
	}
	params := req.Params()
	if len(params) != 1 || params["id"] != "42" {
		t.Errorf("Params: got %v", params)
	}
}

func TestRequest_Params_NoRouteContext(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if params := req.Params(); params != nil {
		t.Errorf("Params without chi context: got %v want nil", params)
	}
}

// ── Headers / Auth ────────────────────────────────────────────────────────────

func TestRequest_Header(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Custom", "value123")
	req := gohttp.NewRequest(r)

	if got := req.Header("X-Custom"); got != "value123" {
		t.Errorf("Header: got %q want %q", got, "value123")
	}
}

func TestRequest_BearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer my-secret-token")
	req := gohttp.NewRequest(r)

	if got := req.BearerToken(); got != "my-secret-token" {
		t.Errorf("BearerToken: got %q want %q", got, "my-secret-token")
	}
}

func TestRequest_BearerToken_Missing(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if got := req.BearerToken(); got != "" {
		t.Errorf("BearerToken should be empty, got %q", got)
	}
}

// ── ID ────────────────────────────────────────────────────────────────────────

func TestRequest_ID_FromHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(gohttp.RequestIDHeader, "abc-123")

	if got := gohttp.NewRequest(r).ID(); got != "abc-123" {
		t.Errorf("ID: got %q want %q", got, "abc-123")
	}
}

func TestRequest_ID_FromChiMiddleware(t *testing.T) {
	var got string
	h := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = gohttp.NewRequest(r).ID()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == "" {
		t.Error("ID should come from middleware.RequestID")
	}
	if _, err := uuid.Parse(got); err == nil {
		t.Errorf("ID %q should be chi's id, not a fallback UUID", got)
	}
}

func TestRequest_ID_FallbackUUIDIsStable(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil))

	id := req.ID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("ID %q is not a UUID: %v", id, err)
	}
	if again := req.ID(); again != id {
		t.Errorf("ID changed between calls: %q then %q", id, again)
	}
}

// ── IsJSON / Method / Path ────────────────────────────────────────────────────

func TestRequest_IsJSON(t *testing.T) {
	if !newJSONRequest(t, `{}`).IsJSON() {
		t.Error("IsJSON should be true when Content-Type is application/json")
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "application/json")
	if !gohttp.NewRequest(r).IsJSON() {
		t.Error("IsJSON should be true when Accept is application/json")
	}
}

func TestRequest_MethodAndPath(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodDelete, "/api/v1/users", nil))
	if req.Method() != http.MethodDelete {
		t.Errorf("Method: got %q want DELETE", req.Method())
	}
	if req.Path() != "/api/v1/users" {
		t.Errorf("Path: got %q want /api/v1/users", req.Path())
	}
}
