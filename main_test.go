package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/app"
)

func newDemo(t *testing.T) *app.Application {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("CONTAINER_MANIFEST", "")

	a, err := app.New("testdata/none.env")
	require.NoError(t, err)
	require.NoError(t, a.Register(&AppServiceProvider{}))
	require.NoError(t, a.Boot())
	return a
}

func serve(a *app.Application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, req)
	return rr
}

func TestDemo_GreetShow(t *testing.T) {
	a := newDemo(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/greet/Ada", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rr := serve(a, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"message":"Hello, Ada!","request_id":"req-1"}}`, rr.Body.String())
}

func TestDemo_GreetStore(t *testing.T) {
	a := newDemo(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/greet", strings.NewReader(`{"name":"Grace"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(a, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"data":{"message":"Hello, Grace!"}}`, rr.Body.String())
}

func TestDemo_GreetStoreValidation(t *testing.T) {
	a := newDemo(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/greet", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(a, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"message":"name is required"}`, rr.Body.String())
}

func TestDemo_GreeterIsShared(t *testing.T) {
	a := newDemo(t)
	assert.Same(t, a.MustMake("greeter"), a.MustMake("greeter"))
	assert.NotSame(t, a.MustMake("GreetController"), a.MustMake("GreetController"))
}

func TestDemo_ProfileRequiresToken(t *testing.T) {
	a := newDemo(t)

	rr := serve(a, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = serve(a, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
