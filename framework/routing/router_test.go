package routing_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func body(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&m); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return m
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Patch("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPatch, "/users/1"},
		{http.MethodDelete, "/users/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
				t.Errorf("got %d want 200", rr.Code)
			}
		})
	}
}

func TestRouter_Any(t *testing.T) {
	r := routing.New()
	r.Any("/ping", okHandler)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		rr := do(t, r, method, "/ping")
		if rr.Code != http.StatusOK {
			t.Errorf("ANY %s /ping: got %d want 200", method, rr.Code)
		}
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New()
	rr := do(t, r, http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if rr.Body.String() != "42" {
		t.Errorf("got body %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/users"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/users: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/users"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /users: expected 404, got %d", rr.Code)
	}
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New()
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/protected")
	if !called {
		t.Error("expected middleware to be called")
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := routing.New()
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	if rr := do(t, r, http.MethodGet, "/panic"); rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d want 500", rr.Code)
	}
}

// ── Actions ──────────────────────────────────────────────────────────────────

type photoController struct {
	owner string
}

func newPhotoController(owner string) *photoController {
	return &photoController{owner: owner}
}

func (p *photoController) Index() []string { return []string{p.owner + "/1", p.owner + "/2"} }

func (p *photoController) Store(res *gohttp.Response) { res.Created("stored") }

func (p *photoController) Show(id string) map[string]string {
	return map[string]string{"id": id, "owner": p.owner}
}

func (p *photoController) Update(id string) (any, error) { return nil, nil }

func (p *photoController) Destroy(id string) error {
	return gohttp.Abort(http.StatusNotFound, "photo "+id+" not found")
}

func (p *photoController) Handle(req *gohttp.Request) string { return "q=" + req.Query("q") }

func (p *photoController) Deadline(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
}

func (p *photoController) Broken() error { return errors.New("disk on fire") }

func newPhotoRouter(debug bool) *routing.Router {
	c := container.New()
	c.Bind("PhotoController", container.Func(newPhotoController, "owner"))
	c.Instance("owner", "alice")
	c.DeclareMethod((*photoController)(nil), "Store", routing.ParamResponse)
	c.DeclareMethod((*photoController)(nil), "Show", "id")
	c.DeclareMethod((*photoController)(nil), "Update", "id")
	c.DeclareMethod((*photoController)(nil), "Destroy", "id")
	c.DeclareMethod((*photoController)(nil), "Handle", routing.ParamRequest)
	c.DeclareMethod((*photoController)(nil), "Deadline", routing.ParamContext)

	return routing.New(routing.WithContainer(c), routing.WithDebug(debug))
}

func TestRouter_Action_InjectsURLParams(t *testing.T) {
	r := newPhotoRouter(false)
	r.Action(http.MethodGet, "/photos/{id}", "PhotoController@Show")

	rr := do(t, r, http.MethodGet, "/photos/7")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200: %s", rr.Code, rr.Body.String())
	}
	data := body(t, rr)["data"].(map[string]any)
	if data["id"] != "7" || data["owner"] != "alice" {
		t.Errorf("data: got %v", data)
	}
}

func TestRouter_Action_DefaultMethod(t *testing.T) {
	r := newPhotoRouter(false)
	r.Action(http.MethodGet, "/search", "PhotoController")

	rr := do(t, r, http.MethodGet, "/search?q=cats")
	if got := body(t, rr)["data"]; got != "q=cats" {
		t.Errorf("data: got %v want q=cats", got)
	}
}

func TestRouter_Action_Context(t *testing.T) {
	r := newPhotoRouter(false)
	r.Action(http.MethodGet, "/deadline", "PhotoController@Deadline")

	rr := do(t, r, http.MethodGet, "/deadline")
	if got := body(t, rr)["data"]; got != false {
		t.Errorf("data: got %v want false", got)
	}
}

func TestRouter_Action_MissingClassIs500(t *testing.T) {
	r := newPhotoRouter(true)
	r.Action(http.MethodGet, "/ghost", "GhostController@Show")

	rr := do(t, r, http.MethodGet, "/ghost")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d want 500", rr.Code)
	}
}

func TestRouter_Action_ErrorHiddenUnlessDebug(t *testing.T) {
	for _, debug := range []bool{false, true} {
		r := newPhotoRouter(debug)
		r.Action(http.MethodPost, "/broken", "PhotoController@Broken")

		rr := do(t, r, http.MethodPost, "/broken")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("debug=%v: got %d want 500", debug, rr.Code)
		}
		msg, _ := body(t, rr)["message"].(string)
		if exposed := msg != "Server Error."; exposed != debug {
			t.Errorf("debug=%v: message %q", debug, msg)
		}
	}
}

func TestRouter_Action_WarnsOnceForSharedController(t *testing.T) {
	const warning = "action controller is shared; its constructor sees only the first request"

	for _, shared := range []bool{false, true} {
		core, logs := observer.New(zapcore.WarnLevel)
		c := container.New()
		c.Instance("owner", "alice")
		ctor := container.Func(newPhotoController, "owner")
		if shared {
			c.Singleton("PhotoController", ctor)
		} else {
			c.Bind("PhotoController", ctor)
		}
		c.DeclareMethod((*photoController)(nil), "Show", "id")

		r := routing.New(routing.WithContainer(c), routing.WithLogger(zap.New(core)))
		r.Action(http.MethodGet, "/photos/{id}", "PhotoController@Show")
		do(t, r, http.MethodGet, "/photos/1")
		do(t, r, http.MethodGet, "/photos/2")

		want := 0
		if shared {
			want = 1
		}
		if got := logs.FilterMessage(warning).Len(); got != want {
			t.Errorf("shared=%v: got %d warnings want %d", shared, got, want)
		}
	}
}

func TestRouter_Resource(t *testing.T) {
	r := newPhotoRouter(false)
	r.Resource("/photos", "PhotoController")

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/photos", 200},
		{"POST", "/photos", 201},
		{"GET", "/photos/1", 200},
		{"PUT", "/photos/1", 204},
		{"PATCH", "/photos/1", 204},
		{"DELETE", "/photos/1", 404},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, r, tt.method, tt.path)
			if rr.Code != tt.want {
				t.Errorf("got %d want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestRouter_Container_DefaultsToEmpty(t *testing.T) {
	r := routing.New()
	if r.Container() == nil {
		t.Fatal("Container() should never be nil")
	}
	if !r.Container().Bound(container.SelfAbstract) {
		t.Error("default container should register itself")
	}
}

// ── Handler() returns http.Handler ───────────────────────────────────────────

func TestRouter_HandlerInterface(t *testing.T) {
	r := routing.New()
	r.Handle("/ping", http.HandlerFunc(okHandler))
	var _ http.Handler = r.Handler()

	if rr := do(t, r, http.MethodPost, "/ping"); rr.Code != http.StatusOK {
		t.Errorf("Handle: got %d want 200", rr.Code)
	}
}
