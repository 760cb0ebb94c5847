package routing

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/logging"
)

// DefaultMethod is called for actions written without "@method".
const DefaultMethod = "Handle"

// Names under which every action receives the current request. URL
// parameters are passed under their route names as well.
const (
	ParamRequest  = "request"
	ParamResponse = "response"
	ParamContext  = "ctx"
)

// Router wraps chi.Router with Laravel-style helpers. Routes take either a
// plain handler or an action string resolved through the container:
//
//	r.Get("/health", healthHandler)
//	r.Action(http.MethodGet, "/users/{id}", "UserController@Show")
type Router struct {
	mux    chi.Router
	app    *container.Container
	logger *zap.Logger
	debug  bool
}

// Option configures New.
type Option func(*Router)

// WithContainer sets the container that builds action controllers.
func WithContainer(c *container.Container) Option {
	return func(r *Router) { r.app = c }
}

// WithLogger replaces the default no-op logger used for access logs and
// action failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithDebug exposes action error messages in 500 responses.
func WithDebug(debug bool) Option {
	return func(r *Router) { r.debug = debug }
}

// New creates a Router with sane defaults (RequestID, RealIP, access log,
// Recoverer). Without WithContainer, actions resolve against an empty
// container.
func New(opts ...Option) *Router {
	r := &Router{mux: chi.NewRouter(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.app == nil {
		r.app = container.New(container.WithLogger(r.logger))
	}
	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.RealIP)
	r.mux.Use(logging.Middleware(r.logger))
	r.mux.Use(middleware.Recoverer)
	return r
}

// Container returns the container actions are resolved from.
func (r *Router) Container() *container.Container { return r.app }

func (r *Router) sub(mx chi.Router) *Router {
	return &Router{mux: mx, app: r.app, logger: r.logger, debug: r.debug}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// Handle mounts an http.Handler for every method on pattern.
func (r *Router) Handle(pattern string, h http.Handler) { r.mux.Handle(pattern, h) }

// ── Actions ──────────────────────────────────────────────────────────────────

// Action routes method+pattern to a "Controller@method" target.
//
//	// Laravel: Route::get('/users/{id}', 'UserController@show')
//	r.Action(http.MethodGet, "/users/{id}", "UserController@Show")
//
// Controllers should be bound with Bind, not Singleton: the constructor
// receives the per-request parameters, so a shared controller keeps the
// request it was first built with. Dispatching to a shared controller logs a
// warning once per route.
func (r *Router) Action(method, pattern, target string) {
	r.mux.Method(method, pattern, r.dispatch(target))
}

// dispatch resolves the controller and calls the method through the
// container. The controller's constructor and the method share one
// parameter map: URL params, request, response and ctx.
//
// A non-nil result is sent as {"data": result}; nil with nothing written
// becomes 204. Errors go through Response.Fail.
func (r *Router) dispatch(target string) http.HandlerFunc {
	class := container.ParseTarget(target).Class
	var warnShared sync.Once
	return func(w http.ResponseWriter, req *http.Request) {
		if r.app.IsShared(r.app.GetAlias(class)) {
			warnShared.Do(func() {
				r.logger.Warn("action controller is shared; its constructor sees only the first request",
					zap.String("action", target),
					zap.String("controller", class))
			})
		}
		request := gohttp.NewRequest(req)
		response := gohttp.NewResponse(w)

		params := container.Parameters{}
		for k, v := range request.Params() {
			params[k] = v
		}
		params[ParamRequest] = request
		params[ParamResponse] = response
		params[ParamContext] = req.Context()

		out, err := r.app.CallClass(target, params, DefaultMethod)
		if err != nil {
			r.logger.Error("action failed",
				zap.String("action", target),
				zap.String("request_id", request.ID()),
				zap.Error(err))
			if !response.Written() {
				response.Fail(err, r.debug)
			}
			return
		}

		switch {
		case response.Written():
		case out == nil:
			response.NoContent()
		default:
			response.Success(out)
		}
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group — Laravel: Route::group([], fn)
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

// Prefix creates a sub-router with a URL prefix — Laravel: Route::prefix('/api')
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Resource routes ──────────────────────────────────────────────────────────

// Resource registers the standard RESTful actions of a controller abstract.
//
//	GET    /photos           → controller@Index
//	POST   /photos           → controller@Store
//	GET    /photos/{id}      → controller@Show
//	PUT    /photos/{id}      → controller@Update
//	PATCH  /photos/{id}      → controller@Update
//	DELETE /photos/{id}      → controller@Destroy
func (r *Router) Resource(pattern, controller string) {
	action := func(method string) string {
		return container.ClassMethod{Class: controller, Method: method}.String()
	}
	r.Action(http.MethodGet, pattern, action("Index"))
	r.Action(http.MethodPost, pattern, action("Store"))
	r.Action(http.MethodGet, pattern+"/{id}", action("Show"))
	r.Action(http.MethodPut, pattern+"/{id}", action("Update"))
	r.Action(http.MethodPatch, pattern+"/{id}", action("Update"))
	r.Action(http.MethodDelete, pattern+"/{id}", action("Destroy"))
}

// ── Static files ─────────────────────────────────────────────────────────────

// Static serves a filesystem at the given prefix.
// e.g. router.Static("/public", "./public")
func (r *Router) Static(prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.mux.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param — equivalent to $request->route('id')
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
