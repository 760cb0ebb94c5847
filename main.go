package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// Greeter formats greetings; bound as a singleton under "greeter".
type Greeter struct {
	Salutation string
}

func NewGreeter(salutation string) *Greeter { return &Greeter{Salutation: salutation} }

func (g *Greeter) Greet(name string) string { return fmt.Sprintf("%s, %s!", g.Salutation, name) }

// GreetController is built per request by the container.
type GreetController struct {
	greeter *Greeter
	logger  *zap.Logger
}

func NewGreetController(greeter *Greeter, logger *zap.Logger) *GreetController {
	return &GreetController{greeter: greeter, logger: logger}
}

// Show handles GET /greet/{name}.
func (c *GreetController) Show(name string, req *gohttp.Request) map[string]string {
	c.logger.Debug("greeting", zap.String("name", name), zap.String("request_id", req.ID()))
	return map[string]string{"message": c.greeter.Greet(name), "request_id": req.ID()}
}

// Store handles POST /greet.
func (c *GreetController) Store(req *gohttp.Request, res *gohttp.Response) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := req.Bind(&body); err != nil {
		return gohttp.Abort(http.StatusBadRequest, err.Error())
	}
	if body.Name == "" {
		return gohttp.Abort(http.StatusUnprocessableEntity, "name is required")
	}
	res.Created(map[string]string{"message": c.greeter.Greet(body.Name)})
	return nil
}

// AppServiceProvider registers the demo's own services.
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(a *container.Container) error {
	a.Instance("salutation", "Hello")
	a.Singleton("greeter", container.Func(NewGreeter, "salutation"))
	a.Bind("GreetController", container.Func(NewGreetController, "greeter", "logger"))
	a.DeclareMethod((*GreetController)(nil), "Show", "name", routing.ParamRequest)
	a.DeclareMethod((*GreetController)(nil), "Store", routing.ParamRequest, routing.ParamResponse)
	return nil
}

func (p *AppServiceProvider) Boot(a *container.Container) error {
	router, err := container.Resolve[*routing.Router](a, "router")
	if err != nil {
		return err
	}

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome to go-container!"})
	})

	router.Prefix("/api/v1", func(api *routing.Router) {
		api.Action(http.MethodGet, "/greet/{name}", "GreetController@Show")
		api.Action(http.MethodPost, "/greet", "GreetController@Store")
	})

	router.Group(func(protected *routing.Router) {
		protected.Middleware(AuthMiddleware)
		protected.Get("/profile", func(w http.ResponseWriter, _ *http.Request) {
			gohttp.NewResponse(w).Success(map[string]any{"user": "authenticated"})
		})
	})
	return nil
}

// AuthMiddleware is an example token guard.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gohttp.NewRequest(r).BearerToken() == "" {
			gohttp.NewResponse(w).Unauthorized()
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := application.Register(&AppServiceProvider{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		application.Log().Fatal("server error", zap.Error(err))
	}
}
