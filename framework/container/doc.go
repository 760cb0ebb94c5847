// Package container provides a Laravel-compatible IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container maps abstract names to concretes and resolves object graphs by
// recursively satisfying each constructible's declared dependencies by name.
// It supports transient bindings, singletons, pre-built instances, aliases,
// tags, contextual bindings, extension (decoration) and method invocation with
// injected arguments, including "Class@method" dispatch.
//
// Because Go cannot read parameter names at runtime, every constructible
// declares its dependency names up front. Those names ARE abstracts: each one
// is either supplied by the caller or resolved from the container.
//
// # Bindings
//
//	// Transient — new instance every Make()
//	// Laravel: $app->bind('star', Star::class)
//	c.Bind("star", container.Func(NewStar, "config"))
//
//	// Singleton — created once, reused
//	c.Singleton("config", container.Func(NewConfig))
//
//	// Pre-built value
//	// Laravel: $app->instance('config', $config)
//	c.Instance("config", myConfig)
//
//	// Indirection: "x" resolves whatever "y" resolves to
//	c.Bind("x", container.Reference("y"))
//
//	// External: ask the Loader for "RedisCache"
//	c.Singleton("cache", container.External("RedisCache"))
//
//	// Alias
//	// Laravel: $app->alias('hash', 'hasher')
//	c.Alias("hash", "hasher")
//
// # Resolving
//
//	star, err := c.Make("star")
//	star, err := c.MakeWith("star", container.Parameters{"config": testConfig})
//	typed, err := container.Resolve[*Star](c, "star")
//
// An abstract with no binding is handed to the Loader under its own name. If
// the Loader cannot find it, the error satisfies IsNotFound. Resolution cycles
// are detected and reported as a CircularDependencyError.
//
// # Calling
//
//	c.Bind("Greeter", container.Func(NewGreeter, "title"))
//	c.DeclareMethod((*Greeter)(nil), "SayHello", "id")
//
//	// Laravel: $app->call('Greeter@sayHello', ['id' => 'x', 'title' => 't'])
//	out, err := c.CallClass("Greeter@sayHello", container.Parameters{"id": "x", "title": "t"}, "")
//
// # Contextual Binding
//
//	// Laravel: $app->when(PhotoController::class)->needs('disk')->give(...)
//	c.When("PhotoController").Needs("disk").Give(container.Reference("s3"))
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("mailer", container.Func(mail.NewSMTP, "config"))
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	_ = registry.Register(&AppServiceProvider{})
//	_ = registry.Boot()
package container
