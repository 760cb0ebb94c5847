package container

// ContextualBuilder implements the fluent contextual binding API.
//
//	// Laravel: $app->when(PhotoController::class)->needs('disk')->give(S3Filesystem::class)
//	c.When("PhotoController").Needs("disk").Give(container.Reference("s3"))
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// When starts a contextual binding chain for the abstract being built.
func (c *Container) When(abstract string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: abstract}
}

// Needs specifies which parameter name of the abstract is being overridden.
func (b *ContextualBuilder) Needs(param string) *ContextualBuilder {
	b.needs = param
	return b
}

// Give provides the concrete used for the parameter when the abstract is
// built. Caller-supplied Parameters still take precedence.
func (b *ContextualBuilder) Give(concrete Concrete) {
	c := b.container
	owner := c.GetAlias(b.concrete)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.contextual[owner]; !ok {
		c.contextual[owner] = make(map[string]Concrete)
	}
	c.contextual[owner][b.needs] = concrete
}

// GiveValue is a shorthand for Give when the value is a simple scalar or
// pre-built instance (no factory logic needed).
//
//	// Laravel: ->give('/tmp/photos')
//	c.When("PhotoController").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(Value(value))
}

// contextualFor returns the contextual concrete for (owner, param), if any.
func (c *Container) contextualFor(owner, param string) (Concrete, bool) {
	if owner == "" {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[owner]; ok {
		if given, ok := m[param]; ok {
			return given, true
		}
	}
	return nil, false
}
