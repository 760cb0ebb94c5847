package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

func TestCatalog_RegisterAndLoad(t *testing.T) {
	cat := container.NewCatalog().
		Register("Config", container.Func(NewConfig)).
		Register("Star", container.Func(NewStar, "config"))

	ctor, err := cat.Load("Star")
	require.NoError(t, err)
	assert.Equal(t, []string{"config"}, ctor.Params())

	_, err = cat.Load("Nope")
	assert.Error(t, err)

	assert.Equal(t, []string{"Config", "Star"}, cat.Names())
}

func TestCatalog_UnboundNameLoadsByOwnName(t *testing.T) {
	cat := container.NewCatalog().
		Register("config", container.Func(NewConfig)).
		Register("star", container.Func(NewStar, "config"))
	c := container.New(container.WithLoader(cat))

	star, err := container.Resolve[*Star](c, "star")
	require.NoError(t, err)
	assert.Equal(t, "testing", star.Config.Env)
	assert.False(t, c.IsShared("star"))
}

func TestParseConcrete(t *testing.T) {
	assert.Equal(t, container.External("RedisCache"), container.ParseConcrete("load:RedisCache"))
	assert.Equal(t, container.Reference("cache"), container.ParseConcrete("cache"))
	assert.Equal(t, container.Reference(""), container.ParseConcrete(""))
}

func TestConstructor_Metadata(t *testing.T) {
	ctor := container.Func(NewStar, "config")
	assert.Contains(t, ctor.Name(), "NewStar")

	params := ctor.Params()
	params[0] = "mutated"
	assert.Equal(t, []string{"config"}, ctor.Params())
}

func TestTypeKey(t *testing.T) {
	assert.Equal(t, "github.com/km-arc/go-container/framework/container_test.Config", container.TypeKey(&Config{}))
	assert.Equal(t, "github.com/km-arc/go-container/framework/container_test.Hasher", container.TypeKey((*Hasher)(nil)))
	assert.Equal(t, "", container.TypeKey(nil))
}
