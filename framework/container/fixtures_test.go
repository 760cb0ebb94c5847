package container_test

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Config struct {
	Env string
}

func (c *Config) Name() string { return "config-" + c.Env }

func NewConfig() *Config { return &Config{Env: "testing"} }

type Star struct {
	Config *Config
}

func NewStar(config *Config) *Star { return &Star{Config: config} }

type Galaxy struct {
	Star *Star
}

func NewGalaxy(star *Star) *Galaxy { return &Galaxy{Star: star} }

// Token carries a random value so identity can be checked through behaviour.
type Token struct {
	ID string
}

func NewToken() *Token { return &Token{ID: uuid.NewString()} }

type Hasher interface {
	Hash(s string) string
}

type prefixHasher struct{ prefix string }

func (h *prefixHasher) Hash(s string) string { return h.prefix + s }

func NewHasher() Hasher { return &prefixHasher{prefix: "h:"} }

type Greeter struct {
	Title string
}

func NewGreeter(title string) *Greeter { return &Greeter{Title: title} }

func (g *Greeter) SayHello(id string) string {
	return fmt.Sprintf("%s: hello %s", g.Title, id)
}

func (g *Greeter) Ping() string { return "pong" }

func (g *Greeter) Pair() (string, string) { return g.Title, g.Title }

func (g *Greeter) Fail(reason string) (string, error) {
	return "", errors.New(reason)
}

// SelfDescribing declares its own method parameters.
type SelfDescribing struct{}

func (s *SelfDescribing) InjectParams(method string) []string {
	if method == "Sum" {
		return []string{"a", "b"}
	}
	return nil
}

func (s *SelfDescribing) Sum(a, b int) int { return a + b }

var errBoom = errors.New("boom")

func NewBroken() (*Star, error) { return nil, errBoom }
