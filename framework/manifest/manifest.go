// Package manifest declares container bindings in YAML.
//
//	bindings:
//	  cache:
//	    concrete: load:RedisCache   # External, built by the container's Loader
//	    shared: true
//	  store: cache                  # shorthand for {concrete: cache}, a Reference
//	  mailer: {}                    # the abstract itself, loaded as load:mailer
//	instances:
//	  app.locale: en
//	aliases:
//	  kv: cache                     # alias: abstract
//	tags:
//	  stores: [cache, store]
//
// Concrete strings use the same syntax as container.ParseConcrete.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-container/framework/container"
)

// Manifest is the decoded form of a bindings file.
type Manifest struct {
	Bindings  map[string]Binding  `yaml:"bindings"`
	Instances map[string]any      `yaml:"instances"`
	Aliases   map[string]string   `yaml:"aliases"`
	Tags      map[string][]string `yaml:"tags"`
}

// Binding is one entry under "bindings". An empty Concrete binds the
// abstract to itself.
type Binding struct {
	Concrete string `yaml:"concrete"`
	Shared   bool   `yaml:"shared"`
}

// UnmarshalYAML accepts either a mapping or a bare concrete string.
func (b *Binding) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		b.Concrete = node.Value
		return nil
	}
	// Node.Decode does not inherit the decoder's KnownFields setting.
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Value != "concrete" && key.Value != "shared" {
				return fmt.Errorf("line %d: unknown binding field %q", key.Line, key.Value)
			}
		}
	}
	type plain Binding
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*b = Binding(p)
	return nil
}

// concrete returns the container form of the binding.
func (b Binding) concrete() container.Concrete {
	if b.Concrete == "" {
		return nil
	}
	return container.ParseConcrete(b.Concrete)
}

// Parse decodes a manifest. Unknown top-level or binding keys are errors.
// Empty input yields an empty manifest.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	for abstract := range m.Bindings {
		if abstract == "" {
			return nil, errors.New("manifest: binding with empty abstract")
		}
	}
	return m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data)
}

// Apply registers the manifest on c: bindings, then instances, then aliases,
// then tags, each in sorted key order. It stops at the first failure.
func (m *Manifest) Apply(c *container.Container) error {
	for _, abstract := range sortedKeys(m.Bindings) {
		b := m.Bindings[abstract]
		if b.Shared {
			c.Singleton(abstract, b.concrete())
		} else {
			c.Bind(abstract, b.concrete())
		}
	}

	for _, abstract := range sortedKeys(m.Instances) {
		c.Instance(abstract, m.Instances[abstract])
	}

	for _, alias := range sortedKeys(m.Aliases) {
		if err := c.Alias(m.Aliases[alias], alias); err != nil {
			return fmt.Errorf("manifest: alias %s: %w", alias, err)
		}
	}

	for _, tag := range sortedKeys(m.Tags) {
		c.Tag(m.Tags[tag], tag)
	}
	return nil
}

// Abstracts lists every name the manifest binds, sorted.
func (m *Manifest) Abstracts() []string {
	names := make([]string, 0, len(m.Bindings)+len(m.Instances))
	names = append(names, sortedKeys(m.Bindings)...)
	names = append(names, sortedKeys(m.Instances)...)
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
