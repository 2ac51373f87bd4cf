package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tabular/internal/cache"
	"github.com/roach88/tabular/internal/table"
)

// TableDef is one table definition in a manifest. String fields use the
// lowercase names from the schema; empty means the documented default.
type TableDef struct {
	Name             string `yaml:"name" json:"name"`
	Ordering         string `yaml:"ordering,omitempty" json:"ordering"`
	Privacy          string `yaml:"privacy,omitempty" json:"privacy"`
	ReadConcurrency  bool   `yaml:"read_concurrency,omitempty" json:"read_concurrency"`
	WriteConcurrency bool   `yaml:"write_concurrency,omitempty" json:"write_concurrency"`
	Compressed       bool   `yaml:"compressed,omitempty" json:"compressed"`
	CounterMode      string `yaml:"counter_mode,omitempty" json:"counter_mode"`
}

// Manifest is a declarative set of table definitions.
type Manifest struct {
	Tables []TableDef `yaml:"tables" json:"tables"`
}

// Default returns an empty manifest.
func Default() Manifest {
	return Manifest{}
}

// Load reads a manifest file, validates it against the embedded schema, and
// returns the normalized manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(path, data)
}

// Parse validates and unmarshals raw manifest YAML. The filename is used
// only for error positions.
func Parse(filename string, data []byte) (*Manifest, error) {
	if err := Validate(filename, data); err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	m.Normalize()
	return &m, nil
}

// Normalize fills defaulted fields with their explicit values so that a
// manifest round-trips deterministically.
func (m *Manifest) Normalize() {
	for i := range m.Tables {
		def := &m.Tables[i]
		if def.Ordering == "" {
			def.Ordering = table.Unordered.String()
		}
		if def.Privacy == "" {
			def.Privacy = table.Protected.String()
		}
		if def.CounterMode == "" {
			def.CounterMode = table.Centralized.String()
		}
	}
}

// Merge overlays src onto m: definitions with new names are appended,
// definitions with existing names replace them.
func (m *Manifest) Merge(src *Manifest) {
	byName := make(map[string]int, len(m.Tables))
	for i, def := range m.Tables {
		byName[def.Name] = i
	}

	for _, def := range src.Tables {
		if i, exists := byName[def.Name]; exists {
			m.Tables[i] = def
			continue
		}
		m.Tables = append(m.Tables, def)
	}
}

// Options translates a definition into validated table options. Ordering is
// returned separately because the builder terminals own it.
func (d TableDef) Options() (table.Options, table.Ordering, error) {
	opts := table.DefaultOptions()
	opts.ReadConcurrency = d.ReadConcurrency
	opts.WriteConcurrency = d.WriteConcurrency
	opts.Compressed = d.Compressed

	ordering := table.Unordered
	switch d.Ordering {
	case "", "unordered":
	case "ordered":
		ordering = table.Ordered
	default:
		return opts, ordering, fmt.Errorf("table %q: unknown ordering %q", d.Name, d.Ordering)
	}

	switch d.Privacy {
	case "", "protected":
		opts.Privacy = table.Protected
	case "private":
		opts.Privacy = table.Private
	case "public":
		opts.Privacy = table.Public
	default:
		return opts, ordering, fmt.Errorf("table %q: unknown privacy %q", d.Name, d.Privacy)
	}

	switch d.CounterMode {
	case "", "centralized":
		opts.CounterMode = table.Centralized
	case "decentralized":
		opts.CounterMode = table.Decentralized
	default:
		return opts, ordering, fmt.Errorf("table %q: unknown counter mode %q", d.Name, d.CounterMode)
	}

	return opts, ordering, nil
}

// BuildAll starts one coordinator per definition. On any failure the
// already-started coordinators are stopped so no partial set stays
// registered.
func BuildAll(ctx context.Context, reg table.NameRegistry, m *Manifest, opts ...cache.Option) ([]*cache.Cache[string, []byte], error) {
	started := make([]*cache.Cache[string, []byte], 0, len(m.Tables))

	fail := func(err error) ([]*cache.Cache[string, []byte], error) {
		for _, c := range started {
			c.Stop()
		}
		return nil, err
	}

	for _, def := range m.Tables {
		topts, ordering, err := def.Options()
		if err != nil {
			return fail(err)
		}

		b := table.New[string, []byte](def.Name).WithOptions(topts)

		var build cache.BuildFunc[string, []byte] = b.BuildUnordered
		if ordering == table.Ordered {
			build = b.BuildOrdered
		}

		c, err := cache.StartWith(ctx, reg, def.Name, build, opts...)
		if err != nil {
			return fail(err)
		}
		started = append(started, c)
	}

	return started, nil
}
