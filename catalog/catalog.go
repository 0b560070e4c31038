// Package catalog defines errtype types from a configuration file.
//
// A catalog file lists types under a "types" key:
//
//	types:
//	  - name: ValidationError
//	    attributes: {message: Default Message, field: ""}
//	    visible: [field]
//	  - name: MissingFieldError
//	    parent: ValidationError
//	    profile: leading
//
// Parents may be listed after their children. Every problem in the file is
// reported at once, joined with errtype.Join.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	errtype "github.com/xgx-io/xgx-errtype"
)

// Definition describes one type.
type Definition struct {
	Name       string         `mapstructure:"name"`
	Parent     string         `mapstructure:"parent"`
	Attributes map[string]any `mapstructure:"attributes"`
	Visible    []string       `mapstructure:"visible"`
	ReadOnly   []string       `mapstructure:"readonly"`
	Profile    string         `mapstructure:"profile"`
}

type file struct {
	Types []Definition `mapstructure:"types"`
}

// Catalog is a set of defined types. It is immutable once built.
type Catalog struct {
	types map[string]*errtype.Type
	order []string
}

// Load reads a catalog file. The format follows the file extension
// (yaml, yml, toml, json).
func Load(path string) (*Catalog, error) {
	pathField := errtype.Attrs{"path": errtype.ReadOnly(path)}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, ErrLoad.New("failed to read catalog file", pathField, err)
	}
	data, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		return nil, ErrLoad.New("failed to read catalog file", pathField, err)
	}
	defs, err := decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, ErrLoad.Wrap(err, "failed to decode catalog file", pathField)
	}
	return Build(defs)
}

// FromReader reads a catalog in the given format.
func FromReader(r io.Reader, format string) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrLoad.Wrap(err, "failed to read catalog")
	}
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, ErrLoad.Wrap(err, "failed to read catalog")
	}
	defs, err := decode(data, format)
	if err != nil {
		return nil, ErrLoad.Wrap(err, "failed to decode catalog")
	}
	return Build(defs)
}

// decode parses data with the codec for format. Viper folds keys to lower
// case, so definitions are decoded from the raw document to keep attribute
// names as written.
func decode(data []byte, format string) ([]Definition, error) {
	var raw map[string]any
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &raw)
	case "toml":
		err = toml.Unmarshal(data, &raw)
	case "json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}

	var f file
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return f.Types, nil
}

// Build defines every type in defs, parents first.
func Build(defs []Definition) (*Catalog, error) {
	b := &builder{
		defs:  make(map[string]*Definition, len(defs)),
		types: make(map[string]*errtype.Type, len(defs)),
		state: make(map[string]visit, len(defs)),
	}

	var order []string
	for i := range defs {
		d := &defs[i]
		name := strings.TrimSpace(d.Name)
		switch {
		case name == "":
			b.fail(ErrNameRequired.New(errtype.Attrs{"index": errtype.ReadOnly(i)}))
			continue
		case name == errtype.Base.Name():
			b.fail(ErrDuplicateType.New(typeField(name), "name is reserved for the base type"))
			continue
		}
		if _, dup := b.defs[name]; dup {
			b.fail(ErrDuplicateType.New(typeField(name)))
			continue
		}
		b.defs[name] = d
		order = append(order, name)
	}

	for _, name := range order {
		b.resolve(name, nil)
	}
	if err := errtype.Join(b.errs...); err != nil {
		return nil, err
	}
	return &Catalog{types: b.types, order: order}, nil
}

type visit int

const (
	unvisited visit = iota
	visiting
	visited
)

type builder struct {
	defs  map[string]*Definition
	types map[string]*errtype.Type
	state map[string]visit
	errs  []error
}

func (b *builder) fail(err error) { b.errs = append(b.errs, err) }

// resolve defines name after its parent chain. It returns nil when the
// type or any ancestor could not be defined.
func (b *builder) resolve(name string, path []string) *errtype.Type {
	switch b.state[name] {
	case visited:
		return b.types[name]
	case visiting:
		start := slices.Index(path, name)
		cycle := strings.Join(append(slices.Clone(path[start:]), name), " -> ")
		b.fail(ErrCycle.New("parent cycle", errtype.Attrs{
			"type":  errtype.ReadOnly(name),
			"cycle": errtype.ReadOnly(cycle),
		}))
		return nil
	}
	b.state[name] = visiting
	defer func() { b.state[name] = visited }()

	def := b.defs[name]
	var parent any
	switch p := strings.TrimSpace(def.Parent); p {
	case "", errtype.Base.Name():
	default:
		if _, ok := b.defs[p]; !ok {
			b.fail(ErrUnknownParent.New("unknown parent "+p, errtype.Attrs{
				"type":   errtype.ReadOnly(name),
				"parent": errtype.ReadOnly(p),
			}))
			return nil
		}
		pt := b.resolve(p, append(path, name))
		if pt == nil {
			return nil
		}
		parent = pt
	}

	attrs, opts, err := def.options(name)
	if err != nil {
		b.fail(err)
		return nil
	}
	t, err := errtype.Define(name, attrs, parent, opts...)
	if err != nil {
		b.fail(ErrDefinition.Wrap(err, typeField(name)))
		return nil
	}
	b.types[name] = t
	return t
}

// options turns the flat definition into slot-typed attributes and Define
// options.
func (d *Definition) options(name string) (errtype.Attrs, []errtype.Option, error) {
	attrs := make(errtype.Attrs, len(d.Attributes))
	for k, v := range d.Attributes {
		attrs[k] = errtype.Hidden(v)
	}
	var bad []error
	mark := func(keys []string, apply func(*errtype.Slot)) {
		for _, k := range keys {
			s, ok := attrs[k].(errtype.Slot)
			if !ok {
				bad = append(bad, ErrInvalidAttribute.New(
					fmt.Sprintf("%q is not an attribute", k), typeField(name)))
				continue
			}
			apply(&s)
			attrs[k] = s
		}
	}
	mark(d.Visible, func(s *errtype.Slot) { s.Visible = true })
	mark(d.ReadOnly, func(s *errtype.Slot) { s.Mutable = false })

	var opts []errtype.Option
	if p, err := errtype.ParseProfile(strings.ToLower(strings.TrimSpace(d.Profile))); err != nil {
		bad = append(bad, ErrInvalidAttribute.Wrap(err, typeField(name)))
	} else if d.Profile != "" {
		opts = append(opts, errtype.WithProfile(p))
	}
	if len(bad) > 0 {
		return nil, nil, errtype.Join(bad...)
	}
	return attrs, opts, nil
}

// Lookup returns the type named name.
func (c *Catalog) Lookup(name string) (*errtype.Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// Names returns the type names in definition order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// New builds an instance of the named type from ordered arguments, as
// errtype.Type.New does. The trace starts at the caller of New.
func (c *Catalog) New(name string, args ...any) (*errtype.Error, error) {
	t, ok := c.types[name]
	if !ok {
		return nil, ErrUnknownType.New(typeField(name))
	}
	return t.Build().Args(args...).Skip(1).Err(), nil
}
