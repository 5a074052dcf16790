package layout

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"invoice_pdf_service/platform/apperr"
	"invoice_pdf_service/platform/validator"
)

//go:embed layouts/*.yaml
var builtin embed.FS

// File is the on-disk shape of a layout document.
type File struct {
	Default string             `yaml:"default"`
	Layouts map[string]*Layout `yaml:"layouts" validate:"required,min=1,dive"`
}

// Parse decodes and validates one layout document.
func Parse(data []byte, val *validator.Validator) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("layout: empty document")
		}
		return nil, fmt.Errorf("layout: decode: %w", err)
	}

	for name, l := range file.Layouts {
		if l == nil {
			return nil, fmt.Errorf("layout %q: empty definition", name)
		}
		l.Name = name
		l.applyDefaults()
		if err := l.check(); err != nil {
			return nil, fmt.Errorf("layout %q: %w", name, err)
		}
	}
	if err := val.Struct(&file); err != nil {
		return nil, fmt.Errorf("layout: invalid: %s", validator.Describe(err))
	}
	if file.Default != "" {
		if _, ok := file.Layouts[file.Default]; !ok {
			return nil, fmt.Errorf("layout: default %q is not defined", file.Default)
		}
	}
	return &file, nil
}

// Source yields raw layout documents.
type Source interface {
	Name() string
	Documents(ctx context.Context) ([][]byte, error)
}

// Registry resolves layouts by name. Later merges override earlier ones.
type Registry struct {
	mu         sync.RWMutex
	layouts    map[string]*Layout
	defaultKey string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]*Layout)}
}

// Merge adds every layout of file, replacing same-named entries.
func (r *Registry) Merge(file *File) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, l := range file.Layouts {
		r.layouts[name] = l
	}
	if file.Default != "" {
		r.defaultKey = file.Default
	}
}

// SetDefault selects the layout used when a request names none.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.layouts[name]; !ok {
		return fmt.Errorf("layout: default %q is not defined", name)
	}
	r.defaultKey = name
	return nil
}

// Default returns the name of the default layout.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultKey
}

// Lookup returns the named layout, or the default one for an empty name.
func (r *Registry) Lookup(name string) (*Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultKey
	}
	l, ok := r.layouts[name]
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown layout %q", name)).WithOp("layout.Lookup")
	}
	return l, nil
}

// Names returns the registered layout names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build parses every document of every source into a new registry and
// applies defaultName when set. A registry without a default is an error.
func Build(ctx context.Context, val *validator.Validator, defaultName string, sources ...Source) (*Registry, error) {
	reg := NewRegistry()
	for _, src := range sources {
		docs, err := src.Documents(ctx)
		if err != nil {
			return nil, fmt.Errorf("layout source %s: %w", src.Name(), err)
		}
		for i, doc := range docs {
			file, err := Parse(doc, val)
			if err != nil {
				return nil, fmt.Errorf("layout source %s document %d: %w", src.Name(), i, err)
			}
			reg.Merge(file)
		}
	}

	if defaultName != "" {
		if err := reg.SetDefault(defaultName); err != nil {
			return nil, err
		}
	}
	if reg.Default() == "" {
		return nil, errors.New("layout: no default layout configured")
	}
	return reg, nil
}

// Builtin serves the layouts compiled into the binary.
type Builtin struct{}

func (Builtin) Name() string { return "builtin" }

func (Builtin) Documents(context.Context) ([][]byte, error) {
	entries, err := fs.ReadDir(builtin, "layouts")
	if err != nil {
		return nil, err
	}
	docs := make([][]byte, 0, len(entries))
	for _, e := range entries {
		data, err := fs.ReadFile(builtin, path.Join("layouts", e.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, data)
	}
	return docs, nil
}

// FileSource reads a single layout document from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Documents(context.Context) ([][]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return [][]byte{data}, nil
}

// Static serves documents held in memory.
type Static [][]byte

func (Static) Name() string { return "static" }

func (s Static) Documents(context.Context) ([][]byte, error) { return s, nil }
