package adapter

import (
	"errors"
	"fmt"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

var (
	// ErrUnknownType is returned when a type handle is not declared in the module.
	ErrUnknownType = errors.New("unknown type")
	// ErrUnknownMethod is returned when a method handle is not declared in the module.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrDuplicateType is returned when a module declares the same type twice.
	ErrDuplicateType = errors.New("duplicate type")
)

// MetadataProvider exposes the static description of one test module.
// It replaces runtime reflection: the scanner only reads descriptors.
//
// TypeAnnotations includes annotations declared on ancestor types, and
// ListMethods includes methods promoted from ancestors, so inherited markers
// behave as if they were declared on the type itself.
type MetadataProvider interface {
	// Module returns the path the module was loaded from.
	Module() m.Path

	// ModuleAnnotations returns the annotations declared at module level.
	ModuleAnnotations() ([]m.Annotation, error)

	// ListDeclaredTypes returns every type declared in the module in declaration order.
	ListDeclaredTypes() ([]m.TypeHandle, error)

	// TypeAnnotations returns the annotations of a type and its ancestors.
	TypeAnnotations(t m.TypeHandle) ([]m.Annotation, error)

	// ListMethods returns the methods of a type, promoted ancestor methods included.
	ListMethods(t m.TypeHandle) ([]m.MethodHandle, error)

	// MethodAnnotations returns the annotations of a method, including those of
	// same-name ancestor declarations it overrides when the provider supports
	// overriding.
	MethodAnnotations(method m.MethodHandle) ([]m.Annotation, error)
}

// ModuleDescriptor is the serialized description of a test module.
type ModuleDescriptor struct {
	Module      string                 `yaml:"module"`
	Categories  []string               `yaml:"categories"`
	Annotations []AnnotationDescriptor `yaml:"annotations"`
	Types       []TypeDescriptor       `yaml:"types"`
}

// TypeDescriptor describes one declared type.
type TypeDescriptor struct {
	Name        string                 `yaml:"name"`
	Bases       []string               `yaml:"bases"`
	Categories  []string               `yaml:"categories"`
	Annotations []AnnotationDescriptor `yaml:"annotations"`
	Methods     []MethodDescriptor     `yaml:"methods"`
}

// MethodDescriptor describes one method of a type.
type MethodDescriptor struct {
	Name        string                 `yaml:"name"`
	Categories  []string               `yaml:"categories"`
	Annotations []AnnotationDescriptor `yaml:"annotations"`
}

// AnnotationDescriptor is the serialized form of an annotation.
type AnnotationDescriptor struct {
	Kind  string `yaml:"kind"`
	Value string `yaml:"value,omitempty"`
}

type typeEntry struct {
	handle      m.TypeHandle
	bases       []m.TypeHandle
	annotations []m.Annotation
	methods     []string
}

// ModuleIndex is an in-memory MetadataProvider built from a ModuleDescriptor.
// It is read-only after construction and safe for concurrent use.
type ModuleIndex struct {
	module      m.Path
	annotations []m.Annotation
	types       []*typeEntry
	byHandle    map[m.TypeHandle]*typeEntry
	methods     map[m.MethodHandle][]m.Annotation

	// declaredOnly disables inheriting annotations from overridden methods.
	declaredOnly bool
}

// IndexOption configures a ModuleIndex.
type IndexOption func(*ModuleIndex)

// WithDeclaredMethodAnnotations makes MethodAnnotations return only the
// annotations declared on the method itself. Go has no method overriding:
// a method re-declared on an embedding struct shadows the embedded one.
func WithDeclaredMethodAnnotations() IndexOption {
	return func(x *ModuleIndex) {
		x.declaredOnly = true
	}
}

// NewModuleIndex validates a descriptor and indexes it. By default a method
// re-declared on a derived type overrides the ancestor declaration and
// inherits its annotations.
func NewModuleIndex(module m.Path, desc ModuleDescriptor, opts ...IndexOption) (*ModuleIndex, error) {
	moduleAnnotations, err := convertAnnotations(desc.Annotations, desc.Categories)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", module, err)
	}

	index := &ModuleIndex{
		module:      module,
		annotations: moduleAnnotations,
		byHandle:    make(map[m.TypeHandle]*typeEntry, len(desc.Types)),
		methods:     make(map[m.MethodHandle][]m.Annotation),
	}

	for _, opt := range opts {
		opt(index)
	}

	for _, td := range desc.Types {
		if err := index.addType(td); err != nil {
			return nil, fmt.Errorf("module %s: %w", module, err)
		}
	}

	return index, nil
}

func (x *ModuleIndex) addType(td TypeDescriptor) error {
	handle := m.TypeHandle(td.Name)
	if handle == "" {
		return fmt.Errorf("type without name: %w", ErrUnknownType)
	}

	if _, ok := x.byHandle[handle]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, handle)
	}

	annotations, err := convertAnnotations(td.Annotations, td.Categories)
	if err != nil {
		return fmt.Errorf("type %s: %w", handle, err)
	}

	entry := &typeEntry{handle: handle, annotations: annotations}
	for _, base := range td.Bases {
		entry.bases = append(entry.bases, m.TypeHandle(base))
	}

	for _, md := range td.Methods {
		methodAnnotations, err := convertAnnotations(md.Annotations, md.Categories)
		if err != nil {
			return fmt.Errorf("method %s.%s: %w", handle, md.Name, err)
		}

		key := m.MethodHandle{Type: handle, Name: md.Name}
		if _, ok := x.methods[key]; !ok {
			entry.methods = append(entry.methods, md.Name)
		}

		x.methods[key] = append(x.methods[key], methodAnnotations...)
	}

	x.types = append(x.types, entry)
	x.byHandle[handle] = entry

	return nil
}

func convertAnnotations(descs []AnnotationDescriptor, categories []string) ([]m.Annotation, error) {
	annotations := make([]m.Annotation, 0, len(descs)+len(categories))

	for _, d := range descs {
		kind, ok := m.ParseAnnotationKind(d.Kind)
		if !ok {
			return nil, fmt.Errorf("unsupported annotation kind %q", d.Kind)
		}

		annotations = append(annotations, m.Annotation{Kind: kind, Value: d.Value})
	}

	for _, category := range categories {
		annotations = append(annotations, m.Annotation{Kind: m.AnnotationCategory, Value: category})
	}

	return annotations, nil
}

// Module implements MetadataProvider.
func (x *ModuleIndex) Module() m.Path {
	return x.module
}

// ModuleAnnotations implements MetadataProvider.
func (x *ModuleIndex) ModuleAnnotations() ([]m.Annotation, error) {
	return append([]m.Annotation(nil), x.annotations...), nil
}

// ListDeclaredTypes implements MetadataProvider.
func (x *ModuleIndex) ListDeclaredTypes() ([]m.TypeHandle, error) {
	handles := make([]m.TypeHandle, 0, len(x.types))
	for _, entry := range x.types {
		handles = append(handles, entry.handle)
	}

	return handles, nil
}

// TypeAnnotations implements MetadataProvider. Ancestors are visited depth
// first; a type reached twice (diamonds, cycles) contributes once.
func (x *ModuleIndex) TypeAnnotations(t m.TypeHandle) ([]m.Annotation, error) {
	if _, ok := x.byHandle[t]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}

	var annotations []m.Annotation

	x.walkHierarchy(t, func(entry *typeEntry) {
		annotations = append(annotations, entry.annotations...)
	})

	return annotations, nil
}

// ListMethods implements MetadataProvider. A method declared on the type
// shadows an ancestor method with the same name.
func (x *ModuleIndex) ListMethods(t m.TypeHandle) ([]m.MethodHandle, error) {
	if _, ok := x.byHandle[t]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}

	var handles []m.MethodHandle

	seen := make(map[string]struct{})

	x.walkHierarchy(t, func(entry *typeEntry) {
		for _, name := range entry.methods {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			handles = append(handles, m.MethodHandle{Type: entry.handle, Name: name})
		}
	})

	return handles, nil
}

// MethodAnnotations implements MetadataProvider. Unless the index was built
// with WithDeclaredMethodAnnotations, same-name declarations on ancestors of
// the method's type contribute their annotations after the method's own.
func (x *ModuleIndex) MethodAnnotations(method m.MethodHandle) ([]m.Annotation, error) {
	annotations, ok := x.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}

	if x.declaredOnly {
		return append([]m.Annotation(nil), annotations...), nil
	}

	var inherited []m.Annotation

	x.walkHierarchy(method.Type, func(entry *typeEntry) {
		declared := x.methods[m.MethodHandle{Type: entry.handle, Name: method.Name}]
		inherited = append(inherited, declared...)
	})

	return inherited, nil
}

// walkHierarchy visits t and then its known ancestors. Bases that are not
// declared in the module (external types) are skipped.
func (x *ModuleIndex) walkHierarchy(t m.TypeHandle, visit func(*typeEntry)) {
	visited := make(map[m.TypeHandle]struct{})

	var walk func(m.TypeHandle)

	walk = func(h m.TypeHandle) {
		if _, ok := visited[h]; ok {
			return
		}

		visited[h] = struct{}{}

		entry, ok := x.byHandle[h]
		if !ok {
			return
		}

		visit(entry)

		for _, base := range entry.bases {
			walk(base)
		}
	}

	walk(t)
}
