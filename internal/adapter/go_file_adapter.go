package adapter

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

const (
	directivePrefix = "//split:"
	testFileSuffix  = "_test.go"
)

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can work
// with module descriptors instead of syntax trees.
//
// Inside _test.go files, doc-comment directives declare annotations:
//
//	//split:fixture Db,Slow   fixture marker with optional categories
//	//split:category Slow     category (comma-separated names allowed)
//	//split:test              test marker
//	//split:testcase          test case marker
//
// Struct types are types and embedded structs of the same package are their
// bases. Methods named like Go tests (TestXxx) carry an implicit test marker.
// Top-level test functions belong to a fixture named after the package.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and source bytes.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// Describe converts parsed test files of one directory into a module descriptor.
	Describe(fileSet *token.FileSet, files []*ast.File) (ModuleDescriptor, error)
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.ParseComments)
}

// Describe walks the declarations of every file and collects types, methods
// and directives.
func (a *LocalGoFileAdapter) Describe(fileSet *token.FileSet, files []*ast.File) (ModuleDescriptor, error) {
	builder := newDescriptorBuilder(fileSet)

	for _, file := range files {
		if err := builder.addFile(file); err != nil {
			return ModuleDescriptor{}, err
		}
	}

	return builder.build(), nil
}

// LoadGoPackage parses the _test.go files directly inside dir.
func LoadGoPackage(ctx context.Context, fs SourceFSAdapter, goFiles GoFileAdapter, dir m.Path) (*ModuleIndex, error) {
	paths, err := fs.ListFiles(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	fileSet := token.NewFileSet()

	var files []*ast.File

	for _, path := range paths {
		if !strings.HasSuffix(string(path), testFileSuffix) {
			continue
		}

		src, err := fs.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		file, err := goFiles.Parse(ctx, fileSet, string(path), src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		files = append(files, file)
	}

	desc, err := goFiles.Describe(fileSet, files)
	if err != nil {
		return nil, err
	}

	desc.Module = filepath.Base(string(dir))

	return NewModuleIndex(dir, desc, WithDeclaredMethodAnnotations())
}

type descriptorBuilder struct {
	fileSet     *token.FileSet
	annotations []AnnotationDescriptor
	types       []TypeDescriptor
	methods     map[string][]MethodDescriptor
	packages    []string
}

func newDescriptorBuilder(fileSet *token.FileSet) *descriptorBuilder {
	return &descriptorBuilder{
		fileSet: fileSet,
		methods: make(map[string][]MethodDescriptor),
	}
}

func (b *descriptorBuilder) addFile(file *ast.File) error {
	pkg := file.Name.Name

	packageDirectives, err := b.directives(file.Doc)
	if err != nil {
		return err
	}

	for _, directive := range packageDirectives {
		if directive.Kind != string(m.AnnotationCategory) {
			return fmt.Errorf("%s: only category directives are allowed in package docs", b.fileSet.Position(file.Package))
		}
	}

	b.annotations = append(b.annotations, packageDirectives...)
	b.notePackage(pkg)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if err := b.addTypes(pkg, d); err != nil {
				return err
			}

		case *ast.FuncDecl:
			if err := b.addFunc(pkg, d); err != nil {
				return err
			}
		}
	}

	return nil
}

func (b *descriptorBuilder) notePackage(pkg string) {
	for _, known := range b.packages {
		if known == pkg {
			return
		}
	}

	b.packages = append(b.packages, pkg)
}

func (b *descriptorBuilder) addTypes(pkg string, d *ast.GenDecl) error {
	if d.Tok != token.TYPE {
		return nil
	}

	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			continue
		}

		doc := ts.Doc
		if doc == nil && len(d.Specs) == 1 {
			doc = d.Doc
		}

		annotations, err := b.directives(doc)
		if err != nil {
			return err
		}

		name := qualify(pkg, ts.Name.Name)
		b.types = append(b.types, TypeDescriptor{
			Name:        name,
			Bases:       embeddedBases(pkg, st),
			Annotations: annotations,
		})
	}

	return nil
}

func (b *descriptorBuilder) addFunc(pkg string, d *ast.FuncDecl) error {
	annotations, err := b.directives(d.Doc)
	if err != nil {
		return err
	}

	name := d.Name.Name
	if isGoTestName(name) {
		annotations = append(annotations, AnnotationDescriptor{Kind: string(m.AnnotationTest)})
	}

	owner := pkg
	if d.Recv != nil && len(d.Recv.List) > 0 {
		recv := receiverName(d.Recv.List[0].Type)
		if recv == "" {
			return nil
		}

		owner = qualify(pkg, recv)
	} else if len(annotations) == 0 {
		return nil
	}

	b.methods[owner] = append(b.methods[owner], MethodDescriptor{Name: name, Annotations: annotations})

	return nil
}

func (b *descriptorBuilder) build() ModuleDescriptor {
	desc := ModuleDescriptor{Annotations: b.annotations}

	for _, td := range b.types {
		td.Methods = b.methods[td.Name]
		desc.Types = append(desc.Types, td)
	}

	for _, pkg := range b.packages {
		methods := b.methods[pkg]
		if len(methods) == 0 {
			continue
		}

		desc.Types = append(desc.Types, TypeDescriptor{
			Name:        pkg,
			Annotations: []AnnotationDescriptor{{Kind: string(m.AnnotationFixture)}},
			Methods:     methods,
		})
	}

	return desc
}

func (b *descriptorBuilder) directives(doc *ast.CommentGroup) ([]AnnotationDescriptor, error) {
	if doc == nil {
		return nil, nil
	}

	var annotations []AnnotationDescriptor

	for _, comment := range doc.List {
		if !strings.HasPrefix(comment.Text, directivePrefix) {
			continue
		}

		directive, value := splitDirective(strings.TrimPrefix(comment.Text, directivePrefix))

		kind, ok := m.ParseAnnotationKind(directive)
		if !ok {
			return nil, fmt.Errorf("%s: unknown directive %q", b.fileSet.Position(comment.Pos()), comment.Text)
		}

		value = strings.TrimSpace(value)
		if kind != m.AnnotationCategory {
			annotations = append(annotations, AnnotationDescriptor{Kind: string(kind), Value: value})
			continue
		}

		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				annotations = append(annotations, AnnotationDescriptor{Kind: string(kind), Value: name})
			}
		}
	}

	return annotations, nil
}

// splitDirective separates the directive name from its value at the first
// space or tab.
func splitDirective(text string) (string, string) {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}

	return text[:i], text[i+1:]
}

func qualify(pkg, name string) string {
	return pkg + "." + name
}

// embeddedBases returns the same-package structs embedded in st.
func embeddedBases(pkg string, st *ast.StructType) []string {
	var bases []string

	for _, field := range st.Fields.List {
		if len(field.Names) > 0 {
			continue
		}

		if name := receiverName(field.Type); name != "" {
			bases = append(bases, qualify(pkg, name))
		}
	}

	return bases
}

// receiverName unwraps pointers and type parameters down to the local type name.
func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	}

	return ""
}

// isGoTestName applies the go test naming rule: Test followed by nothing or
// a non-lowercase rune. TestMain is the package entry point, not a test.
func isGoTestName(name string) bool {
	if !strings.HasPrefix(name, "Test") || name == "TestMain" {
		return false
	}

	if len(name) == len("Test") {
		return true
	}

	r, _ := utf8.DecodeRuneInString(name[len("Test"):])

	return !unicode.IsLower(r)
}
