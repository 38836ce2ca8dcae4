package domain

import (
	"fmt"

	"testsplit.dev/pkg/testsplit/internal/adapter"
	m "testsplit.dev/pkg/testsplit/internal/model"
)

// FixtureLoader turns type metadata into test fixtures.
type FixtureLoader interface {
	// LoadFixture returns the fixture declared by t, or nil when t carries no
	// fixture marker. A nil fixture is not an error.
	LoadFixture(provider adapter.MetadataProvider, t m.TypeHandle) (*m.TestFixture, error)
}

type fixtureLoader struct{}

// NewFixtureLoader constructs the default FixtureLoader.
func NewFixtureLoader() FixtureLoader {
	return &fixtureLoader{}
}

func (l *fixtureLoader) LoadFixture(provider adapter.MetadataProvider, t m.TypeHandle) (*m.TestFixture, error) {
	annotations, err := provider.TypeAnnotations(t)
	if err != nil {
		return nil, fmt.Errorf("read annotations of %s: %w", t, err)
	}

	var (
		isFixture  bool
		categories = m.NewCategorySet()
	)

	for _, ann := range annotations {
		switch ann.Kind {
		case m.AnnotationFixture:
			isFixture = true

			categories.AddAll(ann.FixtureCategories()...)
		case m.AnnotationCategory:
			categories.Add(ann.Value)
		}
	}

	if !isFixture {
		return nil, nil //nolint:nilnil // a type without fixture marker is not a fixture
	}

	methods, err := l.testMethods(provider, t)
	if err != nil {
		return nil, err
	}

	return &m.TestFixture{
		Type:        t,
		Categories:  categories,
		TestMethods: methods,
	}, nil
}

func (l *fixtureLoader) testMethods(provider adapter.MetadataProvider, t m.TypeHandle) ([]m.MethodHandle, error) {
	methods, err := provider.ListMethods(t)
	if err != nil {
		return nil, fmt.Errorf("list methods of %s: %w", t, err)
	}

	tests := make([]m.MethodHandle, 0, len(methods))

	for _, method := range methods {
		annotations, err := provider.MethodAnnotations(method)
		if err != nil {
			return nil, fmt.Errorf("read annotations of %s: %w", method, err)
		}

		if hasTestMarker(annotations) {
			tests = append(tests, method)
		}
	}

	return tests, nil
}

func hasTestMarker(annotations []m.Annotation) bool {
	for _, ann := range annotations {
		if ann.IsTestMarker() {
			return true
		}
	}

	return false
}
