// Package model defines the data structures for test suite splitting.
package model

import "strings"

// Path represents a file system path.
type Path string

// TypeHandle identifies a declared type inside a scanned module.
type TypeHandle string

// MethodHandle identifies a method declared on a type.
type MethodHandle struct {
	Type TypeHandle
	Name string
}

// String returns the qualified "Type.Method" form.
func (h MethodHandle) String() string {
	return string(h.Type) + "." + h.Name
}

// AnnotationKind enumerates the metadata markers the scanner understands.
type AnnotationKind string

const (
	// AnnotationFixture marks a type as a test fixture. Its value is an
	// optional comma-separated category list.
	AnnotationFixture AnnotationKind = "fixture"
	// AnnotationCategory attaches a single category to a module, type or method.
	AnnotationCategory AnnotationKind = "category"
	// AnnotationTest marks a method as a test.
	AnnotationTest AnnotationKind = "test"
	// AnnotationTestCase marks a method as a parameterized test case.
	AnnotationTestCase AnnotationKind = "testcase"
)

// ParseAnnotationKind converts a textual kind, ignoring case and surrounding space.
func ParseAnnotationKind(value string) (AnnotationKind, bool) {
	kind := AnnotationKind(strings.ToLower(strings.TrimSpace(value)))
	switch kind {
	case AnnotationFixture, AnnotationCategory, AnnotationTest, AnnotationTestCase:
		return kind, true
	}

	return "", false
}

// Annotation is one metadata marker declared on a module, type or method.
type Annotation struct {
	Kind  AnnotationKind
	Value string
}

// IsTestMarker reports whether the annotation marks a method as a test.
func (a Annotation) IsTestMarker() bool {
	return a.Kind == AnnotationTest || a.Kind == AnnotationTestCase
}

// FixtureCategories splits a fixture annotation value into category names.
// Parts are trimmed and empty parts are dropped.
func (a Annotation) FixtureCategories() []string {
	if a.Kind != AnnotationFixture || a.Value == "" {
		return nil
	}

	parts := strings.Split(a.Value, ",")

	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		categories = append(categories, part)
	}

	return categories
}
