package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorySet_CaseInsensitive(t *testing.T) {
	set := NewCategorySet("Slow")

	assert.True(t, set.Has("slow"))
	assert.True(t, set.Has("SLOW"))
	assert.False(t, set.Add("sLoW"))
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, []string{"Slow"}, set.Values())
}

func TestCategorySet_ZeroValue(t *testing.T) {
	var set CategorySet

	assert.False(t, set.Has("any"))
	assert.Equal(t, 0, set.Len())
	assert.True(t, set.Add("any"))
	assert.True(t, set.Has("ANY"))
}

func TestCategorySet_Union(t *testing.T) {
	tests := []struct {
		name  string
		left  []string
		right []string
		want  []string
	}{
		{"both empty", nil, nil, []string{}},
		{"disjoint", []string{"A"}, []string{"B"}, []string{"A", "B"}},
		{"overlap keeps first spelling", []string{"Fast"}, []string{"FAST", "Db"}, []string{"Db", "Fast"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := NewCategorySet(tt.left...)
			left.Union(NewCategorySet(tt.right...))
			assert.Equal(t, tt.want, left.Values())
		})
	}
}

func TestCategorySet_UnionIntoZeroValue(t *testing.T) {
	var set CategorySet
	set.Union(NewCategorySet("A"))

	assert.True(t, set.Has("a"))
}

func TestCategorySet_CloneIsIndependent(t *testing.T) {
	original := NewCategorySet("A")
	clone := original.Clone()
	clone.Add("B")

	assert.False(t, original.Has("B"))
	assert.True(t, clone.Has("A"))
}

func TestAnnotation_FixtureCategories(t *testing.T) {
	tests := []struct {
		name string
		ann  Annotation
		want []string
	}{
		{"empty value", Annotation{Kind: AnnotationFixture}, nil},
		{"single", Annotation{Kind: AnnotationFixture, Value: "Db"}, []string{"Db"}},
		{"trims and drops empty", Annotation{Kind: AnnotationFixture, Value: " A, ,B ,"}, []string{"A", "B"}},
		{"not a fixture", Annotation{Kind: AnnotationCategory, Value: "A,B"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ann.FixtureCategories())
		})
	}
}

func TestParseAnnotationKind(t *testing.T) {
	kind, ok := ParseAnnotationKind(" TestCase ")
	assert.True(t, ok)
	assert.Equal(t, AnnotationTestCase, kind)

	_, ok = ParseAnnotationKind("setup")
	assert.False(t, ok)
}

func TestMethodHandle_String(t *testing.T) {
	h := MethodHandle{Type: "pkg.Suite", Name: "TestRun"}
	assert.Equal(t, "pkg.Suite.TestRun", h.String())
}
