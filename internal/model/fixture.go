package model

// TestFixture is a type that groups test methods under shared categories.
type TestFixture struct {
	Type        TypeHandle
	Categories  CategorySet
	TestMethods []MethodHandle
}
