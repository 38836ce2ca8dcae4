package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

// DecodeModuleDescriptor parses a YAML (or JSON) module descriptor.
func DecodeModuleDescriptor(content []byte) (ModuleDescriptor, error) {
	var desc ModuleDescriptor
	if err := yaml.Unmarshal(content, &desc); err != nil {
		return ModuleDescriptor{}, fmt.Errorf("decode module descriptor: %w", err)
	}

	return desc, nil
}

// LoadDescriptor reads a module descriptor file and indexes it.
func LoadDescriptor(ctx context.Context, fs SourceFSAdapter, path m.Path) (*ModuleIndex, error) {
	content, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read module descriptor %s: %w", path, err)
	}

	desc, err := DecodeModuleDescriptor(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return NewModuleIndex(path, desc)
}

// IsDescriptorFile reports whether path names a descriptor file by extension.
func IsDescriptorFile(path m.Path) bool {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".yaml", ".yml", ".json":
		return true
	}

	return false
}

// OpenProvider returns the MetadataProvider for a module path. Descriptor
// files are decoded directly; directories are parsed as Go test packages.
func OpenProvider(ctx context.Context, fs SourceFSAdapter, goFiles GoFileAdapter, path m.Path) (MetadataProvider, error) {
	info, err := fs.FileInfo(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", path, err)
	}

	if info.IsDir() {
		return LoadGoPackage(ctx, fs, goFiles, path)
	}

	if !IsDescriptorFile(path) {
		return nil, fmt.Errorf("module %s: unsupported module file, want a directory or .yaml/.yml/.json descriptor", path)
	}

	return LoadDescriptor(ctx, fs, path)
}
