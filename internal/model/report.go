package model

import "time"

// ScanResult holds the outcome of scanning a single module.
type ScanResult struct {
	Module      Path
	Applied     AppliedRules
	Fixtures    int
	TestMethods int
	Duration    time.Duration
}

// SplitPlan assigns modules to the rules that apply to them.
type SplitPlan struct {
	// Buckets lists, per rule in rule order, the modules the rule applied to.
	Buckets []Bucket
	// Unassigned lists the modules no rule applied to.
	Unassigned []Path
}

// Bucket is one rule and the modules it selected.
type Bucket struct {
	Rule    string
	Modules []Path
}

// ReportVersion is the current on-disk report format version.
const ReportVersion = 1

// Report is the persisted outcome of a scan run.
type Report struct {
	Version int            `yaml:"version"`
	Rules   []string       `yaml:"rules"`
	Modules []ModuleReport `yaml:"modules"`
}

// ModuleReport is the persisted outcome of scanning one module.
type ModuleReport struct {
	Module      Path     `yaml:"module"`
	Applied     []string `yaml:"applied"`
	Fixtures    int      `yaml:"fixtures"`
	TestMethods int      `yaml:"test_methods"`
}
