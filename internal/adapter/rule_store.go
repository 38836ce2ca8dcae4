package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

// ErrInvalidRule is returned when a rules file declares an unusable rule.
var ErrInvalidRule = errors.New("invalid split rule")

// RuleStore loads split rules authored outside the scanner.
type RuleStore interface {
	LoadRules(ctx context.Context, path m.Path) ([]*m.SplitRule, error)
}

type ruleFile struct {
	Rules []*m.SplitRule `yaml:"rules"`
}

type yamlRuleStore struct {
	fs SourceFSAdapter
}

// NewRuleStore returns a RuleStore reading YAML rules files through fs.
func NewRuleStore(fs SourceFSAdapter) RuleStore {
	return &yamlRuleStore{fs: fs}
}

// LoadRules reads a rules file of the form:
//
//	rules:
//	  - name: fast
//	    required: [Fast]
//	    prohibited: [Db]
func (s *yamlRuleStore) LoadRules(ctx context.Context, path m.Path) ([]*m.SplitRule, error) {
	content, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("decode rules %s: %w", path, err)
	}

	if err := validateRules(file.Rules); err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}

	return file.Rules, nil
}

func validateRules(rules []*m.SplitRule) error {
	seen := make(map[string]struct{}, len(rules))

	for i, rule := range rules {
		if rule == nil {
			return fmt.Errorf("%w: rule #%d is empty", ErrInvalidRule, i+1)
		}

		rule.Name = strings.TrimSpace(rule.Name)
		if rule.Name == "" {
			return fmt.Errorf("%w: rule #%d has no name", ErrInvalidRule, i+1)
		}

		key := strings.ToLower(rule.Name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate rule name %q", ErrInvalidRule, rule.Name)
		}

		seen[key] = struct{}{}
	}

	return nil
}
