package rules

import (
	"fmt"
	"sort"
	"sync"

	"touchlint-hq/touchlint/pkg/jsx/ast"
	lintErrors "touchlint-hq/touchlint/pkg/lint/errors"
)

// RuleType is the category of a rule.
type RuleType string

const (
	RuleTypeFunctionality   RuleType = "functionality"
	RuleTypeMaintainability RuleType = "maintainability"
	RuleTypeStyle           RuleType = "style"
	RuleTypeTypescript      RuleType = "typescript"
)

// Metadata holds the static description of a rule.
type Metadata struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	OptionsDescription string   `json:"optionsDescription"`
	OptionExamples     []string `json:"optionExamples,omitempty"`
	RequiresOptions    bool     `json:"requiresOptions"`
	Type               RuleType `json:"type"`
	TypeScriptOnly     bool     `json:"typescriptOnly"`
}

// Rule evaluates one policy over a source tree. Apply is pure: it reads the
// tree and returns violations in document order. It is safe to call Apply
// concurrently on different trees.
type Rule interface {
	Metadata() Metadata
	Apply(file *ast.File) []Violation
}

// Registry holds rules by name.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// DefaultRegistry returns a registry holding every built-in rule.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range []Rule{NewAccessibleTouchable(), NewA11yTouchables()} {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a rule. Names must be unique.
func (r *Registry) Register(rule Rule) error {
	name := rule.Metadata().Name
	if name == "" {
		return lintErrors.New(lintErrors.ErrorTypeRule, "rule name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; exists {
		return lintErrors.New(lintErrors.ErrorTypeRule, fmt.Sprintf("rule %q is already registered", name))
	}
	r.rules[name] = rule
	return nil
}

// Get returns the rule called name.
func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Names returns the registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered rule, sorted by name.
func (r *Registry) All() []Rule {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rule, 0, len(names))
	for _, name := range names {
		out = append(out, r.rules[name])
	}
	return out
}

// Select returns the rules called names, sorted by name. An empty list
// selects every rule. Unknown names are reported together, each with a
// suggestion.
func (r *Registry) Select(names []string) ([]Rule, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	valid := r.Names()
	errs := lintErrors.NewErrorList()
	seen := make(map[string]bool, len(names))
	var selected []Rule

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		rule, ok := r.Get(name)
		if !ok {
			errs.AddErrorWithSuggestion(
				lintErrors.ErrorTypeRule,
				fmt.Sprintf("unknown rule %q", name),
				ast.Location{},
				lintErrors.SuggestName(name, valid),
			)
			continue
		}
		selected = append(selected, rule)
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Metadata().Name < selected[j].Metadata().Name
	})
	return selected, nil
}

// ApplyAll runs every rule over file and returns the violations ordered by
// position, then rule name.
func ApplyAll(rules []Rule, file *ast.File) []Violation {
	var out []Violation
	for _, rule := range rules {
		out = append(out, rule.Apply(file)...)
	}
	SortViolations(out)
	return out
}

// SortViolations orders violations by file, position, then rule name. The
// sort is stable so that one rule's violations on the same element keep
// their order.
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i].Location, vs[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return vs[i].Rule < vs[j].Rule
	})
}
