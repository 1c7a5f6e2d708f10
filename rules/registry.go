package rules

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Conway is the name of the classic Game of Life rule
const Conway = "Conway"

// ErrUnknownRuleName is returned when a rule name is not registered
var ErrUnknownRuleName = errors.New("unknown rule name")

var builtin = map[string]string{
	Conway:             "23/3",
	"HighLife":         "23/36",
	"Seeds":            "/2",
	"DayAndNight":      "34678/3678",
	"LifeWithoutDeath": "012345678/3",
	"Maze":             "12345/3",
}

// Registry maps rule names to rule specifications
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	specs map[string]string
}

// NewRegistry returns a registry preloaded with the built-in rules
func NewRegistry() *Registry {
	r := &Registry{
		rules: make(map[string]Rule, len(builtin)),
		specs: make(map[string]string, len(builtin)),
	}
	for name, spec := range builtin {
		r.rules[name] = MustParseRule(spec)
		r.specs[name] = spec
	}
	return r
}

// DefaultRegistry holds the built-in rules
var DefaultRegistry = NewRegistry()

// Register validates spec and stores it under name, replacing any previous entry
func (r *Registry) Register(name, spec string) error {
	if name == "" {
		return errors.New("[Registry.Register] rule name must not be empty")
	}
	rule, err := ParseRule(spec)
	if err != nil {
		return errors.Wrapf(err, "[Registry.Register] rule %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = rule
	r.specs[name] = spec
	return nil
}

// Lookup returns the rule registered under name
func (r *Registry) Lookup(name string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	if !ok {
		return Rule{}, errors.Wrapf(ErrUnknownRuleName, "[Registry.Lookup] %q", name)
	}
	return rule, nil
}

// Spec returns the specification string registered under name
func (r *Registry) Spec(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	if !ok {
		return "", errors.Wrapf(ErrUnknownRuleName, "[Registry.Spec] %q", name)
	}
	return spec, nil
}

// Names lists the registered rule names in sorted order
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

// Named looks name up in the DefaultRegistry
func Named(name string) (Rule, error) {
	return DefaultRegistry.Lookup(name)
}
