package lint

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Registry holds the diagnostic rules known to an engine. Lookups by ID,
// name or alias ignore case, so "ml001" and "Schema-Children" both resolve.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Rule
	byName  map[string]Rule
	aliases map[string]string // folded alias -> rule ID
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Rule),
		byName:  make(map[string]Rule),
		aliases: make(map[string]string),
	}
}

func fold(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Register adds rule, replacing any rule with the same ID.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[fold(rule.ID())] = rule
	r.byName[fold(rule.Name())] = rule
}

// RegisterAlias maps an alternate configuration key onto ruleID.
// The target does not have to be registered yet.
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[fold(alias)] = ruleID
}

// Get retrieves a rule by ID or name, preferring the ID.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k := fold(key)
	if rule, ok := r.byID[k]; ok {
		return rule, true
	}
	rule, ok := r.byName[k]
	return rule, ok
}

// GetByID retrieves a rule by its ID only.
func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byID[fold(id)]
	return rule, ok
}

// GetByName retrieves a rule by its name only.
func (r *Registry) GetByName(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byName[fold(name)]
	return rule, ok
}

// Resolve returns the canonical ID and rule for a rule ID, name, or alias.
// An alias whose target was never registered does not resolve.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	if rule, ok := r.Get(key); ok {
		return rule.ID(), rule, true
	}

	r.mu.RLock()
	target, ok := r.aliases[fold(key)]
	r.mu.RUnlock()
	if !ok {
		return "", nil, false
	}
	rule, ok := r.GetByID(target)
	if !ok {
		return "", nil, false
	}
	return rule.ID(), rule, true
}

// Rules returns every registered rule ordered by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	rules := r.Rules()
	ids := make([]string, len(rules))
	for i, rule := range rules {
		ids[i] = rule.ID()
	}
	return ids
}

// DefaultRegistry holds the built-in rules, which register themselves from
// the rules package's init.
//
//nolint:gochecknoglobals // rules self-register at init
var DefaultRegistry = NewRegistry()
