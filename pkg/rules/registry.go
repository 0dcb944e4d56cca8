package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aiseeq/logcheck/pkg/core"
)

// Registry holds all registered rules
type Registry struct {
	rules map[string]Rule
	mu    sync.RWMutex
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new rule registry
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule to the registry
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rule.Metadata().Key
	if key == "" {
		return fmt.Errorf("rule without key")
	}
	if _, exists := r.rules[key]; exists {
		return fmt.Errorf("rule %q already registered", key)
	}

	r.rules[key] = rule
	return nil
}

// Get returns a rule by key
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[key]
	return rule, ok
}

// All returns all registered rules sorted by key
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sortRules(rules)

	return rules
}

// ByTag returns the rules carrying tag
func (r *Registry) ByTag(tag string) []Rule {
	var tagged []Rule
	for _, rule := range r.All() {
		for _, t := range rule.Metadata().Tags {
			if t == tag {
				tagged = append(tagged, rule)
				break
			}
		}
	}
	return tagged
}

// Count returns the total number of registered rules
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}

// GetEnabled returns rules that are enabled according to config
func (r *Registry) GetEnabled(cfg *core.Config) []Rule {
	var enabled []Rule
	for _, rule := range r.All() {
		if cfg.IsRuleEnabled(rule.Metadata().Key) {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

// ConfigureAll configures all rules from config
func (r *Registry) ConfigureAll(cfg *core.Config) error {
	for _, rule := range r.All() {
		if err := rule.Configure(cfg); err != nil {
			return fmt.Errorf("failed to configure rule %s: %w", rule.Metadata().Key, err)
		}
	}
	return nil
}

func sortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Metadata().Key < rules[j].Metadata().Key
	})
}

// Global registry functions

// Register adds a rule to the global registry
func Register(rule Rule) error {
	return globalRegistry.Register(rule)
}

// Get returns a rule from the global registry
func Get(key string) (Rule, bool) {
	return globalRegistry.Get(key)
}

// All returns all rules from the global registry
func All() []Rule {
	return globalRegistry.All()
}

// Count returns the rule count from the global registry
func Count() int {
	return globalRegistry.Count()
}

// GetEnabled returns enabled rules from the global registry
func GetEnabled(cfg *core.Config) []Rule {
	return globalRegistry.GetEnabled(cfg)
}

// ConfigureAll configures all rules in the global registry
func ConfigureAll(cfg *core.Config) error {
	return globalRegistry.ConfigureAll(cfg)
}

// GlobalRegistry returns the global registry instance
func GlobalRegistry() *Registry {
	return globalRegistry
}
