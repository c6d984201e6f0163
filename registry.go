package polyglint

import "sync"

// Registry is the global rule catalogue. Registration is idempotent and
// order-independent up to last-writer-wins on id conflict, matching the
// teacher's discover-then-register convention for plugin-style components
// (internal/runtime's script loading in the prior incarnation of this
// codebase followed the same last-writer-wins rule for script paths).
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	order []string // insertion order, for deterministic iteration
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register inserts rule by its meta.ID. A duplicate id replaces the
// previous registration but keeps its original position in iteration
// order, matching last-writer-wins semantics without reshuffling reports
// between runs.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := rule.Meta().ID
	if _, exists := r.rules[id]; !exists {
		r.order = append(r.order, id)
	}
	r.rules[id] = rule
}

// RegisterAll registers every rule in rules, in order.
func (r *Registry) RegisterAll(rules []Rule) {
	for _, rule := range rules {
		r.Register(rule)
	}
}

// GetByID returns the rule registered under id, if any.
func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// All returns every registered rule in registration order.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rules[id])
	}
	return out
}

// GetByLanguage returns every rule whose meta.Langs contains lang.
func (r *Registry) GetByLanguage(lang string) []Rule {
	var out []Rule
	for _, rule := range r.All() {
		if rule.Meta().SupportsLang(lang) {
			out = append(out, rule)
		}
	}
	return out
}

// GetForProfile returns every rule selected by profile for lang: rules the
// profile's allow-list names (or, for the unrestricted default profile,
// every tier-0/tier-1 rule) whose meta.Langs contains lang.
func (r *Registry) GetForProfile(profile Profile, lang string) []Rule {
	var out []Rule
	for _, rule := range r.All() {
		meta := rule.Meta()
		if !meta.SupportsLang(lang) {
			continue
		}
		if profile.AllowList == nil {
			if isDefaultEligible(meta) {
				out = append(out, rule)
			}
			continue
		}
		if profile.Allows(meta.ID) {
			out = append(out, rule)
		}
	}
	return out
}
