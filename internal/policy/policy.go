package policy

import (
	"strings"
	"sync"
)

// Decision is the outcome of a policy check for one tool name.
type Decision string

const (
	// Allow runs the tool without consulting anyone.
	Allow Decision = "allow"
	// Deny blocks the tool unconditionally.
	Deny Decision = "deny"
	// AskUser defers the decision to the confirmation handler.
	AskUser Decision = "ask_user"
)

// defaultReadOnlyPrefixes auto-allow tools whose names begin with a
// read-only verb. Matching is case-insensitive.
var defaultReadOnlyPrefixes = []string{
	"read", "get", "list", "search", "find", "show", "describe",
}

// Config configures a ToolPolicy.
type Config struct {
	// Allow names tools that always run without confirmation.
	Allow []string `koanf:"allow"`

	// Deny names tools that never run. Deny wins over Allow.
	Deny []string `koanf:"deny"`

	// ReadOnlyPrefixes overrides the default read-only verb prefixes.
	// An explicit empty (non-nil) slice disables the heuristic.
	ReadOnlyPrefixes []string `koanf:"read_only_prefixes"`
}

// ToolPolicy resolves decisions for tool calls. Precedence, strictly in
// this order: explicit deny, explicit allow, remembered decision,
// read-only prefix heuristic, AskUser.
//
// Instances are safe for concurrent use. The remembered table lives for
// the lifetime of the instance: share one instance across conversations
// only when remembered decisions are meant to be process-wide.
type ToolPolicy struct {
	allow    map[string]struct{}
	deny     map[string]struct{}
	prefixes []string

	mu         sync.RWMutex
	remembered map[string]Decision
}

// New creates a ToolPolicy from config.
func New(cfg Config) *ToolPolicy {
	p := &ToolPolicy{
		allow:      make(map[string]struct{}, len(cfg.Allow)),
		deny:       make(map[string]struct{}, len(cfg.Deny)),
		remembered: make(map[string]Decision),
	}
	for _, name := range cfg.Allow {
		p.allow[strings.ToLower(name)] = struct{}{}
	}
	for _, name := range cfg.Deny {
		p.deny[strings.ToLower(name)] = struct{}{}
	}
	if cfg.ReadOnlyPrefixes != nil {
		p.prefixes = cfg.ReadOnlyPrefixes
	} else {
		p.prefixes = defaultReadOnlyPrefixes
	}
	return p
}

// Decide resolves the decision for a tool name.
func (p *ToolPolicy) Decide(toolName string) Decision {
	name := strings.ToLower(toolName)

	if _, ok := p.deny[name]; ok {
		return Deny
	}
	if _, ok := p.allow[name]; ok {
		return Allow
	}

	p.mu.RLock()
	d, ok := p.remembered[name]
	p.mu.RUnlock()
	if ok {
		return d
	}

	for _, prefix := range p.prefixes {
		if strings.HasPrefix(name, strings.ToLower(prefix)) {
			return Allow
		}
	}
	return AskUser
}

// Remember promotes an ask-user outcome to a standing Allow or Deny for
// the tool name. Subsequent Decide calls for the same name skip the
// confirmation handler.
func (p *ToolPolicy) Remember(toolName string, d Decision) {
	if d != Allow && d != Deny {
		return
	}
	p.mu.Lock()
	p.remembered[strings.ToLower(toolName)] = d
	p.mu.Unlock()
}

// Remembered reports the remembered decision for a tool name, if any.
func (p *ToolPolicy) Remembered(toolName string) (Decision, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.remembered[strings.ToLower(toolName)]
	return d, ok
}
