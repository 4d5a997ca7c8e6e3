package toolbox

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps tool names to implementations. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Empty names, nil tools and duplicate names are
// configuration errors.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("nil tool: %w", ErrToolMisconfigured)
	}
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool with empty name: %w", ErrToolMisconfigured)
	}
	if f, ok := tool.(Func); ok && f.Fn == nil {
		return fmt.Errorf("tool %q has nil function: %w", name, ErrToolMisconfigured)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q registered twice: %w", name, ErrToolMisconfigured)
	}
	r.tools[name] = tool
	return nil
}

// RegisterAll registers every tool, stopping at the first failure.
func (r *Registry) RegisterAll(tools []Tool) error {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the tool for a name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
