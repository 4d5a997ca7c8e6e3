package policy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecidePrecedence(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		tool string
		want Decision
	}{
		{
			name: "explicit deny wins over allow and read prefix",
			cfg:  Config{Allow: []string{"read_file"}, Deny: []string{"read_file"}},
			tool: "read_file",
			want: Deny,
		},
		{
			name: "explicit allow",
			cfg:  Config{Allow: []string{"delete_file"}},
			tool: "delete_file",
			want: Allow,
		},
		{
			name: "read prefix heuristic",
			cfg:  Config{},
			tool: "list_directories",
			want: Allow,
		},
		{
			name: "read prefix is case-insensitive",
			cfg:  Config{},
			tool: "Get_Weather",
			want: Allow,
		},
		{
			name: "unknown mutating tool asks user",
			cfg:  Config{},
			tool: "delete_file",
			want: AskUser,
		},
		{
			name: "custom prefixes replace defaults",
			cfg:  Config{ReadOnlyPrefixes: []string{"query"}},
			tool: "read_file",
			want: AskUser,
		},
		{
			name: "empty prefixes disable heuristic",
			cfg:  Config{ReadOnlyPrefixes: []string{}},
			tool: "list_files",
			want: AskUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.cfg).Decide(tt.tool))
		})
	}
}

func TestRememberedDecisionBeatsHeuristic(t *testing.T) {
	p := New(Config{})

	// "search_web" would auto-allow via prefix, but an explicit deny
	// remembered from a confirmation must win over the heuristic.
	p.Remember("search_web", Deny)
	assert.Equal(t, Deny, p.Decide("search_web"))

	p.Remember("delete_file", Allow)
	assert.Equal(t, Allow, p.Decide("delete_file"))
}

func TestExplicitListsBeatRemembered(t *testing.T) {
	p := New(Config{Deny: []string{"drop_table"}})
	p.Remember("drop_table", Allow)
	assert.Equal(t, Deny, p.Decide("drop_table"))
}

func TestRememberIgnoresAskUser(t *testing.T) {
	p := New(Config{})
	p.Remember("delete_file", AskUser)
	_, ok := p.Remembered("delete_file")
	assert.False(t, ok)
}

func TestConcurrentRememberAndDecide(t *testing.T) {
	p := New(Config{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.Remember("delete_file", Deny)
		}()
		go func() {
			defer wg.Done()
			_ = p.Decide("delete_file")
		}()
	}
	wg.Wait()
	assert.Equal(t, Deny, p.Decide("delete_file"))
}
