// Package toolbox registers tools and dispatches model-issued tool
// calls to them.
//
// Execution is gated: every call passes through the policy gate before
// the tool runs. A denial is not an error — it produces a fixed result
// string that flows back into the conversation as an ordinary tool
// result, so the model can see the call was refused and carry on.
// Errors are reserved for genuinely broken situations: unknown tool
// names, misconfigured bindings, and tool execution failures.
//
// Tools come from two places: local Go functions registered directly
// (see Func), and remote tools discovered from MCP servers over stdio
// (see MCPSource). Both satisfy the same Tool interface; the dispatch
// path does not distinguish them.
package toolbox
