// Package policy decides whether a tool call proceeds automatically, is
// denied, or needs human confirmation.
//
// ToolPolicy resolves a decision per tool name with strict precedence:
// explicit deny > explicit allow > remembered decision > read-only
// prefix heuristic > ask the user. The remembered-decision table is the
// only mutable cross-call state in the system; it is owned by the policy
// instance and guarded for concurrent use, so sharing one instance
// across conversations makes remembered decisions process-wide by
// explicit choice rather than accident.
//
// Gate wires a ToolPolicy and a ConfirmationHandler into the toolbox's
// pre-execution check.
package policy
