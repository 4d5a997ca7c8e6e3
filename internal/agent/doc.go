// Package agent drives one conversation turn through a small state
// machine: pre-processing hooks, model invocation, tool resolution,
// post-processing hooks.
//
// The flow per Call:
//
//	PreProcessing -> Invoking -> ToolResolution (loop) -> PostProcessing -> Done
//
// Blocked is terminal and reachable from PreProcessing (input guardrail)
// or PostProcessing (output guardrail). A blocked input means the model
// is never invoked; a blocked output means the caller never sees the
// answer, though the triggering result stays recoverable via errors.As.
//
// Each Call is single-threaded and owns its bag. Concurrent Calls are
// fine as long as they do not share a bag; sharing a policy instance
// across calls is an explicit choice about remembered confirmations,
// made by the caller at wiring time.
package agent
