// Package guardrails provides content inspection for agent conversations.
//
// A scanner evaluates either incoming user content (InputScanner) or the
// model's final answer (OutputScanner) and returns a Result with a
// triggered flag, a severity score, and a human-readable reason. The
// input and output processors run an ordered scanner list and
// short-circuit on the first triggered result, returning a *BlockedError
// that carries the Result for audit logging.
//
// Built-in scanners:
//   - PromptInjectionScanner: ordered category table of injection patterns
//   - InvisibleRuneScanner: zero-width and bidi control character counting
//   - RegexScanner: caller-supplied patterns with a single reason
//   - SecretScanner: credential detection backed by the gitleaks detector
//
// All scanners skip non-text content, ignore non-user messages when
// scanning input, and treat empty text as non-triggering.
package guardrails
