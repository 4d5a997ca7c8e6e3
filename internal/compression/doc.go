// Package compression keeps conversation history within a message
// budget.
//
// A Strategy decides whether a bag needs shrinking (ShouldCompress) and
// produces the shrunken bag (Compress). Strategies are stateless
// functions of the bag and their configuration; every threshold is
// evaluated against the non-system message count, and the system message
// is always preserved (or rewritten by summarization), never dropped and
// never moved.
//
// Three strategies ship with the package:
//
//   - SlidingWindow keeps only the most recent messages
//   - Summarizer folds old messages into a model-written summary stored
//     in the system message
//   - Hybrid delegates to a cheap primary strategy until a higher
//     threshold promotes a secondary one
//
// Service wraps a Strategy with OpenTelemetry metrics and logging for
// use as the agent loop's compression hook.
package compression
