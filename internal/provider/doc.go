// Package provider defines the model-provider contract consumed by the
// agent loop and compression summarizer, plus the Anthropic bridge and a
// scriptable mock for tests.
//
// The core treats providers as external collaborators: Invoke maps a
// message bag and options to one answer carrying text and/or tool calls
// with token-usage metadata. Vendor-specific request mapping lives
// entirely inside each bridge.
package provider
