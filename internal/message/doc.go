// Package message defines the conversation data model shared by every
// agentd component: messages, tool calls, and the append-only Bag that
// holds a conversation.
//
// Messages are immutable once constructed. A Bag is a value type; Append
// and ReplaceAll return new Bags rather than mutating in place, so a Bag
// handed to a hook or strategy can never be corrupted by a collaborator.
package message
