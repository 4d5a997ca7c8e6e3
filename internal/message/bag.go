package message

// Bag is an ordered, append-only collection of conversation messages.
//
// Invariants:
//   - at most one system message, conventionally first
//   - non-system ordering reflects conversational order and is never
//     rearranged; components may only append or replace wholesale
//
// Bag is a value type. Append and ReplaceAll return new Bags backed by
// fresh slices, so callers can hand a Bag to subordinate components
// without defensive copying.
type Bag struct {
	msgs []Message
}

// NewBag creates a Bag from the given messages in order.
func NewBag(msgs ...Message) Bag {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return Bag{msgs: out}
}

// Messages returns a copy of the message slice.
func (b Bag) Messages() []Message {
	out := make([]Message, len(b.msgs))
	copy(out, b.msgs)
	return out
}

// Len returns the total message count.
func (b Bag) Len() int { return len(b.msgs) }

// NonSystemCount returns the number of messages excluding the system
// message. Every compression threshold is evaluated against this count.
func (b Bag) NonSystemCount() int {
	n := 0
	for _, m := range b.msgs {
		if m.Role != RoleSystem {
			n++
		}
	}
	return n
}

// At returns the message at index i.
func (b Bag) At(i int) Message { return b.msgs[i] }

// Append returns a new Bag with the given messages appended.
func (b Bag) Append(msgs ...Message) Bag {
	out := make([]Message, 0, len(b.msgs)+len(msgs))
	out = append(out, b.msgs...)
	out = append(out, msgs...)
	return Bag{msgs: out}
}

// SystemMessage returns the system message and true if present.
func (b Bag) SystemMessage() (Message, bool) {
	for _, m := range b.msgs {
		if m.Role == RoleSystem {
			return m, true
		}
	}
	return Message{}, false
}

// NonSystem returns the non-system messages in conversational order.
func (b Bag) NonSystem() []Message {
	out := make([]Message, 0, len(b.msgs))
	for _, m := range b.msgs {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// WithSystem returns a new Bag whose system message holds the given text,
// placed first. An existing system message is replaced; the non-system
// messages keep their order.
func (b Bag) WithSystem(text string) Bag {
	out := make([]Message, 0, len(b.msgs)+1)
	out = append(out, System(text))
	out = append(out, b.NonSystem()...)
	return Bag{msgs: out}
}

// LatestUserText returns the text of the most recent user message that
// carries text content, or "" when no such message exists. Media-only
// user messages are skipped.
func (b Bag) LatestUserText() string {
	for i := len(b.msgs) - 1; i >= 0; i-- {
		m := b.msgs[i]
		if m.Role != RoleUser {
			continue
		}
		if m.HasText() {
			return m.Text()
		}
	}
	return ""
}

// LastAssistantText returns the text of the most recent assistant
// message, or "" when none exists.
func (b Bag) LastAssistantText() string {
	for i := len(b.msgs) - 1; i >= 0; i-- {
		if b.msgs[i].Role == RoleAssistant {
			return b.msgs[i].Text()
		}
	}
	return ""
}
