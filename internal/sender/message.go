// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sender

import (
	"encoding/json"
	"strings"
	"sync"
)

// =============================================================================
// MESSAGES
// =============================================================================

// Severity controls how the host renders a message.
type Severity int

const (
	// SeverityInfo is ordinary chat output.
	SeverityInfo Severity = iota

	// SeverityError is rendered with the error treatment (red in chat).
	SeverityError
)

// RawText is one component of a structured chat message.
type RawText struct {
	Text      string   `json:"text,omitempty"`
	Translate string   `json:"translate,omitempty"`
	With      []string `json:"with,omitempty"`
}

// RawMessage is a structured chat message in the host's rawtext format.
type RawMessage struct {
	RawText []RawText `json:"rawtext"`
}

// Message is a single piece of output addressed to a sender. Either Text or
// Raw is set.
type Message struct {
	Text     string
	Raw      *RawMessage
	Severity Severity
}

// Text returns a plain text message.
func Text(s string) Message {
	return Message{Text: s}
}

// Error returns a plain text message with error severity.
func Error(s string) Message {
	return Message{Text: s, Severity: SeverityError}
}

// Raw returns a structured message built from the given components.
func Raw(parts ...RawText) Message {
	return Message{Raw: &RawMessage{RawText: parts}}
}

// String flattens the message to plain text. Translation keys are emitted
// verbatim followed by their arguments; localisation is the host's job.
func (m Message) String() string {
	if m.Raw == nil {
		return m.Text
	}
	var b strings.Builder
	for _, part := range m.Raw.RawText {
		switch {
		case part.Text != "":
			b.WriteString(part.Text)
		case part.Translate != "":
			b.WriteString(part.Translate)
			if len(part.With) > 0 {
				b.WriteString(" (")
				b.WriteString(strings.Join(part.With, ", "))
				b.WriteString(")")
			}
		}
	}
	return b.String()
}

// MarshalJSON renders the message in rawtext form so hosts can forward it.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Raw != nil {
		return json.Marshal(m.Raw)
	}
	return json.Marshal(RawMessage{RawText: []RawText{{Text: m.Text}}})
}

// =============================================================================
// OUTBOX
// =============================================================================

// MessageSink receives messages for a sender that has no host-side channel of
// its own. Deliver must not block.
type MessageSink interface {
	Deliver(msgs ...Message)
}

// Outbox is an unbounded FIFO MessageSink drained by the host.
type Outbox struct {
	mu     sync.Mutex
	msgs   []Message
	notify chan struct{}
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{notify: make(chan struct{}, 1)}
}

// Deliver appends msgs in order and signals Notify without blocking.
func (o *Outbox) Deliver(msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	o.mu.Lock()
	o.msgs = append(o.msgs, msgs...)
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
}

// Drain removes and returns every pending message.
func (o *Outbox) Drain() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	msgs := o.msgs
	o.msgs = nil
	return msgs
}

// Len returns the number of pending messages.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

// Notify fires at least once after messages arrive.
func (o *Outbox) Notify() <-chan struct{} {
	return o.notify
}

type discardSink struct{}

func (discardSink) Deliver(...Message) {}
