package assistant

import (
	"scribe/internal/services"
)

// maxTurns bounds how much history a conversation retains. Older turns
// fall off the front.
const maxTurns = 20

// Conversation is the caller-owned chat history for one assistant session.
// The router appends to it but never stores it, so concurrent sessions
// never share state.
type Conversation struct {
	messages []services.ChatMessage
}

// NewConversation builds a conversation pre-seeded with history, oldest
// first.
func NewConversation(history ...services.ChatMessage) *Conversation {
	c := &Conversation{}
	for _, m := range history {
		c.append(m)
	}
	return c
}

// AddUser records a user turn.
func (c *Conversation) AddUser(content string) {
	c.append(services.ChatMessage{Role: services.ChatMessageRoleUser, Content: content})
}

// AddAssistant records an assistant turn.
func (c *Conversation) AddAssistant(content string) {
	c.append(services.ChatMessage{Role: services.ChatMessageRoleAssistant, Content: content})
}

func (c *Conversation) append(m services.ChatMessage) {
	c.messages = append(c.messages, m)
	if len(c.messages) > maxTurns {
		c.messages = c.messages[len(c.messages)-maxTurns:]
	}
}

// Messages returns a copy of the retained history, oldest first.
func (c *Conversation) Messages() []services.ChatMessage {
	out := make([]services.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len reports the number of retained turns.
func (c *Conversation) Len() int {
	return len(c.messages)
}
