package domain

// Message roles. Only these two appear in a transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single transcript entry. Content may be empty for a
// pure-option message; only assistant messages carry non-empty Options.
// A Message is never mutated after it is committed to the transcript.
type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Options []string `json:"options,omitempty"`
}

// NewUserMessage returns a user Message with the given content.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage returns an assistant Message with the given content
// and no options.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// HasOptions reports whether the message carries selectable options.
func (m Message) HasOptions() bool {
	return m.Role == RoleAssistant && len(m.Options) > 0
}

// ToChatMessage strips the message down to the wire shape.
func (m Message) ToChatMessage() ChatMessage {
	return ChatMessage{Role: m.Role, Content: m.Content}
}
