package domain

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat entry exchanged between the widget and the chat
// endpoint. Sequences of messages are ordered and append-only.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// IsUser reports whether the message was authored by the user. Any other role
// (including legacy "bot") counts as assistant-authored.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// UserMessage builds a user-authored message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
