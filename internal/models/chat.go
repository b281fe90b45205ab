package models

// Role is the author of a chat message.
type Role string

const (
	RoleAI   Role = "ai"
	RoleUser Role = "user"
)

// ChatMessage is one turn of a buddy conversation.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
