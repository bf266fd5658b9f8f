package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SystemPrompt seeds history[0] of every conversation. The extension expects
// plain-text answers, so the exact wording is part of the product behavior.
const SystemPrompt = "You are Askage, a Chrome extension that answers user questions based on webpage content. Always be polite, but reply with only the necessary information. Use minimal words, avoid complete sentences unless required. No explanations unless asked. Use plain text, no markdown or formatting. Paragraph form only. No bullet points, no lists."

type Message struct {
	Role    string `bson:"role"    json:"role"` // system | user | assistant
	Content string `bson:"content" json:"content"`
}

// Conversation.UserID is the owner's User ID in hex. It is not a foreign key:
// the store never joins on it, every lookup just filters by it.
type Conversation struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"      json:"id"`
	UserID            string             `bson:"user_id"            json:"user_id"`
	History           []Message          `bson:"history"            json:"history"`
	PromptSuggestions []string           `bson:"prompt_suggestions" json:"prompt_suggestions"`
}

func ValidRole(r string) bool {
	return r == RoleSystem || r == RoleUser || r == RoleAssistant
}
