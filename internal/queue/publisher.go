package queue

import "context"

const Exchange = "askage.events"

// Routing keys published by this service.
const (
	KeyUserLoggedIn        = "user.loggedin"
	KeyConversationCreated = "conversation.created"
)

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

type NoopPub struct{}

// NewNoop is what main wires when RABBIT_URL is unset, and what tests use.
func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }

// Event payloads. Conversation and user ids travel as hex strings, same as
// on the API surface.

type UserLoggedIn struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type ConversationCreated struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Suggestions    int    `json:"suggestions"`
}
