package repo

import (
	"context"
	"fmt"

	"github.com/askage/askage-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ownedFilter is the authorization boundary for conversations: every read
// and write goes through a filter on both _id and user_id, so there is no
// separate "is this yours" step to forget, and a foreign conversation is
// indistinguishable from a missing one. A malformed id is treated the same
// way as an unknown one.
func ownedFilter(userID, conversationID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user_id": userID}, true
}

// NewConversation inserts a conversation owned by userID, seeded with the
// fixed system message and the given suggestions. userID is trusted: the
// caller has already verified the session.
func (s *Store) NewConversation(ctx context.Context, userID string, suggestions []string) (string, error) {
	if suggestions == nil {
		suggestions = []string{}
	}
	conv := domain.Conversation{
		UserID:            userID,
		History:           []domain.Message{{Role: domain.RoleSystem, Content: domain.SystemPrompt}},
		PromptSuggestions: suggestions,
	}
	res, err := s.colConversations.InsertOne(ctx, conv)
	if err != nil {
		return "", wrapStore("conversations.insert", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo conversations.insert: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *Store) findOwned(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	filter, ok := ownedFilter(userID, conversationID)
	if !ok {
		return nil, ErrNotFound
	}
	var conv domain.Conversation
	err := s.colConversations.FindOne(ctx, filter).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapStore("conversations.find", err)
	}
	return &conv, nil
}

func (s *Store) GetPromptSuggestions(ctx context.Context, userID, conversationID string) ([]string, error) {
	conv, err := s.findOwned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	return conv.PromptSuggestions, nil
}

func (s *Store) GetChatHistory(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	conv, err := s.findOwned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	return conv.History, nil
}

// UpdateChatHistory replaces the history wholesale. Message-level edits are
// not supported, which keeps every write a single-document $set. A false
// result means "not found or not yours"; callers must not tell the two
// apart. Two concurrent updates race and the last write wins.
func (s *Store) UpdateChatHistory(ctx context.Context, userID, conversationID string, history []domain.Message) (bool, error) {
	filter, ok := ownedFilter(userID, conversationID)
	if !ok {
		return false, nil
	}
	res, err := s.colConversations.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"history": history}})
	if err != nil {
		return false, wrapStore("conversations.update", err)
	}
	return res.MatchedCount > 0, nil
}

// VerifyConversation is the cheap pre-check flavor of the owned lookup.
func (s *Store) VerifyConversation(ctx context.Context, userID, conversationID string) (bool, error) {
	filter, ok := ownedFilter(userID, conversationID)
	if !ok {
		return false, nil
	}
	err := s.colConversations.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, wrapStore("conversations.find", err)
	}
	return true, nil
}
