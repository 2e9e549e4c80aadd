/*
Package store defines the persistence collaborator used by the hub and the
HTTP handlers, along with its Postgres and in-memory implementations.

The hub only ever touches users, conversations, and messages through this
interface; it never owns or mutates persistent state directly.
*/
package store

import (
	"context"
	"errors"

	"dmchat/internal/app/model"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (username, email, or conversation participant pair).
var ErrDuplicate = errors.New("store: duplicate")

// NewUser carries the caller-supplied fields for account creation.
type NewUser struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	ProfilePhoto string
}

// UserUpdate carries optional profile fields; nil means "leave unchanged".
// ID and password are deliberately not updatable through this path.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	ProfilePhoto *string
}

// NewMessage carries the caller-supplied fields for message creation. The id
// and timestamp are assigned by the store.
type NewMessage struct {
	ConversationID string
	SenderID       string
	Content        string
	ImageURL       string
}

// Store is the persistence surface required by the hub and handlers.
type Store interface {
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, u NewUser) (model.User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (model.User, error)

	// GetConversation looks up the conversation by unordered participant
	// pair: GetConversation(a, b) and GetConversation(b, a) are equivalent.
	GetConversation(ctx context.Context, userAID, userBID string) (model.Conversation, error)
	CreateConversation(ctx context.Context, userAID, userBID string) (model.Conversation, error)
	ListUserConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error)

	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	CreateMessage(ctx context.Context, m NewMessage) (model.Message, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	ListOnlineUsers(ctx context.Context) ([]model.User, error)
	SetUserOnlineStatus(ctx context.Context, userID string, online bool) error
}

// GetOrCreateConversation resolves the conversation for an unordered pair,
// creating it when absent. A concurrent create racing on the pair's unique
// constraint resolves by re-reading the winner's row, so both callers see
// the same conversation.
func GetOrCreateConversation(ctx context.Context, s Store, userAID, userBID string) (model.Conversation, error) {
	conv, err := s.GetConversation(ctx, userAID, userBID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.Conversation{}, err
	}

	conv, err = s.CreateConversation(ctx, userAID, userBID)
	if errors.Is(err, ErrDuplicate) {
		return s.GetConversation(ctx, userAID, userBID)
	}
	return conv, err
}
