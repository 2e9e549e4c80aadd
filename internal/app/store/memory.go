package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"dmchat/internal/app/model"
)

// Memory is a mutex-guarded in-memory Store. It backs tests and database-less
// development runs, and mirrors the Postgres implementation's semantics,
// including the unordered-pair uniqueness of conversations.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]model.User
	conversations map[string]model.Conversation
	messages      map[string]model.Message
	newID         func() string
	now           func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory(newID func() string) *Memory {
	return &Memory{
		users:         make(map[string]model.User),
		conversations: make(map[string]model.Conversation),
		messages:      make(map[string]model.Message),
		newID:         newID,
		now:           time.Now,
	}
}

func (m *Memory) GetUser(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (m *Memory) CreateUser(_ context.Context, nu NewUser) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == nu.Username || (nu.Email != "" && u.Email == nu.Email) {
			return model.User{}, ErrDuplicate
		}
	}

	now := m.now()
	u := model.User{
		ID:           m.newID(),
		Username:     nu.Username,
		Email:        nu.Email,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		PasswordHash: nu.PasswordHash,
		ProfilePhoto: nu.ProfilePhoto,
		LastSeen:     now,
		CreatedAt:    now,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UpdateUser(_ context.Context, id string, upd UserUpdate) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}

	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.ProfilePhoto != nil {
		u.ProfilePhoto = *upd.ProfilePhoto
	}

	m.users[id] = u
	return u, nil
}

func samePair(c model.Conversation, userAID, userBID string) bool {
	return (c.Participant1ID == userAID && c.Participant2ID == userBID) ||
		(c.Participant1ID == userBID && c.Participant2ID == userAID)
}

func (m *Memory) GetConversation(_ context.Context, userAID, userBID string) (model.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.conversations {
		if samePair(c, userAID, userBID) {
			return c, nil
		}
	}
	return model.Conversation{}, ErrNotFound
}

func (m *Memory) CreateConversation(_ context.Context, userAID, userBID string) (model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.conversations {
		if samePair(c, userAID, userBID) {
			return model.Conversation{}, ErrDuplicate
		}
	}

	now := m.now()
	c := model.Conversation{
		ID:             m.newID(),
		Participant1ID: userAID,
		Participant2ID: userBID,
		LastMessageAt:  now,
		CreatedAt:      now,
	}
	m.conversations[c.ID] = c
	return c, nil
}

func (m *Memory) ListUserConversations(_ context.Context, userID string) ([]model.ConversationSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]model.ConversationSummary, 0)
	for _, c := range m.conversations {
		if c.Participant1ID != userID && c.Participant2ID != userID {
			continue
		}

		s := model.ConversationSummary{Conversation: c}
		s.OtherUser = m.users[c.OtherParticipant(userID)]

		var last *model.Message
		for _, msg := range m.messages {
			if msg.ConversationID != c.ID {
				continue
			}
			if last == nil || msg.Timestamp.After(last.Timestamp) {
				copied := msg
				last = &copied
			}
		}
		s.LastMessage = last

		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})
	return summaries, nil
}

func (m *Memory) ListMessages(_ context.Context, conversationID string) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]model.Message, 0)
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			messages = append(messages, msg)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (m *Memory) CreateMessage(_ context.Context, nm NewMessage) (model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.conversations[nm.ConversationID]; !ok {
		return model.Message{}, ErrNotFound
	}

	now := m.now()
	msg := model.Message{
		ID:             m.newID(),
		ConversationID: nm.ConversationID,
		SenderID:       nm.SenderID,
		Content:        nm.Content,
		ImageURL:       nm.ImageURL,
		Timestamp:      now,
	}
	m.messages[msg.ID] = msg

	conv := m.conversations[nm.ConversationID]
	conv.LastMessageAt = now
	m.conversations[nm.ConversationID] = conv

	return msg, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *Memory) ListOnlineUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]model.User, 0)
	for _, u := range m.users {
		if u.IsOnline {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *Memory) SetUserOnlineStatus(_ context.Context, userID string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}

	u.IsOnline = online
	u.LastSeen = m.now()
	m.users[userID] = u
	return nil
}
