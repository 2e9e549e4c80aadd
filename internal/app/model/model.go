/*
Package model contains the core data structures shared between the storage
layer, the real-time hub, and the HTTP handlers.

It defines the User, Conversation, and Message records of the direct-messaging
domain. All fields use JSON tags for serialization in API responses and
WebSocket frames.
*/
package model

import "time"

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	IsOnline     bool      `json:"isOnline"`
	LastSeen     time.Time `json:"lastSeen"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Conversation is the 1:1 thread between two users. The participant pair is
// unordered: (A, B) and (B, A) refer to the same conversation.
type Conversation struct {
	ID             string    `json:"id"`
	Participant1ID string    `json:"participant1Id"`
	Participant2ID string    `json:"participant2Id"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OtherParticipant returns the participant that is not userID.
func (c Conversation) OtherParticipant(userID string) string {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

// ConversationSummary is a conversation enriched for sidebar rendering:
// the other participant's record and the most recent message, if any.
type ConversationSummary struct {
	Conversation
	OtherUser   User     `json:"otherUser"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}

// Message is a single direct message. Content and ImageURL are both optional;
// a message may carry either or both. ID and Timestamp are server-assigned.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
