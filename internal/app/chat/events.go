/*
Package chat implements the real-time direct-messaging hub: the registry of
live connections, presence tracking, message routing, typing-signal relay,
and the per-connection session protocol.

This file defines the wire frames exchanged with clients. Frames are flat
JSON objects discriminated by a "type" field.
*/
package chat

import (
	"encoding/json"

	"dmchat/internal/app/model"
)

// Inbound frame types (client to hub).
const (
	FrameAuth        = "auth"
	FrameSendMessage = "sendMessage"
	FrameTyping      = "typing"
)

// Outbound event types (hub to client).
const (
	EventUserOnline       = "userOnline"
	EventUserOffline      = "userOffline"
	EventNewMessage       = "newMessage"
	EventMessageConfirmed = "messageConfirmed"
	EventUserTyping       = "userTyping"
)

// AuthFrame binds the connection to a user identity. The hub trusts the
// supplied id; the layer that handed over the connection is responsible for
// having validated it against the caller's session.
type AuthFrame struct {
	UserID string `json:"userId"`
}

// SendMessageFrame requests delivery of a direct message. Content and
// ImageURL are both optional; the hub does not reject an empty pair.
type SendMessageFrame struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// TypingFrame relays transient typing state toward the receiver.
type TypingFrame struct {
	ReceiverID string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

type presenceEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type newMessageEvent struct {
	Type    string        `json:"type"`
	Message model.Message `json:"message"`
	Sender  model.User    `json:"sender"`
}

type messageConfirmedEvent struct {
	Type    string        `json:"type"`
	Message model.Message `json:"message"`
}

type userTypingEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

func marshalPresence(eventType, userID string) ([]byte, error) {
	return json.Marshal(presenceEvent{Type: eventType, UserID: userID})
}

func marshalNewMessage(msg model.Message, sender model.User) ([]byte, error) {
	return json.Marshal(newMessageEvent{Type: EventNewMessage, Message: msg, Sender: sender})
}

func marshalMessageConfirmed(msg model.Message) ([]byte, error) {
	return json.Marshal(messageConfirmedEvent{Type: EventMessageConfirmed, Message: msg})
}

func marshalUserTyping(userID string, isTyping bool) ([]byte, error) {
	return json.Marshal(userTypingEvent{Type: EventUserTyping, UserID: userID, IsTyping: isTyping})
}
