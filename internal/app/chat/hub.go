/*
Package chat implements the real-time direct-messaging hub.

This file defines the Hub struct: the registry mapping each user id to its
single live connection, the presence tracker layered on top of it, and the
routing of messages and typing signals between connections.
*/
package chat

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"dmchat/internal/app/store"
	"dmchat/internal/pkg/logx"
)

// Hub is the single source of truth for "is this user currently reachable".
// The clients map is the only shared mutable state; every mutation and every
// broadcast iteration happens under mu, kept disjoint from the (potentially
// slow) storage calls around them.
type Hub struct {
	store store.Store

	mu      sync.RWMutex
	clients map[string]*Client

	logger zerolog.Logger
}

// NewHub constructs a Hub backed by the given storage collaborator.
func NewHub(st store.Store) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		store:   st,
		clients: make(map[string]*Client),
		logger:  hubLogger,
	}
}

// Bind registers client as the sole live connection for its user. An existing
// connection for the same user is evicted first; the eviction is invisible to
// the new connection. After registration the online flag is persisted and the
// online transition is broadcast to every registered connection, the new one
// included.
func (h *Hub) Bind(ctx context.Context, client *Client) {
	h.mu.Lock()
	evicted := h.clients[client.userID]
	if evicted == client {
		evicted = nil
	}
	h.clients[client.userID] = client
	h.mu.Unlock()

	// The close handshake can block on the network, so it runs outside the
	// registry critical section. The evicted connection's teardown fails the
	// unbind guard and stays silent.
	if evicted != nil {
		h.logger.Warn().
			Str("user_id", client.userID).
			Msg("User already connected. Evicting old connection for replacement.")
		evicted.Kick("Session replaced by a newer connection.")
	}

	// Persist before broadcast: a client that queries user state after
	// observing the transition sees a consistent flag.
	if err := h.store.SetUserOnlineStatus(ctx, client.userID, true); err != nil {
		h.logger.Error().Err(err).
			Str("user_id", client.userID).
			Msg("Failed to persist online status")
	}

	h.broadcastPresence(EventUserOnline, client.userID)
}

// Unbind removes the registry entry only if client is still the registered
// connection for its user. It returns whether an entry was removed. Only an
// actual removal persists and broadcasts the offline transition: a connection
// superseded by a newer bind closes without an offline broadcast, since the
// user is still online through its replacement.
func (h *Hub) Unbind(ctx context.Context, client *Client) bool {
	h.mu.Lock()
	current, ok := h.clients[client.userID]
	removed := ok && current == client
	if removed {
		delete(h.clients, client.userID)
	}
	h.mu.Unlock()

	if !removed {
		h.logger.Info().
			Str("user_id", client.userID).
			Msg("Ignoring unbind for stale connection.")
		return false
	}

	if err := h.store.SetUserOnlineStatus(ctx, client.userID, false); err != nil {
		h.logger.Error().Err(err).
			Str("user_id", client.userID).
			Msg("Failed to persist offline status")
	}

	h.broadcastPresence(EventUserOffline, client.userID)
	return true
}

// Lookup returns the live connection for userID, or nil.
func (h *Hub) Lookup(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.clients[userID]
}

// broadcastPresence pushes an online/offline transition to every registered
// connection. Enqueue is non-blocking, so a connection torn down mid-iteration
// is simply skipped.
func (h *Hub) broadcastPresence(eventType, userID string) {
	payload, err := marshalPresence(eventType, userID)
	if err != nil {
		h.logger.Error().Err(err).Str("event", eventType).Msg("Failed to marshal presence event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.enqueue(payload)
	}
}

// SendDirectMessage persists the message and delivers it. Steps, in order:
// resolve or create the conversation for the unordered participant pair,
// persist the message, push it to the receiver's live connection if there is
// one, and confirm back to the sender. Persistence happens exactly once and
// is never rolled back: an offline receiver sees the message in history on
// its next fetch, no retry is attempted here. A storage failure is surfaced
// by omitting the confirmation; the sender's connection stays usable.
func (h *Hub) SendDirectMessage(ctx context.Context, sender *Client, frame SendMessageFrame) {
	conv, err := store.GetOrCreateConversation(ctx, h.store, sender.userID, frame.ReceiverID)
	if err != nil {
		h.logger.Error().Err(err).
			Str("sender_id", sender.userID).
			Str("receiver_id", frame.ReceiverID).
			Msg("Failed to resolve conversation")
		return
	}

	msg, err := h.store.CreateMessage(ctx, store.NewMessage{
		ConversationID: conv.ID,
		SenderID:       sender.userID,
		Content:        frame.Content,
		ImageURL:       frame.ImageURL,
	})
	if err != nil {
		h.logger.Error().Err(err).
			Str("conversation_id", conv.ID).
			Str("sender_id", sender.userID).
			Msg("Failed to persist message")
		return
	}

	if receiver := h.Lookup(frame.ReceiverID); receiver != nil {
		// The sender's full record is embedded so the receiver can render
		// sender identity without a second round trip.
		senderRecord, err := h.store.GetUser(ctx, sender.userID)
		if err != nil {
			h.logger.Error().Err(err).
				Str("sender_id", sender.userID).
				Msg("Failed to fetch sender record, skipping live delivery")
		} else if payload, err := marshalNewMessage(msg, senderRecord); err == nil {
			receiver.enqueue(payload)
		}
	}

	if payload, err := marshalMessageConfirmed(msg); err == nil {
		sender.enqueue(payload)
	}
}

// RelayTyping forwards transient typing state to the receiver's live
// connection, if any. The hub is a pure relay: no timers, no deduplication.
// An explicit stop is delivered immediately; the 3-second auto-clear after a
// silent sender is the receiving client's obligation.
func (h *Hub) RelayTyping(sender *Client, frame TypingFrame) {
	receiver := h.Lookup(frame.ReceiverID)
	if receiver == nil {
		return
	}

	payload, err := marshalUserTyping(sender.userID, frame.IsTyping)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal typing event")
		return
	}
	receiver.enqueue(payload)
}

// DisconnectUser evicts the user's live connection, if any. The close runs
// through the ordinary teardown path, so registry removal and the offline
// broadcast happen exactly once. Used by logout.
func (h *Hub) DisconnectUser(userID string, reason string) bool {
	client := h.Lookup(userID)
	if client == nil {
		return false
	}

	client.Kick(reason)
	return true
}

// ConnectedCount reports the number of live registered connections.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Shutdown kicks every registered connection. Pending teardowns find their
// entries already gone and skip the offline broadcast; the process is exiting
// and the persisted flags are refreshed on next connect.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.Kick("Server shutting down.")
	}

	h.logger.Info().Int("connections", len(clients)).Msg("Hub shutdown complete.")
}
