package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func newTestMemory() *Memory {
	seq := 0
	m := NewMemory(func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	})

	// Deterministic, strictly increasing clock.
	tick := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return m
}

func seedUser(t *testing.T, m *Memory, username string) string {
	t.Helper()

	u, err := m.CreateUser(context.Background(), NewUser{
		Username: username,
		Email:    username + "@example.com",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u.ID
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	seedUser(t, m, "alice")

	if _, err := m.CreateUser(ctx, NewUser{Username: "alice", Email: "other@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username: got %v, want ErrDuplicate", err)
	}
	if _, err := m.CreateUser(ctx, NewUser{Username: "alice2", Email: "alice@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email: got %v, want ErrDuplicate", err)
	}
}

func TestConversationPairIsUnordered(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	alice := seedUser(t, m, "alice")
	bob := seedUser(t, m, "bob")

	created, err := m.CreateConversation(ctx, alice, bob)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	// Lookup succeeds in either participant order.
	for _, pair := range [][2]string{{alice, bob}, {bob, alice}} {
		got, err := m.GetConversation(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("GetConversation(%v): %v", pair, err)
		}
		if got.ID != created.ID {
			t.Fatalf("GetConversation(%v) = %s, want %s", pair, got.ID, created.ID)
		}
	}

	// Re-creation in reversed order is a duplicate, not a second thread.
	if _, err := m.CreateConversation(ctx, bob, alice); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("reversed CreateConversation: got %v, want ErrDuplicate", err)
	}
}

func TestGetOrCreateConversationIsIdempotent(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	alice := seedUser(t, m, "alice")
	bob := seedUser(t, m, "bob")

	first, err := GetOrCreateConversation(ctx, m, alice, bob)
	if err != nil {
		t.Fatalf("first GetOrCreateConversation: %v", err)
	}
	second, err := GetOrCreateConversation(ctx, m, bob, alice)
	if err != nil {
		t.Fatalf("second GetOrCreateConversation: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("both directions should resolve the same conversation: %s vs %s", first.ID, second.ID)
	}
}

func TestMessagesAreChronologicalAndBumpConversation(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	alice := seedUser(t, m, "alice")
	bob := seedUser(t, m, "bob")

	conv, _ := m.CreateConversation(ctx, alice, bob)

	for i, content := range []string{"first", "second", "third"} {
		sender := alice
		if i%2 == 1 {
			sender = bob
		}
		if _, err := m.CreateMessage(ctx, NewMessage{
			ConversationID: conv.ID,
			SenderID:       sender,
			Content:        content,
		}); err != nil {
			t.Fatalf("CreateMessage(%s): %v", content, err)
		}
	}

	messages, err := m.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if messages[i].Content != want {
			t.Fatalf("messages[%d] = %q, want %q", i, messages[i].Content, want)
		}
	}

	bumped, _ := m.GetConversation(ctx, alice, bob)
	if !bumped.LastMessageAt.Equal(messages[2].Timestamp) {
		t.Fatalf("LastMessageAt = %v, want timestamp of last message %v", bumped.LastMessageAt, messages[2].Timestamp)
	}
}

func TestCreateMessageRequiresConversation(t *testing.T) {
	m := newTestMemory()

	_, err := m.CreateMessage(context.Background(), NewMessage{
		ConversationID: "missing",
		SenderID:       "whoever",
		Content:        "hi",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListUserConversationsOrdersByRecency(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	alice := seedUser(t, m, "alice")
	bob := seedUser(t, m, "bob")
	carol := seedUser(t, m, "carol")

	convBob, _ := m.CreateConversation(ctx, alice, bob)
	convCarol, _ := m.CreateConversation(ctx, alice, carol)

	m.CreateMessage(ctx, NewMessage{ConversationID: convBob.ID, SenderID: bob, Content: "older"})
	m.CreateMessage(ctx, NewMessage{ConversationID: convCarol.ID, SenderID: carol, Content: "newer"})

	summaries, err := m.ListUserConversations(ctx, alice)
	if err != nil {
		t.Fatalf("ListUserConversations: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	if summaries[0].OtherUser.ID != carol {
		t.Fatalf("most recent conversation should list carol, got %s", summaries[0].OtherUser.Username)
	}
	if summaries[0].LastMessage == nil || summaries[0].LastMessage.Content != "newer" {
		t.Fatalf("summary last message = %v, want 'newer'", summaries[0].LastMessage)
	}
	if summaries[1].OtherUser.ID != bob {
		t.Fatalf("older conversation should list bob, got %s", summaries[1].OtherUser.Username)
	}

	// Bob sees only his own thread.
	bobSummaries, _ := m.ListUserConversations(ctx, bob)
	if len(bobSummaries) != 1 || bobSummaries[0].OtherUser.ID != alice {
		t.Fatalf("bob's summaries = %v", bobSummaries)
	}
}

func TestOnlineStatusRoundTrip(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	alice := seedUser(t, m, "alice")
	seedUser(t, m, "bob")

	if err := m.SetUserOnlineStatus(ctx, alice, true); err != nil {
		t.Fatalf("SetUserOnlineStatus(true): %v", err)
	}

	online, _ := m.ListOnlineUsers(ctx)
	if len(online) != 1 || online[0].ID != alice {
		t.Fatalf("online users = %v, want just alice", online)
	}

	before, _ := m.GetUser(ctx, alice)
	if err := m.SetUserOnlineStatus(ctx, alice, false); err != nil {
		t.Fatalf("SetUserOnlineStatus(false): %v", err)
	}
	after, _ := m.GetUser(ctx, alice)

	if after.IsOnline {
		t.Fatalf("user still online after clearing the flag")
	}
	if !after.LastSeen.After(before.LastSeen) {
		t.Fatalf("LastSeen not advanced on status change")
	}

	if err := m.SetUserOnlineStatus(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestUpdateUserAppliesOnlyProvidedFields(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	alice := seedUser(t, m, "alice")

	newFirst := "Alice"
	updated, err := m.UpdateUser(ctx, alice, UserUpdate{FirstName: &newFirst})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.FirstName != "Alice" {
		t.Fatalf("FirstName = %q, want Alice", updated.FirstName)
	}
	if updated.Email != "alice@example.com" {
		t.Fatalf("untouched field changed: Email = %q", updated.Email)
	}

	if _, err := m.UpdateUser(ctx, "missing", UserUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: got %v, want ErrNotFound", err)
	}
}
