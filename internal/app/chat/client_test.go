package chat

import (
	"context"
	"encoding/json"
	"testing"
)

func TestFramesBeforeAuthAreDropped(t *testing.T) {
	st, users := newTestStore(t, "alice", "bob")
	hub := NewHub(st)
	ctx := context.Background()

	c, conn := newTestClient(hub)

	frame, _ := json.Marshal(map[string]any{
		"type":       FrameSendMessage,
		"receiverId": users["bob"].ID,
		"content":    "sneaky",
	})
	c.processFrame(ctx, frame)

	if conn.isClosed() {
		t.Fatalf("pre-auth frame terminated the connection")
	}
	if c.UserID() != "" {
		t.Fatalf("pre-auth frame bound the connection")
	}
	if _, err := st.GetConversation(ctx, users["alice"].ID, users["bob"].ID); err == nil {
		t.Fatalf("pre-auth sendMessage reached storage")
	}

	typing, _ := json.Marshal(map[string]any{
		"type":       FrameTyping,
		"receiverId": users["bob"].ID,
		"isTyping":   true,
	})
	c.processFrame(ctx, typing)
	if conn.isClosed() {
		t.Fatalf("pre-auth typing frame terminated the connection")
	}
}

func TestMalformedFramesAreDropped(t *testing.T) {
	st, users := newTestStore(t, "alice")
	hub := NewHub(st)
	ctx := context.Background()

	c, conn := newTestClient(hub)
	authAs(t, c, users["alice"].ID)

	for name, payload := range map[string][]byte{
		"invalid json": []byte(`{"type": "sendMessage",`),
		"unknown type": []byte(`{"type": "selfDestruct"}`),
		"no type":      []byte(`{"content": "hi"}`),
	} {
		c.processFrame(ctx, payload)
		if conn.isClosed() {
			t.Fatalf("%s: malformed frame terminated the connection", name)
		}
	}

	if got := hub.Lookup(users["alice"].ID); got != c {
		t.Fatalf("malformed frame disturbed the binding")
	}
}

func TestAuthBindsConnection(t *testing.T) {
	st, users := newTestStore(t, "alice")
	hub := NewHub(st)

	c, _ := newTestClient(hub)
	authAs(t, c, users["alice"].ID)

	if got := hub.Lookup(users["alice"].ID); got != c {
		t.Fatalf("auth did not register the connection with the hub")
	}

	events := eventsOfType(drainEvents(t, c), EventUserOnline)
	if len(events) != 1 || events[0]["userId"] != users["alice"].ID {
		t.Fatalf("want one userOnline broadcast for alice, got %v", events)
	}
}

func TestSecondAuthFrameIsIgnored(t *testing.T) {
	st, users := newTestStore(t, "alice", "bob")
	hub := NewHub(st)
	ctx := context.Background()

	c, conn := newTestClient(hub)
	authAs(t, c, users["alice"].ID)

	reauth, _ := json.Marshal(map[string]string{"type": FrameAuth, "userId": users["bob"].ID})
	c.processFrame(ctx, reauth)

	if c.UserID() != users["alice"].ID {
		t.Fatalf("second auth re-bound the connection: UserID() = %q", c.UserID())
	}
	if hub.Lookup(users["bob"].ID) != nil {
		t.Fatalf("second auth registered the connection under a new user")
	}
	if conn.isClosed() {
		t.Fatalf("second auth terminated the connection")
	}
}

func TestAuthWithEmptyUserIDIsIgnored(t *testing.T) {
	st, _ := newTestStore(t)
	hub := NewHub(st)

	c, _ := newTestClient(hub)

	frame, _ := json.Marshal(map[string]string{"type": FrameAuth, "userId": ""})
	c.processFrame(context.Background(), frame)

	if c.UserID() != "" {
		t.Fatalf("empty auth frame bound the connection")
	}
}

func TestUnauthenticatedTeardownIsSilent(t *testing.T) {
	st, users := newTestStore(t, "alice")
	hub := NewHub(st)

	a, _ := newTestClient(hub)
	authAs(t, a, users["alice"].ID)
	drainEvents(t, a)

	// A connection that never authenticated disconnects.
	c, _ := newTestClient(hub)
	c.teardown()

	if events := drainEvents(t, a); len(events) != 0 {
		t.Fatalf("unauthenticated teardown broadcast events: %v", events)
	}
}

func TestEnqueueAfterCloseIsRejected(t *testing.T) {
	st, _ := newTestStore(t)
	hub := NewHub(st)

	c, _ := newTestClient(hub)
	c.close()

	if c.enqueue([]byte(`{}`)) {
		t.Fatalf("enqueue succeeded on a closed connection")
	}

	// Repeated close is safe.
	c.close()
}
