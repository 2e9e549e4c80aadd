package jwt

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestTokenRoundTrip(t *testing.T) {
	payload := &Payload{ID: "user-1", Username: "alice"}

	tokenString, err := GenerateToken(payload, testSecret, UserIdentityExpiration)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parsed, err := ParseToken(tokenString, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if parsed.ID != "user-1" || parsed.Username != "alice" {
		t.Errorf("parsed payload = %+v, want ID=user-1 Username=alice", parsed)
	}
	if parsed.Issuer != TokenIssuer {
		t.Errorf("Issuer = %q, want %q", parsed.Issuer, TokenIssuer)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := GenerateToken(&Payload{ID: "user-1"}, testSecret, UserIdentityExpiration)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(tokenString, "a-different-secret"); err == nil {
		t.Fatalf("token signed with another secret was accepted")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tokenString, err := GenerateToken(&Payload{ID: "user-1"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(tokenString, testSecret); err == nil {
		t.Fatalf("expired token was accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Fatalf("garbage token was accepted")
	}
}
