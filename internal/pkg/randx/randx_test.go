package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewIDIsValidUUID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID() = %q is not a valid UUID: %v", id, err)
	}

	if NewID() == id {
		t.Fatalf("two NewID() calls returned the same value")
	}
}

func TestBase62String(t *testing.T) {
	for _, length := range []int{0, 1, 16, 64} {
		s, err := Base62String(length)
		if err != nil {
			t.Fatalf("Base62String(%d): %v", length, err)
		}
		if len(s) != length {
			t.Errorf("Base62String(%d) returned %d characters", length, len(s))
		}
		for _, c := range s {
			if !strings.ContainsRune(Base62Chars, c) {
				t.Errorf("Base62String(%d) contains %q outside the character set", length, c)
			}
		}
	}
}
