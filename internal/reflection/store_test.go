package reflection

import (
	"strings"
	"testing"
)

func TestRecordKey_Shape(t *testing.T) {
	key := recordKey("thread-42", "2026-08-24T10:00:00Z")
	parts := strings.Split(key, ":")
	// reflection:<threadId>:<timestamp>:<suffix> — the RFC3339 timestamp
	// itself contains colons, so check prefix and suffix instead.
	if !strings.HasPrefix(key, "reflection:thread-42:2026-08-24T10:00:00Z:") {
		t.Errorf("unexpected key prefix: %q", key)
	}
	suffix := parts[len(parts)-1]
	if len(suffix) != 8 {
		t.Errorf("expected 8-char random suffix, got %q", suffix)
	}
}

func TestRecordKey_Unique(t *testing.T) {
	a := recordKey("t", "2026-08-24T10:00:00Z")
	b := recordKey("t", "2026-08-24T10:00:00Z")
	if a == b {
		t.Errorf("keys for the same instant should not collide: %q", a)
	}
}

func TestNewStore(t *testing.T) {
	if NewStore(nil) == nil {
		t.Fatalf("NewStore returned nil")
	}
}
