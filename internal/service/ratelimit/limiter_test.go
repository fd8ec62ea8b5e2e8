package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("a", 3, 0) {
			t.Fatalf("expected token %d to be allowed", i)
		}
	}
	if l.Allow("a", 3, 0) {
		t.Fatalf("expected bucket exhausted")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("expected first token for a")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("expected a exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("expected b unaffected by a")
	}
}
