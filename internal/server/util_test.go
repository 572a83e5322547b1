package server

import (
	"strings"
	"testing"
)

func TestCapabilityKeyAlphabetAndLength(t *testing.T) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

	key := newCapabilityKey(64)
	if len(key) != 64 {
		t.Fatalf("expected length 64, got %d", len(key))
	}
	for _, r := range key {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("key contains %q outside the alphabet", r)
		}
	}

	if got := len(newCapabilityKey(0)); got != 40 {
		t.Fatalf("expected default length 40, got %d", got)
	}
	if newCapabilityKey(32) == newCapabilityKey(32) {
		t.Fatal("two keys collided")
	}
}
