package session

import (
	"context"
	"testing"
)

func TestTakeClearsSlot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "u1", KeyBookingDraft, `{"serviceType":"CUSTOMIZED"}`); err != nil {
		t.Fatalf("set error: %v", err)
	}

	v, ok, err := Take(ctx, s, "u1", KeyBookingDraft)
	if err != nil {
		t.Fatalf("take error: %v", err)
	}
	if !ok || v != `{"serviceType":"CUSTOMIZED"}` {
		t.Fatalf("unexpected take result: ok=%v v=%q", ok, v)
	}

	if _, ok, _ := s.Get(ctx, "u1", KeyBookingDraft); ok {
		t.Fatalf("draft slot should be empty after take")
	}
	if _, ok, _ := Take(ctx, s, "u1", KeyBookingDraft); ok {
		t.Fatalf("second take must not return a value")
	}
}

func TestSetOverwritesPriorValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Set(ctx, "u1", KeyBookingDraft, "old")
	_ = s.Set(ctx, "u1", KeyBookingDraft, "new")

	v, ok, _ := s.Get(ctx, "u1", KeyBookingDraft)
	if !ok || v != "new" {
		t.Fatalf("slot should hold the latest write, got ok=%v v=%q", ok, v)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Set(ctx, "u1", KeyToken, "tok-1")
	if _, ok, _ := s.Get(ctx, "u2", KeyToken); ok {
		t.Fatalf("owner u2 must not see u1's token")
	}
}
