package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestMemoryDraftStore_RoundTrip verifies Put/Get/Delete against a live clock.
func TestMemoryDraftStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryDraftStore(30 * time.Minute)

	if _, err := s.Get(ctx, 7); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("Get on empty store: err = %v, want ErrDraftNotFound", err)
	}

	d := Draft{UserID: 7, Kind: DraftProfile, Step: StepWeight, Gender: "male"}
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Step != StepWeight || got.Gender != "male" {
		t.Errorf("Get returned %+v, want step=%s gender=male", got, StepWeight)
	}

	if err := s.Delete(ctx, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, 7); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("Get after Delete: err = %v, want ErrDraftNotFound", err)
	}
}

// TestMemoryDraftStore_Expiry verifies that an abandoned draft disappears
// after the TTL. The store's clock is swapped so the test doesn't sleep.
func TestMemoryDraftStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryDraftStore(30 * time.Minute)

	current := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	if err := s.Put(ctx, Draft{UserID: 7, Kind: DraftProfile, Step: StepGender}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	current = current.Add(29 * time.Minute)
	if _, err := s.Get(ctx, 7); err != nil {
		t.Fatalf("Get within TTL: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := s.Get(ctx, 7); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("Get past TTL: err = %v, want ErrDraftNotFound", err)
	}
}

// TestMemoryDraftStore_PutRefreshesTTL verifies each wizard answer extends
// the deadline, so a slow but active user is never cut off.
func TestMemoryDraftStore_PutRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryDraftStore(30 * time.Minute)

	current := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Put(ctx, Draft{UserID: 7, Kind: DraftProfile, Step: StepGender})
	current = current.Add(20 * time.Minute)
	s.Put(ctx, Draft{UserID: 7, Kind: DraftProfile, Step: StepWeight})
	current = current.Add(20 * time.Minute)

	got, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}
	if got.Step != StepWeight {
		t.Errorf("Get returned step %s, want %s", got.Step, StepWeight)
	}
}
