package ledger

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRecordAndRecent(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []RoundRecord{
		{RoundID: "r1", Profile: "sam", Outcome: "player_wins_higher", PlayerTotal: 20, DealerTotal: 18, PlayedAt: base},
		{RoundID: "r2", Profile: "sam", Outcome: "dealer_wins_player_bust", PlayerTotal: 24, DealerTotal: 17, PlayedAt: base.Add(time.Minute)},
		{RoundID: "r3", Profile: "alex", Outcome: "push", PlayerTotal: 19, DealerTotal: 19, PlayedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		if err := s.RecordRound(ctx, rec); err != nil {
			t.Fatalf("RecordRound(%s): %v", rec.RoundID, err)
		}
	}

	// Duplicate round IDs are silently ignored.
	if err := s.RecordRound(ctx, records[0]); err != nil {
		t.Fatalf("duplicate RecordRound: %v", err)
	}

	recent, err := s.RecentRounds(ctx, "sam", 10)
	if err != nil {
		t.Fatalf("RecentRounds: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 rounds for sam, got %d", len(recent))
	}
	if recent[0].RoundID != "r2" {
		t.Errorf("expected newest round first, got %s", recent[0].RoundID)
	}

	all, err := s.RecentRounds(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentRounds all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rounds total, got %d", len(all))
	}
}

func TestMemoryRejectsEmptyRoundID(t *testing.T) {
	s := NewMemoryService()
	if err := s.RecordRound(context.Background(), RoundRecord{}); err == nil {
		t.Fatal("expected error for empty round id")
	}
}

func TestStatsRollup(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	outcomes := []string{
		"player_wins_higher",
		"player_blackjack",
		"push",
		"dealer_wins_player_bust",
		"dealer_wins_higher",
	}
	for i, outcome := range outcomes {
		rec := RoundRecord{
			RoundID:  "r" + string(rune('a'+i)),
			Profile:  "sam",
			Outcome:  outcome,
			PlayedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.RecordRound(ctx, rec); err != nil {
			t.Fatalf("RecordRound: %v", err)
		}
	}

	stats, err := s.Stats(ctx, "sam")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Rounds != 5 {
		t.Errorf("Rounds = %d, want 5", stats.Rounds)
	}
	if stats.Wins != 2 || stats.Losses != 2 || stats.Pushes != 1 {
		t.Errorf("W/L/P = %d/%d/%d, want 2/2/1", stats.Wins, stats.Losses, stats.Pushes)
	}
	if stats.Blackjacks != 1 {
		t.Errorf("Blackjacks = %d, want 1", stats.Blackjacks)
	}
	// Two wins, a push (streak untouched), then two losses.
	if stats.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", stats.BestStreak)
	}
	if stats.CurrentStreak != -2 {
		t.Errorf("CurrentStreak = %d, want -2", stats.CurrentStreak)
	}
}

func TestStatsIgnoresUnknownOutcome(t *testing.T) {
	stats := statsFromOutcomes([]string{"player_wins_higher", "not_an_outcome", ""})
	if stats.Rounds != 1 || stats.Wins != 1 {
		t.Errorf("stats = %+v, want 1 round 1 win", stats)
	}
}

func TestMemoryProfiles(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	if _, err := s.GetProfile(ctx, "sam"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.UpsertProfile(ctx, Profile{Name: "sam", PinHash: "hash-1"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err := s.GetProfile(ctx, "sam")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.PinHash != "hash-1" {
		t.Errorf("PinHash = %q, want hash-1", p.PinHash)
	}
	created := p.CreatedAt

	// Upsert rotates the hash but keeps the creation time.
	if err := s.UpsertProfile(ctx, Profile{Name: "sam", PinHash: "hash-2"}); err != nil {
		t.Fatalf("UpsertProfile update: %v", err)
	}
	p, err = s.GetProfile(ctx, "sam")
	if err != nil {
		t.Fatalf("GetProfile after update: %v", err)
	}
	if p.PinHash != "hash-2" {
		t.Errorf("PinHash = %q, want hash-2", p.PinHash)
	}
	if !p.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on upsert")
	}

	if err := s.UpsertProfile(ctx, Profile{Name: "alex", PinHash: "h"}); err != nil {
		t.Fatalf("UpsertProfile alex: %v", err)
	}
	names, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(names) != 2 || names[0] != "alex" || names[1] != "sam" {
		t.Errorf("ListProfiles = %v, want [alex sam]", names)
	}
}
