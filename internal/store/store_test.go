package store

import (
	"context"
	"testing"
	"time"

	"arena-bot/internal/config"
)

// Integration coverage; needs TEST_POSTGRES_DSN, skipped otherwise.
func testStore(t *testing.T) *Store {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	s, err := New(cfg.TestPostgresDSN)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()
	if err := s.Ping(ctx); err != nil {
		t.Skipf("database unreachable: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM battles`); err != nil {
		t.Fatalf("reset battles: %v", err)
	}
	return s
}

func TestRecordAndListBattles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := BattleRecord{
			Wallet:        "0xabc",
			UserID:        7,
			AgentID:       int64(100 + i),
			AgentName:     "agent",
			MatchmakingID: int64(i),
			EntryFee:      0.001,
			Outcome:       "completed",
			Rank:          i + 1,
			StartedAt:     base.Add(time.Duration(i) * time.Minute),
			FinishedAt:    base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if _, err := s.RecordBattle(ctx, rec); err != nil {
			t.Fatalf("RecordBattle: %v", err)
		}
	}

	got, err := s.RecentBattles(ctx, 2)
	if err != nil {
		t.Fatalf("RecentBattles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].AgentID != 102 || got[1].AgentID != 101 {
		t.Fatalf("order = %d, %d; want newest first", got[0].AgentID, got[1].AgentID)
	}
}

func TestPruneBattles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rec := BattleRecord{
			Wallet:     "0xabc",
			Outcome:    "completed",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := s.RecordBattle(ctx, rec); err != nil {
			t.Fatalf("RecordBattle: %v", err)
		}
	}
	if err := s.PruneBattles(ctx, 2); err != nil {
		t.Fatalf("PruneBattles: %v", err)
	}
	got, err := s.RecentBattles(ctx, 10)
	if err != nil {
		t.Fatalf("RecentBattles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d after prune, want 2", len(got))
	}
}
