package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/avonside/weather-bulletin/internal/bulletin"
)

func record(text string, at time.Time) bulletin.Record {
	return bulletin.Record{
		Text:        text,
		Window:      "morning",
		GeneratedAt: at,
	}
}

func TestLatestOnEmptyStore(t *testing.T) {
	s := NewMemoryStore(10, 0)
	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveAndLatest(t *testing.T) {
	s := NewMemoryStore(10, 0)
	now := time.Now().UTC()

	s.Save(record("first", now.Add(-time.Hour)))
	s.Save(record("second", now))

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Text != "second" {
		t.Errorf("latest = %q, want %q", latest.Text, "second")
	}
}

func TestRangeInclusive(t *testing.T) {
	s := NewMemoryStore(10, 0)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		s.Save(record(fmt.Sprintf("b%d", i), base.Add(time.Duration(i)*time.Hour)))
	}

	got, err := s.Range(base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Text != "b1" || got[1].Text != "b2" {
		t.Errorf("unexpected range contents: %+v", got)
	}
}

func TestRangeEmpty(t *testing.T) {
	s := NewMemoryStore(10, 0)
	s.Save(record("only", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))

	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	if _, err := s.Range(from, to); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now().UTC()

	s.Save(record("a", now.Add(-3*time.Minute)))
	s.Save(record("b", now.Add(-2*time.Minute)))
	s.Save(record("c", now.Add(-time.Minute)))

	got, err := s.Range(now.Add(-time.Hour), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 retained records, got %d", len(got))
	}
	if got[0].Text != "b" {
		t.Errorf("oldest retained = %q, want %q", got[0].Text, "b")
	}
}

func TestRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Now()

	s.Save(record("stale", now.Add(-2*time.Hour)))
	s.Save(record("fresh", now))

	got, err := s.Range(now.Add(-24*time.Hour), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Text != "fresh" {
		t.Errorf("expected only fresh record, got %+v", got)
	}
}
