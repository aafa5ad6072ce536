package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mj1618/eva/internal/model"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	j.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}

	first, err := j.Record(ctx, Entry{Command: "open chrome", Category: model.CategoryAppLaunch, Confidence: 0.95, Source: "semantic", Steps: 5, Success: true, Message: "Opened chrome", DurationMs: 3100})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(first.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", first.ID, err)
	}
	if _, err := j.Record(ctx, Entry{Command: "set volume", Category: model.CategorySystemAction, Confidence: 0.5, Error: "no volume level found"}); err != nil {
		t.Fatal(err)
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Command != "set volume" || got[0].Success || got[0].Error != "no volume level found" {
		t.Errorf("newest = %+v", got[0])
	}
	old := got[1]
	if old.ID != first.ID || old.Category != model.CategoryAppLaunch || !old.Success || old.Steps != 5 || old.DurationMs != 3100 {
		t.Errorf("oldest = %+v", old)
	}
	if !old.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("created_at = %v, want %v", old.CreatedAt, base.Add(time.Minute))
	}
}

func TestJournal_RecentLimit(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	for _, c := range []string{"a1", "b2", "c3"} {
		if _, err := j.Record(ctx, Entry{Command: c}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Command != "c3" || got[1].Command != "b2" {
		t.Errorf("got %+v", got)
	}
}

func TestJournal_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := j.Record(context.Background(), Entry{Command: "mute"}); err != nil {
		t.Fatal(err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	got, err := j.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Command != "mute" {
		t.Errorf("got %+v", got)
	}
}
