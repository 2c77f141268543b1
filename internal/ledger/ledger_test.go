// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

// --- test helpers ---

func testLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "ledger.db")
	l, err := Open(types.LedgerConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	return l, path
}

func record(t *testing.T, l *Ledger, runID string, launched time.Time, sources ...string) {
	t.Helper()
	var rs []types.RasterRecord
	for _, s := range sources {
		rs = append(rs, types.RasterRecord{
			Source:     s,
			Output:     "/work/svg/" + s + ".png",
			Format:     "png",
			LaunchedAt: launched,
		})
	}
	run := types.RunRecord{ID: runID, Format: "docx", Rewrites: len(sources), StartedAt: launched}
	if err := l.Record(context.Background(), run, rs); err != nil {
		t.Fatal(err)
	}
}

// --- tests ---

func TestOpen_CreatesDirectory(t *testing.T) {
	_, path := testLedger(t)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(types.LedgerConfig{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(types.LedgerConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	record(t, l, "run-1", time.Now(), "a.svg")
	l.Close()

	l, err = Open(types.LedgerConfig{Path: path})
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer l.Close()
	got, err := l.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records after reopen, want 1", len(got))
	}
}

func TestRecordAndComplete(t *testing.T) {
	l, _ := testLedger(t)
	ctx := context.Background()
	record(t, l, "run-1", time.Now(), "a.svg", "b.svg")

	got, err := l.List(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.Status != types.RasterPending {
			t.Errorf("%s: status = %q, want pending", r.Source, r.Status)
		}
		if r.RunID != "run-1" {
			t.Errorf("%s: run id = %q", r.Source, r.RunID)
		}
		if r.CompletedAt != nil {
			t.Errorf("%s: completed_at set before completion", r.Source)
		}
	}

	if err := l.Complete(ctx, "run-1", "/work/svg/a.svg.png", nil); err != nil {
		t.Fatal(err)
	}
	if err := l.Complete(ctx, "run-1", "/work/svg/b.svg.png", errors.New("exit status 1: bad svg")); err != nil {
		t.Fatal(err)
	}

	failed, err := l.List(ctx, ListOptions{FailedOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 {
		t.Fatalf("got %d failed records, want 1", len(failed))
	}
	if failed[0].Source != "b.svg" || failed[0].Error != "exit status 1: bad svg" {
		t.Errorf("unexpected failed record: %+v", failed[0])
	}
	if failed[0].CompletedAt == nil {
		t.Error("completed_at not set")
	}

	all, err := l.List(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range all {
		if r.Source == "a.svg" && r.Status != types.RasterSucceeded {
			t.Errorf("a.svg: status = %q, want succeeded", r.Status)
		}
	}
}

func TestComplete_Unknown(t *testing.T) {
	l, _ := testLedger(t)
	if err := l.Complete(context.Background(), "nope", "/x.png", nil); err == nil {
		t.Fatal("expected error for unknown conversion")
	}
}

func TestList_OrderLimitAndRun(t *testing.T) {
	l, _ := testLedger(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record(t, l, "run-1", base, "old.svg")
	record(t, l, "run-2", base.Add(time.Minute), "mid.svg")
	record(t, l, "run-3", base.Add(2*time.Minute), "new.svg")

	got, err := l.List(context.Background(), ListOptions{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Source != "new.svg" || got[1].Source != "mid.svg" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[0].LaunchedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("launched_at = %v", got[0].LaunchedAt)
	}

	got, err = l.List(context.Background(), ListOptions{RunID: "run-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Source != "old.svg" {
		t.Fatalf("run filter returned %+v", got)
	}
}
