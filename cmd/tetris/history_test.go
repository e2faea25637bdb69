package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPrintHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printHistory(&buf, openTestStore(t), 10); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	if !strings.Contains(buf.String(), "No runs recorded yet.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestPrintHistoryListsRuns(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, score := range []int{300, 1200, 75} {
		_, err := store.SaveRun(storage.Run{
			GameID:    gameID,
			Score:     score,
			Level:     1 + score/1000,
			Lines:     score / 75,
			Pieces:    10 * (i + 1),
			Duration:  time.Minute,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := printHistory(&buf, store, 2); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Games: 3", "High score: 1200", "Average: 525", "Play time: 3:00", "Recent", "Best"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// the limit applies per list
	best := out[strings.Index(out, "\nBest\n"):]
	if strings.Contains(best, "  75 ") {
		t.Errorf("best list should stop at two runs:\n%s", best)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, tui.Result{
		State:     core.GameState{Score: 400, Level: 1, Lines: 4, Pieces: 22, GameOver: true},
		Elapsed:   75 * time.Second,
		LastRunID: "abc",
	})
	out := buf.String()
	if !strings.Contains(out, "Game over: score 400, level 1, lines 4, pieces 22, time 1:15") {
		t.Errorf("unexpected summary: %q", out)
	}
	if !strings.Contains(out, "abc") {
		t.Errorf("summary should name the run id: %q", out)
	}

	buf.Reset()
	printSummary(&buf, tui.Result{})
	if buf.Len() != 0 {
		t.Errorf("a session that never started prints nothing, got %q", buf.String())
	}
}
