package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/storage"
)

type memLister struct {
	recent []storage.Run
	best   []storage.Run
	err    error
}

func (l *memLister) RecentRuns(string, int) ([]storage.Run, error) { return l.recent, l.err }
func (l *memLister) BestRuns(string, int) ([]storage.Run, error)   { return l.best, l.err }

func sampleRuns() []storage.Run {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []storage.Run{
		{ID: "a", GameID: stubID, Score: 150, Level: 1, Lines: 2, Pieces: 30, Duration: 95 * time.Second, CreatedAt: at},
		{ID: "b", GameID: stubID, Score: 1300, Level: 2, Lines: 12, Pieces: 80, Duration: 5 * time.Minute, CreatedAt: at.Add(-time.Hour)},
	}
}

func sendHistory(m HistoryModel, msgs ...tea.Msg) (HistoryModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(HistoryModel)
	}
	return m, cmd
}

func TestHistoryTabs(t *testing.T) {
	runs := sampleRuns()
	lister := &memLister{recent: runs, best: []storage.Run{runs[1], runs[0]}}
	m := NewHistoryModel(lister, stubID, 100, 30)

	if m.Tab() != TabRecent || len(m.Runs()) != 2 || m.Runs()[0].ID != "a" {
		t.Fatalf("expected recent runs first, got tab %v runs %+v", m.Tab(), m.Runs())
	}

	m, _ = sendHistory(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab() != TabBest || m.Runs()[0].ID != "b" {
		t.Fatalf("tab should switch to best, got %v", m.Tab())
	}

	m, _ = sendHistory(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab() != TabRecent {
		t.Errorf("tab should wrap back to recent, got %v", m.Tab())
	}
}

func TestHistoryView(t *testing.T) {
	m := NewHistoryModel(&memLister{recent: sampleRuns()}, stubID, 100, 30)
	view := m.View()

	for _, want := range []string{"RUN HISTORY", "Recent", "Best", "Score", "1300", "1:35", "5:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryEmptyAndFailing(t *testing.T) {
	tests := []struct {
		name  string
		store RunLister
		want  string
	}{
		{"no journal", nil, "unavailable"},
		{"empty journal", &memLister{}, "No runs recorded yet"},
		{"read error", &memLister{err: errors.New("locked")}, "locked"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewHistoryModel(tc.store, stubID, 100, 30)
			if view := m.View(); !strings.Contains(view, tc.want) {
				t.Errorf("view missing %q:\n%s", tc.want, view)
			}
		})
	}
}

func TestHistoryExitKeys(t *testing.T) {
	m := NewHistoryModel(&memLister{}, stubID, 80, 24)

	back, cmd := sendHistory(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || cmd != nil {
		t.Error("esc should request back without quitting an embedded screen")
	}

	play, _ := sendHistory(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !play.PlayRequested() {
		t.Error("enter should request a new game")
	}

	quit, cmd := sendHistory(m, runeKey('q'))
	if !quit.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}

	m.standalone = true
	if _, cmd := sendHistory(m, runeKey('b')); cmd == nil {
		t.Error("a standalone screen exits on back")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{95 * time.Second, "1:35"},
		{61*time.Minute + 1500*time.Millisecond, "61:02"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
