package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent and best runs",
	Long: `Display the run journal.

On a terminal this opens an interactive table with Recent and Best tabs.
When output is piped, or with --plain, it prints the statistics and the
top runs as text.

Examples:
  tetris history
  tetris history --plain --limit 5
  tetris history --db ./tetris.db`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print text instead of the interactive table")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Runs per list in plain output")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, sizeErr := term.GetSize(fd); sizeErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, gameID, width, height); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error showing history: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := printHistory(os.Stdout, store, flagLimit); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error reading run journal: %v\n", err)
		os.Exit(1)
	}
}

// historySource is the part of the journal the plain report reads.
type historySource interface {
	tui.RunLister
	Stats(gameID string) (*storage.GameStats, error)
}

func printHistory(w io.Writer, src historySource, limit int) error {
	stats, err := src.Stats(gameID)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Run History - Tetris")
	fmt.Fprintln(w)

	if stats.GamesCount == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'tetris play' to record the first run!")
		return nil
	}

	fmt.Fprintf(w, "  Games: %d  High score: %d  Average: %.0f  Best level: %d  Lines: %d  Play time: %s\n",
		stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestLevel, stats.TotalLines,
		tui.FormatDuration(stats.PlayTime))
	fmt.Fprintln(w)

	recent, err := src.RecentRuns(gameID, limit)
	if err != nil {
		return err
	}
	best, err := src.BestRuns(gameID, limit)
	if err != nil {
		return err
	}

	printRuns(w, "Recent", recent)
	fmt.Fprintln(w)
	printRuns(w, "Best", best)
	return nil
}

func printRuns(w io.Writer, title string, runs []storage.Run) {
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "  %-4s  %-8s  %-5s  %-5s  %-6s  %-6s  %s\n", "#", "Score", "Level", "Lines", "Pieces", "Time", "Date")
	fmt.Fprintf(w, "  %-4s  %-8s  %-5s  %-5s  %-6s  %-6s  %s\n", "-", "-----", "-----", "-----", "------", "----", "----")
	for i, r := range runs {
		fmt.Fprintf(w, "  %-4d  %-8d  %-5d  %-5d  %-6d  %-6s  %s\n",
			i+1, r.Score, r.Level, r.Lines, r.Pieces, tui.FormatDuration(r.Duration),
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
