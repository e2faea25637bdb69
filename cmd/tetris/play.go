package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of tetris.

Controls:
  Left/Right, A/D  - Move
  Up/X, Z          - Rotate clockwise / counterclockwise
  Down/S           - Soft drop
  Space            - Hard drop
  P/Esc            - Pause
  R                - Restart (paused or after game over)
  B                - Run history (paused or after game over)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slower starting speed, speeds up with each level
  normal - Configured starting speed, speeds up with each level
  hard   - Faster starting speed, speeds up with each level
  fixed  - No speed-up, stays at the configured starting speed

Examples:
  tetris play
  tetris play --difficulty easy
  tetris play --seed 42 --log-file tetris.log --log-level debug
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom tetris config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, _ []string) {
	tetris.SetConfigPath(flagConfig)
	if err := tetris.SetDifficultyPreset(flagDifficulty); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// logs would garble the alternate screen, so they only go to a file
	sink, closeSink, err := openLogSink(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeSink()
	logger, err := newLogger(sink, "tetris")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	deps := tui.Deps{Logger: logger}
	var history tui.RunLister
	store := openStore(logger)
	if store != nil {
		deps.Recorder = store
		history = store
	} else {
		fmt.Fprintln(os.Stderr, "Warning: run journal unavailable, runs will not be recorded")
	}

	result, runErr := tui.Run(game, deps, history, cfg)

	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("could not close run journal", "err", err)
		}
	}

	if runErr != nil {
		closeSink()
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}

	printSummary(os.Stdout, result)
}

func printSummary(w io.Writer, r tui.Result) {
	st := r.State
	if st.Level == 0 {
		return
	}
	status := "Quit"
	if st.GameOver {
		status = "Game over"
	}
	fmt.Fprintf(w, "%s: score %d, level %d, lines %d, pieces %d, time %s\n",
		status, st.Score, st.Level, st.Lines, st.Pieces, tui.FormatDuration(r.Elapsed))
	if r.LastRunID != "" {
		fmt.Fprintf(w, "Last run recorded as %s\n", r.LastRunID)
	}
}
