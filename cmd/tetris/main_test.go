package main

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

func TestValidateGame(t *testing.T) {
	if err := validateGame(tetris.ID); err != nil {
		t.Fatalf("validateGame(%q): %v", tetris.ID, err)
	}

	err := validateGame("pong")
	if err == nil {
		t.Fatal("expected an error for an unregistered game")
	}
	for _, want := range []string{`"pong"`, "available: " + tetris.ID} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestGameFlagDefault(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("game")
	if f == nil {
		t.Fatal("--game flag not registered")
	}
	if f.DefValue != tetris.ID {
		t.Errorf("--game default = %q, want %q", f.DefValue, tetris.ID)
	}
}
