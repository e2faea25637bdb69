package registry

import (
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

type fakeGame struct{ id, title string }

func (g fakeGame) ID() string                           { return g.id }
func (g fakeGame) Title() string                        { return g.title }
func (g fakeGame) Reset(core.RuntimeConfig)             {}
func (g fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g fakeGame) Render(*core.Screen)                  {}
func (g fakeGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-fake", func() Game { return fakeGame{"zz-fake", "Fake"} })
	Register("aa-fake", func() Game { return fakeGame{"aa-fake", "Another"} })

	if !Exists("zz-fake") {
		t.Fatal("registered game should exist")
	}
	g, err := Create("zz-fake")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Title() != "Fake" {
		t.Errorf("Title = %q, want Fake", g.Title())
	}

	if _, err := Create("missing"); err == nil {
		t.Error("Create should fail for an unknown id")
	}

	games := List()
	idx := map[string]int{}
	for i, info := range games {
		idx[info.ID] = i
	}
	if idx["aa-fake"] >= idx["zz-fake"] {
		t.Errorf("List should be sorted by id, got %+v", games)
	}
	if games[idx["aa-fake"]].Title != "Another" {
		t.Errorf("List title = %q, want Another", games[idx["aa-fake"]].Title)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-fake", func() Game { return fakeGame{"dup-fake", "Dup"} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("dup-fake", func() Game { return fakeGame{"dup-fake", "Dup"} })
}
