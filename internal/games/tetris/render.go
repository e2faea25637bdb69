package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

const (
	cellW     = 2 // screen columns per board cell
	panelGap  = 2
	panelW    = 16
	blockRune = '█'
)

// kindColors follows the usual guideline colors.
var kindColors = [engine.NumKinds]core.Color{
	engine.KindI: core.ColorCyan,
	engine.KindJ: core.ColorBlue,
	engine.KindL: core.ColorOrange,
	engine.KindO: core.ColorYellow,
	engine.KindS: core.ColorGreen,
	engine.KindT: core.ColorMagenta,
	engine.KindZ: core.ColorRed,
}

// tileColor maps a board tile back to its piece color.
func tileColor(t engine.TileID) core.Color {
	k := int(t) - 1
	if k < 0 || k >= len(kindColors) {
		return core.ColorWhite
	}
	return kindColors[k]
}

// layout is where the board frame and side panel sit on screen.
type layout struct {
	frame  core.Rect
	panelX int
}

func (g *Game) minSize() (w, h int) {
	w = g.cfg.Board.Width*cellW + 2 + panelGap + panelW
	h = g.cfg.Board.Height + 2
	return w, h
}

func (g *Game) tooSmall() bool {
	if g.runtime.ScreenW == 0 && g.runtime.ScreenH == 0 {
		return false
	}
	w, h := g.minSize()
	return g.runtime.ScreenW < w || g.runtime.ScreenH < h
}

func (g *Game) layoutFor(dst *core.Screen) layout {
	w, h := g.minSize()
	area := core.CenteredRect(dst.Width(), dst.Height(), w, h)
	frame := core.NewRect(area.X, area.Y, g.cfg.Board.Width*cellW+2, h)
	return layout{frame: frame, panelX: frame.Right() + panelGap}
}

// Render draws the board, the falling piece with its ghost, the HUD and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.eng == nil {
		return
	}

	w, h := g.minSize()
	if dst.Width() < w || dst.Height() < h {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorDefault)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", w, h), core.ColorGray)
		return
	}

	l := g.layoutFor(dst)
	dst.DrawBox(l.frame, core.ColorGray)
	g.renderBoard(dst, l)
	g.renderPiece(dst, l)
	g.renderHUD(dst, l)
	g.renderOverlay(dst, l)
}

// cellPos converts board coordinates (y up) into the screen column/row of
// the cell's left half.
func (g *Game) cellPos(l layout, p engine.Vec) (x, y int, ok bool) {
	ext := g.eng.Extent()
	if !ext.Contains(p.X, p.Y) {
		return 0, 0, false
	}
	x = l.frame.X + 1 + (p.X-ext.XMin)*cellW
	y = l.frame.Y + 1 + (ext.YMax - 1 - p.Y)
	return x, y, true
}

func drawCell(dst *core.Screen, x, y int, text string, c core.Color) {
	dst.DrawTextColored(x, y, text, c)
}

func (g *Game) renderBoard(dst *core.Screen, l layout) {
	snap := g.eng.BoardSnapshot()
	ext := snap.Extent()
	for y := ext.YMin; y < ext.YMax; y++ {
		for x := ext.XMin; x < ext.XMax; x++ {
			sx, sy, _ := g.cellPos(l, engine.Vec{X: x, Y: y})
			if tile := snap.At(x, y); tile != engine.Empty {
				drawCell(dst, sx, sy, "[]", tileColor(tile))
			} else {
				drawCell(dst, sx, sy, " .", core.ColorDim)
			}
		}
	}
}

func (g *Game) renderPiece(dst *core.Screen, l layout) {
	active := g.eng.Active()
	if active == nil {
		return
	}

	if ghost, ok := g.eng.GhostAnchor(); ok && ghost != active.Anchor() {
		for _, c := range active.Cells() {
			if sx, sy, ok := g.cellPos(l, ghost.Add(c)); ok {
				drawCell(dst, sx, sy, "::", core.ColorGray)
			}
		}
	}

	color := kindColors[active.Kind()]
	for _, p := range active.Positions() {
		if sx, sy, ok := g.cellPos(l, p); ok {
			drawCell(dst, sx, sy, "[]", color)
		}
	}
}

func (g *Game) renderHUD(dst *core.Screen, l layout) {
	p := g.eng.Progress()
	x, y := l.panelX, l.frame.Y+1

	dst.DrawText(x, y, fmt.Sprintf("SCORE: %d", p.Score))
	dst.DrawText(x, y+1, fmt.Sprintf("LEVEL: %d", p.Level))
	dst.DrawTextColored(x, y+2, fmt.Sprintf("LINES: %d", p.Lines), core.ColorGray)

	dst.DrawText(x, y+4, "NEXT")
	next := g.eng.Next()
	shape := g.eng.Catalog().Shape(next)
	for _, c := range shape.Cells(0) {
		// rotation 0 cells span x in [-1, 2], y in [0, 1]
		cx := x + (c.X+1)*cellW
		cy := y + 6 - c.Y
		for i := range cellW {
			dst.SetColored(cx+i, cy, blockRune, kindColors[next])
		}
	}
}

func (g *Game) renderOverlay(dst *core.Screen, l layout) {
	p := g.eng.Progress()
	switch {
	case g.eng.GameOver():
		drawCenteredBox(dst, l.frame, "GAME OVER", fmt.Sprintf("Score %d", p.Score), "R restart", "B history")
	case g.eng.Paused():
		drawCenteredBox(dst, l.frame, "PAUSED", "P resume", "R restart", "B history")
	}
}

// drawCenteredBox draws a message box centered over area.
func drawCenteredBox(dst *core.Screen, area core.Rect, lines ...string) {
	boxW := 0
	for _, s := range lines {
		boxW = core.Max(boxW, len([]rune(s)))
	}
	boxW += 4
	boxH := len(lines) + 2
	box := core.NewRect(area.X+(area.W-boxW)/2, area.Y+(area.H-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	for i, s := range lines {
		c := core.ColorGray
		if i == 0 {
			c = core.ColorWhite
		}
		dst.DrawTextColored(box.X+(boxW-len([]rune(s)))/2, box.Y+1+i, s, c)
	}
}
