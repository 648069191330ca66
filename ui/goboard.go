// Package ui specifies custom controls for tview to assist in playing Go in
// the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katagollum-tui/board"
	"katagollum-tui/config"
	"katagollum-tui/controller"
)

// boardLeftPad is the column offset of the first intersection, leaving room
// for the row numbers.
const boardLeftPad = 4

// GoBoardUI renders the board from controller snapshots and relays cursor,
// mouse and submission input back to the controller.
type GoBoardUI struct {
	Box  *tview.Box
	ctrl *controller.Controller
	hint *tview.TextView
	cfg  *config.Config
	snap controller.Snapshot

	selRow int
	selCol int

	styleLine   tcell.Color
	styleBlack  tcell.Color
	styleWhite  tcell.Color
	styleGhost  tcell.Color
	styleHover  tcell.Color
	styleCursor tcell.Color
	styleLast   tcell.Color
}

// NewGoBoard creates the board widget.
func NewGoBoard(ctrl *controller.Controller, c *config.Config, hint *tview.TextView) *GoBoardUI {
	g := &GoBoardUI{
		Box:    tview.NewBox(),
		ctrl:   ctrl,
		hint:   hint,
		selRow: -1,
		selCol: -1,
	}
	g.SetConfig(c)
	g.Box.SetDrawFunc(g.draw)
	g.Box.SetMouseCapture(g.mouse)
	return g
}

// Refresh pulls a fresh snapshot and re-renders the status line. Called
// from the application draw queue.
func (g *GoBoardUI) Refresh() {
	g.snap = g.ctrl.Snapshot()
	if g.snap.Game != nil && g.snap.Game.GameOver {
		g.resetSelection()
	}
	g.refreshHint()
}

// size returns the displayed board dimension, 0 before the first board
// arrives.
func (g *GoBoardUI) size() int {
	if g.snap.Board == nil {
		return 0
	}
	if g.snap.Board.BoardSize > 0 {
		return g.snap.Board.BoardSize
	}
	return g.snap.Board.Board.Height()
}

// SelectedCoord returns the cursor position as a coordinate string, or ""
// when nothing is selected.
func (g *GoBoardUI) SelectedCoord() string {
	if g.selRow == -1 || g.selCol == -1 {
		return ""
	}
	return board.FormatCoord(g.selRow, g.selCol, g.size())
}

// MoveSelection moves the cursor by (h, v), clamped to the board.
func (g *GoBoardUI) MoveSelection(h, v int) {
	size := g.size()
	if size == 0 {
		return
	}
	if g.snap.Game != nil && g.snap.Game.GameOver {
		g.resetSelection()
		return
	}
	if g.selRow == -1 || g.selCol == -1 {
		// Start from the last move, or the board center.
		if row, col, err := board.ParseCoord(g.snap.LastMove, size); err == nil {
			g.selRow, g.selCol = row, col
		} else {
			g.selRow, g.selCol = size/2, size/2
		}
		g.previewSelection()
		return
	}
	if g.selCol+h < 0 || g.selCol+h >= size || g.selRow+v < 0 || g.selRow+v >= size {
		return
	}
	g.selCol += h
	g.selRow += v
	g.previewSelection()
}

// previewSelection feeds the cursor position to the hover side channel so
// the chat panel shows the pending-move preview.
func (g *GoBoardUI) previewSelection() {
	if coord := g.SelectedCoord(); coord != "" {
		g.ctrl.Hover(coord)
	}
}

func (g *GoBoardUI) resetSelection() {
	g.selRow = -1
	g.selCol = -1
}

// ResetSelection clears the cursor and the hover preview.
func (g *GoBoardUI) ResetSelection() {
	g.resetSelection()
	g.ctrl.ClearHover()
}

// PlaySelected submits the move under the cursor.
func (g *GoBoardUI) PlaySelected() {
	coord := g.SelectedCoord()
	if coord == "" {
		return
	}
	if g.ctrl.SubmitMove(coord) {
		g.resetSelection()
		g.ctrl.ClearHover()
	}
}

// SetConfig applies the theme.
func (g *GoBoardUI) SetConfig(c *config.Config) {
	g.cfg = c
	g.styleLine = tcell.PaletteColor(c.Theme.Colors.LineColor)
	g.styleBlack = tcell.PaletteColor(c.Theme.Colors.BlackColor)
	g.styleWhite = tcell.PaletteColor(c.Theme.Colors.WhiteColor)
	g.styleGhost = tcell.PaletteColor(c.Theme.Colors.GhostColor)
	g.styleHover = tcell.PaletteColor(c.Theme.Colors.HoverColor)
	g.styleCursor = tcell.PaletteColor(c.Theme.Colors.CursorColorBG)
	g.styleLast = tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG)
}

// draw is the Box draw func: grid lines, star points, stones, ghost stone,
// hover marker and the last-move highlight.
func (g *GoBoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	size := g.size()
	if size == 0 {
		return x, y, 1, 1
	}
	grid := g.snap.Board.Board

	ghostRow, ghostCol := -1, -1
	if g.snap.PendingMove != "" {
		if row, col, err := board.ParseCoord(g.snap.PendingMove, size); err == nil {
			ghostRow, ghostCol = row, col
		}
	}
	lastRow, lastCol := -1, -1
	if g.snap.LastMove != "" {
		if row, col, err := board.ParseCoord(g.snap.LastMove, size); err == nil {
			lastRow, lastCol = row, col
		}
	}
	hoverRow, hoverCol := -1, -1
	if g.snap.Hover != "" {
		if row, col, err := board.ParseCoord(g.snap.Hover, size); err == nil {
			hoverRow, hoverCol = row, col
		}
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			var cell int
			if row < grid.Height() && col < grid.Width() {
				cell = int(grid[row][col])
			}

			drawRune := gridRune(row, col, size, board.IsStarPoint(row, col, size))
			fg := g.styleLine
			switch cell {
			case 1:
				drawRune = g.cfg.Theme.Symbols.BlackStone
				fg = g.styleBlack
			case 2:
				drawRune = g.cfg.Theme.Symbols.WhiteStone
				fg = g.styleWhite
			}

			if cell == 0 {
				switch {
				case row == ghostRow && col == ghostCol:
					drawRune = g.cfg.Theme.Symbols.GhostStone
					fg = g.styleGhost
				case row == hoverRow && col == hoverCol:
					drawRune = g.cfg.Theme.Symbols.HoverMark
					fg = g.styleHover
				}
			}

			style := tcell.StyleDefault.Foreground(fg)
			if row == g.selRow && col == g.selCol {
				style = style.Background(g.styleCursor)
			} else if row == lastRow && col == lastCol {
				style = style.Background(g.styleLast)
			}

			hasStoneRight := col < size-1 && col+1 < grid.Width() && row < grid.Height() && grid[row][col+1] != 0
			drawCell(screen, style, drawRune, col, row, x+boardLeftPad, y, size, cell != 0, hasStoneRight)
		}
	}
	g.drawCoordinates(screen, x, y, size, lastRow, lastCol)

	return x, y, size*2 + boardLeftPad, size + 2
}

// mouse maps pointer position to the nearest intersection: movement drives
// the hover preview, a left click submits the move there.
func (g *GoBoardUI) mouse(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
	size := g.size()
	if size == 0 {
		return action, event
	}
	x, y, _, _ := g.Box.GetRect()
	px, py := event.Position()

	col := (px - x - boardLeftPad) / 2
	row := py - y
	onBoard := px >= x+boardLeftPad && col >= 0 && col < size && row >= 0 && row < size

	switch action {
	case tview.MouseMove:
		if onBoard {
			g.ctrl.Hover(board.FormatCoord(row, col, size))
		} else {
			g.ctrl.ClearHover()
		}
	case tview.MouseLeftClick:
		if onBoard {
			g.selRow, g.selCol = row, col
			g.PlaySelected()
			return action, nil
		}
	}
	return action, event
}

// refreshHint renders the status line under the board.
func (g *GoBoardUI) refreshHint() {
	snap := g.snap

	if snap.Banner != "" {
		g.hint.SetText(fmt.Sprintf("[red]  %s[-]\n  b dismiss   q quit", tview.Escape(snap.Banner)))
		return
	}

	var statusLine, controlsLine string
	switch {
	case snap.Game == nil:
		statusLine = "  No game in progress\n"
	case snap.Game.GameOver:
		statusLine = "  Game over\n"
		controlsLine = "  s save SGF   q return to menu"
	case snap.MoveInFlight || snap.Thinking || snap.Starting:
		statusLine = "  ◌ Thinking...\n"
	default:
		stone, color := "●", "Black"
		if snap.Game.UserColor == "W" {
			stone, color = "○", "White"
		}
		statusLine = fmt.Sprintf("  %s Your move (%s)\n", stone, color)
		controlsLine = "  hjkl/↑↓←→ move   ⏎ play   Tab chat   s save   q quit"
	}
	g.hint.SetText(statusLine + controlsLine)
}

// drawCell paints one 2-character cell: the intersection rune plus a right
// connector that only joins empty intersections.
func drawCell(s tcell.Screen, style tcell.Style, r rune, col, row, left, top, size int, stone, hasStoneRight bool) {
	s.SetContent(left+col*2, top+row, r, nil, style)

	conn := '─'
	if stone || hasStoneRight || col == size-1 {
		conn = ' '
	}
	s.SetContent(left+col*2+1, top+row, conn, nil, style)
}

// gridRune returns the box-drawing character for an empty intersection.
func gridRune(row, col, size int, isStar bool) rune {
	if isStar {
		return '◦'
	}

	isTop := row == 0
	isBottom := row == size-1
	isLeft := col == 0
	isRight := col == size-1

	switch {
	case isTop && isLeft:
		return '┌'
	case isTop && isRight:
		return '┐'
	case isBottom && isLeft:
		return '└'
	case isBottom && isRight:
		return '┘'
	case isTop:
		return '┬'
	case isBottom:
		return '┴'
	case isLeft:
		return '├'
	case isRight:
		return '┤'
	default:
		return '┼'
	}
}

// drawCoordinates labels the columns (letters skipping I) and rows (numbers
// counted from the far edge inward), matching the backend's coordinate
// text format.
func (g *GoBoardUI) drawCoordinates(s tcell.Screen, x, y, size, lastRow, lastCol int) {
	style := tcell.StyleDefault
	selected := tcell.StyleDefault.Background(g.styleCursor)
	lastPlayed := tcell.StyleDefault.Background(g.styleLast)

	for col := 0; col < size; col++ {
		letter := 'A' + rune(col)
		if col >= 8 {
			letter++ // Skip 'I'
		}
		st := style
		if col == g.selCol {
			st = selected
		} else if col == lastCol {
			st = lastPlayed
		}
		s.SetContent(x+boardLeftPad+col*2, y+size+1, letter, nil, st)
		s.SetContent(x+boardLeftPad+col*2+1, y+size+1, ' ', nil, st)
	}

	for row := 0; row < size; row++ {
		num := size - row
		st := style
		if row == g.selRow {
			st = selected
		} else if row == lastRow {
			st = lastPlayed
		}
		tens := ' '
		if num >= 10 {
			tens = rune('0' + num/10)
		}
		s.SetContent(x+1, y+row, tens, nil, st)
		s.SetContent(x+2, y+row, rune('0'+num%10), nil, st)
	}
}
