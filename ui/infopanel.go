package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"katagollum-tui/board"
	"katagollum-tui/controller"
)

// GameInfoPanel displays game metadata and the recent move history
// alongside the board.
type GameInfoPanel struct {
	ctrl *controller.Controller
	box  *tview.TextView
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel(ctrl *controller.Controller) *GameInfoPanel {
	panel := &GameInfoPanel{
		ctrl: ctrl,
		box:  tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// Refresh re-renders the panel from a fresh snapshot.
func (p *GameInfoPanel) Refresh() {
	snap := p.ctrl.Snapshot()
	if snap.Game == nil {
		p.box.SetText("")
		return
	}

	text := "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += fmt.Sprintf("[white]Board:[-:-:-] %dx%d\n", snap.Game.BoardSize, snap.Game.BoardSize)
	text += fmt.Sprintf("[white]Komi:[-:-:-] %.1f\n", snap.Game.Komi)
	if snap.Game.Handicap > 0 {
		text += fmt.Sprintf("[white]Handicap:[-:-:-] %d\n", snap.Game.Handicap)
	}
	text += fmt.Sprintf("[white]Persona:[-:-:-] %s\n", snap.Game.Persona)
	if delta := board.FormatScoreDelta(snap.ScoreDelta); delta != "" {
		text += fmt.Sprintf("[white]Last swing:[-:-:-] %s\n", delta)
	}

	if snap.Board != nil && len(snap.Board.Moves) > 0 {
		moves := snap.Board.Moves
		text += "\n[white::b]Moves[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"

		// Show the last moves that fit.
		maxVisible := 12
		start := 0
		if len(moves) > maxVisible {
			start = len(moves) - maxVisible
		}

		for i := start; i < len(moves); i++ {
			m := moves[i]

			colorStr := "[white]B[-]"
			if m.Color == "W" {
				colorStr = "[dimgray]W[-]"
			}

			marker := " "
			if i == len(moves)-1 {
				marker = "[white]>[-]"
			}

			text += fmt.Sprintf("%s[dimgray]%3d.[-] %s %s\n", marker, m.MoveNumber, colorStr, m.Coordinate)
		}

		if start > 0 {
			text += fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	p.box.SetText(text)
}
