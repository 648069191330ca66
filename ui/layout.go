package ui

import (
	"github.com/rivo/tview"
)

// CreateGameLayout builds the main game screen: board on the left, info
// panel and chat stacked on the right, compact status bar at the bottom.
func CreateGameLayout(goBoard *GoBoardUI, info *GameInfoPanel, chat *ChatPanel, hint *tview.TextView) *tview.Flex {
	sidebar := tview.NewFlex().SetDirection(tview.FlexRow)
	sidebar.AddItem(info.Box(), 0, 1, false)
	sidebar.AddItem(chat.Flex(), 0, 2, false)

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(goBoard.Box, 0, 2, true)
	boardRow.AddItem(sidebar, 40, 0, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 2, 0, false)

	return mainFlex
}

// CreateCenteredForm centers the setup form horizontally.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}
