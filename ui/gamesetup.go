package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katagollum-tui/controller"
	"katagollum-tui/types"
)

// GameType is a named preset bundling komi and handicap.
type GameType struct {
	Name     string
	Komi     float64
	Handicap int
}

// GameTypes are the selectable presets: an even game, a no-komi game, and
// handicap games from two to nine stones with reduced komi.
var GameTypes = buildGameTypes()

func buildGameTypes() []GameType {
	presets := []GameType{
		{Name: "Default (komi 7.5)", Komi: 7.5, Handicap: 0},
		{Name: "No komi", Komi: 0.5, Handicap: 0},
	}
	for stones := 2; stones <= 9; stones++ {
		presets = append(presets, GameType{
			Name:     fmt.Sprintf("%d stones (komi 0.5)", stones),
			Komi:     0.5,
			Handicap: stones,
		})
	}
	return presets
}

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form    *tview.Form
	flex    *tview.Flex
	onStart func(controller.Setup) bool
	busy    bool

	boardSize int
	gameType  GameType
	userColor string
	persona   string
}

// NewGameSetup creates a new game setup form. onStart receives the
// assembled configuration and reports whether the start was accepted;
// a rejected start (request already outstanding) leaves the form as-is.
func NewGameSetup(onStart func(controller.Setup) bool, onCancel func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:   onStart,
		boardSize: 19,
		gameType:  GameTypes[0],
		userColor: "B",
		persona:   types.Personas[0],
	}

	boardSizes := []string{"9x9", "13x13", "19x19"}
	colors := []string{"Black (play first)", "White (play second)"}

	typeNames := make([]string, len(GameTypes))
	for i, gt := range GameTypes {
		typeNames[i] = gt.Name
	}

	form := tview.NewForm()

	form.AddDropDown("Board Size", boardSizes, 2, func(option string, index int) {
		switch index {
		case 0:
			setup.boardSize = 9
		case 1:
			setup.boardSize = 13
		case 2:
			setup.boardSize = 19
		}
	})

	form.AddDropDown("Game Type", typeNames, 0, func(option string, index int) {
		setup.gameType = GameTypes[index]
	})

	form.AddDropDown("Your Color", colors, 0, func(option string, index int) {
		if index == 0 {
			setup.userColor = "B"
		} else {
			setup.userColor = "W"
		}
	})

	form.AddDropDown("Bot Persona", types.Personas, 0, func(option string, index int) {
		setup.persona = types.Personas[index]
	})

	form.AddButton("Start Game", func() {
		setup.submit()
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(tcell.ColorDarkCyan)
	form.SetButtonTextColor(tcell.ColorWhite)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(tcell.ColorGray)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// submit hands the assembled configuration to the start callback. While a
// start request is outstanding, further submissions are swallowed.
func (s *GameSetupUI) submit() {
	if s.busy {
		return
	}
	accepted := s.onStart(controller.Setup{
		BoardSize: s.boardSize,
		Komi:      s.gameType.Komi,
		Handicap:  s.gameType.Handicap,
		UserColor: s.userColor,
		Persona:   s.persona,
	})
	if accepted {
		s.SetBusy(true)
	}
}

// SetBusy locks or unlocks the submit button. Driven immediately on an
// accepted submission and from snapshots afterwards, so the form recovers
// when a start request fails.
func (s *GameSetupUI) SetBusy(busy bool) {
	if s.busy == busy {
		return
	}
	s.busy = busy
	label := "Start Game"
	if busy {
		label = "Starting..."
	}
	s.form.GetButton(0).SetLabel(label)
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
