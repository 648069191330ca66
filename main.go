// katagollum-tui is a terminal client for the katagollum backend: play Go
// against KataGo while an LLM persona talks trash at you.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rivo/tview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"katagollum-tui/api"
	"katagollum-tui/config"
	"katagollum-tui/controller"
	"katagollum-tui/sgf"
	"katagollum-tui/types"
	"katagollum-tui/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagBoardSize  = flag.Int("boardsize", 0, "Board size (9, 13, or 19)")
	flagColor      = flag.String("color", "", "Player color (black or white)")
	flagKomi       = flag.Float64("komi", -1, "Komi value")
	flagHandicap   = flag.Int("handicap", 0, "Handicap stones (0 or 2-9)")
	flagPersona    = flag.String("persona", "", "Bot persona (arrogant, sarcastic, encouraging, chill, competitive)")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.GoBoardUI
var infoPanel *ui.GameInfoPanel
var chatPanel *ui.ChatPanel
var setupUI *ui.GameSetupUI
var gameHint *tview.TextView
var ctrl *controller.Controller
var cfg *config.Config
var log *zap.SugaredLogger

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("katagollum-tui %s\n", Version)
		return
	}

	// Optional .env next to the binary's working dir; the environment wins.
	_ = godotenv.Load()

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %s\n", err)
		os.Exit(1)
	}

	var closeLog func()
	log, closeLog, err = initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %s\n", err)
		os.Exit(1)
	}
	defer closeLog()

	log.Infow("starting", "version", Version,
		"api", cfg.Endpoints.BaseURL, "engine", cfg.Endpoints.EngineURL)

	client := api.New(cfg.Endpoints.BaseURL, cfg.Endpoints.EngineURL, log)
	ctrl = controller.New(client, log)

	quickStart := *flagQuickStart || *flagBoardSize > 0 || *flagColor != "" ||
		*flagKomi >= 0 || *flagHandicap > 0 || *flagPersona != ""

	app = tview.NewApplication()
	app.EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ katagollum ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameBoard = ui.NewGoBoard(ctrl, cfg, gameHint)
	infoPanel = ui.NewGameInfoPanel(ctrl)
	chatPanel = ui.NewChatPanel(ctrl)

	gameFrame := ui.CreateGameLayout(gameBoard, infoPanel, chatPanel, gameHint)

	// Every controller state change re-renders the game view. The goroutine
	// hop avoids deadlocking when the change originates from an input
	// handler on the event loop.
	ctrl.OnUpdate(func() {
		go app.QueueUpdateDraw(refreshAll)
	})

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedCoord() != "" {
				gameBoard.ResetSelection()
			} else {
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyDown:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			gameBoard.PlaySelected()
		case tcell.KeyTab:
			app.SetFocus(chatPanel.Input())
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(-1, 0)
			case 'j':
				gameBoard.MoveSelection(0, 1)
			case 'k':
				gameBoard.MoveSelection(0, -1)
			case 'l':
				gameBoard.MoveSelection(1, 0)
			case 's':
				saveGameRecord()
			case 'b':
				ctrl.DismissBanner()
			}
		}
		return event
	})

	chatPanel.Input().SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Key() == tcell.KeyTab {
			app.SetFocus(gameBoard.Box)
			return nil
		}
		return event
	})

	// Game setup screen
	setupUI = ui.NewGameSetup(
		func(setup controller.Setup) bool {
			return startGame(setup)
		},
		func() {
			app.Stop()
		},
	)

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 60), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)

	// Typing indicator animation
	go func() {
		ticker := time.NewTicker(300 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if !ctrl.Snapshot().Thinking {
				continue
			}
			app.QueueUpdateDraw(func() {
				chatPanel.AdvanceTyping()
				chatPanel.Refresh()
			})
		}
	}()

	if quickStart {
		startGame(setupFromFlags())
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Errorw("application stopped", "error", err)
		closeLog()
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func refreshAll() {
	gameBoard.Refresh()
	infoPanel.Refresh()
	chatPanel.Refresh()
	setupUI.SetBusy(ctrl.Snapshot().Starting)
}

// startGame kicks off game creation and shows the game view.
func startGame(setup controller.Setup) bool {
	if !ctrl.Start(setup) {
		return false
	}
	log.Infow("game requested", "size", setup.BoardSize, "komi", setup.Komi,
		"handicap", setup.Handicap, "color", setup.UserColor, "persona", setup.Persona)
	rootPage.SwitchToPage("gameview")
	app.SetFocus(gameBoard.Box)
	return true
}

// saveGameRecord writes the current game as SGF and reports the location.
func saveGameRecord() {
	snap := ctrl.Snapshot()
	if snap.Game == nil || snap.Board == nil {
		return
	}

	dir := cfg.SGFDir
	if dir == "" {
		dir = filepath.Join(xdg.DataHome, "katagollum-tui")
	}

	// The backend reports game over as a flag only; when the bot announced
	// the outcome in chat, recover the result from there.
	var outcome string
	if snap.Game.GameOver {
		for i := len(snap.Messages) - 1; i >= 0; i-- {
			m := snap.Messages[i]
			if m.Role == "assistant" && sgf.ParseResult(m.Content) != "?" {
				outcome = m.Content
				break
			}
		}
	}

	path, err := sgf.Write(dir, sgf.FromBoardState(snap.Game, snap.Board, outcome))

	text := fmt.Sprintf("Game record saved to\n%s", path)
	if err != nil {
		log.Errorw("sgf save failed", "error", err)
		text = fmt.Sprintf("Could not save game record:\n%s", err)
	}

	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("saved")
			app.SetFocus(gameBoard.Box)
		})
	rootPage.AddPage("saved", modal, true, true)
}

// setupFromFlags creates a game setup from command-line flags, starting
// from the default preset.
func setupFromFlags() controller.Setup {
	setup := controller.Setup{
		BoardSize: 19,
		Komi:      7.5,
		Handicap:  0,
		UserColor: "B",
		Persona:   types.Personas[0],
	}

	if *flagBoardSize == 9 || *flagBoardSize == 13 || *flagBoardSize == 19 {
		setup.BoardSize = *flagBoardSize
	}

	if *flagColor == "black" || *flagColor == "b" {
		setup.UserColor = "B"
	} else if *flagColor == "white" || *flagColor == "w" {
		setup.UserColor = "W"
	}

	if *flagHandicap >= 2 && *flagHandicap <= 9 {
		setup.Handicap = *flagHandicap
		setup.Komi = 0.5
	}

	if *flagKomi >= 0 {
		setup.Komi = *flagKomi
	}

	for _, p := range types.Personas {
		if *flagPersona == p {
			setup.Persona = p
		}
	}

	return setup
}

// initLogger opens the debug log file. A TUI owns the terminal, so nothing
// may write to stdout or stderr while the application runs.
func initLogger(level string) (*zap.SugaredLogger, func(), error) {
	path, err := config.LogFilePath()
	if err != nil {
		return nil, nil, err
	}

	lvl := zapcore.InfoLevel
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.OutputPaths = []string{path}
	zapCfg.ErrorOutputPaths = []string{path}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return logger.Sugar(), func() { _ = logger.Sync() }, nil
}
