// Package controller owns all mutable session state and sequences the API
// calls a game session needs. UI components render from snapshots and feed
// input back through the exported methods; every network sequence runs on
// its own goroutine and reports back through the registered notify
// callback.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"katagollum-tui/board"
	"katagollum-tui/types"
)

// API is the slice of the api client the controller consumes.
type API interface {
	InitializeGame(ctx context.Context, boardSize int, komi float64, handicap int, userColor, persona string) (*types.Game, error)
	FetchBoard(ctx context.Context, gameID int) (*types.BoardState, error)
	SubmitMove(ctx context.Context, gameID int, coordinate string) (*types.MoveResult, error)
	FetchChat(ctx context.Context, gameID int) ([]types.ChatMessage, error)
	SendChat(ctx context.Context, gameID int, content, role string) (*types.ChatExchange, error)
	RequestFirstMove(ctx context.Context, gameID int) (*types.FirstMove, error)
	FetchEngineBoard(ctx context.Context) *types.EngineBoard
}

// Setup is the configuration collected by the setup form.
type Setup struct {
	BoardSize int
	Komi      float64
	Handicap  int
	UserColor string // "B" or "W"
	Persona   string
}

// ChatEntry is one line of the chat panel. Optimistic entries carry
// Pending=true until the backend confirms or the call fails; confirmation
// replaces the entry in place, keyed by ID.
type ChatEntry struct {
	ID      string
	Role    string // "user" or "assistant"
	Content string
	Pending bool
	At      time.Time
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Game         *types.Game
	Board        *types.BoardState
	Messages     []ChatEntry
	LastMove     string // coordinate highlighted as the most recent stone
	PendingMove  string // ghost stone for the in-flight move
	Hover        string // hovered-but-not-submitted coordinate preview
	Banner       string // user-visible error, empty when none
	ScoreDelta   float64
	Starting     bool
	MoveInFlight bool
	ChatInFlight bool
	Thinking     bool
}

// Busy reports whether any request that should lock out input is in flight.
func (s Snapshot) Busy() bool {
	return s.Starting || s.MoveInFlight || s.ChatInFlight || s.Thinking
}

// Controller is the page controller state machine:
// no game -> awaiting first engine move -> awaiting user move <->
// awaiting bot response -> game over (implicit via Game.GameOver).
type Controller struct {
	mu  sync.Mutex
	api API
	log *zap.SugaredLogger

	notify func()

	game       *types.Game
	board      *types.BoardState
	messages   []ChatEntry
	lastMove   string
	pending    string
	hover      string
	banner     string
	scoreDelta float64

	starting     bool
	moveInFlight bool
	chatInFlight bool
	thinking     bool
}

// New creates a controller over the given API client.
func New(api API, log *zap.SugaredLogger) *Controller {
	return &Controller{api: api, log: log}
}

// OnUpdate registers the callback invoked after every state change. The UI
// wires this through Application.QueueUpdateDraw.
func (c *Controller) OnUpdate(fn func()) {
	c.notify = fn
}

// Snapshot returns a copy of the current state safe to render from.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		LastMove:     c.lastMove,
		PendingMove:  c.pending,
		Hover:        c.hover,
		Banner:       c.banner,
		ScoreDelta:   c.scoreDelta,
		Starting:     c.starting,
		MoveInFlight: c.moveInFlight,
		ChatInFlight: c.chatInFlight,
		Thinking:     c.thinking,
	}
	if c.game != nil {
		game := *c.game
		snap.Game = &game
	}
	if c.board != nil {
		b := *c.board
		b.Board = c.board.Board.Copy()
		snap.Board = &b
	}
	snap.Messages = append([]ChatEntry(nil), c.messages...)
	return snap
}

// Start creates a new game session. Returns false while a start request or
// any other network action is outstanding, so a move still on the wire can
// never resolve against a fresh session.
func (c *Controller) Start(setup Setup) bool {
	c.mu.Lock()
	if c.starting || c.moveInFlight || c.chatInFlight || c.thinking {
		c.mu.Unlock()
		return false
	}
	c.starting = true
	c.mu.Unlock()

	go func() {
		c.start(context.Background(), setup)
		c.changed()
	}()
	return true
}

// SubmitMove sends the user's move. Returns false when the submission is
// rejected by the in-flight guard; a rejected attempt is a no-op, not an
// error.
func (c *Controller) SubmitMove(coordinate string) bool {
	c.mu.Lock()
	if c.game == nil || c.game.GameOver || c.moveInFlight || c.chatInFlight {
		c.mu.Unlock()
		return false
	}
	c.moveInFlight = true
	c.pending = coordinate
	entryID := c.appendEntryLocked(ChatEntry{Role: "user", Content: coordinate, Pending: true})
	c.mu.Unlock()

	c.changed()
	go func() {
		c.submitMove(context.Background(), coordinate, entryID)
		c.changed()
	}()
	return true
}

// SendChat sends a chat message. Returns false while a move or another chat
// send is outstanding.
func (c *Controller) SendChat(content string) bool {
	c.mu.Lock()
	if c.game == nil || c.moveInFlight || c.chatInFlight || c.thinking {
		c.mu.Unlock()
		return false
	}
	c.chatInFlight = true
	c.thinking = true
	entryID := c.appendEntryLocked(ChatEntry{Role: "user", Content: content, Pending: true})
	c.mu.Unlock()

	c.changed()
	go func() {
		c.sendChat(context.Background(), content, entryID)
		c.changed()
	}()
	return true
}

// Hover previews a coordinate under the pointer. Purely cosmetic.
func (c *Controller) Hover(coordinate string) {
	c.mu.Lock()
	changed := c.hover != coordinate
	c.hover = coordinate
	c.mu.Unlock()
	if changed {
		c.changed()
	}
}

// ClearHover cancels the hover preview when the pointer leaves the board.
func (c *Controller) ClearHover() {
	c.Hover("")
}

// DismissBanner clears the current error banner.
func (c *Controller) DismissBanner() {
	c.mu.Lock()
	c.banner = ""
	c.mu.Unlock()
	c.changed()
}

// start runs the game-creation sequence synchronously.
func (c *Controller) start(ctx context.Context, setup Setup) {
	game, err := c.api.InitializeGame(ctx, setup.BoardSize, setup.Komi, setup.Handicap, setup.UserColor, setup.Persona)
	if err != nil {
		// Fatal to the session: stay in "no game".
		c.log.Errorw("game creation failed", "error", err)
		c.mu.Lock()
		c.banner = fmt.Sprintf("Could not start game: %v", err)
		c.starting = false
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.game = game
	c.board = nil
	c.messages = nil
	c.lastMove = ""
	c.pending = ""
	c.hover = ""
	c.banner = ""
	c.scoreDelta = 0
	c.mu.Unlock()

	if board.EngineMovesFirst(setup.Handicap, setup.UserColor) {
		c.requestFirstMove(ctx, game)
	} else {
		c.loadInitialState(ctx, game)
	}

	c.mu.Lock()
	c.starting = false
	c.mu.Unlock()
}

// requestFirstMove shows a transient thinking placeholder, asks the backend
// for the engine's opening move and seeds messages and board from the
// response.
func (c *Controller) requestFirstMove(ctx context.Context, game *types.Game) {
	c.mu.Lock()
	placeholderID := c.appendEntryLocked(ChatEntry{Role: "assistant", Content: "…", Pending: true})
	c.thinking = true
	c.mu.Unlock()
	c.changed()

	first, err := c.api.RequestFirstMove(ctx, game.ID)

	c.mu.Lock()
	c.thinking = false

	if err != nil {
		c.log.Errorw("first move failed", "game", game.ID, "error", err)
		c.removeEntryLocked(placeholderID)
		c.banner = fmt.Sprintf("Engine failed to open: %v", err)
		c.mu.Unlock()
		return
	}

	if first.Message != "" {
		c.replaceEntryLocked(placeholderID, ChatEntry{Role: "assistant", Content: first.Message})
	} else {
		c.removeEntryLocked(placeholderID)
	}
	if first.Move != "" {
		c.lastMove = first.Move
	}

	if first.BoardState != nil && first.BoardState.Board.Valid() {
		c.board = boardFromGame(game, first.BoardState)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// No usable grid in the response, fall back to the database board.
	state, ferr := c.api.FetchBoard(ctx, game.ID)
	if ferr != nil {
		c.log.Errorw("board fetch failed", "game", game.ID, "error", ferr)
		c.setBanner(fmt.Sprintf("Could not load board: %v", ferr))
		return
	}
	c.mu.Lock()
	c.board = state
	c.mu.Unlock()
}

// loadInitialState fetches the authoritative board and chat history when
// the user plays first.
func (c *Controller) loadInitialState(ctx context.Context, game *types.Game) {
	state, err := c.api.FetchBoard(ctx, game.ID)
	if err != nil {
		c.log.Errorw("board fetch failed", "game", game.ID, "error", err)
		c.setBanner(fmt.Sprintf("Could not load board: %v", err))
		return
	}

	history, err := c.api.FetchChat(ctx, game.ID)
	if err != nil {
		c.log.Errorw("chat fetch failed", "game", game.ID, "error", err)
		c.setBanner(fmt.Sprintf("Could not load chat: %v", err))
	}

	c.mu.Lock()
	c.board = state
	for _, msg := range history {
		c.messages = append(c.messages, entryFromMessage(msg))
	}
	c.mu.Unlock()
}

// submitMove runs the turn sequence synchronously: confirm the optimistic
// entry, append the bot reply, mark the newest stone, then refresh the
// board from the engine with a database fallback.
func (c *Controller) submitMove(ctx context.Context, coordinate, entryID string) {
	c.mu.Lock()
	game := c.game
	c.mu.Unlock()

	result, err := c.api.SubmitMove(ctx, game.ID, coordinate)

	c.mu.Lock()
	if err != nil {
		c.log.Errorw("move failed", "game", game.ID, "coordinate", coordinate, "error", err)
		c.removeEntryLocked(entryID)
		c.banner = fmt.Sprintf("Move %s failed: %v", coordinate, err)
		c.pending = ""
		c.moveInFlight = false
		c.mu.Unlock()
		return
	}

	c.confirmEntryLocked(entryID)
	updated := result.Game
	c.game = &updated
	c.scoreDelta = result.ScoreDelta
	if result.AIMove != "" {
		c.lastMove = result.AIMove
	} else {
		// Pass or game over: nothing new from the engine to mark.
		c.lastMove = coordinate
	}
	if result.BotResponse != "" {
		c.appendEntryLocked(ChatEntry{Role: "assistant", Content: result.BotResponse})
	}
	c.pending = ""
	c.mu.Unlock()

	c.refreshBoard(ctx, game.ID)

	c.mu.Lock()
	c.moveInFlight = false
	c.mu.Unlock()
}

// sendChat runs the chat sequence synchronously, mirroring submitMove's
// optimistic append/replace pattern and post-send board refresh.
func (c *Controller) sendChat(ctx context.Context, content, entryID string) {
	c.mu.Lock()
	game := c.game
	c.mu.Unlock()

	exchange, err := c.api.SendChat(ctx, game.ID, content, "user")

	c.mu.Lock()
	if err != nil {
		c.log.Errorw("chat send failed", "game", game.ID, "error", err)
		c.removeEntryLocked(entryID)
		c.banner = fmt.Sprintf("Message failed: %v", err)
		c.chatInFlight = false
		c.thinking = false
		c.mu.Unlock()
		return
	}

	c.replaceEntryLocked(entryID, entryFromMessage(exchange.UserMessage))
	c.appendEntryLocked(entryFromMessage(exchange.BotMessage))
	c.mu.Unlock()

	c.refreshBoard(ctx, game.ID)

	c.mu.Lock()
	c.chatInFlight = false
	c.thinking = false
	c.mu.Unlock()
}

// refreshBoard prefers the engine's live grid merged with the prior
// board's metadata; when the engine yields nothing usable the board is
// replaced wholesale by a fresh authoritative fetch.
func (c *Controller) refreshBoard(ctx context.Context, gameID int) {
	eng := c.api.FetchEngineBoard(ctx)

	c.mu.Lock()
	prior := c.board
	c.mu.Unlock()

	if eng != nil && prior != nil {
		merged := board.Merge(*prior, eng)
		c.mu.Lock()
		c.board = &merged
		c.mu.Unlock()
		return
	}

	state, err := c.api.FetchBoard(ctx, gameID)
	if err != nil {
		c.log.Errorw("board refresh failed", "game", gameID, "error", err)
		c.setBanner(fmt.Sprintf("Could not refresh board: %v", err))
		return
	}
	c.mu.Lock()
	c.board = state
	c.mu.Unlock()
}

func (c *Controller) setBanner(text string) {
	c.mu.Lock()
	c.banner = text
	c.mu.Unlock()
}

// changed invokes the notify callback, if registered.
func (c *Controller) changed() {
	if c.notify != nil {
		c.notify()
	}
}

// appendEntryLocked adds an entry with a fresh identifier and returns it.
func (c *Controller) appendEntryLocked(entry ChatEntry) string {
	entry.ID = uuid.NewString()
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	c.messages = append(c.messages, entry)
	return entry.ID
}

// replaceEntryLocked swaps the entry with the given identifier for the
// confirmed one, keeping its position in the list.
func (c *Controller) replaceEntryLocked(id string, entry ChatEntry) {
	for i := range c.messages {
		if c.messages[i].ID == id {
			if entry.ID == "" {
				entry.ID = id
			}
			if entry.At.IsZero() {
				entry.At = c.messages[i].At
			}
			c.messages[i] = entry
			return
		}
	}
}

// confirmEntryLocked clears the pending flag on the entry with the given
// identifier.
func (c *Controller) confirmEntryLocked(id string) {
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Pending = false
			return
		}
	}
}

// removeEntryLocked rolls back an optimistic entry.
func (c *Controller) removeEntryLocked(id string) {
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return
		}
	}
}

// entryFromMessage converts a persisted backend message to a chat entry.
func entryFromMessage(msg types.ChatMessage) ChatEntry {
	return ChatEntry{
		ID:      uuid.NewString(),
		Role:    msg.Role,
		Content: msg.Content,
		At:      msg.CreatedAt,
	}
}

// boardFromGame builds a board state from an engine grid plus the session
// metadata of the game descriptor.
func boardFromGame(game *types.Game, eng *types.EngineBoard) *types.BoardState {
	merged := board.Merge(types.BoardState{
		BoardSize: game.BoardSize,
		Komi:      game.Komi,
		UserColor: game.UserColor,
		AIColor:   game.AIColor,
		GameOver:  game.GameOver,
	}, eng)
	return &merged
}
