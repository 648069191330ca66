// Package types contains the shared data structures exchanged with the
// katagollum backend and the engine status endpoint.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Cell is a single board intersection. 0=empty, 1=black, 2=white, matching
// the backend's ".", "B", "W" wire encoding.
type Cell int

const (
	Empty Cell = iota
	Black
	White
)

// UnmarshalJSON decodes a single-character cell mark.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case ".", "":
		*c = Empty
	case "B", "b":
		*c = Black
	case "W", "w":
		*c = White
	default:
		return fmt.Errorf("invalid cell mark %q", s)
	}
	return nil
}

// MarshalJSON encodes the cell back to its wire mark.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c {
	case Black:
		return json.Marshal("B")
	case White:
		return json.Marshal("W")
	default:
		return json.Marshal(".")
	}
}

// Grid is a board matrix indexed as Grid[row][col], row 0 at the top.
type Grid [][]Cell

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Width returns the number of columns.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Valid reports whether the grid is non-empty and square.
func (g Grid) Valid() bool {
	if len(g) == 0 {
		return false
	}
	for _, row := range g {
		if len(row) != len(g) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the grid.
func (g Grid) Copy() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]Cell, len(row))
		copy(out[i], row)
	}
	return out
}

// NewGrid creates an empty size x size grid.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for i := range g {
		g[i] = make([]Cell, size)
	}
	return g
}

// Game is the session descriptor created by POST /initialize/. Immutable
// after creation except for GameOver.
type Game struct {
	ID        int       `json:"id"`
	BoardSize int       `json:"board_size"`
	Komi      float64   `json:"komi"`
	Handicap  int       `json:"handicap"`
	UserColor string    `json:"user_color"` // "B" or "W"
	AIColor   string    `json:"ai_color"`
	GameOver  bool      `json:"game_over"`
	Persona   string    `json:"persona"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Moves     []Move    `json:"moves,omitempty"`
}

// Move is a single placed stone as persisted by the backend. Coordinate is
// letter+number text ("Q16"), letters skipping I.
type Move struct {
	ID         int       `json:"id"`
	Color      string    `json:"color"`
	Coordinate string    `json:"coordinate"`
	MoveNumber int       `json:"move_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// BoardState is the authoritative database board from GET /games/{id}/board/.
// It is replaced wholesale on every fetch, never diffed in place.
type BoardState struct {
	BoardSize int     `json:"board_size"`
	Komi      float64 `json:"komi"`
	UserColor string  `json:"user_color"`
	AIColor   string  `json:"ai_color"`
	GameOver  bool    `json:"game_over"`
	Board     Grid    `json:"board"`
	Moves     []Move  `json:"moves"`
}

// EngineBoard is the live board grid reported directly by the engine
// process, independent of the database's BoardState.
type EngineBoard struct {
	BoardSize int  `json:"board_size"`
	Board     Grid `json:"board"`
}

// ChatMessage is one persisted chat entry.
type ChatMessage struct {
	ID        int       `json:"id"`
	GameID    int       `json:"game"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MoveResult is the bundle returned by POST /games/{id}/submit_move/:
// one user move triggers one engine/LLM response.
type MoveResult struct {
	Game        Game    `json:"game"`
	UserMove    string  `json:"user_move"`
	AIMove      string  `json:"ai_move"`
	ScoreDelta  float64 `json:"score_delta"`
	BotResponse string  `json:"bot_response"`
}

// ChatExchange is the pair returned by POST /chat/send_message/.
type ChatExchange struct {
	UserMessage ChatMessage `json:"user_message"`
	BotMessage  ChatMessage `json:"bot_message"`
}

// FirstMove is the response of POST /games/{id}/first_move/. Move is empty
// when the game setup has the user playing first.
type FirstMove struct {
	Move       string       `json:"move"`
	Color      string       `json:"color"`
	Message    string       `json:"message"`
	BoardState *EngineBoard `json:"board_state"`
}

// Personas lists the behavioral profiles the backend accepts.
var Personas = []string{"arrogant", "sarcastic", "encouraging", "chill", "competitive"}
