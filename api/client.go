// Package api wraps the katagollum backend REST endpoints and the engine
// status endpoint. The client is stateless: no retries, no caching, no
// request deduplication.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"katagollum-tui/types"
)

// engineTimeout bounds the engine status fetch; the backend calls are left
// to the default client behavior.
const engineTimeout = 10 * time.Second

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport is a network-level failure (dial, timeout, broken pipe).
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx HTTP response.
	KindStatus
	// KindPayload is a malformed or unexpected response body.
	KindPayload
)

// Error is the discriminated failure every backend operation returns.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	case KindPayload:
		return fmt.Sprintf("%s: bad response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client talks to the two configured bases.
type Client struct {
	baseURL   string
	engineURL string
	http      *http.Client
	engine    *http.Client
	log       *zap.SugaredLogger
}

// New creates a client for the given backend and engine base URLs.
func New(baseURL, engineURL string, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:   baseURL,
		engineURL: engineURL,
		http:      &http.Client{},
		engine:    &http.Client{Timeout: engineTimeout},
		log:       log,
	}
}

// InitializeGame creates a new game session.
func (c *Client) InitializeGame(ctx context.Context, boardSize int, komi float64, handicap int, userColor, persona string) (*types.Game, error) {
	body := map[string]interface{}{
		"board_size": boardSize,
		"komi":       komi,
		"handicap":   handicap,
		"user_color": userColor,
		"persona":    persona,
	}
	var game types.Game
	if err := c.do(ctx, "initialize game", http.MethodPost, c.baseURL+"/initialize/", body, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// FetchBoard returns the authoritative database board. Used for the initial
// load and as fallback when the engine status endpoint is unreachable.
func (c *Client) FetchBoard(ctx context.Context, gameID int) (*types.BoardState, error) {
	var state types.BoardState
	u := fmt.Sprintf("%s/games/%d/board/", c.baseURL, gameID)
	if err := c.do(ctx, "fetch board", http.MethodGet, u, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SubmitMove posts the user's move and returns the engine/LLM response
// bundle for the turn.
func (c *Client) SubmitMove(ctx context.Context, gameID int, coordinate string) (*types.MoveResult, error) {
	var result types.MoveResult
	u := fmt.Sprintf("%s/games/%d/submit_move/", c.baseURL, gameID)
	body := map[string]string{"coordinate": coordinate}
	if err := c.do(ctx, "submit move", http.MethodPost, u, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchChat returns the ordered chat history for a game.
func (c *Client) FetchChat(ctx context.Context, gameID int) ([]types.ChatMessage, error) {
	var messages []types.ChatMessage
	u := fmt.Sprintf("%s/chat/?game_id=%d", c.baseURL, gameID)
	if err := c.do(ctx, "fetch chat", http.MethodGet, u, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendChat posts a chat message and returns the persisted user message
// together with the assistant's reply.
func (c *Client) SendChat(ctx context.Context, gameID int, content, role string) (*types.ChatExchange, error) {
	var exchange types.ChatExchange
	body := map[string]interface{}{
		"game_id": gameID,
		"content": content,
		"role":    role,
	}
	if err := c.do(ctx, "send chat", http.MethodPost, c.baseURL+"/chat/send_message/", body, &exchange); err != nil {
		return nil, err
	}
	return &exchange, nil
}

// RequestFirstMove asks the backend for the engine's opening move. Invoked
// only when game setup determines the engine plays first.
func (c *Client) RequestFirstMove(ctx context.Context, gameID int) (*types.FirstMove, error) {
	var first types.FirstMove
	u := fmt.Sprintf("%s/games/%d/first_move/", c.baseURL, gameID)
	if err := c.do(ctx, "request first move", http.MethodPost, u, struct{}{}, &first); err != nil {
		return nil, err
	}
	return &first, nil
}

// FetchEngineBoard queries the engine's live board. A nil result means
// "engine not ready" and is a normal outcome, not a fault: transport
// errors, non-2xx statuses, a missing result envelope and malformed grids
// are all folded into it. Callers fall back to FetchBoard.
func (c *Client) FetchEngineBoard(ctx context.Context) *types.EngineBoard {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.engineURL+"/board_state", nil)
	if err != nil {
		c.log.Debugw("engine board request build failed", "error", err)
		return nil
	}

	resp, err := c.engine.Do(req)
	if err != nil {
		c.log.Debugw("engine board unreachable", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debugw("engine board status", "status", resp.StatusCode)
		return nil
	}

	var envelope struct {
		Result *types.EngineBoard `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.log.Debugw("engine board decode failed", "error", err)
		return nil
	}
	if envelope.Result == nil || !envelope.Result.Board.Valid() {
		c.log.Debugw("engine board not ready")
		return nil
	}
	if envelope.Result.BoardSize == 0 {
		envelope.Result.BoardSize = envelope.Result.Board.Height()
	}
	return envelope.Result
}

// do performs one request/response round trip, decoding a JSON body into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, u string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindPayload, Op: op, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugw("request failed", "op", op, "error", err)
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debugw("unexpected status", "op", op, "status", resp.StatusCode)
		return &Error{Kind: KindStatus, Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindPayload, Op: op, Err: err}
	}
	return nil
}
