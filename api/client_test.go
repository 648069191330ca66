package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"katagollum-tui/types"
)

func newTestClient(backend, engine *httptest.Server) *Client {
	baseURL, engineURL := "http://127.0.0.1:0", "http://127.0.0.1:0"
	if backend != nil {
		baseURL = backend.URL
	}
	if engine != nil {
		engineURL = engine.URL
	}
	return New(baseURL, engineURL, zap.NewNop().Sugar())
}

func TestInitializeGame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/initialize/", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 7, "board_size": 13, "komi": 7.5, "handicap": 0,
			"user_color": "B", "ai_color": "W", "game_over": false, "persona": "sarcastic",
			"created_at": "2026-01-05T10:00:00Z", "updated_at": "2026-01-05T10:00:00Z"}`))
	}))
	defer srv.Close()

	game, err := newTestClient(srv, nil).InitializeGame(context.Background(), 13, 7.5, 0, "B", "sarcastic")
	require.NoError(t, err)
	assert.Equal(t, 7, game.ID)
	assert.Equal(t, 13, game.BoardSize)
	assert.Equal(t, "W", game.AIColor)
	assert.Equal(t, "sarcastic", game.Persona)
}

func TestFetchBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/games/7/board/", r.URL.Path)
		w.Write([]byte(`{"board_size": 3, "komi": 6.5, "user_color": "B", "ai_color": "W",
			"game_over": false,
			"board": [[".", "B", "."], [".", ".", "."], ["W", ".", "."]],
			"moves": [{"id": 1, "color": "B", "coordinate": "B3", "move_number": 1,
				"created_at": "2026-01-05T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	state, err := newTestClient(srv, nil).FetchBoard(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, types.Black, state.Board[0][1])
	assert.Equal(t, types.White, state.Board[2][0])
	assert.Len(t, state.Moves, 1)
	assert.Equal(t, "B3", state.Moves[0].Coordinate)
}

func TestSubmitMove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/games/7/submit_move/", r.URL.Path)
		w.Write([]byte(`{"game": {"id": 7, "board_size": 19, "game_over": false,
			"created_at": "2026-01-05T10:00:00Z", "updated_at": "2026-01-05T10:01:00Z"},
			"user_move": "Q16", "ai_move": "D4", "score_delta": -1.2,
			"bot_response": "Bold choice. Wrong, but bold."}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv, nil).SubmitMove(context.Background(), 7, "Q16")
	require.NoError(t, err)
	assert.Equal(t, "Q16", result.UserMove)
	assert.Equal(t, "D4", result.AIMove)
	assert.InDelta(t, -1.2, result.ScoreDelta, 1e-9)
	assert.Contains(t, result.BotResponse, "Bold")
}

func TestSendChatFailsOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "game not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, nil).SendChat(context.Background(), 99, "hi", "user")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindStatus, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestFetchChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("game_id"))
		w.Write([]byte(`[{"id": 1, "game": 7, "role": "user", "content": "Q16",
			"created_at": "2026-01-05T10:00:00Z"},
			{"id": 2, "game": 7, "role": "assistant", "content": "Seen it before.",
			"created_at": "2026-01-05T10:00:05Z"}]`))
	}))
	defer srv.Close()

	messages, err := newTestClient(srv, nil).FetchChat(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestRequestFirstMove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/games/7/first_move/", r.URL.Path)
		w.Write([]byte(`{"move": "Q16", "color": "B", "message": "Watch and learn.",
			"board_state": {"board_size": 2, "board": [[".", "B"], [".", "."]]}}`))
	}))
	defer srv.Close()

	first, err := newTestClient(srv, nil).RequestFirstMove(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Q16", first.Move)
	require.NotNil(t, first.BoardState)
	assert.Equal(t, types.Black, first.BoardState.Board[0][1])
}

func TestTransportErrorKind(t *testing.T) {
	// Nothing is listening on the zero port.
	_, err := newTestClient(nil, nil).FetchBoard(context.Background(), 1)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindTransport, apiErr.Kind)
}

func TestMalformedPayloadKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"board_size": "not a number"`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, nil).FetchBoard(context.Background(), 1)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindPayload, apiErr.Kind)
}

func TestFetchEngineBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/board_state", r.URL.Path)
		w.Write([]byte(`{"result": {"board_size": 2, "board": [["B", "."], [".", "W"]]}}`))
	}))
	defer srv.Close()

	eng := newTestClient(nil, srv).FetchEngineBoard(context.Background())
	require.NotNil(t, eng)
	assert.Equal(t, 2, eng.BoardSize)
	assert.Equal(t, types.Black, eng.Board[0][0])
	assert.Equal(t, types.White, eng.Board[1][1])
}

func TestFetchEngineBoardUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-success status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}},
		{"missing result envelope", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "initializing"}`))
		}},
		{"empty grid", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result": {"board_size": 19, "board": []}}`))
		}},
		{"ragged grid", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result": {"board_size": 2, "board": [[".", "."], ["."]]}}`))
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			assert.Nil(t, newTestClient(nil, srv).FetchEngineBoard(context.Background()))
		})
	}
}

func TestFetchEngineBoardTransportError(t *testing.T) {
	assert.Nil(t, newTestClient(nil, nil).FetchEngineBoard(context.Background()))
}
