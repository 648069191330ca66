package sgf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katagollum-tui/types"
)

func TestEncodeEvenGame(t *testing.T) {
	rec := Record{
		BoardSize:   19,
		Komi:        7.5,
		PlayerBlack: "Player",
		PlayerWhite: "KataGo (sarcastic)",
		Date:        time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		Moves: []types.Move{
			{Color: "B", Coordinate: "Q16", MoveNumber: 1},
			{Color: "W", Coordinate: "D4", MoveNumber: 2},
			{Color: "B", Coordinate: "pass", MoveNumber: 3},
		},
	}

	out := rec.Encode()

	assert.Contains(t, out, "(;GM[1]FF[4]CA[UTF-8]")
	assert.Contains(t, out, "SZ[19]")
	assert.Contains(t, out, "KM[7.5]")
	assert.Contains(t, out, "PB[Player]")
	assert.Contains(t, out, "PW[KataGo (sarcastic)]")
	assert.Contains(t, out, "DT[2026-01-05]")
	assert.NotContains(t, out, "HA[")

	// Q16 is the upper-right hoshi: column p, row d.
	assert.Contains(t, out, ";B[pd]")
	assert.Contains(t, out, ";W[dp]")
	assert.Contains(t, out, ";B[]")
}

func TestEncodeHandicapSetupStones(t *testing.T) {
	grid := types.NewGrid(9)
	grid[2][2] = types.Black // handicap stone, not in the move list
	grid[6][6] = types.Black // handicap stone
	grid[4][4] = types.White // engine move, in the move list

	rec := Record{
		BoardSize: 9,
		Komi:      0.5,
		Handicap:  2,
		Moves: []types.Move{
			{Color: "W", Coordinate: "E5", MoveNumber: 1},
		},
		Grid: grid,
	}

	out := rec.Encode()

	assert.Contains(t, out, "HA[2]")
	assert.Contains(t, out, ";AB[cc][gg]")
	assert.Contains(t, out, ";W[ee]")
}

func TestEncodeSkipsMalformedCoordinates(t *testing.T) {
	rec := Record{
		BoardSize: 9,
		Moves: []types.Move{
			{Color: "B", Coordinate: "ZZ99", MoveNumber: 1},
			{Color: "W", Coordinate: "C3", MoveNumber: 2},
		},
	}

	out := rec.Encode()
	assert.NotContains(t, out, "ZZ99")
	assert.Contains(t, out, ";W[cg]")
}

func TestFromBoardState(t *testing.T) {
	game := &types.Game{
		UserColor: "W",
		Persona:   "arrogant",
		Handicap:  0,
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	state := &types.BoardState{
		BoardSize: 13,
		Komi:      6.5,
		Moves:     []types.Move{{Color: "B", Coordinate: "D4"}},
	}

	rec := FromBoardState(game, state, "")
	assert.Equal(t, "KataGo (arrogant)", rec.PlayerBlack)
	assert.Equal(t, "Player", rec.PlayerWhite)
	assert.Equal(t, 13, rec.BoardSize)
	assert.Len(t, rec.Moves, 1)
	// Result stays unset while the game is running.
	assert.Equal(t, "", rec.Result)
	assert.NotContains(t, rec.Encode(), "RE[")
}

func TestFromBoardStateFinishedGame(t *testing.T) {
	game := &types.Game{UserColor: "B", Persona: "chill", GameOver: true}
	state := &types.BoardState{BoardSize: 9, Komi: 5.5, GameOver: true}

	rec := FromBoardState(game, state, "White wins by 12.5 points")
	assert.Equal(t, "W+12.5", rec.Result)
	assert.Contains(t, rec.Encode(), "RE[W+12.5]")

	// Game over without recognizable outcome text records an unknown result.
	rec = FromBoardState(game, state, "")
	assert.Equal(t, "?", rec.Result)
	assert.Contains(t, rec.Encode(), "RE[?]")
}

func TestParseResult(t *testing.T) {
	cases := []struct {
		outcome string
		want    string
	}{
		{"W+5.5", "W+5.5"},
		{"B+R", "B+R"},
		{"White wins by 5.5 points", "W+5.5"},
		{"Black wins by 0.5 points", "B+0.5"},
		{"Black wins by resignation", "B+R"},
		{"White wins by resign", "W+R"},
		{"white wins by time", "W+T"},
		{"Black wins by forfeit", "B+F"},
		{"White wins", "W+?"},
		{"Draw", "Draw"},
		{"jigo", "0"},
		{"good game!", "?"},
		{"", "?"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseResult(tc.outcome), "outcome %q", tc.outcome)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "records")
	rec := Record{BoardSize: 9, Komi: 5.5, PlayerBlack: "Player", PlayerWhite: "KataGo (chill)"}

	path, err := Write(dir, rec)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SZ[9]")
}
