package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katagollum-tui/types"
)

func dbBoard() types.BoardState {
	grid := types.NewGrid(9)
	grid[2][2] = types.Black
	return types.BoardState{
		BoardSize: 9,
		Komi:      5.5,
		UserColor: "B",
		AIColor:   "W",
		GameOver:  true,
		Board:     grid,
		Moves:     []types.Move{{Color: "B", Coordinate: "C7", MoveNumber: 1}},
	}
}

func TestMergePrefersEngineGrid(t *testing.T) {
	db := dbBoard()
	engGrid := types.NewGrid(9)
	engGrid[2][2] = types.Black
	engGrid[6][6] = types.White
	eng := &types.EngineBoard{BoardSize: 9, Board: engGrid}

	merged := Merge(db, eng)

	// Grid and size come from the engine.
	require.Equal(t, engGrid, merged.Board)
	assert.Equal(t, 9, merged.BoardSize)

	// Metadata is carried over from the database board.
	assert.Equal(t, 5.5, merged.Komi)
	assert.Equal(t, "B", merged.UserColor)
	assert.Equal(t, "W", merged.AIColor)
	assert.True(t, merged.GameOver)
	assert.Equal(t, db.Moves, merged.Moves)
}

func TestMergeNilEngineBoard(t *testing.T) {
	db := dbBoard()
	assert.Equal(t, db, Merge(db, nil))
}

func TestMergeInvalidEngineGrid(t *testing.T) {
	db := dbBoard()

	// Empty grid.
	assert.Equal(t, db, Merge(db, &types.EngineBoard{BoardSize: 9}))

	// Ragged grid.
	ragged := types.Grid{{types.Empty, types.Empty}, {types.Empty}}
	assert.Equal(t, db, Merge(db, &types.EngineBoard{BoardSize: 2, Board: ragged}))
}

func TestMergeFillsSizeFromGrid(t *testing.T) {
	db := dbBoard()
	eng := &types.EngineBoard{Board: types.NewGrid(13)}
	merged := Merge(db, eng)
	assert.Equal(t, 13, merged.BoardSize)
}

func TestEngineMovesFirst(t *testing.T) {
	tests := []struct {
		name      string
		handicap  int
		userColor string
		want      bool
	}{
		{"even game, user black", 0, "B", false},
		{"even game, user white", 0, "W", true},
		{"handicap game, user black", 2, "B", true},
		{"handicap game, user white", 2, "W", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EngineMovesFirst(tt.handicap, tt.userColor))
		})
	}
}
