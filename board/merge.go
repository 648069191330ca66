package board

import "katagollum-tui/types"

// Merge reconciles the authoritative database board with a live engine
// board. The engine is the truth for stone placement, the database for
// session metadata: the engine's grid and size win, while komi, colors,
// the game-over flag and the move list are carried over from db.
// A nil or unusable engine board returns db unchanged.
func Merge(db types.BoardState, eng *types.EngineBoard) types.BoardState {
	if eng == nil || !eng.Board.Valid() {
		return db
	}
	merged := db
	merged.Board = eng.Board
	merged.BoardSize = eng.BoardSize
	if merged.BoardSize == 0 {
		merged.BoardSize = eng.Board.Height()
	}
	return merged
}

// EngineMovesFirst reports whether game setup requires the engine to play
// the opening move: an even game where the user took White, or a handicap
// game where the user took Black (White answers the handicap stones).
func EngineMovesFirst(handicap int, userColor string) bool {
	return (handicap == 0 && userColor == "W") || (handicap > 0 && userColor == "B")
}
