// Package sgf writes finished or in-progress games as SGF FF[4] records.
package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"katagollum-tui/board"
	"katagollum-tui/types"
)

// Record is everything needed to encode one game.
type Record struct {
	BoardSize   int
	Komi        float64
	Handicap    int
	PlayerBlack string
	PlayerWhite string
	Date        time.Time
	Result      string
	Moves       []types.Move
	// Grid, when non-nil, is scanned for handicap placements that are not
	// explained by the move list (the engine places them server-side).
	Grid types.Grid
}

// FromBoardState builds a record from the session descriptor and the
// current board. outcome is free-form result text (empty when unknown); it
// only produces an RE property once the game is over.
func FromBoardState(game *types.Game, state *types.BoardState, outcome string) Record {
	human := "Player"
	engine := fmt.Sprintf("KataGo (%s)", game.Persona)

	pb, pw := human, engine
	if game.UserColor == "W" {
		pb, pw = engine, human
	}

	var result string
	if game.GameOver {
		result = ParseResult(outcome)
	}

	return Record{
		BoardSize:   state.BoardSize,
		Komi:        state.Komi,
		Handicap:    game.Handicap,
		PlayerBlack: pb,
		PlayerWhite: pw,
		Date:        game.CreatedAt,
		Result:      result,
		Moves:       state.Moves,
		Grid:        state.Board,
	}
}

// ParseResult normalizes an outcome into an SGF RE value. Accepts values
// already in SGF form ("W+5.5", "B+R") and prose like "White wins by 5.5
// points" or "Black wins by resignation". Unrecognizable text becomes "?".
func ParseResult(outcome string) string {
	o := strings.TrimSpace(outcome)
	if isResultValue(o) {
		return o
	}

	low := strings.ToLower(o)

	var winner string
	switch {
	case strings.HasPrefix(low, "white wins"):
		winner = "W"
	case strings.HasPrefix(low, "black wins"):
		winner = "B"
	case strings.HasPrefix(low, "draw"), low == "jigo":
		return "0"
	default:
		return "?"
	}

	idx := strings.Index(low, " by ")
	if idx == -1 {
		return winner + "+?"
	}
	rest := strings.TrimSpace(low[idx+4:])
	switch {
	case strings.HasPrefix(rest, "resign"):
		return winner + "+R"
	case strings.HasPrefix(rest, "time"):
		return winner + "+T"
	case strings.HasPrefix(rest, "forfeit"):
		return winner + "+F"
	}

	if fields := strings.Fields(rest); len(fields) > 0 {
		if pts, err := strconv.ParseFloat(fields[0], 64); err == nil {
			return fmt.Sprintf("%s+%.1f", winner, pts)
		}
	}
	return winner + "+?"
}

// isResultValue reports whether s already is a legal RE property value.
func isResultValue(s string) bool {
	switch s {
	case "0", "Draw", "Void", "?":
		return true
	}
	if len(s) < 3 || (s[0] != 'B' && s[0] != 'W') || s[1] != '+' {
		return false
	}
	rest := s[2:]
	switch rest {
	case "R", "Resign", "T", "Time", "F", "Forfeit", "?":
		return true
	}
	_, err := strconv.ParseFloat(rest, 64)
	return err == nil
}

// Write encodes the record into dir, one timestamped file per game, and
// returns the file path.
func Write(dir string, rec Record) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create sgf dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%dx%d.sgf", time.Now().Format("2006-01-02_150405"), rec.BoardSize, rec.BoardSize)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(rec.Encode()), 0644); err != nil {
		return "", fmt.Errorf("write sgf file: %w", err)
	}
	return path, nil
}

// Encode renders the complete SGF text.
func (r Record) Encode() string {
	var b strings.Builder

	b.WriteString("(;GM[1]FF[4]CA[UTF-8]")
	b.WriteString("AP[katagollum-tui:1.0]")
	b.WriteString(fmt.Sprintf("SZ[%d]", r.BoardSize))
	b.WriteString(fmt.Sprintf("KM[%.1f]", r.Komi))
	if r.Handicap > 0 {
		b.WriteString(fmt.Sprintf("HA[%d]", r.Handicap))
	}
	b.WriteString(fmt.Sprintf("PB[%s]", escapeText(r.PlayerBlack)))
	b.WriteString(fmt.Sprintf("PW[%s]", escapeText(r.PlayerWhite)))
	date := r.Date
	if date.IsZero() {
		date = time.Now()
	}
	b.WriteString(fmt.Sprintf("DT[%s]", date.Format("2006-01-02")))
	if r.Result != "" {
		b.WriteString(fmt.Sprintf("RE[%s]", r.Result))
	}
	b.WriteString("\n")

	if setup := r.setupStones(); len(setup) > 0 {
		b.WriteString(";AB")
		for _, c := range setup {
			b.WriteString(fmt.Sprintf("[%s]", c))
		}
		b.WriteString("\n")
	}

	for _, m := range r.Moves {
		color := "B"
		if strings.EqualFold(m.Color, "W") {
			color = "W"
		}
		if strings.EqualFold(m.Coordinate, "pass") || m.Coordinate == "" {
			b.WriteString(fmt.Sprintf(";%s[]", color))
			continue
		}
		coord, err := coordToSGF(m.Coordinate, r.BoardSize)
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf(";%s[%s]", color, coord))
	}

	b.WriteString(")\n")
	return b.String()
}

// setupStones finds black stones on the grid that no move accounts for.
// Only meaningful in handicap games, where the engine placed the stones
// before the first recorded move.
func (r Record) setupStones() []string {
	if r.Handicap == 0 || r.Grid == nil {
		return nil
	}

	played := make(map[string]bool, len(r.Moves))
	for _, m := range r.Moves {
		played[strings.ToUpper(m.Coordinate)] = true
	}

	var setup []string
	for row := range r.Grid {
		for col, cell := range r.Grid[row] {
			if cell != types.Black {
				continue
			}
			if played[board.FormatCoord(row, col, r.BoardSize)] {
				continue
			}
			setup = append(setup, sgfCoord(row, col))
		}
	}
	return setup
}

// sgfCoord converts 0-indexed board coordinates to an SGF letter pair.
// (row 0, col 0) -> "aa", Q16 on 19x19 (row 3, col 15) -> "pd".
func sgfCoord(row, col int) string {
	return string(rune('a'+col)) + string(rune('a'+row))
}

// coordToSGF converts letter+number notation to an SGF letter pair.
func coordToSGF(coordinate string, size int) (string, error) {
	row, col, err := board.ParseCoord(coordinate, size)
	if err != nil {
		return "", err
	}
	return sgfCoord(row, col), nil
}

// escapeText escapes the SGF text property delimiters.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "]", "\\]")
}
