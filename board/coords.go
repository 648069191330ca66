// Package board holds the pure coordinate and board-reconciliation logic
// shared by the controller and the renderer.
package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Backend coordinate system:
// - Columns: A-T (skipping I to avoid confusion with 1)
// - Rows: 1-19 (from the bottom of the board)
// - Example: D4, Q16, K10
//
// Grid coordinate system:
// - col: 0-18 (left to right)
// - row: 0-18 (top to bottom)
// - Example: Q16 on a 19x19 board is (row 3, col 15)

// FormatCoord converts grid coordinates (0-indexed, top-left origin) to the
// backend's letter+number notation.
func FormatCoord(row, col, size int) string {
	letter := 'A' + rune(col)
	if col >= 8 {
		letter++ // Skip 'I'
	}
	return fmt.Sprintf("%c%d", letter, size-row)
}

// ParseCoord converts letter+number notation to grid coordinates.
// For a 19x19 board: A1 -> (18, 0), Q16 -> (3, 15).
func ParseCoord(coord string, size int) (row, col int, err error) {
	coord = strings.TrimSpace(strings.ToUpper(coord))
	if len(coord) < 2 {
		return 0, 0, fmt.Errorf("invalid coordinate: %q", coord)
	}

	letter := coord[0]
	if letter == 'I' || letter < 'A' || letter > 'T' {
		return 0, 0, fmt.Errorf("invalid column in coordinate: %q", coord)
	}
	col = int(letter - 'A')
	if col > 8 {
		col-- // Account for skipped 'I'
	}

	num, err := strconv.Atoi(coord[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row in coordinate: %q", coord)
	}
	row = size - num

	if col >= size || row < 0 || row >= size {
		return 0, 0, fmt.Errorf("coordinate out of bounds: %q", coord)
	}
	return row, col, nil
}

// StarPoints returns the hoshi intersections for the given board size as
// (row, col) pairs. Unsupported sizes have none.
func StarPoints(size int) [][2]int {
	switch size {
	case 9:
		return [][2]int{
			{2, 2}, {2, 6},
			{6, 2}, {6, 6},
			{4, 4},
		}
	case 13:
		return [][2]int{
			{3, 3}, {3, 9},
			{9, 3}, {9, 9},
		}
	case 19:
		return [][2]int{
			{3, 3}, {3, 9}, {3, 15},
			{9, 3}, {9, 9}, {9, 15},
			{15, 3}, {15, 9}, {15, 15},
		}
	default:
		return nil
	}
}

// IsStarPoint reports whether (row, col) is a hoshi on a board of the
// given size.
func IsStarPoint(row, col, size int) bool {
	for _, p := range StarPoints(size) {
		if p[0] == row && p[1] == col {
			return true
		}
	}
	return false
}

// FormatScoreDelta renders a score swing with an explicit sign, one decimal.
// Returns "" when there is no meaningful delta to show.
func FormatScoreDelta(delta float64) string {
	if delta == 0 {
		return ""
	}
	sign := ""
	if delta > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f", sign, delta)
}
