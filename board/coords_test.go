package board

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		row, col, size int
		want           string
	}{
		{18, 0, 19, "A1"},
		{3, 15, 19, "Q16"},
		{15, 3, 19, "D4"},
		{9, 9, 19, "K10"}, // column 9 is K, not J: I is skipped
		{0, 18, 19, "T19"},
		{8, 8, 9, "J1"}, // column 8 is J, not I
		{0, 0, 13, "A13"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCoord(tt.row, tt.col, tt.size))
		})
	}
}

func TestParseCoord(t *testing.T) {
	row, col, err := ParseCoord("Q16", 19)
	require.NoError(t, err)
	assert.Equal(t, 3, row)
	assert.Equal(t, 15, col)

	row, col, err = ParseCoord(" d4 ", 19)
	require.NoError(t, err)
	assert.Equal(t, 15, row)
	assert.Equal(t, 3, col)
}

func TestParseCoordRejectsInvalid(t *testing.T) {
	for _, coord := range []string{"", "Q", "I3", "Z9", "A0", "A20", "T10x", "U1"} {
		_, _, err := ParseCoord(coord, 19)
		assert.Error(t, err, "coordinate %q should not parse", coord)
	}

	// Valid on 19x19 but off a 9x9 board.
	_, _, err := ParseCoord("Q16", 9)
	assert.Error(t, err)
}

func TestCoordRoundTrip(t *testing.T) {
	for _, size := range []int{9, 13, 19} {
		t.Run(fmt.Sprintf("%dx%d", size, size), func(t *testing.T) {
			for row := 0; row < size; row++ {
				for col := 0; col < size; col++ {
					coord := FormatCoord(row, col, size)
					gotRow, gotCol, err := ParseCoord(coord, size)
					require.NoError(t, err, "coordinate %s", coord)
					require.Equal(t, row, gotRow, "coordinate %s", coord)
					require.Equal(t, col, gotCol, "coordinate %s", coord)
				}
			}
		})
	}
}

func TestCoordLettersSkipI(t *testing.T) {
	// Column 8 must render as J on every supported size.
	for _, size := range []int{9, 13, 19} {
		coord := FormatCoord(0, 8, size)
		assert.Equal(t, byte('J'), coord[0])
	}
}

func TestStarPoints(t *testing.T) {
	assert.ElementsMatch(t, [][2]int{
		{3, 3}, {3, 9}, {3, 15},
		{9, 3}, {9, 9}, {9, 15},
		{15, 3}, {15, 9}, {15, 15},
	}, StarPoints(19))

	assert.ElementsMatch(t, [][2]int{
		{3, 3}, {3, 9}, {9, 3}, {9, 9},
	}, StarPoints(13))

	assert.ElementsMatch(t, [][2]int{
		{2, 2}, {2, 6}, {6, 2}, {6, 6}, {4, 4},
	}, StarPoints(9))

	assert.Empty(t, StarPoints(11))
}

func TestIsStarPoint(t *testing.T) {
	assert.True(t, IsStarPoint(9, 9, 19))
	assert.False(t, IsStarPoint(9, 9, 13))
	assert.True(t, IsStarPoint(4, 4, 9))
	assert.False(t, IsStarPoint(0, 0, 19))
}

func TestFormatScoreDelta(t *testing.T) {
	assert.Equal(t, "+2.3", FormatScoreDelta(2.3))
	assert.Equal(t, "-0.5", FormatScoreDelta(-0.5))
	assert.Equal(t, "", FormatScoreDelta(0))
}
