package puzzle

import (
	"fmt"
)

/*

Puzzle Geometry

This module implements the classic Sudoku geometry: a 9x9 grid
of squares constrained by nine rows, nine columns, and nine
non-overlapping 3x3 tiles.  Squares are designated by indices
that start at 1 and increase left-to-right, top-to-bottom
(English reading order).  Groups of each type are also numbered
from 1 in reading order, so tile 1 is the top-left tile and tile
9 the bottom-right.

*/

const (
	// SideLength is the number of squares per row, column, and
	// tile.
	SideLength = 9
	// TileLength is the side length of each tile.
	TileLength = 3
	// SquareCount is the total number of squares in a puzzle.
	SquareCount = SideLength * SideLength
)

// A GroupID names a row, column, or tile, collectively called
// groups.  The numbering for each type of group is 1-based.
type GroupID struct {
	Gtype string `json:"gtype"`
	Index int    `json:"index"`
}

// Group IDs implement Stringer
func (gid GroupID) String() string {
	if gid.Gtype == "" {
		return fmt.Sprintf("<group> %d", gid.Index)
	}
	return fmt.Sprintf("%s %d", gid.Gtype, gid.Index)
}

// GType (group type) constants.  These are human-readable but
// not localized.
const (
	GtypeRow  = "row"
	GtypeCol  = "column"
	GtypeTile = "tile"
)

/*

Index arithmetic

*/

// rowOf gives the 1-based row number of a square index.
func rowOf(index int) int {
	return (index-1)/SideLength + 1
}

// colOf gives the 1-based column number of a square index.
func colOf(index int) int {
	return (index-1)%SideLength + 1
}

// tileOf gives the 1-based tile number of a square index.
func tileOf(index int) int {
	r, c := (index-1)/SideLength, (index-1)%SideLength
	return (r/TileLength)*TileLength + c/TileLength + 1
}

// indexOf gives the square index at a 1-based row and column.
func indexOf(row, col int) int {
	return (row-1)*SideLength + col
}

/*

Group membership

*/

// The group membership tables give, for each 1-based group
// number, the indices of the group's squares in ascending order.
// The 0th entry of each table is unused, so lookups can use
// group numbers directly.
var (
	rowIndices  [][]int
	colIndices  [][]int
	tileIndices [][]int
)

func init() {
	rowIndices = make([][]int, SideLength+1)
	colIndices = make([][]int, SideLength+1)
	tileIndices = make([][]int, SideLength+1)
	for g := 1; g <= SideLength; g++ {
		rowIndices[g] = make([]int, 0, SideLength)
		colIndices[g] = make([]int, 0, SideLength)
		tileIndices[g] = make([]int, 0, SideLength)
	}
	for i := 1; i <= SquareCount; i++ {
		rowIndices[rowOf(i)] = append(rowIndices[rowOf(i)], i)
		colIndices[colOf(i)] = append(colIndices[colOf(i)], i)
		tileIndices[tileOf(i)] = append(tileIndices[tileOf(i)], i)
	}
}
