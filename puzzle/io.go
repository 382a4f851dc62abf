// sudoku-solver - a Sudoku solving engine and service.
// Copyright (C) 2025-2026 the sudoku-solver authors.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
// Licensed under the LGPL v3.  See the LICENSE file for details

package puzzle

import (
	"strings"
)

/*

Print forms of puzzles

Puzzles have two textual forms.  The line form is one character
per square in index order: a digit for a filled square, a blank
marker for an unfilled one.  It is the interchange form, used
for input, storage, and output.  The grid form lays the same
characters out as a bordered 9x9 grid, for human reading.

*/

// Blank squares in the line form are marked with a period.
const blankChar = '.'

func valueChar(v int) byte {
	if v == 0 {
		return blankChar
	}
	return byte('0' + v)
}

// lineString renders square values in the line form.
func lineString(values []int) string {
	var b strings.Builder
	b.Grow(SquareCount)
	for _, v := range values {
		b.WriteByte(valueChar(v))
	}
	return b.String()
}

// gridString renders square values in the grid form.
func gridString(values []int) string {
	const separator = "+-------+-------+-------+"
	var b strings.Builder
	for r := 0; r < SideLength; r++ {
		if r%TileLength == 0 {
			b.WriteString(separator)
			b.WriteByte('\n')
		}
		for c := 0; c < SideLength; c++ {
			if c%TileLength == 0 {
				b.WriteString("| ")
			}
			b.WriteByte(valueChar(values[r*SideLength+c]))
			b.WriteByte(' ')
		}
		b.WriteString("|\n")
	}
	b.WriteString(separator)
	return b.String()
}

/*

Puzzle construction

*/

// New builds a puzzle from its line form.  The seeded squares
// are assigned in index order, with the full deduction cascade
// run as each one lands, so the returned puzzle is already as
// solved as deduction alone can make it.  A line that is
// malformed or contradictory returns an Error instead.
func New(line string) (*Puzzle, error) {
	chars := []rune(line)
	if len(chars) != SquareCount {
		return nil, lengthError(len(chars))
	}
	p := newPuzzle()
	for i, c := range chars {
		if c == blankChar {
			continue
		}
		if c < '1' || c > '9' {
			return nil, charError(i+1, c)
		}
		if err := p.assign(i+1, int(c-'0')); err != nil {
			// a square running out of possible values during
			// seeding means no solution can exist
			if e, ok := err.(Error); ok && e.Condition == NoPossibleValuesCondition {
				return nil, puzzleError(UnsolvableCondition)
			}
			return nil, err
		}
	}
	return p, nil
}

// Line returns the line form of a puzzle.
func (p *Puzzle) Line() string {
	return lineString(p.Values())
}

// String gives a pretty-printed view of a puzzle.
func (p *Puzzle) String() string {
	return gridString(p.Values())
}

/*

Solutions

*/

// A Solution is a filled-in puzzle (expressed as its values)
// plus the number of guesses it took to get there.  Guesses are
// the assignments made by searching rather than deduction; a
// solution with zero guesses was deduced outright.
type Solution struct {
	Values  []int `json:"values"`
	Guesses int   `json:"guesses"`
}

// Line returns the line form of a solution: 81 digits.
func (s Solution) Line() string {
	return lineString(s.Values)
}

// Solutions print in their grid form.
func (s Solution) String() string {
	return gridString(s.Values)
}

/*

Errors: used to report problems with puzzle lines.

*/

// lengthError returns an Error for a puzzle line with the wrong
// number of characters.
func lengthError(count int) Error {
	return Error{
		Scope:     ArgumentScope,
		Condition: WrongPuzzleSizeCondition,
		Values:    ErrorData{SquareCount, count},
	}
}

// charError returns an Error for a square given a character that
// is neither a digit nor the blank marker.
func charError(index int, c rune) Error {
	return Error{
		Scope:     SquareScope,
		Condition: InvalidCharacterCondition,
		Values:    ErrorData{index, string(c)},
	}
}
