// Package puzzle provides a model for 9x9 Sudoku puzzles and
// operations for solving them.
//
// In this package, Sudoku puzzles are made of squares which are
// either empty (represented with a 0 value) or have an assigned
// value between 1 and 9 (inclusive).  The squares are designated
// by indices that start at 1 and increase left-to-right,
// top-to-bottom (English reading order).
//
// For each empty square in a puzzle, the implementation
// maintains the set of values the square can be assigned without
// conflicting with the squares in its row, column, and tile.
// Assigning a value is eager: every further assignment the
// puzzle's constraints force is made immediately, so a puzzle
// always holds everything deduction can establish about it.
// Puzzles whose constraints cannot be satisfied are detected
// either during this deduction or by the solver's search; the
// two stages together either solve a puzzle or prove it
// unsolvable.
package puzzle

/*

Sudoku puzzle representation

*/

import (
	"fmt"
)

/*

Puzzles

*/

// A Puzzle stores the square data and group data of a single
// 9x9 Sudoku grid.  Squares hold either an assigned value or the
// set of values they can still take; the group tallies summarize
// which values each row, column, and tile already contains and
// how many of its squares can still host each missing value.
// The tallies are what make forced-move detection cheap: when a
// value's possible-host count in a group falls to one, the
// remaining host square must be assigned that value.
//
// Puzzles are mutated in place by assignment and its cascade of
// deductions.  Once a square is assigned it is never reverted;
// speculative work is done on copies (see Copy and Solve).
type Puzzle struct {
	squares  [SquareCount + 1]square
	rows     [SideLength + 1]tally
	cols     [SideLength + 1]tally
	tiles    [SideLength + 1]tally
	unfilled int
	guesses  int
}

// newPuzzle returns an empty puzzle: no assigned squares, every
// value possible everywhere, all tallies at their maximums.
func newPuzzle() *Puzzle {
	p := &Puzzle{unfilled: SquareCount}
	for i := 1; i <= SquareCount; i++ {
		p.squares[i] = square{index: i, pvals: newIntsetRange(SideLength)}
	}
	for g := 1; g <= SideLength; g++ {
		p.rows[g] = newTally(GroupID{GtypeRow, g})
		p.cols[g] = newTally(GroupID{GtypeCol, g})
		p.tiles[g] = newTally(GroupID{GtypeTile, g})
	}
	return p
}

// The tally accessors give the three group tallies that cover a
// given square index.
func (p *Puzzle) rowTally(index int) *tally  { return &p.rows[rowOf(index)] }
func (p *Puzzle) colTally(index int) *tally  { return &p.cols[colOf(index)] }
func (p *Puzzle) tileTally(index int) *tally { return &p.tiles[tileOf(index)] }

// Values returns the assigned values of the puzzle's squares in
// index order, with 0 for unfilled squares.  The return value
// does not share storage with the puzzle.
func (p *Puzzle) Values() []int {
	vs := make([]int, SquareCount)
	for i := 1; i <= SquareCount; i++ {
		vs[i-1] = p.squares[i].aval
	}
	return vs
}

// Solved reports whether every square has an assigned value.
func (p *Puzzle) Solved() bool {
	return p.unfilled == 0
}

// Guesses returns the number of speculative assignments made so
// far in solving the puzzle.  Deduced assignments don't count.
func (p *Puzzle) Guesses() int {
	return p.guesses
}

// Copy returns a deep copy of a puzzle (no shared storage).
func (p *Puzzle) Copy() *Puzzle {
	c := *p
	for i := 1; i <= SquareCount; i++ {
		c.squares[i].pvals = newIntsetCopy(p.squares[i].pvals)
	}
	return &c
}

/*

Assignment and propagation

*/

// When a deduction removes a possible value from a square, the
// group that forced the deduction is already accounted for, so
// the removal doesn't need to recheck it for forced moves.  The
// ignoreGroup argument says which group (if any) to skip.
// Skipped rechecks are always redundant, never load-bearing: a
// value forced in the skipped group is either already assigned
// there or surfaces through one of the other two groups.
type ignoreGroup int

const (
	ignoreNone ignoreGroup = iota
	ignoreRow
	ignoreCol
	ignoreTile
	ignoreAll
)

// assign a value to a square and cascade the consequences until
// no further deduction is possible.  Returns an Error and leaves
// the cascade incomplete if the assignment or any deduced
// assignment is contradictory; a puzzle that has returned an
// Error from assign is dead and must be discarded.
//
// Assigning the value a square already has is a no-op success.
// Assigning to a square holding a different value is an Error,
// as is assigning a value already placed in one of the square's
// groups.
func (p *Puzzle) assign(index, value int) error {
	s := &p.squares[index]
	if s.aval != 0 {
		if s.aval == value {
			return nil
		}
		return squareError(index, DuplicateAssignmentCondition, s.aval, value)
	}

	// claim the value in each containing group, in the order
	// row, column, tile; the first group that already has it
	// wins and the assignment fails
	rt, ct, tt := p.rowTally(index), p.colTally(index), p.tileTally(index)
	if rt.placed[value] {
		return groupError(rt.id, value, DuplicateGroupValuesCondition)
	}
	rt.placed[value] = true
	if ct.placed[value] {
		return groupError(ct.id, value, DuplicateGroupValuesCondition)
	}
	ct.placed[value] = true
	if tt.placed[value] {
		return groupError(tt.id, value, DuplicateGroupValuesCondition)
	}
	tt.placed[value] = true

	// place the value, retiring the square's possibles
	former := s.pvals
	s.aval, s.pvals = value, nil
	p.unfilled--

	// the value is no longer possible for any peer of the
	// square; each removal may deduce further assignments
	for _, i := range rowIndices[rowOf(index)] {
		if err := p.removePossible(i, value, ignoreRow); err != nil {
			return err
		}
	}
	for _, i := range colIndices[colOf(index)] {
		if err := p.removePossible(i, value, ignoreCol); err != nil {
			return err
		}
	}
	for _, i := range tileIndices[tileOf(index)] {
		if err := p.removePossible(i, value, ignoreTile); err != nil {
			return err
		}
	}

	// the square no longer hosts any of its former possibles,
	// so its groups' host counts must come down.  The assigned
	// value needs no forced-move recheck in any group (it was
	// just placed in all three), but the others do.
	for _, v := range former {
		ignore := ignoreNone
		if v == value {
			ignore = ignoreAll
		}
		if err := p.tallyRemoval(index, v, ignore); err != nil {
			return err
		}
	}
	return nil
}

// removePossible removes a value from the set a square can still
// take, deducing any assignments that follow.  Squares that are
// already assigned, or that already lack the value, are left
// alone.  A square whose last possible value is removed is a
// contradiction and returns an Error.  A square left with
// exactly one possible value is assigned it on the spot.
func (p *Puzzle) removePossible(index, value int, ignore ignoreGroup) error {
	s := &p.squares[index]
	if s.aval != 0 {
		return nil
	}
	if !s.pvals.remove(value) {
		return nil
	}
	switch len(s.pvals) {
	case 0:
		return squareError(index, NoPossibleValuesCondition, value)
	case 1:
		if err := p.assign(index, s.pvals[0]); err != nil {
			return err
		}
	}
	return p.tallyRemoval(index, value, ignore)
}

// tallyRemoval records that a square can no longer host a value,
// decrementing the host counts in all three of its groups.  Any
// non-ignored group whose count for the value falls to one has a
// forced move: the single remaining host square must be assigned
// the value.
func (p *Puzzle) tallyRemoval(index, value int, ignore ignoreGroup) error {
	rt, ct, tt := p.rowTally(index), p.colTally(index), p.tileTally(index)
	rt.counts[value]--
	ct.counts[value]--
	tt.counts[value]--
	if ignore == ignoreAll {
		return nil
	}
	if ignore != ignoreRow && rt.counts[value] == 1 {
		if err := p.assignOnlyHost(rowIndices[rowOf(index)], value); err != nil {
			return err
		}
	}
	if ignore != ignoreCol && ct.counts[value] == 1 {
		if err := p.assignOnlyHost(colIndices[colOf(index)], value); err != nil {
			return err
		}
	}
	if ignore != ignoreTile && tt.counts[value] == 1 {
		if err := p.assignOnlyHost(tileIndices[tileOf(index)], value); err != nil {
			return err
		}
	}
	return nil
}

// assignOnlyHost scans a group for squares that can still host a
// value and assigns the value to each one found.  The squares
// are rechecked live: assignments made early in the scan can
// fill or prune squares later in it.
func (p *Puzzle) assignOnlyHost(indices []int, value int) error {
	for _, i := range indices {
		s := &p.squares[i]
		if s.aval != 0 {
			continue
		}
		if _, found := s.pvals.find(value); found {
			if err := p.assign(i, value); err != nil {
				return err
			}
		}
	}
	return nil
}

/*

Squares

*/

// A square has an index, an optional assigned value (0 if
// unassigned), and, while unassigned, the set of values it can
// still take.  Assignment takes the possibles: a square is
// either assigned or has a non-empty set of possibles.
type square struct {
	index int
	aval  int
	pvals intset
}

/*

Group tallies

*/

// A tally tracks one group (a row, column, or tile).  It knows
// which values the group already contains and, for each value,
// how many of the group's squares can still host it.  The host
// counts are maintained incrementally, one decrement per removed
// possible, so forced moves are detected without rescanning.
type tally struct {
	id     GroupID
	placed [SideLength + 1]bool
	counts [SideLength + 1]int
}

// newTally returns the tally of a group in an empty puzzle:
// nothing placed, every value hostable by every square.
func newTally(id GroupID) tally {
	t := tally{id: id}
	for v := 1; v <= SideLength; v++ {
		t.counts[v] = SideLength
	}
	return t
}

/*

Integer sets

*/

// An intset is a set of integers, represented as a sorted slice.
// We use intsets to represent the sets of possible values for
// squares.
type intset []int

// newIntsetRange: Make an intset from a range of values, 1 to max.
func newIntsetRange(max int) intset {
	if max < 1 {
		return intset{}
	}
	out := make(intset, max)
	for i := 0; i < max; i++ {
		out[i] = i + 1
	}
	return out
}

// newIntsetCopy: Make a copy of an intset.
func newIntsetCopy(in intset) intset {
	if in == nil {
		return nil
	}
	out := make(intset, len(in))
	copy(out, in)
	return out
}

// Find value v, returning where it should be in the intset and
// whether it was found there.
func (ps *intset) find(v int) (int, bool) {
	end := len(*ps)
	where := end
	for i := 0; i < end; i++ {
		if (*ps)[i] == v {
			return i, true
		}
		if (*ps)[i] > v {
			where = i
			break
		}
	}
	return where, false
}

// Remove value v, returning whether it was there.
func (ps *intset) remove(v int) bool {
	end := len(*ps)
	for i := 0; i < end; i++ {
		pv := (*ps)[i]
		if pv == v {
			copy((*ps)[i:], (*ps)[i+1:])
			*ps = (*ps)[:end-1]
			return true
		}
		if pv > v {
			return false
		}
	}
	return false
}

/*

Errors: used to report problems operating on puzzles.

*/

// squareError returns an Error from an attempted operation on a
// square that would violate a constraint on the square.
func squareError(index int, cond ErrorCondition, vals ...interface{}) Error {
	err := Error{
		Scope:     SquareScope,
		Condition: cond,
		Values:    append(ErrorData{index}, vals...),
	}
	switch cond {
	case DuplicateAssignmentCondition:
	case NoPossibleValuesCondition:
	default:
		panic(fmt.Errorf("Unexpected square error condition (%v) in square %v", cond, index))
	}
	return err
}

// groupError returns an Error from an attempted operation that
// would violate a constraint on a group.
func groupError(gid GroupID, v int, cond ErrorCondition) Error {
	err := Error{
		Scope:     GroupScope,
		Condition: cond,
		Values:    ErrorData{gid, v},
	}
	switch cond {
	case DuplicateGroupValuesCondition:
	default:
		panic(fmt.Errorf("Unexpected group error condition (%v) in group %v", cond, gid))
	}
	return err
}
