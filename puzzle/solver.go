package puzzle

/*

Sudoku puzzle solver

The solver works in two stages.  The first stage is the
deduction cascade built into assignment (see model.go): filling
the seed squares fills everything that follows logically from
them.  Most published puzzles are completely solved by this
stage.

The second stage is a depth-first search over copies of the
puzzle, used only when deduction stalls with squares still
unfilled.  Each round picks the unfilled square with the fewest
possible values, and tries each of those values in turn on a
fresh copy of the puzzle.  A try that produces a contradiction
discards its copy and moves on to the next value; a try that
leads (recursively) to a solved copy wins, and that copy is the
solution.  If every value of the chosen square fails, the puzzle
as it stands cannot be solved, and the caller's own current try
(if any) is thereby a failure too.

Searching on copies means a failed try never has to be undone:
the copy is abandoned, not rewound.

*/

// Solve returns the Solution of a puzzle, or an Error if the
// puzzle has none.  The puzzle itself is not modified, so
// solving it again gives the same result.
func (p *Puzzle) Solve() (Solution, error) {
	if p.unfilled == 0 {
		return Solution{Values: p.Values(), Guesses: p.guesses}, nil
	}
	solved, err := p.search()
	if err != nil {
		return Solution{}, err
	}
	return Solution{Values: solved.Values(), Guesses: solved.guesses}, nil
}

// search for a solution to a puzzle that deduction alone didn't
// finish.  Callers must not pass a solved puzzle: search exists
// to choose among possible values, and a solved puzzle offers
// no square to choose.
func (p *Puzzle) search() (*Puzzle, error) {
	// choose the unfilled square with the fewest possible
	// values, taking the first such square in reading order
	var target *square
	for i := 1; i <= SquareCount; i++ {
		s := &p.squares[i]
		if s.aval != 0 {
			continue
		}
		if target == nil || len(s.pvals) < len(target.pvals) {
			target = s
			if len(target.pvals) == 2 {
				break
			}
		}
	}
	if target == nil {
		return nil, internalError(NoFreeSquaresCondition)
	}

	// try each possible value of the chosen square on its own
	// copy of the puzzle; the first solved copy wins
	for _, v := range target.pvals {
		branch := p.Copy()
		if err := branch.assign(target.index, v); err != nil {
			continue
		}
		branch.guesses++
		if branch.unfilled == 0 {
			return branch, nil
		}
		if solved, err := branch.search(); err == nil {
			return solved, nil
		}
	}
	return nil, puzzleError(UnsolvableCondition)
}

// puzzleError returns an Error that describes a condition of the
// puzzle as a whole.
func puzzleError(cond ErrorCondition) Error {
	return Error{Scope: PuzzleScope, Condition: cond}
}

// internalError returns an Error that describes a misuse of the
// solving machinery by its caller.
func internalError(cond ErrorCondition) Error {
	return Error{Scope: InternalScope, Condition: cond}
}
