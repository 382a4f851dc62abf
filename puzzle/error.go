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
	"fmt"
)

/*

Errors

*/

// An Error describes a problem with a puzzle or a requested
// operation.  It can produce an error message in English, but
// its main function is to support structured error handling by
// clients.  It tells the client "this thing failed to meet this
// condition", and provides supplemental details about the thing
// and the condition.
type Error struct {
	Scope     ErrorScope     `json:"scope"`
	Condition ErrorCondition `json:"condition,omitempty"`
	Values    ErrorData      `json:"values,omitempty"`
	Message   string         `json:"message,omitempty"` // custom message
}

// An ErrorScope explains what type of thing the error is
// referring to.  In the case of client errors, this is either a
// client-supplied argument or some part of the puzzle the
// argument ran afoul of.  In the case of internal logic errors,
// this is where in the code the failure occurred.
type ErrorScope int

// Constants for the various error scopes.
const (
	UnknownScope ErrorScope = iota
	RequestScope
	ArgumentScope
	GroupScope
	SquareScope
	PuzzleScope
	InternalScope
	MaxScope
)

// The ErrorCondition is the predicate that the scope failed to
// satisfy.  There are a bunch of known, named predicates and
// then a "general" (arbitrary English string) predicate for
// runtime errors.
type ErrorCondition int

// Constants for the various error conditions
const (
	UnknownCondition ErrorCondition = iota
	GeneralCondition
	WrongPuzzleSizeCondition
	InvalidCharacterCondition
	DuplicateAssignmentCondition
	DuplicateGroupValuesCondition
	NoPossibleValuesCondition
	UnsolvableCondition
	NoFreeSquaresCondition
	MaxCondition
)

// The ErrorData provides details about the thing that failed to
// meet the predicate (such as the offending value) as well as
// the predicate itself (such as required values).
//
// Every item in the slice of ErrorData is required to be
// JSON-serializable, so it can be returned to web clients.
// Sadly, there is no good way to express this condition in a way
// the compiler can check it, so we just have to rely on
// implementors to "do the right thing" and check the condition
// at runtime.
type ErrorData []interface{}

// Return an error string from an Error.  If the Error has a
// pre-canned message, this will use it, otherwise it will
// produce an appropriate (English, non-localized) message.
func (e Error) Error() string {
	es := e.Message
	if len(es) > 0 {
		return es
	}
	values := e.Values
	nextVal := func() interface{} {
		if len(values) == 0 {
			return "<unknown>"
		}
		val := values[0]
		values = values[1:]
		return val
	}
	switch e.Scope {
	case RequestScope:
		es = "Invalid request: "
	case ArgumentScope:
		es = "Invalid argument: "
	case GroupScope:
		es = fmt.Sprintf("Problem in %v: ", nextVal())
	case SquareScope:
		es = fmt.Sprintf("Problem in square %v: ", nextVal())
	case PuzzleScope:
		es = "Invalid puzzle: "
	case InternalScope:
		es = "Internal logic error: "
	default:
		es = "Unknown error: "
	}
	switch e.Condition {
	case GeneralCondition:
		es += fmt.Sprint(nextVal())
	case WrongPuzzleSizeCondition:
		es += fmt.Sprintf("Need exactly %v squares, not %v", nextVal(), nextVal())
	case InvalidCharacterCondition:
		es += fmt.Sprintf("Can't contain %v", nextVal())
	case DuplicateAssignmentCondition:
		es += fmt.Sprintf("Already assigned value %v, can't assign %v", nextVal(), nextVal())
	case DuplicateGroupValuesCondition:
		es += fmt.Sprintf("Multiple squares have value %v", nextVal())
	case NoPossibleValuesCondition:
		es += "No remaining possible values"
	case UnsolvableCondition:
		es += "Every search branch was exhausted"
	case NoFreeSquaresCondition:
		es += "No unfilled square to branch on"
	default:
		es += fmt.Sprintf("Supplemental data is %v", values)
	}
	return es
}
