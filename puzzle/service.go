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
	"encoding/json"
	"fmt"
	"net/http"
)

/*

Puzzle solving requests

*/

// A SolveRequest asks for the solution of one puzzle, given in
// its line form.
type SolveRequest struct {
	Puzzle string `json:"puzzle"`
}

// A SolveResult carries a solved puzzle: the line form it was
// given, the line form of its solution, and the solution's
// guess count.
type SolveResult struct {
	Puzzle   string `json:"puzzle"`
	Solution string `json:"solution"`
	Guesses  int    `json:"guesses"`
}

// SolveLine solves the puzzle in a line, returning its result
// or its Error.
func SolveLine(line string) (*SolveResult, error) {
	p, err := New(line)
	if err != nil {
		return nil, err
	}
	s, err := p.Solve()
	if err != nil {
		return nil, err
	}
	return &SolveResult{Puzzle: line, Solution: s.Line(), Guesses: s.Guesses}, nil
}

/*

Handlers

*/

// SolveHandler is a POST handler that reads a JSON-encoded
// SolveRequest from the request body and solves the puzzle in
// it.  The result is sent as a 200 response and also returned
// to the golang caller.  A malformed or unsolvable puzzle is
// sent as a 400 response, and its Error returned to the caller.
//
// If we can't encode the response to the client (which should
// never happen), then the client gets an error response and the
// golang caller gets the encoding Error (as a signal that the
// client didn't get the correct response).
func SolveHandler(w http.ResponseWriter, r *http.Request) (*SolveResult, error) {
	req, e := ReadSolveRequest(w, r)
	if e != nil {
		return nil, e
	}
	result, e := SolveLine(req.Puzzle)
	if e != nil {
		return nil, WriteError(e, w, r)
	}
	return result, WriteJSON(result, http.StatusOK, w, r)
}

// ReadSolveRequest reads the JSON-encoded SolveRequest in a
// request body.  It is split out from SolveHandler so callers
// that keep solved puzzles in storage can look the puzzle up
// between reading the request and solving it.  If the body
// can't be decoded, a 400 response is sent to the client and
// the Error returned.
func ReadSolveRequest(w http.ResponseWriter, r *http.Request) (*SolveRequest, error) {
	dec := json.NewDecoder(r.Body)
	var req SolveRequest
	if e := dec.Decode(&req); e != nil {
		return nil, WriteError(requestError(e), w, r)
	}
	return &req, nil
}

/*

Utilities

*/

// WriteError sends the JSON form of an error to the client,
// with a status appropriate to the error's scope, and returns
// the Error that was sent.  Errors from outside this package
// are wrapped as internal logic errors first.
func WriteError(e error, w http.ResponseWriter, r *http.Request) error {
	err, ok := e.(Error)
	if !ok {
		err = Error{
			Scope:     InternalScope,
			Condition: GeneralCondition,
			Values:    ErrorData{e.Error()},
		}
	}
	err.Message = err.Error()
	return WriteJSON(err, errorStatus(err), w, r)
}

// WriteJSON is called by handlers to encode and send the client
// response.  It returns an appropriate error status for the
// handler to return to its caller, as follows:
//
// 1. If WriteJSON encounters an encoding error sending the
// response, it will create an Error object describing the
// failure, encode that Error as a 500-series response to the
// client, and return that Error to the handler.
//
// 2. If no encoding error occurs, but the handler is sending an
// Error object as the response to the client, WriteJSON will
// return that same Error to the handler.
//
// 3. If no encoding error occurs, and the handler is sending a
// non-Error object as the response to the client, WriteJSON
// will return nil to the handler.
func WriteJSON(obj interface{}, status int, w http.ResponseWriter, r *http.Request) error {
	err, isErr := obj.(Error)
	bytes, e := json.Marshal(obj)
	if e != nil {
		if isErr && err.Scope == InternalScope {
			// We just failed to encode an internal Error.  This
			// should never happen!!  If it did, it almost
			// certainly means that the JSON encoding system is
			// dead, so pseudo-encode the error by hand by
			// returning the Error's summary as a quoted string.
			status = http.StatusInternalServerError // probably was already!
			bytes = []byte(fmt.Sprintf("%q", err.Error()))
		} else {
			enc := Error{
				Scope:     InternalScope,
				Condition: GeneralCondition,
				Values:    ErrorData{e.Error()},
			}
			enc.Message = enc.Error()
			return WriteJSON(enc, http.StatusInternalServerError, w, r)
		}
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
	if isErr {
		return err
	}
	return nil
}

// errorStatus gives the HTTP status for an Error: problems with
// what the client sent are 400s, problems in the machinery are
// 500s.
func errorStatus(err Error) int {
	switch err.Scope {
	case InternalScope, UnknownScope:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// requestError returns an Error describing an unusable request
// body.
func requestError(e error) Error {
	return Error{
		Scope:     RequestScope,
		Condition: GeneralCondition,
		Values:    ErrorData{e.Error()},
	}
}
