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
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

/*

helper type: gives errors doing json encoding.

*/

type unencodable int

func (u unencodable) MarshalJSON() ([]byte, error) {
	return []byte(`"unencodable"`), fmt.Errorf("unencodable")
}

/*

Solving

*/

func TestSolveLine(t *testing.T) {
	result, e := SolveLine(seventeenClueLine)
	if e != nil {
		t.Fatalf("SolveLine failed: %v", e)
	}
	expected := &SolveResult{
		Puzzle:   seventeenClueLine,
		Solution: seventeenClueSolutionLine,
		Guesses:  result.Guesses,
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("SolveLine gave %+v, expected %+v", result, expected)
	}
	if result.Guesses == 0 {
		t.Errorf("seventeen-clue solve reports no guesses")
	}

	if _, e := SolveLine("not a puzzle"); e == nil {
		t.Errorf("SolveLine accepted a malformed line")
	}
	_, e = SolveLine(doubledPairLine)
	if e == nil {
		t.Fatalf("SolveLine solved an unsolvable puzzle")
	}
	if err, ok := e.(Error); !ok || err.Condition != UnsolvableCondition {
		t.Errorf("unsolvable line gave wrong error: %v", e)
	}
}

/*

POST handler

*/

func TestSolveHandler(t *testing.T) {
	handlerFunc := func(w http.ResponseWriter, r *http.Request) {
		result, e := SolveHandler(w, r)
		if e != nil {
			t.Errorf("SolveHandler failed: %v", e)
		}
		if result != nil && result.Solution != seventeenClueSolutionLine {
			t.Errorf("SolveHandler solved to %q", result.Solution)
		}
	}
	ts := httptest.NewServer(http.HandlerFunc(handlerFunc))
	defer ts.Close()

	body, err := json.Marshal(SolveRequest{Puzzle: seventeenClueLine})
	if err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}
	r, e := http.Post(ts.URL, "application/json", strings.NewReader(string(body)))
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	if r.StatusCode != http.StatusOK {
		t.Errorf("Status was %v, expected %v", r.StatusCode, http.StatusOK)
		t.Logf("Headers are: %v\n", r.Header)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type was %q", ct)
	}
	b, e := io.ReadAll(r.Body)
	r.Body.Close()
	if e != nil {
		t.Fatalf("Read error on response body: %v", e)
	}
	var result SolveResult
	if e := json.Unmarshal(b, &result); e != nil {
		t.Fatalf("Unmarshal failed: %v", e)
	}
	if result.Puzzle != seventeenClueLine || result.Solution != seventeenClueSolutionLine {
		t.Errorf("Received %+v", result)
	}
	if result.Guesses == 0 {
		t.Errorf("Response reports no guesses")
	}
}

type solveHandlerErrorTestcase struct {
	name  string
	body  string
	scope ErrorScope
	cond  ErrorCondition
}

func TestSolveHandlerErrors(t *testing.T) {
	tcs := []solveHandlerErrorTestcase{
		{"undecodable body", `"not a request"`,
			RequestScope, GeneralCondition},
		{"wrong length", `{"puzzle":"12345"}`,
			ArgumentScope, WrongPuzzleSizeCondition},
		{"bad character", fmt.Sprintf(`{"puzzle":%q}`, "x"+strings.Repeat(".", 80)),
			SquareScope, InvalidCharacterCondition},
		{"unsolvable", fmt.Sprintf(`{"puzzle":%q}`, doubledPairLine),
			PuzzleScope, UnsolvableCondition},
	}
	for _, tc := range tcs {
		handlerFunc := func(w http.ResponseWriter, r *http.Request) {
			result, e := SolveHandler(w, r)
			if e == nil {
				t.Errorf("%s case: handler succeeded with %+v", tc.name, result)
			}
		}
		ts := httptest.NewServer(http.HandlerFunc(handlerFunc))
		defer ts.Close()

		r, e := http.Post(ts.URL, "application/json", strings.NewReader(tc.body))
		if e != nil {
			t.Fatalf("%s case: request error: %v", tc.name, e)
		}
		if r.StatusCode != http.StatusBadRequest {
			t.Errorf("%s case: status was %v, expected %v",
				tc.name, r.StatusCode, http.StatusBadRequest)
			t.Logf("%s case headers: %v\n", tc.name, r.Header)
		}
		b, e := io.ReadAll(r.Body)
		r.Body.Close()
		if e != nil {
			t.Fatalf("%s case: read error on response body: %v", tc.name, e)
		}
		var err Error
		if e := json.Unmarshal(b, &err); e != nil {
			t.Fatalf("%s case: response decode error: %v", tc.name, e)
		}
		if err.Scope != tc.scope || err.Condition != tc.cond {
			t.Errorf("%s case: error was %+v, expected scope %v and condition %v",
				tc.name, err, tc.scope, tc.cond)
		}
		if len(err.Message) == 0 {
			t.Errorf("%s case: error response has no message", tc.name)
		}
	}
}

/*

Encoding failures

*/

func TestWriteJSONEncodeFailure(t *testing.T) {
	handlerFunc := func(w http.ResponseWriter, r *http.Request) {
		e := WriteJSON(unencodable(0), http.StatusOK, w, r)
		if e == nil {
			t.Errorf("WriteJSON of unencodable value returned nil")
		}
		if err, ok := e.(Error); !ok || err.Scope != InternalScope {
			t.Errorf("WriteJSON of unencodable value returned %v", e)
		}
	}
	ts := httptest.NewServer(http.HandlerFunc(handlerFunc))
	defer ts.Close()

	r, e := http.Get(ts.URL)
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	if r.StatusCode != http.StatusInternalServerError {
		t.Errorf("Status was %v, expected %v", r.StatusCode, http.StatusInternalServerError)
	}
	b, e := io.ReadAll(r.Body)
	r.Body.Close()
	if e != nil {
		t.Fatalf("Read error on response body: %v", e)
	}
	var err Error
	if e := json.Unmarshal(b, &err); e != nil {
		t.Fatalf("Response decode error: %v", e)
	}
	if err.Scope != InternalScope || len(err.Message) == 0 {
		t.Errorf("Error response was %+v", err)
	}
}

func TestWriteErrorUnencodable(t *testing.T) {
	bad := Error{Scope: InternalScope, Condition: GeneralCondition, Values: ErrorData{unencodable(0)}}
	handlerFunc := func(w http.ResponseWriter, r *http.Request) {
		if e := WriteError(bad, w, r); e == nil {
			t.Errorf("WriteError of unencodable error returned nil")
		}
	}
	ts := httptest.NewServer(http.HandlerFunc(handlerFunc))
	defer ts.Close()

	r, e := http.Get(ts.URL)
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	if r.StatusCode != http.StatusInternalServerError {
		t.Errorf("Status was %v, expected %v", r.StatusCode, http.StatusInternalServerError)
	}
	b, e := io.ReadAll(r.Body)
	r.Body.Close()
	if e != nil {
		t.Fatalf("Read error on response body: %v", e)
	}
	// the response falls back to a hand-quoted message string
	var msg string
	if e := json.Unmarshal(b, &msg); e != nil {
		t.Fatalf("Response decode error: %v", e)
	}
	if len(msg) == 0 {
		t.Errorf("Pseudo-encoded message is empty")
	}
}

func TestWriteErrorWrapsForeign(t *testing.T) {
	handlerFunc := func(w http.ResponseWriter, r *http.Request) {
		e := WriteError(fmt.Errorf("dial tcp: connection refused"), w, r)
		err, ok := e.(Error)
		if !ok || err.Scope != InternalScope || err.Condition != GeneralCondition {
			t.Errorf("foreign error wrapped as %v", e)
		}
	}
	ts := httptest.NewServer(http.HandlerFunc(handlerFunc))
	defer ts.Close()

	r, e := http.Get(ts.URL)
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	r.Body.Close()
	if r.StatusCode != http.StatusInternalServerError {
		t.Errorf("Status was %v, expected %v", r.StatusCode, http.StatusInternalServerError)
	}
}
