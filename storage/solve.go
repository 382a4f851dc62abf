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

package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"
	"github.com/ldobbelsteen/sudoku-solver/puzzle"
	"sort"
	"time"
)

/*

solve records

*/

// A SolveRecord is the stored form of a solved puzzle.  It is
// JSON serializable so it can go into the cache as well as the
// database.
type SolveRecord struct {
	PuzzleID string `json:"puzzleId"` // content hash of the puzzle line
	Puzzle   string `json:"puzzle"`   // the puzzle as submitted
	Solution string `json:"solution"` // the solved line
	Guesses  int    `json:"guesses"`  // count of brute-force fills
}

// PuzzleID: compute the storage ID for a puzzle line.  Identical
// lines get identical IDs, so a solve done for one client is
// found by every client that submits the same puzzle.
func PuzzleID(line string) string {
	hash := sha256.Sum256([]byte(line))
	return hex.EncodeToString(hash[:])
}

// key: compute the cache key for a solve record.
func (sr *SolveRecord) key() string {
	return "PID:" + sr.PuzzleID
}

// LookupSolve: find the stored solve for a puzzle line.  Checks
// the cache first, then the database; a database hit is cached
// on the way out.  Returns nil if the line has never been
// solved.
func LookupSolve(line string) *SolveRecord {
	return loadSolveRecord(PuzzleID(line))
}

// SaveSolve: persist a solve to both the cache and the database.
// Returns the stored record.
func SaveSolve(result *puzzle.SolveResult) *SolveRecord {
	sr := &SolveRecord{
		PuzzleID: PuzzleID(result.Puzzle),
		Puzzle:   result.Puzzle,
		Solution: result.Solution,
		Guesses:  result.Guesses,
	}
	sr.cacheInsert()
	sr.databaseInsert()
	return sr
}

// loadSolveRecord: find a stored solve record by its ID, cache
// first.  Returns nil if neither store has the record.
func loadSolveRecord(id string) *SolveRecord {
	sr := &SolveRecord{PuzzleID: id}
	if sr.cacheLoad() {
		return sr
	}
	// cache miss, try the database and re-cache on a hit
	if sr.databaseLoad() {
		sr.cacheInsert()
		return sr
	}
	return nil
}

// cacheLoad: load an already cached solve record.  Returns
// whether the record was found in the cache.
func (sr *SolveRecord) cacheLoad() bool {
	var bytes []byte
	body := func(conn redis.Conn) (err error) {
		bytes, err = redis.Bytes(conn.Do("GET", sr.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading solve %q: %v", sr.PuzzleID, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var cached *SolveRecord
	if err := json.Unmarshal(bytes, &cached); err != nil {
		panic(fmt.Errorf("Failed to unmarshal solve %q: %v", sr.PuzzleID, err))
	}
	if cached.PuzzleID != sr.PuzzleID {
		panic(fmt.Errorf("Cached solve (id: %q) found for puzzle %q!",
			cached.PuzzleID, sr.PuzzleID))
	}
	*sr = *cached
	return true
}

// databaseLoad: load a solve record from the database.  Returns
// whether the record was found.
func (sr *SolveRecord) databaseLoad() (found bool) {
	body := func(tx pgx.Tx) error {
		row := tx.QueryRow(pgCtx,
			"SELECT puzzle, solution, guesses FROM solves "+
				"WHERE puzzleId = $1", sr.PuzzleID)
		err := row.Scan(&sr.Puzzle, &sr.Solution, &sr.Guesses)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failure looking up solve %q: %v", sr.PuzzleID, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	return
}

// cacheInsert: insert a solve record into the cache.  Replaces
// any existing record with the same id.
func (sr *SolveRecord) cacheInsert() {
	bytes, e := json.Marshal(sr)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal solve %q: %v", sr.PuzzleID, e))
	}
	body := func(conn redis.Conn) (err error) {
		_, err = conn.Do("SET", sr.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving solve %q: %v", sr.PuzzleID, err)
		}
		return
	}
	rdExecute(body)
}

// databaseInsert: insert a solve record into the database.  The
// same puzzle gets solved over and over, so a record already
// saved under this id is left alone.
func (sr *SolveRecord) databaseInsert() {
	body := func(tx pgx.Tx) (err error) {
		_, err = tx.Exec(pgCtx,
			"INSERT INTO solves (puzzleId, puzzle, solution, guesses, created) "+
				"VALUES ($1, $2, $3, $4, $5) "+
				"ON CONFLICT (puzzleId) DO NOTHING",
			sr.PuzzleID, sr.Puzzle, sr.Solution, sr.Guesses, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error saving solve %q: %v", sr.PuzzleID, err)
		}
		return
	}
	pgExecute(body)
}

/*

sample puzzles

*/

// A SampleInfo names one of the shipped sample puzzles.
type SampleInfo struct {
	Name   string `json:"name"`   // user-facing name of the sample
	Puzzle string `json:"puzzle"` // the sample's puzzle line
}

// sorting of sample sequences by name
type byName []SampleInfo

func (si byName) Len() int           { return len(si) }
func (si byName) Swap(i, j int)      { si[i], si[j] = si[j], si[i] }
func (si byName) Less(i, j int) bool { return si[i].Name < si[j].Name }

// LookupSamples: fetch the shipped sample puzzles, sorted by
// name.
func LookupSamples() []SampleInfo {
	var samples []SampleInfo
	body := func(tx pgx.Tx) error {
		rows, err := tx.Query(pgCtx, "SELECT name, puzzle FROM puzzles")
		if err != nil {
			return fmt.Errorf("Failure looking up samples: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			var si SampleInfo
			if err := rows.Scan(&si.Name, &si.Puzzle); err != nil {
				return fmt.Errorf("Failure reading sample row: %v", err)
			}
			samples = append(samples, si)
		}
		return rows.Err()
	}
	pgExecute(body)
	sort.Sort(byName(samples))
	return samples
}
