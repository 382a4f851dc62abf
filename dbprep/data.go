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

package dbprep

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/ldobbelsteen/sudoku-solver/puzzle"
	"os"
	"time"
)

/*

entries

*/

type dataFunction func(pgx.Tx) error

var (
	dbCtx       = context.Background()
	upFunctions = []dataFunction{
		insertSamples,
	}
	downFunctions = []dataFunction{
		deleteSamples,
	}
)

// DataUp: load the sample data into the database.  You should do
// this after you get the schema up!
func DataUp() error {
	return applyFunctions(upFunctions)
}

// DataDown: remove the sample data from the database.  You
// should do this before you tear the schema down!
func DataDown() error {
	return applyFunctions(downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(fns []dataFunction) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/sudoku?sslmode=disable"
	}

	// open the database, defer the close
	conn, err := pgx.Connect(dbCtx, url)
	if err != nil {
		return err
	}
	defer conn.Close(dbCtx)

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(dbCtx)
		if err != nil {
			return err
		}
		defer func() {
			if e := recover(); e != nil {
				tx.Rollback(dbCtx)
				panic(e)
			}
		}()
		if err := fn(tx); err != nil {
			tx.Rollback(dbCtx)
			return err
		}
		return tx.Commit(dbCtx)
	}

	// run the functions
	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("Data change failed: %v", err)
		}
	}
	return nil
}

/*

sample puzzles

*/

// The shipped sample puzzles.  The names are what the home page
// shows, so they are labeled by rough difficulty.
var samplePuzzles = []struct {
	name string
	line string
}{
	{"easy-1",
		"4....35.2" +
			"..95.634." +
			"........8" +
			"....3486." +
			"..46.52.." +
			".2879...." +
			"9........" +
			".873.29.." +
			"5.29....6"},
	{"easy-2",
		"9..45...8" +
			".2......." +
			"...1724.." +
			".79...68." +
			"2.......5" +
			".43...27." +
			"..8325..." +
			".......6." +
			"4...16..3"},
	{"medium-1",
		".1.5.6.2." +
			".....3.18" +
			"....7...6" +
			"..5....3." +
			"..8.9.7.." +
			".6....4.." +
			"5...4...." +
			"64.2....." +
			".3.9.1.8."},
	{"medium-2",
		"948.5.2.." +
			"..78.3..1" +
			".5..7...." +
			".7....3.." +
			"2..6.5..4" +
			"..5....9." +
			"....6..1." +
			"3..5.97.." +
			"..6.1.423"},
	{"hard-1",
		"........." +
			"9..5.7.3." +
			"...1..6.7" +
			".4..6..82" +
			"67.....13" +
			"38..1..9." +
			"7.5..8..." +
			".2.3.9..8" +
			"........."},
	{"hard-2",
		"2..8...5." +
			".85......" +
			".3675...1" +
			"..3.4..98" +
			"...3.5..." +
			"41..6.7.." +
			"5....712." +
			"......56." +
			".2......4"},
	{"extreme-1",
		".......1." +
			"4........" +
			".2......." +
			"....5.4.7" +
			"..8...3.." +
			"..1.9...." +
			"3..4..2.." +
			".5.1....." +
			"...8.6..."},
}

// sanity-check the samples at startup
func init() {
	for i, sample := range samplePuzzles {
		if _, err := puzzle.New(sample.line); err != nil {
			panic(fmt.Errorf("Can't happen! Sample puzzle %d is invalid: %v", i, err))
		}
	}
}

// Insert the sample puzzles
func insertSamples(tx pgx.Tx) error {
	// idempotency: if any samples already exist, we are done
	var count int64
	row := tx.QueryRow(dbCtx, "SELECT COUNT(*) FROM puzzles")
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("Database error counting sample puzzles: %v", err)
	}
	if count > 0 {
		return nil
	}

	// get the timestamp of this load
	now := time.Now()

	for i, sample := range samplePuzzles {
		_, err := tx.Exec(dbCtx,
			"INSERT INTO puzzles (name, puzzle, created) VALUES ($1, $2, $3)",
			sample.name, sample.line, now)
		if err != nil {
			return fmt.Errorf("Database error saving sample puzzle %d: %v", i, err)
		}
	}
	return nil
}

// Delete the sample puzzles
func deleteSamples(tx pgx.Tx) error {
	for i, sample := range samplePuzzles {
		_, err := tx.Exec(dbCtx,
			"DELETE FROM puzzles WHERE name = $1", sample.name)
		if err != nil {
			return fmt.Errorf("Database error deleting sample puzzle %d: %v", i, err)
		}
	}
	return nil
}
