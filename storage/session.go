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
	"fmt"
	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"
	"log"
	"time"
)

// A Session tracks one client of the solver service.  The
// session itself is a cache hash; each solve the client asks for
// is appended to a cache list next to it.  Both are mirrored to
// the database, so usage history survives a cache flush.
type Session struct {
	SID     string // session ID
	Created string // RFC3339 time when the session was created
	Saved   string // RFC3339 time when the session was last saved
	Solves  int    // count of solves served to this session
}

/*

session manipulation

*/

// NewSession: create and persist a session for an ID that has no
// stored session yet.
func NewSession(sid string) *Session {
	now := time.Now().Format(time.RFC3339)
	session := &Session{SID: sid, Created: now, Saved: now}
	session.Save()
	log.Printf("Created session %q.", session.SID)
	return session
}

// LookupSession: find the stored session for an ID.  Returns nil
// if the ID has no stored session.
func LookupSession(sid string) *Session {
	session := &Session{SID: sid}
	var found bool
	body := func(conn redis.Conn) error {
		vals, err := redis.Values(conn.Do("HGETALL", session.key()))
		if err != nil {
			return fmt.Errorf("Cache failure loading session %q: %v", session.SID, err)
		}
		if len(vals) == 0 {
			return nil
		}
		if err := redis.ScanStruct(vals, session); err != nil {
			return fmt.Errorf("Failed to parse saved session %q: %v", session.SID, err)
		}
		found = true
		return nil
	}
	rdExecute(body)
	if !found {
		return nil
	}
	return session
}

// Save: write the session to the cache and mirror it to the
// database.
func (session *Session) Save() {
	session.Saved = time.Now().Format(time.RFC3339)
	body := func(conn redis.Conn) (err error) {
		_, err = conn.Do("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		if err != nil {
			err = fmt.Errorf("Cache failure saving session %q: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	pgBody := func(tx pgx.Tx) (err error) {
		_, err = tx.Exec(pgCtx,
			"INSERT INTO sessions (sessionId, created, saved, solves) "+
				"VALUES ($1, $2, $3, $4) "+
				"ON CONFLICT (sessionId) DO UPDATE SET saved = $3, solves = $4",
			session.SID, session.Created, session.Saved, session.Solves)
		if err != nil {
			err = fmt.Errorf("Database error saving session %q: %v", session.SID, err)
		}
		return
	}
	pgExecute(pgBody)
}

// RecordSolve: append a solve to the session's log and bump its
// solve count.
func (session *Session) RecordSolve(sr *SolveRecord) {
	session.Solves++
	body := func(conn redis.Conn) (err error) {
		_, err = conn.Do("RPUSH", session.logKey(), sr.PuzzleID)
		if err != nil {
			err = fmt.Errorf("Cache failure logging solve for session %q: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	session.Save()
	pgBody := func(tx pgx.Tx) (err error) {
		_, err = tx.Exec(pgCtx,
			"INSERT INTO sessionSolves (sessionId, puzzleId, solved) "+
				"VALUES ($1, $2, $3)",
			session.SID, sr.PuzzleID, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error logging solve for session %q: %v", session.SID, err)
		}
		return
	}
	pgExecute(pgBody)
	log.Printf("Session %q solved puzzle %q (%d so far).",
		session.SID, sr.PuzzleID, session.Solves)
}

// RecentSolves: fetch the most recent solves served to this
// session, newest first, at most max of them.
func (session *Session) RecentSolves(max int) []*SolveRecord {
	if max <= 0 {
		return nil
	}
	var ids []string
	body := func(conn redis.Conn) (err error) {
		ids, err = redis.Strings(conn.Do("LRANGE", session.logKey(), -max, -1))
		if err != nil {
			err = fmt.Errorf("Cache failure reading solve log for session %q: %v",
				session.SID, err)
		}
		return
	}
	rdExecute(body)
	// the log is stored oldest first
	solves := make([]*SolveRecord, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		sr := loadSolveRecord(ids[i])
		if sr == nil {
			log.Printf("No stored solve %q in session %q log.", ids[i], session.SID)
			continue
		}
		solves = append(solves, sr)
	}
	return solves
}

/*

session key generation

*/

// key - returns the session's cache key
func (session *Session) key() string {
	return "SID:" + session.SID
}

// logKey - returns the cache key for the session's solve log
func (session *Session) logKey() string {
	return session.key() + ":log"
}
