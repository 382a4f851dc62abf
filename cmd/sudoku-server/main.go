package main

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/ldobbelsteen/sudoku-solver/client"
	"github.com/ldobbelsteen/sudoku-solver/puzzle"
	"github.com/ldobbelsteen/sudoku-solver/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
)

const cookieName = "sudokuID"
const cookiePath = "/"

// recentSolveCount is how much of the session's solve log the
// home page and the recent-solves endpoint show.
const recentSolveCount = 10

var (
	sessions     = make(map[string]*storage.Session)
	sessionMutex sync.RWMutex
)

/*

sessions

*/

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
//
// Session IDs carry the incoming protocol as a prefix, because
// proxied http and https traffic reach the same instance but
// look to the browser like different sessions.  A cookie made
// under one protocol is not honored under the other, so each
// protocol gets its own session.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	proto := "httpx" // absent other indicators, protocol is unknown

	// proxy-transported protocols are specified in a header
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		proto = forwarded
	}

	// check for an existing cookie whose value matches the protocol
	if sc, e := r.Cookie(cookieName); e == nil {
		if m, e := regexp.MatchString(proto+"-[0-9a-f-]{36}", sc.Value); e == nil && m {
			return sc.Value
		}
	}

	// no session cookie or not a valid session cookie,
	// start a new session with a new cookie
	sid := proto + "-" + uuid.New().String()
	sc := &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath}
	http.SetCookie(w, sc)
	return sid
}

// since session selection can happen concurrently from
// simultaneous goroutines, it has to be interlocked
func sessionSelect(w http.ResponseWriter, r *http.Request) *storage.Session {
	sessionID := getCookie(w, r)
	// look up the session for the cookie
	sessionMutex.RLock()
	session, ok := sessions[sessionID]
	sessionMutex.RUnlock()
	if ok && session != nil {
		return session
	}
	// not in this instance's memory; restore it from storage,
	// or start a fresh one
	session = storage.LookupSession(sessionID)
	if session == nil {
		session = storage.NewSession(sessionID)
	}
	sessionMutex.Lock()
	sessions[sessionID] = session
	sessionMutex.Unlock()
	return session
}

/*

page handlers

*/

// sendPage sends rendered page content as an HTML response.
func sendPage(w http.ResponseWriter, body string) {
	hs := w.Header()
	hs.Add("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	session := sessionSelect(w, r)
	sendPage(w, client.HomePage(session.SID, storage.LookupSamples(), session.RecentSolves(recentSolveCount)))
}

// solverHandler renders the solver page.  The puzzle shown can
// be named in the path (a sample name), given in the "line"
// form value, or absent, which shows an empty grid.
func solverHandler(w http.ResponseWriter, r *http.Request) {
	session := sessionSelect(w, r)
	name := strings.TrimPrefix(r.URL.Path, "/solver/")
	line := r.FormValue("line")
	if name != "" {
		found := false
		for _, sample := range storage.LookupSamples() {
			if sample.Name == name {
				line, found = sample.Puzzle, true
				break
			}
		}
		if !found {
			sendPage(w, client.ErrorPage(fmt.Errorf("There is no sample puzzle named %q", name)))
			return
		}
	}
	if line == "" {
		line = strings.Repeat(".", puzzle.SquareCount)
	}
	sendPage(w, client.SolverPage(session.SID, name, line))
}

/*

API handlers

*/

// apiSolveHandler answers solve requests.  Storage is consulted
// before solving and fresh solves are recorded after, and every
// solve the client asks for lands in the session's log, cached
// or not.
func apiSolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "solve requests must be POSTed", http.StatusMethodNotAllowed)
		return
	}
	session := sessionSelect(w, r)
	req, err := puzzle.ReadSolveRequest(w, r)
	if err != nil {
		solveCount.WithLabelValues("rejected").Inc()
		return
	}
	if record := storage.LookupSolve(req.Puzzle); record != nil {
		cacheHitCount.Inc()
		solveCount.WithLabelValues("solved").Inc()
		session.RecordSolve(record)
		result := &puzzle.SolveResult{Puzzle: record.Puzzle, Solution: record.Solution, Guesses: record.Guesses}
		puzzle.WriteJSON(result, http.StatusOK, w, r)
		log.Printf("Solve of %q answered from storage.", record.PuzzleID)
		return
	}
	result, err := puzzle.SolveLine(req.Puzzle)
	if err != nil {
		solveCount.WithLabelValues("failed").Inc()
		puzzle.WriteError(err, w, r)
		return
	}
	solveCount.WithLabelValues("solved").Inc()
	guessCount.Add(float64(result.Guesses))
	record := storage.SaveSolve(result)
	session.RecordSolve(record)
	puzzle.WriteJSON(result, http.StatusOK, w, r)
	log.Printf("Solved %q with %d guesses.", record.PuzzleID, result.Guesses)
}

func apiSamplesHandler(w http.ResponseWriter, r *http.Request) {
	sessionSelect(w, r)
	puzzle.WriteJSON(storage.LookupSamples(), http.StatusOK, w, r)
}

func apiRecentHandler(w http.ResponseWriter, r *http.Request) {
	session := sessionSelect(w, r)
	recent := session.RecentSolves(recentSolveCount)
	if recent == nil {
		recent = []*storage.SolveRecord{}
	}
	puzzle.WriteJSON(recent, http.StatusOK, w, r)
}

/*

server

*/

// newServeMux wires every route the server answers.
func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/solve", apiSolveHandler)
	mux.HandleFunc("/api/samples", apiSamplesHandler)
	mux.HandleFunc("/api/recent", apiRecentHandler)
	mux.HandleFunc("/solver/", solverHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if client.StaticHandler(w, r) {
			return
		}
		log.Printf("Handling %s %s...", r.Method, r.URL.Path)
		if r.URL.Path == "/" {
			homeHandler(w, r)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	})
	return mux
}

func main() {
	if err := client.VerifyResources(); err != nil {
		log.Fatalf("Resource check failed: %v", err)
	}
	cacheID, databaseID, err := storage.Connect()
	if err != nil {
		log.Fatalf("Storage connection failed: %v", err)
	}
	defer storage.Close()
	log.Printf("Connected to cache at %q and database at %q.", cacheID, databaseID)

	// proxy environment port sensing
	port := os.Getenv("PORT")
	if port == "" {
		// running locally in dev mode
		port = "localhost:8080"
	} else {
		// running as a true server
		port = ":" + port
	}

	log.Printf("Listening on %s...", port)
	err = http.ListenAndServe(port, newServeMux())
	if err != nil {
		log.Fatal("Listener failure: ", err)
	}
}
