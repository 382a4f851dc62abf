package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/ldobbelsteen/sudoku-solver/client"
	"github.com/ldobbelsteen/sudoku-solver/dbprep"
	"github.com/ldobbelsteen/sudoku-solver/puzzle"
	"github.com/ldobbelsteen/sudoku-solver/storage"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	clientCount = 5
	runCount    = 3
)

// The tests drive the server's handlers against live storage,
// so the whole stack comes up once, empty, and goes down at the
// end.  They also run from this command's directory, so the
// client resource directories have to be pointed at the
// repository's static tree.
func TestMain(m *testing.M) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "..", "dbprep"))
	os.Setenv("STATIC_DIRECTORY", filepath.Join("..", "..", "static"))
	os.Setenv("TEMPLATE_DIRECTORY", filepath.Join("..", "..", "static", "tmpl"))
	if err := client.VerifyResources(); err != nil {
		fmt.Printf("Exiting: couldn't find client resources: %v\n", err)
		os.Exit(1)
	}
	if err := dbprep.ReinitializeAll(); err != nil {
		fmt.Printf("Exiting: couldn't reinitialize storage: %v\n", err)
		os.Exit(1)
	}
	if _, _, err := storage.Connect(); err != nil {
		fmt.Printf("Exiting: couldn't connect to storage: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	storage.Close()
	os.Exit(code)
}

// newJarClient makes an http client with a fresh cookie jar, so
// it holds a session the way a browser would.
func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, e := cookiejar.New(nil)
	if e != nil {
		t.Fatalf("Failed to create cookie jar: %v", e)
	}
	return &http.Client{Jar: jar}
}

// checkSolutionLine fails unless got is a solved form of give.
func checkSolutionLine(t *testing.T, label, give, got string) {
	t.Helper()
	if len(got) != 81 {
		t.Errorf("%s: solution has %d characters", label, len(got))
		return
	}
	p, err := puzzle.New(got)
	if err != nil {
		t.Errorf("%s: solution doesn't parse: %v", label, err)
		return
	}
	if !p.Solved() {
		t.Errorf("%s: solution has unfilled squares: %q", label, got)
	}
	for i := range give {
		if give[i] != '.' && give[i] != got[i] {
			t.Errorf("%s: solution changed square %d from %q to %q",
				label, i+1, give[i], got[i])
		}
	}
}

func TestGetCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := sessionSelect(w, r)
		t.Logf("Session %v handling %s %s.", session.SID, r.Method, r.URL.Path)
		http.Error(w, "This is a test", http.StatusOK)
	}))
	defer srv.Close()

	c := newJarClient(t)

	// for each forwarded protocol, do a pair of requests: one to
	// get the cookie set, one to use it.  Changing the protocol
	// must start a fresh session even though a cookie is offered.
	for i, proto := range []string{"", "http", "https"} {
		for j, expectSetCookie := range []bool{true, false} {
			req, e := http.NewRequest("GET", srv.URL, nil)
			if e != nil {
				t.Fatalf("Failed to create request %d: %v", 2*i+j, e)
			}
			if proto != "" {
				req.Header.Add("X-Forwarded-Proto", proto)
			}
			r, e := c.Do(req)
			if e != nil {
				t.Fatalf("Request error: %v", e)
			}
			r.Body.Close()
			sc := r.Header.Get("Set-Cookie")
			if expectSetCookie {
				if sc == "" {
					t.Errorf("No Set-Cookie received on request %d.", 2*i+j)
				} else {
					prefix := proto
					if prefix == "" {
						prefix = "httpx"
					}
					if !strings.Contains(sc, cookieName+"="+prefix+"-") {
						t.Errorf("Request %d cookie has wrong protocol prefix: %q", 2*i+j, sc)
					}
				}
			} else if sc != "" {
				t.Errorf("Set-Cookie received on request %d: %q", 2*i+j, sc)
			}
		}
	}
}

type serverClient struct {
	id       int                // which client this is
	client   *http.Client       // the http client, with cookies
	sample   storage.SampleInfo // the puzzle this client solves
	interval int                // the interval, in msec, between calls
}

func TestConcurrentSolves(t *testing.T) {
	// deterministic session count for this test
	sessionMutex.Lock()
	sessions = make(map[string]*storage.Session)
	sessionMutex.Unlock()

	samples := storage.LookupSamples()
	if len(samples) == 0 {
		t.Fatalf("Exiting: no sample puzzles in storage")
	}

	srv := httptest.NewServer(newServeMux())
	defer srv.Close()

	// helper - post the client's puzzle for solving, check the
	// solution that comes back
	postSolve := func(c *serverClient) bool {
		body, e := json.Marshal(puzzle.SolveRequest{Puzzle: c.sample.Puzzle})
		if e != nil {
			t.Errorf("client %d: Failed to encode request: %v", c.id, e)
			return false
		}
		r, e := c.client.Post(srv.URL+"/api/solve", "application/json", bytes.NewReader(body))
		if e != nil {
			t.Errorf("client %d: Request error: %v", c.id, e)
			return false
		}
		b, e := io.ReadAll(r.Body)
		r.Body.Close()
		if e != nil {
			t.Errorf("client %d: Read error on solve response body: %v", c.id, e)
			return false
		}
		if r.StatusCode != http.StatusOK {
			t.Errorf("client %d: Solve returned status %d: %s", c.id, r.StatusCode, b)
			return false
		}
		var result puzzle.SolveResult
		if e := json.Unmarshal(b, &result); e != nil {
			t.Errorf("client %d: Unmarshal failed: %v", c.id, e)
			return false
		}
		if result.Puzzle != c.sample.Puzzle {
			t.Errorf("client %d: Result is for the wrong puzzle: %q", c.id, result.Puzzle)
			return false
		}
		checkSolutionLine(t, fmt.Sprintf("client %d", c.id), result.Puzzle, result.Solution)
		return true
	}
	// helper - fetch the session's recent solves, check they are
	// all this client's puzzle and that the count has kept up
	checkRecent := func(c *serverClient, count int) bool {
		r, e := c.client.Get(srv.URL + "/api/recent")
		if e != nil {
			t.Errorf("client %d: Request error: %v", c.id, e)
			return false
		}
		b, e := io.ReadAll(r.Body)
		r.Body.Close()
		if e != nil {
			t.Errorf("client %d: Read error on recent response body: %v", c.id, e)
			return false
		}
		var recent []*storage.SolveRecord
		if e := json.Unmarshal(b, &recent); e != nil {
			t.Errorf("client %d: Unmarshal failed: %v", c.id, e)
			return false
		}
		if len(recent) != count {
			t.Errorf("client %d: %d recent solves, expected %d", c.id, len(recent), count)
			return false
		}
		for _, rec := range recent {
			if rec.Puzzle != c.sample.Puzzle {
				t.Errorf("client %d: Recent list has someone else's puzzle: %q", c.id, rec.Puzzle)
				return false
			}
		}
		return true
	}
	// helper - sleep interval milliseconds
	sleep := func(c *serverClient) {
		time.Sleep(time.Duration(c.interval) * time.Millisecond)
	}

	// make clients, each with its own sample puzzle
	clients := make([]*serverClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = &serverClient{
			id:       i + 1,
			client:   newJarClient(t),
			sample:   samples[i%len(samples)],
			interval: (i*17)%100 + 100,
		}
	}

	// each client solves its puzzle runCount times; the first
	// solve computes, the rest are answered from storage, and
	// every one of them has to land in the session log
	ch := make(chan int, clientCount)
	start := time.Now()
	for i := 0; i < clientCount; i++ {
		go func(c *serverClient) {
			defer func() { ch <- c.id }()
			for run := 1; run <= runCount; run++ {
				sleep(c)
				if !postSolve(c) {
					return
				}
				sleep(c)
				if !checkRecent(c, run) {
					return
				}
			}
		}(clients[i])
	}
	for i := 0; i < clientCount; i++ {
		id := <-ch
		t.Logf("Client %d finished in %v\n", id, time.Now().Sub(start))
	}
	if len(sessions) != clientCount {
		t.Errorf("At end of run, there were %d sessions", len(sessions))
	}

	// a session evicted from this instance's memory has to come
	// back from storage with its log intact
	sessionMutex.Lock()
	sessions = make(map[string]*storage.Session)
	sessionMutex.Unlock()
	if !checkRecent(clients[0], runCount) {
		t.Errorf("client %d: Recent solves lost with the in-memory session", clients[0].id)
	}
}

func TestPages(t *testing.T) {
	samples := storage.LookupSamples()
	if len(samples) == 0 {
		t.Fatalf("Exiting: no sample puzzles in storage")
	}

	srv := httptest.NewServer(newServeMux())
	defer srv.Close()
	c := newJarClient(t)

	get := func(path string) (int, string) {
		r, e := c.Get(srv.URL + path)
		if e != nil {
			t.Fatalf("Request error on %q: %v", path, e)
		}
		b, e := io.ReadAll(r.Body)
		r.Body.Close()
		if e != nil {
			t.Fatalf("Read error on %q: %v", path, e)
		}
		return r.StatusCode, string(b)
	}

	// home page lists every sample
	status, body := get("/")
	if status != http.StatusOK {
		t.Errorf("Home page status: %d", status)
	}
	for _, sample := range samples {
		if !strings.Contains(body, ">"+sample.Name+"<") {
			t.Errorf("Home page doesn't list sample %q", sample.Name)
		}
	}

	// named solver page carries the sample's line
	status, body = get("/solver/" + samples[0].Name)
	if status != http.StatusOK {
		t.Errorf("Solver page status: %d", status)
	}
	if !strings.Contains(body, `data-puzzle-line="`+samples[0].Puzzle+`"`) {
		t.Errorf("Solver page doesn't carry the %q line", samples[0].Name)
	}

	// bare solver page shows an empty grid
	_, body = get("/solver/")
	if !strings.Contains(body, `data-puzzle-line="`+strings.Repeat(".", 81)+`"`) {
		t.Errorf("Bare solver page doesn't show an empty puzzle")
	}

	// unknown sample names get the error page
	_, body = get("/solver/nosuchsample")
	if !strings.Contains(body, "There is no sample puzzle named") {
		t.Errorf("Unknown sample didn't render the error page")
	}

	// unknown paths redirect to the home page
	status, body = get("/nosuchpage")
	if status != http.StatusOK || !strings.Contains(body, "Sample Puzzles") {
		t.Errorf("Unknown path didn't land on the home page (status %d)", status)
	}

	// static resources are served from the registry
	status, body = get("/solver.css")
	if status != http.StatusOK || !strings.Contains(body, "table.puzzle") {
		t.Errorf("Static stylesheet not served (status %d)", status)
	}
}

func TestApiErrors(t *testing.T) {
	srv := httptest.NewServer(newServeMux())
	defer srv.Close()
	c := newJarClient(t)

	// a short line is a 400 with a sizing error
	body, _ := json.Marshal(puzzle.SolveRequest{Puzzle: "123"})
	r, e := c.Post(srv.URL+"/api/solve", "application/json", bytes.NewReader(body))
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	b, _ := io.ReadAll(r.Body)
	r.Body.Close()
	if r.StatusCode != http.StatusBadRequest {
		t.Errorf("Short puzzle returned status %d", r.StatusCode)
	}
	var perr puzzle.Error
	if e := json.Unmarshal(b, &perr); e != nil {
		t.Fatalf("Unmarshal of error failed: %v", e)
	}
	if perr.Condition != puzzle.WrongPuzzleSizeCondition {
		t.Errorf("Short puzzle returned condition %v", perr.Condition)
	}

	// solve requests have to be POSTed
	r, e = c.Get(srv.URL + "/api/solve")
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	r.Body.Close()
	if r.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET of solve endpoint returned status %d", r.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	srv := httptest.NewServer(newServeMux())
	defer srv.Close()
	c := newJarClient(t)

	// counters with labels only show up once they have counted
	// something, so make one solve happen first
	samples := storage.LookupSamples()
	if len(samples) == 0 {
		t.Fatalf("Exiting: no sample puzzles in storage")
	}
	body, _ := json.Marshal(puzzle.SolveRequest{Puzzle: samples[0].Puzzle})
	r, e := c.Post(srv.URL+"/api/solve", "application/json", bytes.NewReader(body))
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	r.Body.Close()
	if r.StatusCode != http.StatusOK {
		t.Fatalf("Solve returned status %d", r.StatusCode)
	}

	r, e = http.Get(srv.URL + "/metrics")
	if e != nil {
		t.Fatalf("Request error: %v", e)
	}
	b, e := io.ReadAll(r.Body)
	r.Body.Close()
	if e != nil {
		t.Fatalf("Read error on metrics body: %v", e)
	}
	if r.StatusCode != http.StatusOK {
		t.Errorf("Metrics status: %d", r.StatusCode)
	}
	page := string(b)
	for _, metric := range []string{
		"sudoku_server_solves_total",
		"sudoku_server_guessed_squares_total",
		"sudoku_server_cache_hits_total",
	} {
		if !strings.Contains(page, metric) {
			t.Errorf("Metrics page doesn't carry %q", metric)
		}
	}
}
