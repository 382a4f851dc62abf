package client

import (
	"bytes"
	"fmt"
	"github.com/ldobbelsteen/sudoku-solver/puzzle"
	"github.com/ldobbelsteen/sudoku-solver/storage"
	"html/template"
	"os"
	"path/filepath"
)

/*

solver pages

*/

// A templateSolverPage contains the values to fill the solver
// page template.
type templateSolverPage struct {
	SessionID, PuzzleName     string
	PuzzleLine                string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	Puzzle                    templatePuzzle
	ApplicationFooter         string
}

// templatePuzzle is the structure expected by the puzzle grid
// section of the solver page template.
type templatePuzzle [][]templatePuzzleCell

// A templatePuzzleCell contains the cell's index, value, and CSS
// styling classes as expected by the puzzle grid section of the
// solver page template.
type templatePuzzleCell struct {
	Index                   int
	Value                   template.HTML
	Shade, HBorder, VBorder string
}

// add solver statics to the static list
func init() {
	staticResourcePaths["/solver.js"] = filepath.Join("solver", "puzzle.js")
	staticResourcePaths["/solver.css"] = filepath.Join("solver", "puzzle.css")
}

// SolverPage executes the solver page template over the passed
// session and puzzle line, and returns the solver page content
// as a string.  The puzzle name is shown as the grid caption and
// may be empty for puzzles the user entered by hand.  If there
// is an error, what's returned is the error page content as a
// string.
func SolverPage(sessionID string, puzzleName string, line string) string {
	tp, err := lineTemplatePuzzle(line)
	if err != nil {
		return ErrorPage(err)
	}

	tsp := templateSolverPage{
		SessionID:         sessionID,
		PuzzleName:        puzzleName,
		PuzzleLine:        line,
		Title:             fmt.Sprintf("%s: Solver", brandName),
		TopHead:           fmt.Sprintf("Puzzle Solver"),
		IconFile:          iconPath,
		CssFile:           "/solver.css",
		JsFile:            "/solver.js",
		Puzzle:            tp,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("solver")
	if err != nil {
		return ErrorPage(fmt.Errorf("Couldn't load the %q template: %v", "solver", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tsp)
	if err != nil {
		return ErrorPage(err)
	}
	return buf.String()
}

/*

puzzle grid templates

*/

// lineTemplatePuzzle takes the line form of a puzzle and returns
// the appropriate templatePuzzle.  Errors mean the given line
// has the wrong shape to be a puzzle.
func lineTemplatePuzzle(line string) (templatePuzzle, error) {
	chars := []rune(line)
	if len(chars) != puzzle.SquareCount {
		return nil, fmt.Errorf("Puzzle line has %v characters, not %v.", len(chars), puzzle.SquareCount)
	}
	rows := make(templatePuzzle, puzzle.SideLength)
	for i := 0; i < puzzle.SideLength; i++ {
		rows[i] = make([]templatePuzzleCell, puzzle.SideLength)
		// is this top, bottom, or middle row of tile
		hborder := "middle"
		if i%puzzle.TileLength == 0 {
			hborder = "top"
		} else if i%puzzle.TileLength == puzzle.TileLength-1 {
			hborder = "bottom"
		}
		for j := 0; j < puzzle.SideLength; j++ {
			index := i*puzzle.SideLength + j
			value := template.HTML("&nbsp;")
			if c := chars[index]; c >= '1' && c <= '9' {
				value = template.HTML(string(c))
			}
			tile := i/puzzle.TileLength + j/puzzle.TileLength
			// even tile or odd tile shading
			shade := "lighter"
			if tile%2 == 0 {
				shade = "darker"
			}
			// is this left, center, or right column of tile
			vborder := "center"
			if j%puzzle.TileLength == 0 {
				vborder = "left"
			} else if j%puzzle.TileLength == puzzle.TileLength-1 {
				vborder = "right"
			}
			rows[i][j] = templatePuzzleCell{
				Index:   index + 1,
				Value:   value,
				Shade:   shade,
				HBorder: hborder,
				VBorder: vborder,
			}
		}
	}
	return rows, nil
}

/*

error pages

*/

// A templateErrorPage contains the values to fill the error page
// template.
type templateErrorPage struct {
	Title, TopHead, Message string
	IconFile, ReportBugPage string
	ApplicationFooter       string
}

// ErrorPage executes the error page template over the passed
// error, and returns the error page content as a string.
func ErrorPage(e error) string {
	tep := templateErrorPage{
		Title:             fmt.Sprintf("%s: Error", brandName),
		TopHead:           fmt.Sprintf("Error Page"),
		Message:           e.Error(),
		IconFile:          iconPath,
		ReportBugPage:     reportBugPath,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("error")
	if err != nil {
		return fmt.Sprintf("Couldn't load the %q template: %v", "error", err)
	}

	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tep)
	if err != nil {
		return fmt.Sprintf("A templating error has occurred: %v", err)
	}
	return buf.String()
}

/*

home page

*/

// A templateHomePage contains the values to fill the home page
// template.
type templateHomePage struct {
	SessionID                 string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	Samples                   []storage.SampleInfo
	Recent                    []*storage.SolveRecord
	ApplicationFooter         string
}

// add home statics to the static list
func init() {
	staticResourcePaths["/home.js"] = filepath.Join("home", "home.js")
	staticResourcePaths["/home.css"] = filepath.Join("home", "home.css")
}

// HomePage executes the home page template over the passed
// session, sample list, and recent solves, and returns the home
// page content as a string.  If there is an error, what's
// returned is the error page content as a string.
func HomePage(sessionID string, samples []storage.SampleInfo, recent []*storage.SolveRecord) string {
	thp := templateHomePage{
		SessionID:         sessionID,
		Title:             fmt.Sprintf("%s: Home", brandName),
		TopHead:           fmt.Sprintf("%s", brandName),
		IconFile:          iconPath,
		CssFile:           "/home.css",
		JsFile:            "/home.js",
		Samples:           samples,
		Recent:            recent,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("home")
	if err != nil {
		return ErrorPage(fmt.Errorf("Couldn't load the %q template: %v", "home", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, thp)
	if err != nil {
		return ErrorPage(err)
	}
	return buf.String()
}

/*

application footer

*/

// applicationFooter - the application footer that shows at the
// bottom of all pages.
func applicationFooter() string {
	appName := os.Getenv(applicationNameEnvVar)
	appEnv := os.Getenv(applicationEnvEnvVar)
	appVersion := os.Getenv(applicationVersionEnvVar)
	appInstance := os.Getenv(applicationInstanceEnvVar)
	appBuild := os.Getenv(applicationBuildEnvVar)

	if appName == "" {
		appName = brandName
	}

	if appEnv == "" {
		appEnv = "local"
	}

	if appVersion != "" {
		appVersion = " " + appVersion
	}
	if len(appBuild) >= 7 {
		appBuild = appBuild[:7]
	}

	if appInstance != "" {
		appInstance = " (instance " + appInstance + ")"
	}

	switch appEnv {
	case "local":
		return "[" + appName + " local]"
	case "dev":
		return "[" + appName + " CI/CD]"
	case "stg":
		return "[" + appName + appVersion + " <" + appBuild + ">]"
	case "prd":
		return "[" + appName + appVersion + " <" + appBuild + ">" + appInstance + "]"
	}
	return "[" + appName + " <??>]"
}
