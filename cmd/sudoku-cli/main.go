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

// Command-line solver for sudoku puzzles in their line form
package main

import (
	"bufio"
	"fmt"
	"github.com/ldobbelsteen/sudoku-solver/puzzle"
	"io"
	"log"
	"os"
	"strings"
)

func main() {
	switch len(os.Args) {
	case 1:
		if err := listener(os.Stdout, os.Stdin); err != nil {
			log.Fatalf("CLI failure: %v", err)
		}
	case 2:
		if err := batch(os.Args[1], ""); err != nil {
			log.Fatalf("%v", err)
		}
	case 3:
		if err := batch(os.Args[1], os.Args[2]); err != nil {
			log.Fatalf("%v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [INPUT [OUTPUT]]\n", os.Args[0])
		os.Exit(2)
	}
}

/*

batch solving

*/

// batch solves every puzzle line in the input file, one per
// line, writing each solution line to the output file if one is
// named.  The first puzzle that fails ends the run; a clean run
// ends with a summary of what was done.
func batch(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("Couldn't open input file: %v", err)
	}
	defer in.Close()

	var out *os.File
	if outPath != "" {
		if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("Couldn't remove old output file: %v", err)
		}
		if out, err = os.Create(outPath); err != nil {
			return fmt.Errorf("Couldn't create output file: %v", err)
		}
		defer out.Close()
	}

	solved, deduced := 0, 0
	scanner := bufio.NewScanner(in)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result, err := puzzle.SolveLine(line)
		if err != nil {
			return fmt.Errorf("Puzzle on line %d failed: %v", lineno, err)
		}
		solved++
		if result.Guesses == 0 {
			deduced++
		}
		if out != nil {
			if _, err := fmt.Fprintln(out, result.Solution); err != nil {
				return fmt.Errorf("Couldn't write solution %d: %v", solved, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("Couldn't read input file: %v", err)
	}

	fmt.Printf("Input file: %s\n", inPath)
	if outPath != "" {
		fmt.Printf("Output file: %s\n", outPath)
	}
	fmt.Printf("Total solved: %d\n", solved)
	fmt.Printf("Without brute-force: %d\n", deduced)
	return nil
}

/*

interactive solving

*/

// listener reads puzzle lines and solves each one in turn.  If
// input is a terminal we do prompting; piped input just gets
// the solutions on the output.
// (see http://stackoverflow.com/questions/22744443/ for source)
func listener(out io.Writer, in io.Reader) error {
	prompt := false
	if f, ok := in.(*os.File); ok {
		if stat, _ := f.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	reader := bufio.NewReader(in)
	for {
		if prompt {
			fmt.Fprintf(out, "sudoku> ")
		}
		input, err := reader.ReadString('\n')
		if line := strings.Trim(input, " \t\r\n"); line != "" {
			switch strings.ToLower(line) {
			case "quit", "exit":
				return nil
			}
			solveOne(out, line)
		}
		switch err {
		case nil:
			continue
		case io.EOF:
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		default:
			if prompt {
				fmt.Fprintf(out, " (read error)\n")
			}
			return err
		}
	}
}

// solveOne solves a single puzzle line, printing the solution
// in its grid form with its guess count.  Bad puzzles print
// their problem and the session moves on to the next line.
func solveOne(out io.Writer, line string) {
	p, err := puzzle.New(line)
	if err != nil {
		fmt.Fprintf(out, "%v\n", err)
		return
	}
	s, err := p.Solve()
	if err != nil {
		fmt.Fprintf(out, "%v\n", err)
		return
	}
	fmt.Fprintf(out, "%v\n", s)
	if s.Guesses == 0 {
		fmt.Fprintf(out, "Solved without brute force.\n")
	} else {
		fmt.Fprintf(out, "Brute-force fills: %d\n", s.Guesses)
	}
}
