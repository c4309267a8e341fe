// Package readmatrix parses whitespace separated numeric tables.
package readmatrix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ReadMatrix reads the table stored in filename.
func ReadMatrix(filename string) (*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses a table of numbers, one row per line. Blank lines and lines
// starting with '#' are skipped; a first line that is not all numbers is
// treated as a header. Fields may be separated by spaces, tabs or commas.
func Read(r io.Reader) (*mat.Dense, error) {
	var (
		flat    []float64
		cols    int
		rows    int
		lineNo  int
		started bool
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(c rune) bool {
			return c == ' ' || c == '\t' || c == ','
		})

		row, perr := parseRow(fields)
		if perr != nil {
			if !started {
				// Заголовок
				started = true
				continue
			}
			return nil, fmt.Errorf("line %d: %w", lineNo, perr)
		}
		started = true

		if rows == 0 {
			cols = len(row)
		} else if len(row) != cols {
			return nil, fmt.Errorf("line %d: inconsistent number of columns: expected %d, got %d",
				lineNo, cols, len(row))
		}
		flat = append(flat, row...)
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}

	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("table has no numeric rows")
	}
	return mat.NewDense(rows, cols, flat), nil
}

func parseRow(fields []string) ([]float64, error) {
	row := make([]float64, len(fields))
	for i, field := range fields {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		row[i] = val
	}
	return row, nil
}
