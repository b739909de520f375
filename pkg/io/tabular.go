package io

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/phensim"
)

// scanRecords calls fn with the tab-separated fields and line number of
// every non-blank, non-comment line of r.
func scanRecords(r io.Reader, fn func(fields []string, line int) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if err := fn(fields, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read")
	}
	return nil
}

// ReadExpression reads "id<TAB>value" lines into an expression map.
// A first line whose value is not a number is treated as a header.
// Duplicate IDs and non-finite values are INVALID_FORMAT errors.
func ReadExpression(r io.Reader) (map[string]float64, error) {
	expr := make(map[string]float64)
	first := true
	err := scanRecords(r, func(f []string, line int) error {
		header := first
		first = false
		if len(f) < 2 {
			return perrors.New(perrors.ErrCodeInvalidFormat, "line %d: want id and value, got %d fields", line, len(f))
		}
		v, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			if header {
				return nil
			}
			return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "line %d: value %q", line, f[1])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return perrors.New(perrors.ErrCodeInvalidFormat, "line %d: non-finite value for %s", line, f[0])
		}
		if _, dup := expr[f[0]]; dup {
			return perrors.New(perrors.ErrCodeInvalidFormat, "line %d: duplicate id %s", line, f[0])
		}
		expr[f[0]] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// ReadConstraints reads "id<TAB>direction[<TAB>value]" lines.
func ReadConstraints(r io.Reader) (map[string]phensim.Constraint, error) {
	out := make(map[string]phensim.Constraint)
	err := scanRecords(r, func(f []string, line int) error {
		if len(f) < 2 {
			return perrors.New(perrors.ErrCodeInvalidFormat, "line %d: want id and direction, got %d fields", line, len(f))
		}
		dir, err := phensim.ParseDirection(f[1])
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		c := phensim.Constraint{Direction: dir}
		if len(f) > 2 && f[2] != "" {
			v, err := strconv.ParseFloat(f[2], 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return perrors.New(perrors.ErrCodeInvalidFormat, "line %d: invalid value %q", line, f[2])
			}
			c.Value = v
		}
		if _, dup := out[f[0]]; dup {
			return perrors.New(perrors.ErrCodeInvalidFormat, "line %d: duplicate id %s", line, f[0])
		}
		out[f[0]] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadNodeList reads one node ID per line, keeping the first field of each
// line and dropping duplicates.
func ReadNodeList(r io.Reader) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	err := scanRecords(r, func(f []string, _ int) error {
		if !seen[f[0]] {
			seen[f[0]] = true
			ids = append(ids, f[0])
		}
		return nil
	})
	return ids, err
}

// ImportExpression reads the expression file at path.
func ImportExpression(path string) (map[string]float64, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadExpression(f)
}

// ImportConstraints reads the constraint file at path.
func ImportConstraints(path string) (map[string]phensim.Constraint, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadConstraints(f)
}

// ImportNodeList reads the node list at path.
func ImportNodeList(path string) ([]string, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadNodeList(f)
}
