package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Kpoints describes an automatic k-point mesh
type Kpoints struct {
	Comment string
	Mode    string // Gamma or Monkhorst
	Grid    [3]int
	Shift   [3]float64
}

// GammaCentered returns a gamma-centered mesh with the given grid
func GammaCentered(grid [3]int) *Kpoints {
	return &Kpoints{Comment: "Automatic mesh", Mode: "Gamma", Grid: grid}
}

// ReadKpoints parses an automatic-mesh KPOINTS file
func ReadKpoints(filename string) (*Kpoints, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	if len(lines) < 4 {
		return nil, ErrMalformed
	}
	k := &Kpoints{Comment: strings.TrimSpace(lines[0])}
	switch {
	case strings.HasPrefix(strings.TrimSpace(lines[2]), "G"),
		strings.HasPrefix(strings.TrimSpace(lines[2]), "g"):
		k.Mode = "Gamma"
	case strings.HasPrefix(strings.TrimSpace(lines[2]), "M"),
		strings.HasPrefix(strings.TrimSpace(lines[2]), "m"):
		k.Mode = "Monkhorst"
	default:
		return nil, ErrMalformed
	}
	fields := strings.Fields(lines[3])
	if len(fields) < 3 {
		return nil, ErrMalformed
	}
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil || n < 1 {
			return nil, ErrMalformed
		}
		k.Grid[i] = n
	}
	if len(lines) > 4 {
		fields = strings.Fields(lines[4])
		for i := 0; i < 3 && i < len(fields); i++ {
			k.Shift[i], _ = strconv.ParseFloat(fields[i], 64)
		}
	}
	return k, nil
}

// Write writes k in the automatic-mesh layout
func (k *Kpoints) Write(filename string) error {
	var buf bytes.Buffer
	comment := k.Comment
	if comment == "" {
		comment = "Automatic mesh"
	}
	fmt.Fprintf(&buf, "%s\n0\n%s\n", comment, k.Mode)
	fmt.Fprintf(&buf, "%d %d %d\n", k.Grid[0], k.Grid[1], k.Grid[2])
	fmt.Fprintf(&buf, "%g %g %g\n", k.Shift[0], k.Shift[1], k.Shift[2])
	return os.WriteFile(filename, buf.Bytes(), 0644)
}
