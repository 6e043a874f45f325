package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadPoscar reads a VASP 5 POSCAR/CONTCAR into a Structure. The
// layout is positional: comment, scale factor, three lattice vectors,
// element symbols, counts, an optional selective-dynamics line, the
// coordinate type, then one position per atom.
func ReadPoscar(filename string) (*Structure, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	if len(lines) < 8 {
		return nil, ErrMalformed
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	if err != nil {
		return nil, ErrMalformed
	}
	var vectors [3][3]float64
	for i := 0; i < 3; i++ {
		fields := strings.Fields(lines[2+i])
		if len(fields) < 3 {
			return nil, ErrMalformed
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, ErrMalformed
			}
			vectors[i][j] = v * scale
		}
	}
	symbols := strings.Fields(lines[5])
	counts := strings.Fields(lines[6])
	if len(symbols) == 0 || len(symbols) != len(counts) {
		return nil, ErrMalformed
	}
	// element symbols must not be bare counts (VASP 4 layout)
	if _, err := strconv.Atoi(symbols[0]); err == nil {
		return nil, ErrMalformed
	}
	var elements []string
	for i, sym := range symbols {
		n, err := strconv.Atoi(counts[i])
		if err != nil || n < 1 {
			return nil, ErrMalformed
		}
		for j := 0; j < n; j++ {
			elements = append(elements, sym)
		}
	}
	pos := 7
	if len(lines[pos]) > 0 && (lines[pos][0] == 'S' || lines[pos][0] == 's') {
		pos++ // selective dynamics
	}
	if pos >= len(lines) {
		return nil, ErrMalformed
	}
	var cartesian bool
	switch lines[pos][0] {
	case 'C', 'c', 'K', 'k':
		cartesian = true
	case 'D', 'd':
		cartesian = false
	default:
		return nil, ErrMalformed
	}
	pos++
	atoms := make([]Atom, 0, len(elements))
	for i, elem := range elements {
		if pos+i >= len(lines) {
			return nil, ErrMalformed
		}
		fields := strings.Fields(lines[pos+i])
		if len(fields) < 3 {
			return nil, ErrMalformed
		}
		var p [3]float64
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, ErrMalformed
			}
			p[j] = v
			if cartesian {
				p[j] *= scale
			}
		}
		atoms = append(atoms, Atom{Element: elem, Position: p})
	}
	return NewStructure(NewLattice(vectors), atoms, cartesian)
}

// WritePoscar writes s as a VASP 5 POSCAR, keeping the coordinate type
// of the structure
func WritePoscar(filename string, s *Structure) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", s.Formula())
	fmt.Fprintf(&buf, "1.0\n")
	for i := 0; i < 3; i++ {
		v := s.Lattice.Vector(i)
		fmt.Fprintf(&buf, " %20.12f %20.12f %20.12f\n", v[0], v[1], v[2])
	}
	symbols, counts := groupElements(s.Atoms)
	fmt.Fprintf(&buf, "%s\n", strings.Join(symbols, " "))
	for i, n := range counts {
		if i > 0 {
			buf.WriteString(" ")
		}
		fmt.Fprintf(&buf, "%d", n)
	}
	buf.WriteString("\n")
	if s.Cartesian {
		buf.WriteString("Cartesian\n")
	} else {
		buf.WriteString("Direct\n")
	}
	for _, a := range s.Atoms {
		fmt.Fprintf(&buf, " %20.12f %20.12f %20.12f\n",
			a.Position[0], a.Position[1], a.Position[2])
	}
	return os.WriteFile(filename, buf.Bytes(), 0644)
}

// groupElements collapses consecutive runs of the same element into
// the POSCAR symbol and count lines
func groupElements(atoms []Atom) (symbols []string, counts []int) {
	for _, a := range atoms {
		n := len(symbols)
		if n > 0 && symbols[n-1] == a.Element {
			counts[n-1]++
			continue
		}
		symbols = append(symbols, a.Element)
		counts = append(counts, 1)
	}
	return
}
