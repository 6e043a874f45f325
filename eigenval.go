package main

import (
	"strconv"
	"strings"
)

// Eigenval holds the per-k-point eigenvalues read from an EIGENVAL
// file. Only what the band analysis needs is kept, not the full
// occupancy tensor.
type Eigenval struct {
	Nelect int
	Nkpts  int
	Nbands int
	Ispin  int
	// fractional k-point coordinates, one per block
	Kpoints [][3]float64
	// Bands[k] holds the eigenvalues at k-point k in band order,
	// spin-up and spin-down interleaved per band for ISPIN=2
	Bands [][]float64
}

// Flatten returns every eigenvalue from every k-point, band, and spin
// channel as one slice
func (e *Eigenval) Flatten() (all []float64) {
	for _, b := range e.Bands {
		all = append(all, b...)
	}
	return
}

// ParseEigenval reads an EIGENVAL file. The header is positional like
// DOSCAR: line 1 field 4 is ISPIN, line 6 is NELECT, NKPTS, NBANDS.
// Each k-point block is a blank line, a 4-field k-point line, and
// NBANDS band lines of index plus one or two energies. A missing file
// is ErrFileNotFound; in Strict mode a file too short for the header is
// ErrMalformed, in Lenient mode it yields an empty record.
func ParseEigenval(filename string, mode Mode) (*Eigenval, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	empty := &Eigenval{Ispin: 1}
	if len(lines) < 6 {
		if mode == Lenient {
			return empty, nil
		}
		return nil, ErrMalformed
	}
	first := strings.Fields(lines[0])
	sixth := strings.Fields(lines[5])
	if len(first) < 4 || len(sixth) < 3 {
		if mode == Lenient {
			return empty, nil
		}
		return nil, ErrMalformed
	}
	ispin, err1 := strconv.Atoi(first[3])
	nelect, err2 := strconv.Atoi(sixth[0])
	nkpts, err3 := strconv.Atoi(sixth[1])
	nbands, err4 := strconv.Atoi(sixth[2])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		if mode == Lenient {
			return empty, nil
		}
		return nil, ErrMalformed
	}
	e := &Eigenval{
		Nelect: nelect,
		Nkpts:  nkpts,
		Nbands: nbands,
		Ispin:  ispin,
	}
	var cur []float64
	for _, line := range lines[6:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// a k-point line has 4 float fields and only appears once
		// the previous block is complete
		if len(fields) >= 4 && (cur == nil || len(cur) >= nbands*ispin) {
			var (
				kpt [3]float64
				ok  = true
			)
			for j := 0; j < 3; j++ {
				v, err := strconv.ParseFloat(fields[j], 64)
				if err != nil {
					ok = false
					break
				}
				kpt[j] = v
			}
			if ok {
				if cur != nil {
					e.Bands = append(e.Bands, cur)
				}
				e.Kpoints = append(e.Kpoints, kpt)
				cur = []float64{}
				continue
			}
		}
		if cur == nil || len(fields) < 2 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		for j := 1; j <= ispin && j < len(fields); j++ {
			if v, err := strconv.ParseFloat(fields[j], 64); err == nil {
				cur = append(cur, v)
			}
		}
	}
	if cur != nil {
		e.Bands = append(e.Bands, cur)
	}
	return e, nil
}
