package main

import (
	"strconv"
	"strings"
)

// Doscar holds the header and total density of states read from a
// DOSCAR. Built once by ParseDoscar and immutable afterward.
type Doscar struct {
	Natoms int
	Nedos  int
	Efermi float64
	// 1 or 2 spin channels
	Ispin    int
	Energies []float64
	// one channel for ISPIN=1, two parallel channels (up, down) for
	// ISPIN=2; each truncated to the lines actually present
	Total [][]float64
	// per-atom projected DOS blocks, declared but not parsed yet
	Projected map[int][]float64
}

// SpinPolarized reports whether the file carries two spin channels
func (d *Doscar) SpinPolarized() bool { return d.Ispin == 2 }

// TotalAt returns the spin-summed total DOS at sample i
func (d *Doscar) TotalAt(i int) float64 {
	var sum float64
	for _, ch := range d.Total {
		if i < len(ch) {
			sum += ch[i]
		}
	}
	return sum
}

// ParseDoscar reads a DOSCAR file. The layout is positional: line 1
// field 1 is the atom count, line 6 fields 3 and 4 are NEDOS and the
// fermi energy, and NEDOS data lines follow starting at line 7. ispin
// forces the number of spin channels; pass 0 to infer it from the
// field count of line 5 (more than 4 fields means two channels).
// A missing file is ErrFileNotFound; in Strict mode a file too short to
// hold the header is ErrMalformed, in Lenient mode it yields an empty
// record.
func ParseDoscar(filename string, ispin int, mode Mode) (*Doscar, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	empty := &Doscar{Ispin: 1, Projected: make(map[int]([]float64))}
	if len(lines) < 6 {
		if mode == Lenient {
			return empty, nil
		}
		return nil, ErrMalformed
	}
	first := strings.Fields(lines[0])
	sixth := strings.Fields(lines[5])
	if len(first) < 1 || len(sixth) < 4 {
		if mode == Lenient {
			return empty, nil
		}
		return nil, ErrMalformed
	}
	natoms, err1 := strconv.Atoi(first[0])
	nedos, err2 := strconv.Atoi(sixth[2])
	efermi, err3 := strconv.ParseFloat(sixth[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		if mode == Lenient {
			return empty, nil
		}
		return nil, ErrMalformed
	}
	if ispin == 0 {
		ispin = 1
		if len(strings.Fields(lines[4])) > 4 {
			ispin = 2
		}
	}
	d := &Doscar{
		Natoms:    natoms,
		Nedos:     nedos,
		Efermi:    efermi,
		Ispin:     ispin,
		Projected: make(map[int][]float64),
	}
	d.Total = make([][]float64, ispin)
	for i := 6; i < 6+nedos && i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 2 {
			continue
		}
		energy, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		d.Energies = append(d.Energies, energy)
		up, _ := strconv.ParseFloat(fields[1], 64)
		if ispin == 2 {
			var down float64
			if len(fields) > 2 {
				down, _ = strconv.ParseFloat(fields[2], 64)
			}
			d.Total[0] = append(d.Total[0], up)
			d.Total[1] = append(d.Total[1], down)
		} else {
			d.Total[0] = append(d.Total[0], up)
		}
	}
	return d, nil
}
