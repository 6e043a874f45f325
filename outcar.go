package main

import (
	"bufio"
	"errors"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Mode selects how an extractor treats a source file that exists but
// cannot be parsed. The OUTCAR reader defaults to Lenient since a
// malformed file is the normal signature of a crashed or still-running
// calculation; the DOSCAR reader defaults to Strict because nothing
// useful survives a missing header.
type Mode int

const (
	Lenient Mode = iota
	Strict
)

// Errors shared by the output readers
var (
	ErrFileNotFound = errors.New("output file not found")
	ErrMalformed    = errors.New("output file is malformed")
)

var brokenFloat = math.NaN()

// Outcar holds everything extracted from a single OUTCAR. It is built
// once by ParseOutcar and not modified afterward; re-reading a file
// means building a new Outcar.
type Outcar struct {
	// one entry per reported SCF cycle, in file order, duplicates
	// from restarted runs included
	Energies []float64
	// one snapshot per ionic step, one 3-vector per atom
	Forces [][][3]float64
	// batches of stress components in kB
	Stress [][]float64
	// NaN if the file never reports E-fermi
	Fermi float64
	// last entry of Energies, NaN if there are none
	TotalEnergy float64
	Converged   bool
	IonicSteps  int
	// SCF iterations per ionic step
	ElectronicSteps []int
	// seconds keyed by timing label
	Timing  map[string]float64
	Moments [][]float64
}

var (
	energyRe  = regexp.MustCompile(`free  energy   TOTEN  =\s+(-?\d+\.\d+)\s+eV`)
	fermiRe   = regexp.MustCompile(`E-fermi :\s+(-?\d+\.\d+)`)
	stressRe  = regexp.MustCompile(`in kB\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)`)
	cpuRe     = regexp.MustCompile(`Total CPU time used \(sec\):\s+(\d+\.\d+)`)
	elapsedRe = regexp.MustCompile(`Elapsed time \(sec\):\s+(\d+\.\d+)`)
)

type tokKind int

const (
	tokBlank tokKind = iota
	tokEnergy
	tokFermi
	tokConverged
	tokForceHeader
	tokStressHeader
	tokStressRow
	tokMagHeader
	tokIteration
	tokScfStep
	tokTiming
	tokRow
)

// token is one recognized OUTCAR line. Recognizing a line is separated
// from computing with it: lexOutcar only classifies, the reduce*
// functions below hold the per-quantity state machines.
type token struct {
	kind   tokKind
	line   int
	name   string
	vals   []float64
	fields []string
}

func lexOutcar(lines []string) []token {
	toks := make([]token, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" || strings.Contains(line, "---") {
			toks = append(toks, token{kind: tokBlank, line: i})
			continue
		}
		switch {
		case strings.Contains(line, "TOTAL-FORCE (eV/Angst)"):
			toks = append(toks, token{kind: tokForceHeader, line: i})
		case strings.Contains(line, "FORCE on cell =-STRESS"):
			toks = append(toks, token{kind: tokStressHeader, line: i})
		case strings.Contains(line, "magnetization (x)"):
			toks = append(toks, token{kind: tokMagHeader, line: i})
		case strings.Contains(line, "reached required accuracy"):
			toks = append(toks, token{kind: tokConverged, line: i})
		case strings.Contains(line, "ITERATION") &&
			strings.Contains(line, "ENERGY"):
			toks = append(toks, token{kind: tokIteration, line: i})
		case strings.Contains(line, "DAV:") || strings.Contains(line, "RMM:"):
			toks = append(toks, token{kind: tokScfStep, line: i})
		default:
			if m := energyRe.FindStringSubmatch(line); m != nil {
				v, _ := strconv.ParseFloat(m[1], 64)
				toks = append(toks, token{kind: tokEnergy, line: i, vals: []float64{v}})
				continue
			}
			if m := fermiRe.FindStringSubmatch(line); m != nil {
				v, _ := strconv.ParseFloat(m[1], 64)
				toks = append(toks, token{kind: tokFermi, line: i, vals: []float64{v}})
				continue
			}
			if m := stressRe.FindStringSubmatch(line); m != nil {
				vals := make([]float64, 3)
				for j, s := range m[1:] {
					vals[j], _ = strconv.ParseFloat(s, 64)
				}
				toks = append(toks, token{kind: tokStressRow, line: i, vals: vals})
				continue
			}
			if m := cpuRe.FindStringSubmatch(line); m != nil {
				v, _ := strconv.ParseFloat(m[1], 64)
				toks = append(toks, token{kind: tokTiming, line: i,
					name: "total_cpu_time", vals: []float64{v}})
				continue
			}
			if m := elapsedRe.FindStringSubmatch(line); m != nil {
				v, _ := strconv.ParseFloat(m[1], 64)
				toks = append(toks, token{kind: tokTiming, line: i,
					name: "elapsed_time", vals: []float64{v}})
				continue
			}
			toks = append(toks, token{kind: tokRow, line: i,
				fields: strings.Fields(line)})
		}
	}
	return toks
}

func reduceEnergies(toks []token) (energies []float64) {
	for _, t := range toks {
		if t.kind == tokEnergy {
			energies = append(energies, t.vals[0])
		}
	}
	return
}

func reduceFermi(toks []token) float64 {
	// last occurrence wins
	fermi := brokenFloat
	for _, t := range toks {
		if t.kind == tokFermi {
			fermi = t.vals[0]
		}
	}
	return fermi
}

func reduceForces(toks []token) (forces [][][3]float64) {
	var (
		cur [][3]float64
		in  bool
	)
	for _, t := range toks {
		switch t.kind {
		case tokForceHeader:
			in = true
			cur = nil
		case tokBlank:
			// the separator right under the header must not end the
			// block, only a separator after data rows does
			if in && len(cur) > 0 {
				forces = append(forces, cur)
				in = false
			}
		case tokRow:
			if !in || len(t.fields) < 6 {
				continue
			}
			var (
				f  [3]float64
				ok = true
			)
			for j := 0; j < 3; j++ {
				v, err := strconv.ParseFloat(t.fields[3+j], 64)
				if err != nil {
					ok = false
					break
				}
				f[j] = v
			}
			if ok {
				cur = append(cur, f)
			}
		}
	}
	return
}

func reduceStress(toks []token) (stress [][]float64) {
	header := -100
	for _, t := range toks {
		switch t.kind {
		case tokStressHeader:
			header = t.line
		case tokStressRow:
			if t.line <= header || t.line >= header+10 {
				continue
			}
			if len(stress) == 0 || len(stress[len(stress)-1]) < 6 {
				stress = append(stress, append([]float64{}, t.vals...))
			} else {
				last := len(stress) - 1
				stress[last] = append(stress[last], t.vals...)
			}
		}
	}
	return
}

func reduceMoments(toks []token) (moments [][]float64) {
	var (
		cur []float64
		in  bool
	)
	for _, t := range toks {
		switch t.kind {
		case tokMagHeader:
			in = true
			cur = nil
		case tokBlank:
			if in && len(cur) > 0 {
				moments = append(moments, cur)
				in = false
			}
		case tokRow:
			if !in || len(t.fields) < 5 {
				continue
			}
			if v, err := strconv.ParseFloat(t.fields[4], 64); err == nil {
				cur = append(cur, v)
			}
		}
	}
	return
}

func reduceTiming(toks []token) map[string]float64 {
	timing := make(map[string]float64)
	for _, t := range toks {
		if t.kind == tokTiming {
			timing[t.name] = t.vals[0]
		}
	}
	return timing
}

// reduceSteps counts ionic and electronic steps and looks for the
// accuracy marker. The SCF counter resets at every iteration banner and
// is banked at each force-block header.
func reduceSteps(toks []token) (ionic int, electronic []int, converged bool) {
	var cur int
	for _, t := range toks {
		switch t.kind {
		case tokIteration:
			cur = 0
		case tokScfStep:
			cur++
		case tokForceHeader:
			ionic++
			if cur > 0 {
				electronic = append(electronic, cur)
				cur = 0
			}
		case tokConverged:
			converged = true
		}
	}
	return
}

// ParseOutcar reads an OUTCAR file into an Outcar record. A missing
// file is ErrFileNotFound. In Lenient mode a present-but-garbled file
// yields an empty record with Converged false; in Strict mode a file
// with no recognizable sections at all is ErrMalformed.
func ParseOutcar(filename string, mode Mode) (*Outcar, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	toks := lexOutcar(lines)
	o := &Outcar{
		Energies: reduceEnergies(toks),
		Forces:   reduceForces(toks),
		Stress:   reduceStress(toks),
		Fermi:    reduceFermi(toks),
		Moments:  reduceMoments(toks),
		Timing:   reduceTiming(toks),
	}
	o.IonicSteps, o.ElectronicSteps, o.Converged = reduceSteps(toks)
	o.TotalEnergy = brokenFloat
	if len(o.Energies) > 0 {
		o.TotalEnergy = o.Energies[len(o.Energies)-1]
	}
	if mode == Strict && len(o.Energies) == 0 && o.IonicSteps == 0 &&
		math.IsNaN(o.Fermi) && !o.Converged {
		return nil, ErrMalformed
	}
	return o, nil
}

// readLines reads filename into a slice of lines, keeping blank lines
// since they terminate OUTCAR sections
func readLines(filename string) (lines []string, err error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
