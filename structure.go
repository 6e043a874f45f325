package main

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Atom is one site of a structure
type Atom struct {
	Element  string
	Position [3]float64
	Moment   float64
}

// Lattice holds the 3x3 cell matrix, one lattice vector per row
type Lattice struct {
	m *mat.Dense
}

// NewLattice builds a Lattice from three row vectors
func NewLattice(vectors [3][3]float64) *Lattice {
	data := make([]float64, 0, 9)
	for _, v := range vectors {
		data = append(data, v[:]...)
	}
	return &Lattice{m: mat.NewDense(3, 3, data)}
}

// Vector returns row i of the cell matrix
func (l *Lattice) Vector(i int) [3]float64 {
	return [3]float64{l.m.At(i, 0), l.m.At(i, 1), l.m.At(i, 2)}
}

// Volume is the absolute determinant of the cell matrix
func (l *Lattice) Volume() float64 {
	return math.Abs(mat.Det(l.m))
}

// Lengths returns a, b, c
func (l *Lattice) Lengths() (lengths [3]float64) {
	for i := 0; i < 3; i++ {
		v := l.Vector(i)
		lengths[i] = floats.Norm(v[:], 2)
	}
	return
}

// Angles returns alpha, beta, gamma in degrees
func (l *Lattice) Angles() [3]float64 {
	a, b, c := l.Vector(0), l.Vector(1), l.Vector(2)
	angle := func(u, v [3]float64) float64 {
		cos := floats.Dot(u[:], v[:]) /
			(floats.Norm(u[:], 2) * floats.Norm(v[:], 2))
		// clamp against roundoff
		cos = math.Max(-1, math.Min(1, cos))
		return math.Acos(cos) * 180 / math.Pi
	}
	return [3]float64{angle(b, c), angle(a, c), angle(a, b)}
}

// FracToCart converts fractional coordinates to Cartesian
func (l *Lattice) FracToCart(frac [3]float64) (cart [3]float64) {
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			cart[j] += frac[i] * l.m.At(i, j)
		}
	}
	return
}

// CartToFrac converts Cartesian coordinates to fractional
func (l *Lattice) CartToFrac(cart [3]float64) (frac [3]float64) {
	var inv mat.Dense
	if err := inv.Inverse(l.m); err != nil {
		return [3]float64{brokenFloat, brokenFloat, brokenFloat}
	}
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			frac[j] += cart[i] * inv.At(i, j)
		}
	}
	return
}

// Reciprocal returns the reciprocal lattice 2*pi*(M^-1)^T
func (l *Lattice) Reciprocal() *Lattice {
	var inv mat.Dense
	if err := inv.Inverse(l.m); err != nil {
		return nil
	}
	var recip mat.Dense
	recip.Scale(2*math.Pi, inv.T())
	out := mat.NewDense(3, 3, nil)
	out.Copy(&recip)
	return &Lattice{m: out}
}

// Structure is a cell plus its sites. Cartesian false means the
// positions are fractional ("Direct" in POSCAR terms).
type Structure struct {
	Lattice   *Lattice
	Atoms     []Atom
	Cartesian bool
}

var ErrAtomIndex = errors.New("atom index out of range")

// NewStructure validates the element symbols and returns the structure
func NewStructure(lat *Lattice, atoms []Atom, cartesian bool) (*Structure, error) {
	for _, a := range atoms {
		if _, ok := atomicNumbers[a.Element]; !ok {
			return nil, fmt.Errorf("unknown element %q", a.Element)
		}
	}
	return &Structure{Lattice: lat, Atoms: atoms, Cartesian: cartesian}, nil
}

func (s *Structure) NumAtoms() int   { return len(s.Atoms) }
func (s *Structure) Volume() float64 { return s.Lattice.Volume() }

// Density in g/cm3
func (s *Structure) Density() float64 {
	var mass float64
	for _, a := range s.Atoms {
		mass += atomicMasses[a.Element]
	}
	vol := s.Volume() * 1e-24 // A^3 to cm^3
	if vol <= 0 {
		return brokenFloat
	}
	return mass / (vol * avogadro)
}

// Composition counts atoms per element
func (s *Structure) Composition() map[string]int {
	comp := make(map[string]int)
	for _, a := range s.Atoms {
		comp[a.Element]++
	}
	return comp
}

// Formula is the alphabetically sorted chemical formula
func (s *Structure) Formula() string {
	comp := s.Composition()
	elems := make([]string, 0, len(comp))
	for e := range comp {
		elems = append(elems, e)
	}
	sort.Strings(elems)
	var b strings.Builder
	for _, e := range elems {
		b.WriteString(e)
		if comp[e] > 1 {
			fmt.Fprintf(&b, "%d", comp[e])
		}
	}
	return b.String()
}

// CartesianCoords returns every position in Cartesian coordinates
func (s *Structure) CartesianCoords() [][3]float64 {
	out := make([][3]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		if s.Cartesian {
			out[i] = a.Position
		} else {
			out[i] = s.Lattice.FracToCart(a.Position)
		}
	}
	return out
}

// Distance between atoms i and j in Angstrom
func (s *Structure) Distance(i, j int) (float64, error) {
	if i >= len(s.Atoms) || j >= len(s.Atoms) || i < 0 || j < 0 {
		return 0, ErrAtomIndex
	}
	coords := s.CartesianCoords()
	return dist3(coords[i], coords[j]), nil
}

func dist3(a, b [3]float64) float64 {
	d := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	return floats.Norm(d[:], 2)
}

// Bond is one interatomic contact
type Bond struct {
	I, J int
	Dist float64
}

// AllDistances lists the atom pairs closer than maxDist, nearest first
func (s *Structure) AllDistances(maxDist float64) []Bond {
	coords := s.CartesianCoords()
	var bonds []Bond
	for i := 0; i < len(coords); i++ {
		for j := i + 1; j < len(coords); j++ {
			if d := dist3(coords[i], coords[j]); d <= maxDist {
				bonds = append(bonds, Bond{I: i, J: j, Dist: d})
			}
		}
	}
	sort.Slice(bonds, func(a, b int) bool { return bonds[a].Dist < bonds[b].Dist })
	return bonds
}

// CoordinationNumbers counts neighbors within cutoff for every atom
func (s *Structure) CoordinationNumbers(cutoff float64) []int {
	coord := make([]int, len(s.Atoms))
	for _, b := range s.AllDistances(cutoff) {
		coord[b.I]++
		coord[b.J]++
	}
	return coord
}

// BondAngle returns the angle at center spanned by n1 and n2, degrees
func (s *Structure) BondAngle(center, n1, n2 int) (float64, error) {
	if center >= len(s.Atoms) || n1 >= len(s.Atoms) || n2 >= len(s.Atoms) {
		return 0, ErrAtomIndex
	}
	coords := s.CartesianCoords()
	var u, v [3]float64
	for k := 0; k < 3; k++ {
		u[k] = coords[n1][k] - coords[center][k]
		v[k] = coords[n2][k] - coords[center][k]
	}
	cos := floats.Dot(u[:], v[:]) /
		(floats.Norm(u[:], 2) * floats.Norm(v[:], 2))
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// PackingFraction estimates the filled share of the cell from covalent
// radii, defaulting unknown elements to 1 Angstrom
func (s *Structure) PackingFraction() float64 {
	var atomVol float64
	for _, a := range s.Atoms {
		r, ok := covalentRadii[a.Element]
		if !ok {
			r = 1.0
		}
		atomVol += 4.0 / 3.0 * math.Pi * r * r * r
	}
	if v := s.Volume(); v > 0 {
		return atomVol / v
	}
	return 0
}

// LatticeType classifies the cell into one of the seven crystal
// systems from its lengths and angles
func (s *Structure) LatticeType() string {
	const (
		lengthTol = 0.01
		angleTol  = 1.0
	)
	lens := s.Lattice.Lengths()
	angs := s.Lattice.Angles()
	eq := func(x, y, tol float64) bool { return math.Abs(x-y) < tol }
	var (
		ab   = eq(lens[0], lens[1], lengthTol)
		bc   = eq(lens[1], lens[2], lengthTol)
		a90  = eq(angs[0], 90, angleTol)
		b90  = eq(angs[1], 90, angleTol)
		g90  = eq(angs[2], 90, angleTol)
		g120 = eq(angs[2], 120, angleTol)
	)
	switch {
	case ab && bc && a90 && b90 && g90:
		return "cubic"
	case ab && a90 && b90 && g90:
		return "tetragonal"
	case a90 && b90 && g90:
		return "orthorhombic"
	case ab && a90 && b90 && g120:
		return "hexagonal"
	case a90 && g90:
		return "monoclinic"
	}
	return "triclinic"
}

// StructureDiff compares a relaxed structure against its starting
// point. Displacement fields are NaN when the atom counts differ.
type StructureDiff struct {
	SameComposition  bool
	VolumeChange     float64
	VolumePercent    float64
	LatticeChange    [3]float64
	MaxDisplacement  float64
	MeanDisplacement float64
	Significant      bool
}

// CompareStructures reports volume, lattice, and per-atom displacement
// changes from a to b; displacements above tol mark a significant
// structural change
func CompareStructures(a, b *Structure, tol float64) StructureDiff {
	diff := StructureDiff{
		SameComposition:  sameComposition(a.Composition(), b.Composition()),
		VolumeChange:     b.Volume() - a.Volume(),
		MaxDisplacement:  brokenFloat,
		MeanDisplacement: brokenFloat,
	}
	if av := a.Volume(); av > 0 {
		diff.VolumePercent = diff.VolumeChange / av * 100
	}
	la, lb := a.Lattice.Lengths(), b.Lattice.Lengths()
	for i := 0; i < 3; i++ {
		diff.LatticeChange[i] = lb[i] - la[i]
	}
	if len(a.Atoms) != len(b.Atoms) {
		return diff
	}
	ca, cb := a.CartesianCoords(), b.CartesianCoords()
	var max, total float64
	for i := range a.Atoms {
		if a.Atoms[i].Element != b.Atoms[i].Element {
			continue
		}
		d := dist3(ca[i], cb[i])
		if d > max {
			max = d
		}
		total += d
	}
	diff.MaxDisplacement = max
	diff.MeanDisplacement = total / float64(len(a.Atoms))
	diff.Significant = max > tol
	return diff
}

func sameComposition(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
