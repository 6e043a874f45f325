package main

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Path summarizes the energy profile along a reaction path. Activation
// and Reaction are NaN when the path is too short to define them.
type Path struct {
	Images []float64
	// barrier from the first image to the highest one
	Activation float64
	// last image relative to the first
	Reaction float64
	// Activation - Reaction
	Reverse float64
	// index of the highest image, -1 for an empty path
	TSIndex  int
	TSEnergy float64
	// normalized linear reaction coordinate
	Coordinate []float64
	// isomerization, exothermic, endothermic, or thermoneutral
	Kind string
}

// AnalyzePath derives barrier heights and a reaction classification
// from per-image energies
func AnalyzePath(images []float64) Path {
	p := Path{
		Images:     images,
		Activation: brokenFloat,
		Reaction:   brokenFloat,
		Reverse:    brokenFloat,
		TSIndex:    -1,
		TSEnergy:   brokenFloat,
		Kind:       "unknown",
	}
	if len(images) == 0 {
		return p
	}
	max := images[0]
	for i, e := range images {
		if e > max {
			max, p.TSIndex = e, i
		}
	}
	if p.TSIndex < 0 {
		p.TSIndex = 0
	}
	p.TSEnergy = images[p.TSIndex]
	if len(images) >= 3 {
		p.Activation = max - images[0]
	}
	if len(images) >= 2 {
		p.Reaction = images[len(images)-1] - images[0]
	}
	if !math.IsNaN(p.Activation) && !math.IsNaN(p.Reaction) {
		p.Reverse = p.Activation - p.Reaction
	}
	if n := len(images); n > 1 {
		p.Coordinate = make([]float64, n)
		for i := range p.Coordinate {
			p.Coordinate[i] = float64(i) / float64(n-1)
		}
	}
	p.Kind = classifyReaction(p.Reaction)
	return p
}

func classifyReaction(reaction float64) string {
	switch {
	case math.IsNaN(reaction):
		return "unknown"
	case math.Abs(reaction) < 0.1:
		return "isomerization"
	case reaction <= -0.1:
		return "exothermic"
	case reaction >= 0.1:
		return "endothermic"
	}
	return "thermoneutral"
}

var numberRe = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`)

// ReadNebEnergies extracts the per-image energies from the last NEB
// energy line of an OUTCAR. Values indistinguishable from zero are
// image separators, not energies, and are dropped.
func ReadNebEnergies(filename string) ([]float64, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	var last string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(line, "NEB: energies") ||
			(strings.Contains(lower, "image") && strings.Contains(lower, "energy")) {
			last = line
		}
	}
	if last == "" {
		return nil, nil
	}
	var energies []float64
	for _, m := range numberRe.FindAllString(last, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if math.Abs(v) > 1e-10 {
			energies = append(energies, v)
		}
	}
	return energies, nil
}

// NebReport combines the path profile with the convergence state of
// the underlying calculation
type NebReport struct {
	Path
	Converged  bool
	IonicSteps int
	MaxForce   float64
}

// AnalyzeNeb reads a NEB OUTCAR and reports barriers, the transition
// state, and convergence
func AnalyzeNeb(filename string) (NebReport, error) {
	ea, err := NewEnergyAnalysis(filename)
	if err != nil {
		return NebReport{}, err
	}
	images, err := ReadNebEnergies(filename)
	if err != nil {
		return NebReport{}, err
	}
	conv := ea.AnalyzeConvergence()
	return NebReport{
		Path:       AnalyzePath(images),
		Converged:  conv.Converged,
		IonicSteps: conv.IonicSteps,
		MaxForce:   conv.MaxForce,
	}, nil
}
