package main

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// EnergyAnalysis is a query interface over a parsed OUTCAR. The file is
// read once when the analysis is built; every query afterward is a pure
// read of the record, so one instance can be shared freely.
type EnergyAnalysis struct {
	rec *Outcar
}

// NewEnergyAnalysis parses outcar leniently and wraps the record
func NewEnergyAnalysis(outcar string) (*EnergyAnalysis, error) {
	rec, err := ParseOutcar(outcar, Lenient)
	if err != nil {
		return nil, err
	}
	return &EnergyAnalysis{rec: rec}, nil
}

// Record returns the underlying Outcar
func (e *EnergyAnalysis) Record() *Outcar { return e.rec }

// TotalEnergy returns the last reported free energy, NaN if none
func (e *EnergyAnalysis) TotalEnergy() float64 { return e.rec.TotalEnergy }

// FermiEnergy returns the last reported fermi level, NaN if none
func (e *EnergyAnalysis) FermiEnergy() float64 { return e.rec.Fermi }

// Converged reports whether the accuracy marker was seen
func (e *EnergyAnalysis) Converged() bool { return e.rec.Converged }

// EnergyEvolution returns the free energies in file order
func (e *EnergyAnalysis) EnergyEvolution() []float64 { return e.rec.Energies }

// FinalForces returns the last force snapshot, nil if there is none
func (e *EnergyAnalysis) FinalForces() [][3]float64 {
	if len(e.rec.Forces) == 0 {
		return nil
	}
	return e.rec.Forces[len(e.rec.Forces)-1]
}

// FinalStress returns the last stress batch, nil if there is none
func (e *EnergyAnalysis) FinalStress() []float64 {
	if len(e.rec.Stress) == 0 {
		return nil
	}
	return e.rec.Stress[len(e.rec.Stress)-1]
}

// Convergence summarizes how far a relaxation got. EnergyChange,
// MaxForce, and RMSForce are NaN when their inputs are missing.
type Convergence struct {
	Converged       bool
	IonicSteps      int
	ElectronicSteps []int
	EnergyChange    float64
	MaxForce        float64
	RMSForce        float64
}

// AnalyzeConvergence reports the energy change over the last two SCF
// cycles and the largest and root-mean-square per-atom force of the
// final snapshot
func (e *EnergyAnalysis) AnalyzeConvergence() Convergence {
	c := Convergence{
		Converged:       e.rec.Converged,
		IonicSteps:      e.rec.IonicSteps,
		ElectronicSteps: e.rec.ElectronicSteps,
		EnergyChange:    brokenFloat,
		MaxForce:        brokenFloat,
		RMSForce:        brokenFloat,
	}
	if n := len(e.rec.Energies); n >= 2 {
		c.EnergyChange = math.Abs(e.rec.Energies[n-1] - e.rec.Energies[n-2])
	}
	if final := e.FinalForces(); final != nil {
		var maxNorm, sumSq float64
		for _, f := range final {
			norm := floats.Norm(f[:], 2)
			if norm > maxNorm {
				maxNorm = norm
			}
			sumSq += norm * norm
		}
		c.MaxForce = maxNorm
		c.RMSForce = math.Sqrt(sumSq / float64(len(final)))
	}
	return c
}
