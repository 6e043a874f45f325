package main

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stability thresholds for an MD run
const (
	// eV/step
	maxStableDrift = 1e-4
	// K
	maxStableTempStd = 50.0
)

// Traj analyzes a stepped (MD) run through its OUTCAR
type Traj struct {
	energy *EnergyAnalysis
}

// NewTraj wraps an EnergyAnalysis of the given OUTCAR
func NewTraj(outcar string) (*Traj, error) {
	ea, err := NewEnergyAnalysis(outcar)
	if err != nil {
		return nil, err
	}
	return &Traj{energy: ea}, nil
}

// EnergyDrift returns the least-squares slope of energy against step
// index in eV/step, NaN for fewer than 10 samples
func EnergyDrift(energies []float64) float64 {
	if len(energies) < 10 {
		return brokenFloat
	}
	steps := make([]float64, len(energies))
	floats.Span(steps, 0, float64(len(energies)-1))
	_, slope := stat.LinearRegression(steps, energies, nil, false)
	return slope
}

// SeriesStats summarizes a per-step property sequence such as
// temperature or pressure
type SeriesStats struct {
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
	Drift float64
	// step index after which the series is considered equilibrated
	Equilibration int
}

// AnalyzeSeries computes mean, spread, drift, and an equilibration
// estimate for one property sequence
func AnalyzeSeries(vals []float64) SeriesStats {
	if len(vals) == 0 {
		return SeriesStats{Mean: brokenFloat, Std: brokenFloat,
			Min: brokenFloat, Max: brokenFloat, Drift: brokenFloat}
	}
	return SeriesStats{
		Mean:          stat.Mean(vals, nil),
		Std:           stat.StdDev(vals, nil),
		Min:           floats.Min(vals),
		Max:           floats.Max(vals),
		Drift:         EnergyDrift(vals),
		Equilibration: equilibrationStep(vals),
	}
}

// equilibrationStep compares the spread of the first quarter of the
// series to the last quarter; a tail at least 20% steadier than the
// head means equilibration by the end of the first quarter
func equilibrationStep(vals []float64) int {
	n := len(vals)
	if n < 50 {
		return n / 4
	}
	q := n / 4
	early := stat.StdDev(vals[:q], nil)
	late := stat.StdDev(vals[n-q:], nil)
	if late < 0.8*early {
		return q
	}
	return n / 2
}

// TrajReport is the combined stability picture of an MD run
type TrajReport struct {
	Steps             int
	FinalEnergy       float64
	EnergyDrift       float64
	Temperature       SeriesStats
	Pressure          SeriesStats
	EnergyStable      bool
	TemperatureStable bool
	Stable            bool
}

// Analyze reports energy drift from the OUTCAR energies plus summaries
// of the supplied per-step temperature and pressure sequences
func (t *Traj) Analyze(temps, pressures []float64) TrajReport {
	energies := t.energy.EnergyEvolution()
	r := TrajReport{
		Steps:       len(energies),
		FinalEnergy: t.energy.TotalEnergy(),
		EnergyDrift: EnergyDrift(energies),
		Temperature: AnalyzeSeries(temps),
		Pressure:    AnalyzeSeries(pressures),
	}
	r.EnergyStable = !math.IsNaN(r.EnergyDrift) &&
		math.Abs(r.EnergyDrift) < maxStableDrift
	r.TemperatureStable = len(temps) > 0 && r.Temperature.Std < maxStableTempStd
	r.Stable = r.EnergyStable && r.TemperatureStable
	return r
}
