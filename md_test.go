package main

import (
	"math"
	"testing"
)

func TestEnergyDrift(t *testing.T) {
	short := []float64{1, 2, 3}
	if d := EnergyDrift(short); !math.IsNaN(d) {
		t.Errorf("got %v, wanted NaN for %d samples\n", d, len(short))
	}
	linear := make([]float64, 20)
	for i := range linear {
		linear[i] = -100.0 + 0.5*float64(i)
	}
	if d := EnergyDrift(linear); !near(d, 0.5, 1e-10) {
		t.Errorf("got %v, wanted 0.5\n", d)
	}
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = -100.0
	}
	if d := EnergyDrift(flat); !near(d, 0.0, 1e-12) {
		t.Errorf("got %v, wanted 0.0\n", d)
	}
}

func TestEquilibrationStep(t *testing.T) {
	short := make([]float64, 20)
	if got := equilibrationStep(short); got != 5 {
		t.Errorf("got %d, wanted 5\n", got)
	}
	// noisy head, flat tail: equilibrated after the first quarter
	settling := make([]float64, 100)
	for i := 0; i < 25; i++ {
		if i%2 == 0 {
			settling[i] = 1.0
		} else {
			settling[i] = -1.0
		}
	}
	if got := equilibrationStep(settling); got != 25 {
		t.Errorf("got %d, wanted 25\n", got)
	}
	// uniformly flat series never clears the 20% improvement bar
	flat := make([]float64, 100)
	if got := equilibrationStep(flat); got != 50 {
		t.Errorf("got %d, wanted 50\n", got)
	}
}

func TestAnalyzeSeries(t *testing.T) {
	s := AnalyzeSeries(nil)
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.Std) {
		t.Errorf("wanted NaN stats for an empty series, got %+v\n", s)
	}
	s = AnalyzeSeries([]float64{300.0, 302.0, 298.0, 300.0})
	if !near(s.Mean, 300.0, 1e-12) {
		t.Errorf("got %v, wanted 300.0\n", s.Mean)
	}
	if !near(s.Min, 298.0, 1e-12) || !near(s.Max, 302.0, 1e-12) {
		t.Errorf("got min %v max %v, wanted 298 and 302\n", s.Min, s.Max)
	}
}

func TestTrajAnalyze(t *testing.T) {
	traj, err := NewTraj("testfiles/OUTCAR")
	if err != nil {
		t.Fatal(err)
	}
	temps := []float64{300, 301, 299, 300, 300, 302, 298, 300, 301, 299}
	rep := traj.Analyze(temps, nil)
	if rep.Steps != 3 {
		t.Errorf("got %d steps, wanted 3\n", rep.Steps)
	}
	// 3 energy samples cannot define a drift
	if !math.IsNaN(rep.EnergyDrift) {
		t.Errorf("got %v, wanted NaN\n", rep.EnergyDrift)
	}
	if rep.EnergyStable {
		t.Errorf("drift unknown, run must not count as energy stable\n")
	}
	if !rep.TemperatureStable {
		t.Errorf("expected a stable temperature series\n")
	}
	if rep.Stable {
		t.Errorf("expected overall unstable without a drift estimate\n")
	}
}
