package main

import (
	"math"
	"reflect"
	"testing"
)

func TestAnalyzeConvergence(t *testing.T) {
	ea, err := NewEnergyAnalysis("testfiles/OUTCAR")
	if err != nil {
		t.Fatal(err)
	}
	conv := ea.AnalyzeConvergence()
	if !conv.Converged {
		t.Errorf("expected converged run\n")
	}
	if conv.IonicSteps != 3 {
		t.Errorf("got %d ionic steps, wanted 3\n", conv.IonicSteps)
	}
	if !near(conv.EnergyChange, 0.01111, 1e-8) {
		t.Errorf("got %v, wanted 0.01111\n", conv.EnergyChange)
	}
	if !near(conv.MaxForce, 0.005, 1e-12) {
		t.Errorf("got %v, wanted 0.005\n", conv.MaxForce)
	}
	if !near(conv.RMSForce, 0.005, 1e-12) {
		t.Errorf("got %v, wanted 0.005\n", conv.RMSForce)
	}
}

func TestEnergyChange(t *testing.T) {
	tests := []struct {
		energies []float64
		want     float64
	}{
		{[]float64{-10.0, -10.05, -10.051}, 0.001},
		{[]float64{-10.0}, brokenFloat},
		{nil, brokenFloat},
	}
	for _, test := range tests {
		ea := &EnergyAnalysis{rec: &Outcar{Energies: test.energies}}
		got := ea.AnalyzeConvergence().EnergyChange
		if math.IsNaN(test.want) {
			if !math.IsNaN(got) {
				t.Errorf("got %v, wanted NaN\n", got)
			}
		} else if !near(got, test.want, 1e-10) {
			t.Errorf("got %v, wanted %v\n", got, test.want)
		}
	}
}

func TestEnergyEvolution(t *testing.T) {
	ea, err := NewEnergyAnalysis("testfiles/OUTCAR")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-10.123450, -10.234560, -10.245670}
	if !reflect.DeepEqual(ea.EnergyEvolution(), want) {
		t.Errorf("got %v, wanted %v\n", ea.EnergyEvolution(), want)
	}
}

// reading the same file twice must give identical records
func TestRereadIdentical(t *testing.T) {
	a, err := ParseOutcar("testfiles/OUTCAR", Lenient)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseOutcar("testfiles/OUTCAR", Lenient)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("got different records from the same file\n")
	}
}

func TestFinalStress(t *testing.T) {
	ea, err := NewEnergyAnalysis("testfiles/OUTCAR")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{-0.5, -0.5, -0.5}; !reflect.DeepEqual(ea.FinalStress(), want) {
		t.Errorf("got %v, wanted %v\n", ea.FinalStress(), want)
	}
}
