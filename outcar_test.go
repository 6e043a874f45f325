package main

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestParseOutcar(t *testing.T) {
	o, err := ParseOutcar("testfiles/OUTCAR", Lenient)
	if err != nil {
		t.Fatal(err)
	}
	wantEnergies := []float64{-10.123450, -10.234560, -10.245670}
	if !reflect.DeepEqual(o.Energies, wantEnergies) {
		t.Errorf("got %v, wanted %v\n", o.Energies, wantEnergies)
	}
	if o.TotalEnergy != -10.245670 {
		t.Errorf("got %v, wanted %v\n", o.TotalEnergy, -10.245670)
	}
	if o.Fermi != 5.1234 {
		t.Errorf("got %v, wanted %v\n", o.Fermi, 5.1234)
	}
	if !o.Converged {
		t.Errorf("expected converged run\n")
	}
	if o.IonicSteps != 3 {
		t.Errorf("got %d ionic steps, wanted 3\n", o.IonicSteps)
	}
	if want := []int{3, 2, 2}; !reflect.DeepEqual(o.ElectronicSteps, want) {
		t.Errorf("got %v, wanted %v\n", o.ElectronicSteps, want)
	}
	if len(o.Forces) != 3 {
		t.Fatalf("got %d force snapshots, wanted 3\n", len(o.Forces))
	}
	wantLast := [][3]float64{
		{0.003, 0.004, 0.0},
		{-0.003, -0.004, 0.0},
	}
	if !reflect.DeepEqual(o.Forces[2], wantLast) {
		t.Errorf("got %v, wanted %v\n", o.Forces[2], wantLast)
	}
	if len(o.Stress) != 3 {
		t.Fatalf("got %d stress batches, wanted 3\n", len(o.Stress))
	}
	if want := []float64{-0.5, -0.5, -0.5}; !reflect.DeepEqual(o.Stress[2], want) {
		t.Errorf("got %v, wanted %v\n", o.Stress[2], want)
	}
	if want := [][]float64{{0.080, 0.080}}; !reflect.DeepEqual(o.Moments, want) {
		t.Errorf("got %v, wanted %v\n", o.Moments, want)
	}
	if o.Timing["total_cpu_time"] != 123.456 {
		t.Errorf("got %v, wanted %v\n", o.Timing["total_cpu_time"], 123.456)
	}
	if o.Timing["elapsed_time"] != 130.789 {
		t.Errorf("got %v, wanted %v\n", o.Timing["elapsed_time"], 130.789)
	}
}

func TestParseOutcarMissing(t *testing.T) {
	if _, err := ParseOutcar("testfiles/NONEXISTENT", Lenient); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("got %v, wanted %v\n", err, ErrFileNotFound)
	}
}

func TestParseOutcarLenient(t *testing.T) {
	o, err := ParseOutcar("testfiles/OUTCAR.bad", Lenient)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Energies) != 0 || o.Converged || o.IonicSteps != 0 {
		t.Errorf("wanted an empty record, got %+v\n", o)
	}
	if !math.IsNaN(o.TotalEnergy) || !math.IsNaN(o.Fermi) {
		t.Errorf("wanted NaN energy and fermi, got %v and %v\n",
			o.TotalEnergy, o.Fermi)
	}
}

func TestParseOutcarStrict(t *testing.T) {
	if _, err := ParseOutcar("testfiles/OUTCAR.bad", Strict); !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, wanted %v\n", err, ErrMalformed)
	}
}
