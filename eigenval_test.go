package main

import (
	"reflect"
	"testing"
)

func TestParseEigenval(t *testing.T) {
	e, err := ParseEigenval("testfiles/EIGENVAL", Strict)
	if err != nil {
		t.Fatal(err)
	}
	if e.Nelect != 8 || e.Nkpts != 2 || e.Nbands != 4 || e.Ispin != 1 {
		t.Errorf("got header %d %d %d %d, wanted 8 2 4 1\n",
			e.Nelect, e.Nkpts, e.Nbands, e.Ispin)
	}
	if len(e.Kpoints) != 2 {
		t.Fatalf("got %d k-points, wanted 2\n", len(e.Kpoints))
	}
	if want := [3]float64{0.5, 0.5, 0.0}; e.Kpoints[1] != want {
		t.Errorf("got %v, wanted %v\n", e.Kpoints[1], want)
	}
	want := []float64{-5.1234, 2.3456, 4.5678, 8.9012}
	if !reflect.DeepEqual(e.Bands[0], want) {
		t.Errorf("got %v, wanted %v\n", e.Bands[0], want)
	}
	if all := e.Flatten(); len(all) != 8 {
		t.Errorf("got %d eigenvalues, wanted 8\n", len(all))
	}
}
