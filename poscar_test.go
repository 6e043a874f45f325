package main

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestReadPoscar(t *testing.T) {
	s, err := ReadPoscar("testfiles/POSCAR")
	if err != nil {
		t.Fatal(err)
	}
	if s.Cartesian {
		t.Errorf("expected direct coordinates\n")
	}
	if s.Atoms[0].Element != "Si" || s.Atoms[1].Element != "Si" {
		t.Errorf("got elements %q %q, wanted Si Si\n",
			s.Atoms[0].Element, s.Atoms[1].Element)
	}
	if want := [3]float64{0.25, 0.25, 0.25}; s.Atoms[1].Position != want {
		t.Errorf("got %v, wanted %v\n", s.Atoms[1].Position, want)
	}
}

func TestPoscarRoundTrip(t *testing.T) {
	s, err := ReadPoscar("testfiles/POSCAR")
	if err != nil {
		t.Fatal(err)
	}
	tmp := filepath.Join(t.TempDir(), "POSCAR")
	if err := WritePoscar(tmp, s); err != nil {
		t.Fatal(err)
	}
	back, err := ReadPoscar(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if back.Formula() != s.Formula() || back.NumAtoms() != s.NumAtoms() {
		t.Errorf("got %s with %d atoms, wanted %s with %d\n",
			back.Formula(), back.NumAtoms(), s.Formula(), s.NumAtoms())
	}
	if !near(back.Volume(), s.Volume(), 1e-9) {
		t.Errorf("got volume %v, wanted %v\n", back.Volume(), s.Volume())
	}
	for i := range s.Atoms {
		if back.Atoms[i] != s.Atoms[i] {
			t.Errorf("atom %d: got %v, wanted %v\n",
				i, back.Atoms[i], s.Atoms[i])
		}
	}
}

func TestReadPoscarErrors(t *testing.T) {
	if _, err := ReadPoscar("testfiles/NONEXISTENT"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("got %v, wanted %v\n", err, ErrFileNotFound)
	}
	if _, err := ReadPoscar("testfiles/INCAR"); !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, wanted %v\n", err, ErrMalformed)
	}
}

func TestGroupElements(t *testing.T) {
	atoms := []Atom{
		{Element: "Mg"}, {Element: "Mg"},
		{Element: "O"}, {Element: "O"}, {Element: "O"},
	}
	symbols, counts := groupElements(atoms)
	if len(symbols) != 2 || symbols[0] != "Mg" || symbols[1] != "O" {
		t.Errorf("got %v, wanted [Mg O]\n", symbols)
	}
	if counts[0] != 2 || counts[1] != 3 {
		t.Errorf("got %v, wanted [2 3]\n", counts)
	}
}
