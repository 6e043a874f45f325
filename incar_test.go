package main

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadIncar(t *testing.T) {
	inc, err := ReadIncar("testfiles/INCAR")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ENCUT", "ISMEAR", "SIGMA", "IBRION", "LWAVE"}
	if !reflect.DeepEqual(inc.Keys(), want) {
		t.Errorf("got %v, wanted %v\n", inc.Keys(), want)
	}
	tests := []struct {
		key, want string
	}{
		{"ENCUT", "520"},
		{"ISMEAR", "0"},
		{"LWAVE", ".FALSE."},
		{"lwave", ".FALSE."},
	}
	for _, test := range tests {
		if got, ok := inc.Get(test.key); !ok || got != test.want {
			t.Errorf("got %q, wanted %q\n", got, test.want)
		}
	}
	if _, ok := inc.Get("NSW"); ok {
		t.Errorf("got a value for an absent tag\n")
	}
}

func TestFormatIncarValue(t *testing.T) {
	tests := []struct {
		value interface{}
		want  string
	}{
		{true, ".TRUE."},
		{false, ".FALSE."},
		{[]int{2, 2, 2}, "2 2 2"},
		{[]float64{0.5, 1.5}, "0.5 1.5"},
		{520.0, "520"},
		{1e-06, "1e-06"},
		{2, "2"},
		{"Accurate", "Accurate"},
	}
	for _, test := range tests {
		if got := FormatIncarValue(test.value); got != test.want {
			t.Errorf("got %q, wanted %q\n", got, test.want)
		}
	}
}

func TestIncarRoundTrip(t *testing.T) {
	inc := NewIncar()
	inc.Set("ENCUT", 520.0)
	inc.Set("LWAVE", false)
	inc.Set("ISMEAR", 0)
	tmp := filepath.Join(t.TempDir(), "INCAR")
	if err := inc.Write(tmp); err != nil {
		t.Fatal(err)
	}
	back, err := ReadIncar(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Keys(), inc.Keys()) {
		t.Errorf("got %v, wanted %v\n", back.Keys(), inc.Keys())
	}
	if got, _ := back.Get("LWAVE"); got != ".FALSE." {
		t.Errorf("got %q, wanted .FALSE.\n", got)
	}
}
