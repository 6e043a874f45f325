package main

import (
	"os"
	"testing"
)

func TestTemplate(t *testing.T) {
	params, err := Template("relax", map[string]string{
		"ENCUT": "400",
		"ISPIN": "2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := params["ENCUT"]; got != 400.0 {
		t.Errorf("got %v (%T), wanted 400.0\n", got, got)
	}
	if got := params["ISPIN"]; got != 2 {
		t.Errorf("got %v (%T), wanted 2\n", got, got)
	}
	// untouched template values survive
	if got := params["IBRION"]; got != 2 {
		t.Errorf("got %v, wanted 2\n", got)
	}
	if _, err := Template("bogus", nil); err == nil {
		t.Errorf("expected an error for an unknown calculation type\n")
	}
}

func TestConvertParam(t *testing.T) {
	tests := []struct {
		key, value string
		want       interface{}
		ok         bool
	}{
		{"ENCUT", "520", 520.0, true},
		{"ENCUT", "50", nil, false},
		{"ISMEAR", "0", 0, true},
		{"ISMEAR", "3", nil, false},
		{"ISMEAR", "abc", nil, false},
		{"LWAVE", ".TRUE.", true, true},
		{"LWAVE", "F", false, true},
		{"LWAVE", "maybe", nil, false},
		{"ALGO", "Fast", "Fast", true},
		{"ALGO", "Slow", nil, false},
		{"SYSTEM", "test run", "test run", true},
	}
	for _, test := range tests {
		got, err := ConvertParam(test.key, test.value)
		if test.ok && err != nil {
			t.Errorf("%s=%s: unexpected error %v\n", test.key, test.value, err)
		}
		if !test.ok && err == nil {
			t.Errorf("%s=%s: expected an error\n", test.key, test.value)
		}
		if test.ok && got != test.want {
			t.Errorf("got %v, wanted %v\n", got, test.want)
		}
	}
}

func TestWriteCalcInputs(t *testing.T) {
	dir := t.TempDir()
	err := WriteCalcInputs(dir, "static", map[string]string{"ENCUT": "450"},
		[3]int{4, 4, 4})
	if err != nil {
		t.Fatal(err)
	}
	inc, err := ReadIncar(dir + "/INCAR")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := inc.Get("ENCUT"); got != "450" {
		t.Errorf("got %q, wanted 450\n", got)
	}
	if got, _ := inc.Get("NSW"); got != "0" {
		t.Errorf("got %q, wanted 0\n", got)
	}
	if _, err := os.Stat(dir + "/KPOINTS"); err != nil {
		t.Errorf("KPOINTS not written: %v\n", err)
	}
}

func TestTemplateNames(t *testing.T) {
	names := TemplateNames()
	if len(names) != 6 {
		t.Errorf("got %d templates, wanted 6\n", len(names))
	}
	if names[0] != "band" {
		t.Errorf("got %q first, wanted band\n", names[0])
	}
}
