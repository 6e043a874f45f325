package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParamInfo describes one known INCAR tag: its value kind, the
// allowed discrete values, and numeric bounds where they apply
type ParamInfo struct {
	Kind    string // int, float, bool, string
	Allowed []string
	Min     float64
	Max     float64
	Bounded bool
}

// paramDB covers the tags the calculation templates touch plus the
// common knobs users override by hand
var paramDB = map[string]ParamInfo{
	"ENCUT":    {Kind: "float", Min: 100, Max: 1500, Bounded: true},
	"EDIFF":    {Kind: "float", Min: 1e-8, Max: 1e-2, Bounded: true},
	"EDIFFG":   {Kind: "float"},
	"ISMEAR":   {Kind: "int", Allowed: []string{"-5", "-1", "0", "1", "2"}},
	"SIGMA":    {Kind: "float", Min: 0.001, Max: 2, Bounded: true},
	"IBRION":   {Kind: "int", Allowed: []string{"-1", "0", "1", "2", "3"}},
	"NSW":      {Kind: "int", Min: 0, Max: 10000, Bounded: true},
	"ISIF":     {Kind: "int", Allowed: []string{"0", "1", "2", "3", "4", "5", "6", "7"}},
	"ISPIN":    {Kind: "int", Allowed: []string{"1", "2"}},
	"MAGMOM":   {Kind: "string"},
	"LORBIT":   {Kind: "int", Allowed: []string{"0", "1", "2", "10", "11", "12"}},
	"NEDOS":    {Kind: "int", Min: 301, Max: 10001, Bounded: true},
	"ICHARG":   {Kind: "int", Allowed: []string{"0", "1", "2", "11"}},
	"LCHARG":   {Kind: "bool"},
	"LWAVE":    {Kind: "bool"},
	"LREAL":    {Kind: "string", Allowed: []string{"Auto", ".FALSE."}},
	"ALGO":     {Kind: "string", Allowed: []string{"Normal", "Fast", "VeryFast", "All"}},
	"PREC":     {Kind: "string", Allowed: []string{"Normal", "Accurate", "Low"}},
	"NELM":     {Kind: "int", Min: 1, Max: 500, Bounded: true},
	"POTIM":    {Kind: "float", Min: 0, Max: 10, Bounded: true},
	"TEBEG":    {Kind: "float", Min: 0, Max: 10000, Bounded: true},
	"TEEND":    {Kind: "float", Min: 0, Max: 10000, Bounded: true},
	"SMASS":    {Kind: "float"},
	"MDALGO":   {Kind: "int", Allowed: []string{"0", "1", "2", "3"}},
	"IMAGES":   {Kind: "int", Min: 1, Max: 32, Bounded: true},
	"SPRING":   {Kind: "float"},
	"LCLIMB":   {Kind: "bool"},
	"NCORE":    {Kind: "int", Min: 1, Max: 128, Bounded: true},
	"KPAR":     {Kind: "int", Min: 1, Max: 64, Bounded: true},
	"AMIX":     {Kind: "float", Min: 0, Max: 1, Bounded: true},
	"BMIX":     {Kind: "float", Min: 0, Max: 10, Bounded: true},
	"LDIPOL":   {Kind: "bool"},
	"IDIPOL":   {Kind: "int", Allowed: []string{"1", "2", "3", "4"}},
	"IVDW":     {Kind: "int", Allowed: []string{"0", "10", "11", "12", "20"}},
	"SYMPREC":  {Kind: "float", Min: 1e-10, Max: 1e-2, Bounded: true},
	"ISYM":     {Kind: "int", Allowed: []string{"-1", "0", "1", "2", "3"}},
	"NBANDS":   {Kind: "int", Min: 1, Max: 100000, Bounded: true},
	"LMAXMIX":  {Kind: "int", Allowed: []string{"2", "4", "6"}},
	"LASPH":    {Kind: "bool"},
	"GGA":      {Kind: "string", Allowed: []string{"PE", "PS", "RP", "91"}},
	"METAGGA":  {Kind: "string", Allowed: []string{"SCAN", "R2SCAN", "TPSS"}},
	"LHFCALC":  {Kind: "bool"},
	"HFSCREEN": {Kind: "float", Min: 0, Max: 1, Bounded: true},
}

// templates maps calculation types to their baseline INCAR settings
var templates = map[string]map[string]interface{}{
	"relax": {
		"ENCUT": 520.0, "EDIFF": 1e-6, "EDIFFG": -0.01,
		"ISMEAR": 0, "SIGMA": 0.05,
		"IBRION": 2, "NSW": 100, "ISIF": 3,
		"PREC": "Accurate", "LREAL": "Auto",
		"LCHARG": false, "LWAVE": false,
	},
	"static": {
		"ENCUT": 520.0, "EDIFF": 1e-6,
		"ISMEAR": -5,
		"IBRION": -1, "NSW": 0,
		"PREC": "Accurate", "LREAL": ".FALSE.",
		"LCHARG": true, "LWAVE": false,
	},
	"dos": {
		"ENCUT": 520.0, "EDIFF": 1e-6,
		"ISMEAR": -5, "NEDOS": 2001, "LORBIT": 11,
		"IBRION": -1, "NSW": 0, "ICHARG": 11,
		"PREC": "Accurate", "LREAL": ".FALSE.",
		"LCHARG": false, "LWAVE": false,
	},
	"band": {
		"ENCUT": 520.0, "EDIFF": 1e-6,
		"ISMEAR": 0, "SIGMA": 0.05, "LORBIT": 11,
		"IBRION": -1, "NSW": 0, "ICHARG": 11,
		"PREC": "Accurate", "LREAL": ".FALSE.",
		"LCHARG": false, "LWAVE": false,
	},
	"md": {
		"ENCUT": 400.0, "EDIFF": 1e-5,
		"ISMEAR": 0, "SIGMA": 0.1,
		"IBRION": 0, "NSW": 1000, "POTIM": 1.0,
		"MDALGO": 2, "SMASS": 0.0,
		"TEBEG": 300.0, "TEEND": 300.0,
		"PREC": "Normal", "LREAL": "Auto",
		"LCHARG": false, "LWAVE": false,
	},
	"neb": {
		"ENCUT": 400.0, "EDIFF": 1e-6, "EDIFFG": -0.05,
		"ISMEAR": 0, "SIGMA": 0.05,
		"IBRION": 3, "NSW": 200, "POTIM": 0.0,
		"IMAGES": 5, "SPRING": -5.0, "LCLIMB": true,
		"PREC": "Normal", "LREAL": "Auto",
		"LCHARG": false, "LWAVE": false,
	},
}

// TemplateNames lists the known calculation types, sorted
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for k := range templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Template returns a copy of the baseline parameters for calc, with
// overrides applied on top. Override values arrive as strings and are
// converted to the tag's declared kind.
func Template(calc string, overrides map[string]string) (map[string]interface{}, error) {
	base, ok := templates[calc]
	if !ok {
		return nil, fmt.Errorf("unknown calculation type %q", calc)
	}
	params := make(map[string]interface{}, len(base))
	for k, v := range base {
		params[k] = v
	}
	for k, v := range overrides {
		k = strings.ToUpper(k)
		val, err := ConvertParam(k, v)
		if err != nil {
			return nil, err
		}
		params[k] = val
	}
	return params, nil
}

// ConvertParam converts the string form of a tag to its declared kind
// and checks it against the parameter database
func ConvertParam(key, value string) (interface{}, error) {
	info, ok := paramDB[key]
	if !ok {
		// unknown tags pass through as strings
		return value, nil
	}
	switch info.Kind {
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s: want integer, got %q", key, value)
		}
		if err := checkParam(key, info, value, float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: want number, got %q", key, value)
		}
		if err := checkParam(key, info, value, f); err != nil {
			return nil, err
		}
		return f, nil
	case "bool":
		switch strings.ToUpper(value) {
		case ".TRUE.", "TRUE", "T", "1":
			return true, nil
		case ".FALSE.", "FALSE", "F", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%s: want boolean, got %q", key, value)
	default:
		if err := checkParam(key, info, value, 0); err != nil {
			return nil, err
		}
		return value, nil
	}
}

func checkParam(key string, info ParamInfo, raw string, num float64) error {
	if len(info.Allowed) > 0 {
		for _, a := range info.Allowed {
			if a == raw {
				return nil
			}
		}
		return fmt.Errorf("%s: %q not in {%s}", key, raw,
			strings.Join(info.Allowed, ", "))
	}
	if info.Bounded && (num < info.Min || num > info.Max) {
		return fmt.Errorf("%s: %v outside [%g, %g]", key, raw, info.Min, info.Max)
	}
	return nil
}

// WriteCalcInputs writes the INCAR and KPOINTS for one calculation
// type into dir
func WriteCalcInputs(dir, calc string, overrides map[string]string, grid [3]int) error {
	params, err := Template(calc, overrides)
	if err != nil {
		return err
	}
	inc := NewIncar()
	inc.SetAll(params)
	if err := inc.Write(dir + "/INCAR"); err != nil {
		return err
	}
	return GammaCentered(grid).Write(dir + "/KPOINTS")
}
