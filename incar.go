package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Incar is an ordered set of INCAR tags. Values are stored in their
// written form; Set formats Go values the way the solver expects.
type Incar struct {
	keys []string
	vals map[string]string
}

func NewIncar() *Incar {
	return &Incar{vals: make(map[string]string)}
}

// Set stores key = value, preserving first-insertion order
func (inc *Incar) Set(key string, value interface{}) {
	key = strings.ToUpper(key)
	if _, ok := inc.vals[key]; !ok {
		inc.keys = append(inc.keys, key)
	}
	inc.vals[key] = FormatIncarValue(value)
}

// Get returns the written form of key
func (inc *Incar) Get(key string) (string, bool) {
	v, ok := inc.vals[strings.ToUpper(key)]
	return v, ok
}

// Keys returns the tags in insertion order
func (inc *Incar) Keys() []string { return inc.keys }

// SetAll stores an entire parameter map in sorted key order so output
// is reproducible
func (inc *Incar) SetAll(params map[string]interface{}) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		inc.Set(k, params[k])
	}
}

// FormatIncarValue renders a Go value in INCAR syntax: Fortran bools,
// space-separated lists, plain numbers
func FormatIncarValue(value interface{}) string {
	switch v := value.(type) {
	case bool:
		if v {
			return ".TRUE."
		}
		return ".FALSE."
	case []int:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = fmt.Sprintf("%d", x)
		}
		return strings.Join(parts, " ")
	case []float64:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = fmt.Sprintf("%g", x)
		}
		return strings.Join(parts, " ")
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ReadIncar parses key = value lines, dropping # and ! comments
func ReadIncar(filename string) (*Incar, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}
	inc := NewIncar()
	for _, line := range lines {
		if i := strings.IndexAny(line, "#!"); i >= 0 {
			line = line[:i]
		}
		split := strings.SplitN(line, "=", 2)
		if len(split) != 2 {
			continue
		}
		key := strings.TrimSpace(split[0])
		val := strings.TrimSpace(split[1])
		if key == "" {
			continue
		}
		inc.Set(key, val)
	}
	return inc, nil
}

// Write writes the tags in insertion order
func (inc *Incar) Write(filename string) error {
	var buf bytes.Buffer
	for _, k := range inc.keys {
		fmt.Fprintf(&buf, "%s = %s\n", k, inc.vals[k])
	}
	return os.WriteFile(filename, buf.Bytes(), 0644)
}
