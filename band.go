package main

import (
	"math"
	"path/filepath"
)

// BandExtrema locates the band edges around the fermi level. VBM, CBM,
// and Gap are NaN when the eigenvalue spectrum or fermi energy is
// missing on one side.
type BandExtrema struct {
	VBM      float64
	CBM      float64
	Gap      float64
	Fermi    float64
	Material string
}

// AnalyzeBands partitions eigenvalues at the fermi level and reports
// the valence-band maximum, conduction-band minimum, and their
// difference. Gaps below 0.01 eV count as metallic.
func AnalyzeBands(eigenvalues []float64, fermi float64) BandExtrema {
	ext := BandExtrema{
		VBM:      brokenFloat,
		CBM:      brokenFloat,
		Gap:      brokenFloat,
		Fermi:    fermi,
		Material: "unknown",
	}
	if math.IsNaN(fermi) || len(eigenvalues) == 0 {
		return ext
	}
	var (
		vbm       = math.Inf(-1)
		cbm       = math.Inf(1)
		haveOcc   bool
		haveUnocc bool
	)
	for _, e := range eigenvalues {
		if e <= fermi {
			haveOcc = true
			if e > vbm {
				vbm = e
			}
		} else {
			haveUnocc = true
			if e < cbm {
				cbm = e
			}
		}
	}
	if haveOcc {
		ext.VBM = vbm
	}
	if haveUnocc {
		ext.CBM = cbm
	}
	if haveOcc && haveUnocc {
		gap := cbm - vbm
		if gap < 0.01 {
			gap = 0.0
		}
		ext.Gap = gap
	}
	ext.Material = classifyMaterial(ext.Gap)
	return ext
}

func classifyMaterial(gap float64) string {
	switch {
	case math.IsNaN(gap):
		return "unknown"
	case gap == 0.0:
		return "metal"
	case gap < 0.5:
		return "semimetal"
	case gap < 3.0:
		return "semiconductor"
	}
	return "insulator"
}

// BandReport reads dir/EIGENVAL and classifies the material using the
// fermi energy of the companion OUTCAR
func BandReport(dir string) (BandExtrema, error) {
	eig, err := ParseEigenval(filepath.Join(dir, "EIGENVAL"), Strict)
	if err != nil {
		return BandExtrema{}, err
	}
	fermi := brokenFloat
	if o, err := ParseOutcar(filepath.Join(dir, "OUTCAR"), Lenient); err == nil {
		fermi = o.Fermi
	}
	return AnalyzeBands(eig.Flatten(), fermi), nil
}
