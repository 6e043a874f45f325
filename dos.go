package main

import (
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/integrate"
)

// dosThreshold is the minimum density treated as a real state when
// deciding metallicity and locating band edges
const dosThreshold = 0.01

// DOSAnalysis derives electronic-structure metrics from a DOSCAR,
// taking the fermi energy from the companion OUTCAR in the same
// directory when one is present, and from the DOSCAR header otherwise.
// Like EnergyAnalysis it is built eagerly and queried read-only.
type DOSAnalysis struct {
	dos   *Doscar
	fermi float64
}

// NewDOSAnalysis reads dir/DOSCAR (strictly) and dir/OUTCAR (leniently)
func NewDOSAnalysis(dir string) (*DOSAnalysis, error) {
	dos, err := ParseDoscar(filepath.Join(dir, "DOSCAR"), 0, Strict)
	if err != nil {
		return nil, err
	}
	fermi := dos.Efermi
	if o, err := ParseOutcar(filepath.Join(dir, "OUTCAR"), Lenient); err == nil &&
		!math.IsNaN(o.Fermi) {
		fermi = o.Fermi
	}
	return &DOSAnalysis{dos: dos, fermi: fermi}, nil
}

// Record returns the underlying Doscar
func (d *DOSAnalysis) Record() *Doscar { return d.dos }

// Fermi returns the fermi energy in use
func (d *DOSAnalysis) Fermi() float64 { return d.fermi }

// fermiIndex returns the sample index whose energy is nearest the
// fermi level, or -1 without samples
func (d *DOSAnalysis) fermiIndex() int {
	idx := -1
	best := math.Inf(1)
	for i, e := range d.dos.Energies {
		if dist := math.Abs(e - d.fermi); dist < best {
			best, idx = dist, i
		}
	}
	return idx
}

// DOSAtFermi returns the spin-summed density at the sample nearest the
// fermi level, 0 without samples
func (d *DOSAnalysis) DOSAtFermi() float64 {
	i := d.fermiIndex()
	if i < 0 {
		return 0
	}
	return d.dos.TotalAt(i)
}

// IntegrateDOS integrates the spin-summed density over [emin, emax]
// relative to the fermi level by the trapezoid rule. A window holding
// fewer than two samples integrates to exactly 0.
func (d *DOSAnalysis) IntegrateDOS(emin, emax float64) float64 {
	var xs, ys []float64
	for i, e := range d.dos.Energies {
		rel := e - d.fermi
		if rel >= emin && rel <= emax {
			xs = append(xs, rel)
			ys = append(ys, d.dos.TotalAt(i))
		}
	}
	if len(xs) < 2 {
		return 0.0
	}
	return integrate.Trapezoidal(xs, ys)
}

// BandGap estimates the gap from the total DOS: significant density at
// the fermi level means a metal (gap 0); otherwise the gap is the
// distance from the highest occupied to the lowest unoccupied sample
// with density above threshold, defaulting to metallic when no such
// pair exists. NaN without samples.
func (d *DOSAnalysis) BandGap() float64 {
	i := d.fermiIndex()
	if i < 0 {
		return brokenFloat
	}
	if d.dos.TotalAt(i) >= dosThreshold {
		return 0.0
	}
	var (
		vbm     = math.Inf(-1)
		cbm     = math.Inf(1)
		haveVBM bool
		haveCBM bool
	)
	for j, e := range d.dos.Energies {
		rel := e - d.fermi
		if d.dos.TotalAt(j) <= dosThreshold {
			continue
		}
		switch {
		case rel < 0 && rel > vbm:
			vbm, haveVBM = rel, true
		case rel > 0 && rel < cbm:
			cbm, haveCBM = rel, true
		}
	}
	if haveVBM && haveCBM {
		return cbm - vbm
	}
	return 0.0
}

// Electronic bundles the derived electronic-structure quantities
type Electronic struct {
	BandGap          float64
	DOSAtFermi       float64
	Fermi            float64
	Metal            bool
	ValenceElectrons float64
	TotalElectrons   float64
	SpinPolarized    bool
}

// AnalyzeElectronicStructure computes the gap, the density at the
// fermi level, and approximate electron counts over fixed wide windows
func (d *DOSAnalysis) AnalyzeElectronicStructure() Electronic {
	gap := d.BandGap()
	return Electronic{
		BandGap:          gap,
		DOSAtFermi:       d.DOSAtFermi(),
		Fermi:            d.fermi,
		Metal:            gap == 0.0,
		ValenceElectrons: d.IntegrateDOS(-20.0, 0.0),
		TotalElectrons:   d.IntegrateDOS(-20.0, 20.0),
		SpinPolarized:    d.dos.SpinPolarized(),
	}
}
