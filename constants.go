package main

const avogadro = 6.022e23

// atomicNumbers covers the elements that show up in practice; unknown
// symbols are rejected when building structures
var atomicNumbers = map[string]int{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "Ne": 10, "Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15,
	"S": 16, "Cl": 17, "Ar": 18, "K": 19, "Ca": 20, "Sc": 21, "Ti": 22,
	"V": 23, "Cr": 24, "Mn": 25, "Fe": 26, "Co": 27, "Ni": 28, "Cu": 29,
	"Zn": 30, "Ga": 31, "Ge": 32, "As": 33, "Se": 34, "Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Y": 39, "Zr": 40, "Nb": 41, "Mo": 42, "Tc": 43,
	"Ru": 44, "Rh": 45, "Pd": 46, "Ag": 47, "Cd": 48, "In": 49, "Sn": 50,
	"Sb": 51, "Te": 52, "I": 53, "Xe": 54, "Cs": 55, "Ba": 56, "La": 57,
	"Ce": 58, "Hf": 72, "Ta": 73, "W": 74, "Re": 75, "Os": 76, "Ir": 77,
	"Pt": 78, "Au": 79, "Hg": 80, "Tl": 81, "Pb": 82, "Bi": 83,
}

// atomicMasses in amu
var atomicMasses = map[string]float64{
	"H": 1.008, "He": 4.003, "Li": 6.94, "Be": 9.012, "B": 10.81,
	"C": 12.011, "N": 14.007, "O": 15.999, "F": 18.998, "Ne": 20.180,
	"Na": 22.990, "Mg": 24.305, "Al": 26.982, "Si": 28.085, "P": 30.974,
	"S": 32.06, "Cl": 35.45, "Ar": 39.948, "K": 39.098, "Ca": 40.078,
	"Sc": 44.956, "Ti": 47.867, "V": 50.942, "Cr": 51.996, "Mn": 54.938,
	"Fe": 55.845, "Co": 58.933, "Ni": 58.693, "Cu": 63.546, "Zn": 65.38,
	"Ga": 69.723, "Ge": 72.630, "As": 74.922, "Se": 78.971, "Br": 79.904,
	"Kr": 83.798, "Rb": 85.468, "Sr": 87.62, "Y": 88.906, "Zr": 91.224,
	"Nb": 92.906, "Mo": 95.95, "Tc": 98.0, "Ru": 101.07, "Rh": 102.906,
	"Pd": 106.42, "Ag": 107.868, "Cd": 112.414, "In": 114.818,
	"Sn": 118.710, "Sb": 121.760, "Te": 127.60, "I": 126.904,
	"Xe": 131.293, "Cs": 132.905, "Ba": 137.327, "La": 138.905,
	"Ce": 140.116, "Hf": 178.49, "Ta": 180.948, "W": 183.84,
	"Re": 186.207, "Os": 190.23, "Ir": 192.217, "Pt": 195.084,
	"Au": 196.967, "Hg": 200.592, "Tl": 204.38, "Pb": 207.2,
	"Bi": 208.980,
}

// covalentRadii in Angstrom, used for the packing fraction estimate
var covalentRadii = map[string]float64{
	"H": 0.37, "He": 0.32, "Li": 1.34, "Be": 0.90, "B": 0.82,
	"C": 0.77, "N": 0.75, "O": 0.73, "F": 0.71, "Ne": 0.69,
	"Na": 1.54, "Mg": 1.30, "Al": 1.18, "Si": 1.11, "P": 1.06,
	"S": 1.02, "Cl": 0.99, "Ar": 0.97, "K": 1.96, "Ca": 1.74,
	"Fe": 1.17, "Ni": 1.15, "Cu": 1.17, "Zn": 1.25,
}
