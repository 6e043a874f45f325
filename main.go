package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	configFile string
	conf       Config
)

var rootCmd = &cobra.Command{
	Use:   "pbvasp",
	Short: "parse and analyze plane-wave DFT outputs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = LoadConfig(configFile)
		return err
	},
	SilenceUsage: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "summarize energy and convergence from an OUTCAR",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		ea, err := NewEnergyAnalysis(filepath.Join(dir, "OUTCAR"))
		if err != nil {
			return err
		}
		conv := ea.AnalyzeConvergence()
		fmt.Printf("%-20s%15.6f\n", "Total energy (eV)", ea.TotalEnergy())
		fmt.Printf("%-20s%15.6f\n", "Fermi energy (eV)", ea.FermiEnergy())
		fmt.Printf("%-20s%15t\n", "Converged", conv.Converged)
		fmt.Printf("%-20s%15d\n", "Ionic steps", conv.IonicSteps)
		fmt.Printf("%-20s%15.2e\n", "Energy change (eV)", conv.EnergyChange)
		fmt.Printf("%-20s%15.4f\n", "Max force (eV/A)", conv.MaxForce)
		fmt.Printf("%-20s%15.4f\n", "RMS force (eV/A)", conv.RMSForce)
		return nil
	},
}

var dosCmd = &cobra.Command{
	Use:   "dos [dir]",
	Short: "analyze the density of states in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		da, err := NewDOSAnalysis(dir)
		if err != nil {
			return err
		}
		el := da.AnalyzeElectronicStructure()
		kind := "insulating"
		if el.Metal {
			kind = "metallic"
		}
		fmt.Printf("%-20s%15.4f\n", "Fermi energy (eV)", el.Fermi)
		fmt.Printf("%-20s%15.4f\n", "Band gap (eV)", el.BandGap)
		fmt.Printf("%-20s%15.4f\n", "DOS at E_F", el.DOSAtFermi)
		fmt.Printf("%-20s%15s\n", "Character", kind)
		fmt.Printf("%-20s%15.2f\n", "Valence electrons", el.ValenceElectrons)
		fmt.Printf("%-20s%15t\n", "Spin polarized", el.SpinPolarized)
		return nil
	},
}

var bandCmd = &cobra.Command{
	Use:   "band [dir]",
	Short: "locate band edges from an EIGENVAL file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		ext, err := BandReport(dir)
		if err != nil {
			return err
		}
		fmt.Printf("%-20s%15.4f\n", "VBM (eV)", ext.VBM)
		fmt.Printf("%-20s%15.4f\n", "CBM (eV)", ext.CBM)
		fmt.Printf("%-20s%15.4f\n", "Gap (eV)", ext.Gap)
		fmt.Printf("%-20s%15.4f\n", "Fermi energy (eV)", ext.Fermi)
		fmt.Printf("%-20s%15s\n", "Material", ext.Material)
		return nil
	},
}

var nebCmd = &cobra.Command{
	Use:   "neb [OUTCAR]",
	Short: "extract barriers from a nudged elastic band run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := "OUTCAR"
		if len(args) > 0 {
			file = args[0]
		}
		rep, err := AnalyzeNeb(file)
		if err != nil {
			return err
		}
		fmt.Printf("%-22s%13d\n", "Images", len(rep.Images))
		fmt.Printf("%-22s%13.4f\n", "Activation (eV)", rep.Activation)
		fmt.Printf("%-22s%13.4f\n", "Reaction energy (eV)", rep.Reaction)
		fmt.Printf("%-22s%13.4f\n", "Reverse barrier (eV)", rep.Reverse)
		fmt.Printf("%-22s%13d\n", "TS image", rep.TSIndex)
		fmt.Printf("%-22s%13s\n", "Kind", rep.Kind)
		fmt.Printf("%-22s%13t\n", "Converged", rep.Converged)
		return nil
	},
}

var mdCmd = &cobra.Command{
	Use:   "md [OUTCAR]",
	Short: "check the stability of a molecular dynamics run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := "OUTCAR"
		if len(args) > 0 {
			file = args[0]
		}
		traj, err := NewTraj(file)
		if err != nil {
			return err
		}
		rep := traj.Analyze(nil, nil)
		fmt.Printf("%-22s%13d\n", "Steps", rep.Steps)
		fmt.Printf("%-22s%13.6f\n", "Final energy (eV)", rep.FinalEnergy)
		fmt.Printf("%-22s%13.2e\n", "Drift (eV/step)", rep.EnergyDrift)
		fmt.Printf("%-22s%13t\n", "Energy stable", rep.EnergyStable)
		return nil
	},
}

var structCmd = &cobra.Command{
	Use:     "structure [POSCAR]",
	Aliases: []string{"poscar"},
	Short:   "describe a structure file",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := "POSCAR"
		if len(args) > 0 {
			file = args[0]
		}
		s, err := ReadPoscar(file)
		if err != nil {
			return err
		}
		lens := s.Lattice.Lengths()
		angs := s.Lattice.Angles()
		fmt.Printf("%-20s%15s\n", "Formula", s.Formula())
		fmt.Printf("%-20s%15d\n", "Atoms", s.NumAtoms())
		fmt.Printf("%-20s%15.4f\n", "Volume (A^3)", s.Volume())
		fmt.Printf("%-20s%15.4f\n", "Density (g/cm3)", s.Density())
		fmt.Printf("%-20s%15s\n", "Lattice", s.LatticeType())
		fmt.Printf("a, b, c      %10.4f %10.4f %10.4f\n", lens[0], lens[1], lens[2])
		fmt.Printf("angles       %10.2f %10.2f %10.2f\n", angs[0], angs[1], angs[2])
		return nil
	},
}

var compareTol float64

var compareCmd = &cobra.Command{
	Use:   "compare POSCAR CONTCAR",
	Short: "compare two structure files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := ReadPoscar(args[0])
		if err != nil {
			return err
		}
		b, err := ReadPoscar(args[1])
		if err != nil {
			return err
		}
		diff := CompareStructures(a, b, compareTol)
		fmt.Printf("%-24s%13t\n", "Same composition", diff.SameComposition)
		fmt.Printf("%-24s%13.4f\n", "Volume change (A^3)", diff.VolumeChange)
		fmt.Printf("%-24s%13.2f\n", "Volume change (%)", diff.VolumePercent)
		fmt.Printf("%-24s%13.4f\n", "Max displacement (A)", diff.MaxDisplacement)
		fmt.Printf("%-24s%13.4f\n", "Mean displacement (A)", diff.MeanDisplacement)
		fmt.Printf("%-24s%13t\n", "Significant", diff.Significant)
		return nil
	},
}

var (
	setupCalc string
	setupSets []string
	setupGrid string
)

var setupCmd = &cobra.Command{
	Use:   "setup [dir]",
	Short: "write INCAR and KPOINTS for a calculation type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		overrides := make(map[string]string)
		for _, s := range setupSets {
			kv := strings.SplitN(s, "=", 2)
			if len(kv) != 2 {
				return fmt.Errorf("bad --set %q, want KEY=VALUE", s)
			}
			overrides[kv[0]] = kv[1]
		}
		grid, err := parseGrid(setupGrid)
		if err != nil {
			return err
		}
		return WriteCalcInputs(dir, setupCalc, overrides, grid)
	},
}

var submitName string

var submitCmd = &cobra.Command{
	Use:   "submit [dir]",
	Short: "write a queue script and submit it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		name := submitName
		if name == "" {
			name = filepath.Base(abs)
		}
		job := &Job{
			Name:    name,
			Dir:     abs,
			VaspCmd: conf.VaspCmd,
			Queue:   conf.Queue,
			Nodes:   conf.Nodes,
			Cores:   conf.Cores,
			Time:    conf.Walltime,
			Mem:     conf.Memory,
		}
		script := filepath.Join(dir, "run.sh")
		if conf.Scheduler == "pbs" {
			err = WritePBS(script, job)
		} else {
			err = WriteSlurm(script, job)
		}
		if err != nil {
			return err
		}
		id, err := Submit(conf.Scheduler, script)
		if err != nil {
			return err
		}
		fmt.Printf("submitted %s as %s\n", name, id)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [dir...]",
	Short: "report how far each calculation directory has run",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := args
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		fmt.Printf("%-20s%10s%10s%8s%15s\n",
			"dir", "state", "conv", "steps", "energy")
		for _, dir := range dirs {
			st := CheckStatus(dir)
			state := "waiting"
			switch {
			case st.Finished:
				state = "done"
			case st.Started:
				state = "running"
			}
			energy := "-"
			if !math.IsNaN(st.Energy) {
				energy = fmt.Sprintf("%.6f", st.Energy)
			}
			fmt.Printf("%-20s%10s%10t%8d%15s\n",
				dir, state, st.Converged, st.IonicSteps, energy)
		}
		return nil
	},
}

func parseGrid(s string) (grid [3]int, err error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == 'x' || r == ' '
	})
	if len(parts) != 3 {
		return grid, fmt.Errorf("bad grid %q, want NxNxN", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return grid, fmt.Errorf("bad grid %q, want NxNxN", s)
		}
		grid[i] = n
	}
	return grid, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c",
		"pbvasp.yaml", "tool configuration file")
	compareCmd.Flags().Float64Var(&compareTol, "tol", 0.1,
		"displacement threshold in Angstrom")
	setupCmd.Flags().StringVar(&setupCalc, "calc", "relax",
		"calculation type: "+strings.Join(TemplateNames(), ", "))
	setupCmd.Flags().StringArrayVar(&setupSets, "set", nil,
		"override a tag, KEY=VALUE")
	setupCmd.Flags().StringVar(&setupGrid, "kpoints", "4x4x4",
		"gamma-centered k-point grid")
	submitCmd.Flags().StringVar(&submitName, "name", "", "job name")
	rootCmd.AddCommand(analyzeCmd, dosCmd, bandCmd, nebCmd, mdCmd,
		structCmd, compareCmd, setupCmd, submitCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
