package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"
	"time"
)

// Job holds the information for a queue submission script
type Job struct {
	Name    string
	Dir     string
	VaspCmd string
	Queue   string
	Nodes   int
	Cores   int
	Time    string
	Mem     string
}

const slurmScript = `#!/bin/bash
#SBATCH --job-name={{.Name}}
#SBATCH --nodes={{.Nodes}}
#SBATCH --ntasks-per-node={{.Cores}}
#SBATCH --time={{.Time}}
#SBATCH --mem={{.Mem}}
#SBATCH --output={{.Name}}.out
{{- if .Queue}}
#SBATCH --partition={{.Queue}}
{{- end}}

cd {{.Dir}}

date
srun {{.VaspCmd}}
date
`

const pbsScript = `#!/bin/sh
#PBS -N {{.Name}}
#PBS -S /bin/bash
#PBS -j oe
#PBS -o {{.Name}}.out
#PBS -W umask=022
#PBS -l walltime={{.Time}}
#PBS -l nodes={{.Nodes}}:ppn={{.Cores}}
#PBS -l mem={{.Mem}}
{{- if .Queue}}
#PBS -q {{.Queue}}
{{- end}}

cd $PBS_O_WORKDIR

date
mpirun -np {{.Cores}} {{.VaspCmd}}
date
`

var (
	slurmTmpl = template.Must(template.New("slurm").Parse(slurmScript))
	pbsTmpl   = template.Must(template.New("pbs").Parse(pbsScript))
)

// WriteSlurm writes a Slurm submission script for job to filename
func WriteSlurm(filename string, job *Job) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return slurmTmpl.Execute(f, job)
}

// WritePBS writes a PBS submission script for job to filename
func WritePBS(filename string, job *Job) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return pbsTmpl.Execute(f, job)
}

// Submit submits the script at filename and returns the job id. It is
// a variable so tests can stub out the queue.
var Submit = func(scheduler, filename string) (string, error) {
	var (
		maxRetries = 5
		maxTime    = 1 << maxRetries
	)
	prog := "sbatch"
	if scheduler == "pbs" {
		prog = "qsub"
	}
	out, err := exec.Command(prog, filename).Output()
	for i := maxRetries; i >= 0 && err != nil; i-- {
		fmt.Fprintf(os.Stderr, "Submit: having trouble submitting %s with %v\n",
			filename, err)
		time.Sleep(time.Second * time.Duration(maxTime>>i))
		out, err = exec.Command(prog, filename).Output()
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(
		strings.ReplaceAll(string(out), "Submitted batch job ", "")), nil
}

// JobStatus summarizes the state of a calculation directory from its
// output file
type JobStatus struct {
	Dir        string
	Started    bool
	Finished   bool
	Converged  bool
	IonicSteps int
	Energy     float64
}

// CheckStatus inspects dir/OUTCAR to report how far a calculation got.
// A missing OUTCAR means the job has not started.
func CheckStatus(dir string) JobStatus {
	st := JobStatus{Dir: dir, Energy: brokenFloat}
	rec, err := ParseOutcar(dir+"/OUTCAR", Lenient)
	if err != nil {
		return st
	}
	st.Started = true
	st.Converged = rec.Converged
	st.IonicSteps = rec.IonicSteps
	st.Energy = rec.TotalEnergy
	// elapsed time is only printed when the run terminated cleanly
	_, st.Finished = rec.Timing["elapsed_time"]
	return st
}
