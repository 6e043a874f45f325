package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tool configuration, loaded from a YAML file. Every
// field has a workable default so the file is optional.
type Config struct {
	VaspCmd   string `yaml:"vasp_cmd"`
	PotcarDir string `yaml:"potcar_dir"`
	Scheduler string `yaml:"scheduler"`
	Queue     string `yaml:"queue"`
	Nodes     int    `yaml:"nodes"`
	Cores     int    `yaml:"cores"`
	Walltime  string `yaml:"walltime"`
	Memory    string `yaml:"memory"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		VaspCmd:   "vasp_std",
		Scheduler: "slurm",
		Nodes:     1,
		Cores:     32,
		Walltime:  "24:00:00",
		Memory:    "64gb",
	}
}

// LoadConfig reads filename over the defaults. A missing file returns
// the defaults unchanged.
func LoadConfig(filename string) (Config, error) {
	conf := DefaultConfig()
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return conf, nil
	} else if err != nil {
		return conf, err
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, err
	}
	if conf.Nodes < 1 {
		conf.Nodes = 1
	}
	if conf.Cores < 1 {
		conf.Cores = 1
	}
	return conf, nil
}

// Save writes the configuration as YAML
func (c Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
