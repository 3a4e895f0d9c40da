// Package config loads the mirror job file. Jobs are declared in YAML the
// same way CI build definitions are, one entry per mirrored repository.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultBranch is used when a job does not name a mirror branch.
const DefaultBranch = "master"

// Job is one mirror job declaration.
type Job struct {
	Name     string `yaml:"name"`
	Upstream string `yaml:"upstream"`
	Mirror   string `yaml:"mirror"`
	Branch   string `yaml:"branch"`
}

// File is the parsed mirror job file.
type File struct {
	Jobs []Job `yaml:"jobs"`
}

// Load reads and validates a mirror job file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses and validates mirror job file contents.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}

	seen := map[string]bool{}
	for i := range f.Jobs {
		job := &f.Jobs[i]
		if job.Name == "" {
			return nil, fmt.Errorf("job %d: name must not be empty", i)
		}
		if seen[job.Name] {
			return nil, fmt.Errorf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true
		if job.Upstream == "" {
			return nil, fmt.Errorf("job %q: upstream must not be empty", job.Name)
		}
		if job.Mirror == "" {
			return nil, fmt.Errorf("job %q: mirror must not be empty", job.Name)
		}
		if job.Branch == "" {
			job.Branch = DefaultBranch
		}
	}
	return &f, nil
}

// Job returns the named job.
func (f *File) Job(name string) (Job, bool) {
	for _, job := range f.Jobs {
		if job.Name == name {
			return job, true
		}
	}
	return Job{}, false
}

// Names returns all job names in declaration order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Jobs))
	for _, job := range f.Jobs {
		names = append(names, job.Name)
	}
	return names
}
