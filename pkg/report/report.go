package report

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Skipped is a declaration, or one variant of it, left out of the output.
type Skipped struct {
	File        string `yaml:"file" json:"file"`
	Declaration string `yaml:"declaration" json:"declaration"`
	Reason      string `yaml:"reason" json:"reason"`
}

// Report summarises one generate run.
type Report struct {
	Output      string    `yaml:"output" json:"output"`
	Mode        string    `yaml:"mode" json:"mode"`
	Inputs      []string  `yaml:"inputs" json:"inputs"`
	Files       []string  `yaml:"files,omitempty" json:"files,omitempty"`
	Emitted     []string  `yaml:"emitted" json:"emitted"`
	Skipped     []Skipped `yaml:"skipped,omitempty" json:"skipped,omitempty"`
	Unprocessed []string  `yaml:"unprocessed,omitempty" json:"unprocessed,omitempty"`
}

// Load reads a report from the provided path. If the file does not exist,
// an empty report is returned.
func Load(fs afero.Fs, path string) (*Report, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return &Report{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read report")
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "unmarshal report")
	}

	return &r, nil
}

// Save writes the report to the provided path, creating parent directories as needed.
func (r *Report) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create report directory")
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrap(err, "write report")
	}

	return nil
}

// Clean reports whether every input was processed and nothing was skipped.
func (r *Report) Clean() bool {
	return len(r.Skipped) == 0 && len(r.Unprocessed) == 0
}
