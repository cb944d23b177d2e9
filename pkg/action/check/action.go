package check

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/cmmoran/tsync/pkg/action/generate"
	"github.com/cmmoran/tsync/pkg/tsync"
)

// ErrOutOfDate is returned when the output differs from a fresh render.
var ErrOutOfDate = errors.New("output is out of date")

// Diff renders the inputs in memory and compares the result with the current
// contents of opts.Output. An empty diff means the file is up to date. A
// missing output diffs against the empty string.
func Diff(fs afero.Fs, opts *tsync.Options, log *zap.Logger) (string, *generate.Result, error) {
	if opts.Output == "" {
		return "", nil, errors.WithHint(generate.ErrNoOutput, "check needs the --output file to compare against")
	}
	if err := generate.CheckOutput(fs, opts.Output); err != nil {
		return "", nil, err
	}
	res, err := generate.Render(fs, opts, log)
	if err != nil {
		return "", nil, err
	}

	current, err := afero.ReadFile(fs, opts.Output)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", res, errors.Wrapf(err, "read output %s", opts.Output)
	}

	return cmp.Diff(string(current), res.Output), res, nil
}

// Check is Diff that fails with ErrOutOfDate when the output needs regenerating.
func Check(fs afero.Fs, opts *tsync.Options, log *zap.Logger) (string, error) {
	diff, _, err := Diff(fs, opts, log)
	if err != nil {
		return "", err
	}
	if diff != "" {
		return diff, errors.WithHintf(errors.Wrapf(ErrOutOfDate, "%s", opts.Output),
			"run tsync generate with the same inputs to update %s", opts.Output)
	}
	return "", nil
}
