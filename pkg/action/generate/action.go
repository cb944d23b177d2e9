package generate

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/cmmoran/tsync/internal/generator"
	"github.com/cmmoran/tsync/internal/parser"
	"github.com/cmmoran/tsync/internal/source"
	"github.com/cmmoran/tsync/pkg/report"
	"github.com/cmmoran/tsync/pkg/tsync"
)

var (
	ErrNoInput           = errors.New("no input paths")
	ErrNoOutput          = errors.New("no output path")
	ErrOutputNotManaged  = errors.New("output file is not managed by tsync")
	ErrOutputIsDirectory = errors.New("output path is a directory")
)

// Result is what a run produced, whether or not it was written.
type Result struct {
	Output  string
	Files   []string
	State   *generator.State
	Written bool
}

// Render reads every input and returns the generated file without touching
// the output path. Unreadable and unparsable files end up in
// Result.State.Unprocessed.
func Render(fs afero.Fs, opts *tsync.Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.Inputs) == 0 {
		return nil, errors.WithHint(ErrNoInput, "pass at least one --input file or directory")
	}
	w, err := source.New(fs, log, opts.Exclude...)
	if err != nil {
		return nil, err
	}

	g := generator.New(generator.Config{
		Debug:             opts.Debug,
		UsesTypeInterface: opts.UsesTypeInterface(),
		EnableConstEnums:  opts.EnableConstEnums,
	}, log)

	files, missing := w.Collect(opts.Inputs)
	for _, m := range missing {
		g.MarkUnprocessed(m.Path, m.Err)
	}
	for _, path := range files {
		f, err := parser.ParseFile(fs, path)
		if err != nil {
			g.MarkUnprocessed(path, err)
			continue
		}
		g.ProcessFile(f)
	}
	log.Debug("rendered",
		zap.String("mode", opts.Mode()),
		zap.Int("files", len(files)),
		zap.Strings("exclude", w.Patterns()),
		zap.Int("emitted", len(g.State().Emitted)),
	)

	return &Result{Output: g.Output(), Files: files, State: g.State()}, nil
}

// Generate renders the inputs and writes the result to opts.Output. In debug
// mode nothing is written. A report is saved when opts.Report is set.
func Generate(fs afero.Fs, opts *tsync.Options, log *zap.Logger) (*Result, error) {
	if !opts.Debug && opts.Output == "" {
		return nil, errors.WithHint(ErrNoOutput, "pass --output, or --debug for a dry run")
	}
	res, err := Render(fs, opts, log)
	if err != nil {
		return nil, err
	}
	if !opts.Debug {
		if err := Write(fs, opts.Output, res.Output); err != nil {
			return res, err
		}
		res.Written = true
	}
	if opts.Report != "" {
		if err := NewReport(opts, res).Save(fs, opts.Report); err != nil {
			return res, err
		}
	}
	return res, nil
}

// CheckOutput verifies that path is safe to overwrite: it does not exist, or
// it is a regular file whose first line is the tsync marker.
func CheckOutput(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "stat output %s", path)
	}
	if info.IsDir() {
		return errors.WithHintf(errors.Wrapf(ErrOutputIsDirectory, "%s", path),
			"point --output at a file such as %s", filepath.Join(path, "types.d.ts"))
	}
	f, err := fs.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open output %s", path)
	}
	defer func() { _ = f.Close() }()

	first, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "read output %s", path)
	}
	if strings.TrimSpace(first) != generator.Marker {
		return errors.WithHintf(errors.Wrapf(ErrOutputNotManaged, "%s", path),
			"tsync only overwrites files starting with %q; delete the file or choose another output", generator.Marker)
	}
	return nil
}

// Write replaces path with content after CheckOutput passes.
func Write(fs afero.Fs, path, content string) error {
	if err := CheckOutput(fs, path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "write output %s", path)
	}
	return nil
}

// NewReport describes res for the YAML run report.
func NewReport(opts *tsync.Options, res *Result) *report.Report {
	r := &report.Report{
		Output:      opts.Output,
		Mode:        opts.Mode(),
		Inputs:      opts.Inputs,
		Files:       res.Files,
		Emitted:     res.State.Emitted,
		Unprocessed: res.State.Unprocessed,
	}
	if r.Emitted == nil {
		r.Emitted = []string{}
	}
	for _, s := range res.State.Skipped {
		r.Skipped = append(r.Skipped, report.Skipped{File: s.File, Declaration: s.Declaration, Reason: s.Reason})
	}
	return r
}
