// Package source discovers the Rust files a run reads.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Extension is matched case-insensitively.
const Extension = ".rs"

// Missing is an input path, or an entry below one, that could not be read.
type Missing struct {
	Path string
	Err  error
}

// Walker expands input paths into Rust files in a stable order.
type Walker struct {
	fs       afero.Fs
	log      *zap.Logger
	patterns []string
	excludes []glob.Glob
}

// New compiles the exclude patterns. Patterns use '/' as the separator so
// `**/target/**` spans directories and `*.rs` stays within one.
func New(fs afero.Fs, log *zap.Logger, excludes ...string) (*Walker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Walker{fs: fs, log: log}
	for _, p := range excludes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "compile exclude pattern %q", p)
		}
		w.patterns = append(w.patterns, p)
		w.excludes = append(w.excludes, g)
	}
	return w, nil
}

// Collect returns the Rust files below inputs, in input order and, inside a
// directory, in lexicographic order. Every unreadable path is reported once
// in missing and never appears in files.
func (w *Walker) Collect(inputs []string) (files []string, missing []Missing) {
	for _, in := range inputs {
		info, err := w.fs.Stat(in)
		if err != nil {
			missing = append(missing, Missing{Path: in, Err: errors.Wrap(err, "stat input")})
			continue
		}
		if !info.IsDir() {
			if w.accept(in) {
				files = append(files, in)
			}
			continue
		}
		walkErr := afero.Walk(w.fs, in, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				missing = append(missing, Missing{Path: path, Err: errors.Wrap(err, "walk input")})
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				if path != in && w.excluded(path) {
					w.log.Debug("excluded directory", zap.String("file", path))
					return filepath.SkipDir
				}
				return nil
			}
			if info.Mode().IsRegular() && w.accept(path) {
				files = append(files, path)
			}
			return nil
		})
		if walkErr != nil {
			missing = append(missing, Missing{Path: in, Err: walkErr})
		}
	}
	return files, missing
}

func (w *Walker) accept(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return false
	}
	if w.excluded(path) {
		w.log.Debug("excluded file", zap.String("file", path))
		return false
	}
	return true
}

// excluded matches a pattern against the slash path and against the base
// name, so `*_test.rs` works without a leading `**/`.
func (w *Walker) excluded(path string) bool {
	slash := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range w.excludes {
		if g.Match(slash) || g.Match(base) {
			return true
		}
	}
	return false
}

// Patterns returns the compiled exclude patterns as given.
func (w *Walker) Patterns() []string { return w.patterns }
