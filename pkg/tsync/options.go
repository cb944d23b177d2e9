package tsync

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// FormatTypescript is the only output format.
const FormatTypescript = "typescript"

// ErrUnsupportedFormat is returned by Normalize for any other format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Options control a generate or check run.
//
// Inputs           – files or directories to read (required)
// Output           – file to write; a .d.ts suffix selects ambient mode
// Debug            – print the result instead of writing it, verbose diagnostics
// EnableConstEnums – emit `const enum` for numeric enums
// Exclude          – glob patterns for walked files to skip
// Report           – optional YAML report path
// Ambient          – force ambient mode regardless of the output suffix
// Format           – output language, only "typescript"
type Options struct {
	Inputs           []string `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty" mapstructure:"input,omitempty"`
	Output           string   `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty" mapstructure:"output,omitempty"`
	Debug            bool     `json:"debug,omitempty" yaml:"debug,omitempty" toml:"debug,omitempty" mapstructure:"debug,omitempty"`
	EnableConstEnums bool     `json:"enable_const_enums,omitempty" yaml:"enable_const_enums,omitempty" toml:"enable_const_enums,omitempty" mapstructure:"enable_const_enums,omitempty"`
	Exclude          []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" mapstructure:"exclude,omitempty"`
	Report           string   `json:"report,omitempty" yaml:"report,omitempty" toml:"report,omitempty" mapstructure:"report,omitempty"`
	Ambient          bool     `json:"ambient,omitempty" yaml:"ambient,omitempty" toml:"ambient,omitempty" mapstructure:"ambient,omitempty"`
	Format           string   `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty" mapstructure:"format,omitempty"`
}

func NewOptions(opts ...Option) *Options {
	o := &Options{
		Format: FormatTypescript,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// Normalize cleans paths, drops blank entries and validates the format.
func (o *Options) Normalize() error {
	o.Inputs = cleanPaths(o.Inputs)
	if o.Output != "" {
		o.Output = filepath.Clean(strings.TrimSpace(o.Output))
	}
	if o.Report != "" {
		o.Report = filepath.Clean(strings.TrimSpace(o.Report))
	}
	exclude := o.Exclude[:0]
	for _, p := range o.Exclude {
		if p = strings.TrimSpace(p); p != "" {
			exclude = append(exclude, p)
		}
	}
	o.Exclude = exclude

	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		o.Format = FormatTypescript
	}
	if o.Format != FormatTypescript {
		return errors.WithHintf(errors.Wrapf(ErrUnsupportedFormat, "%q", o.Format),
			"the only supported format is %q", FormatTypescript)
	}
	return nil
}

// UsesTypeInterface reports whether output is an ambient declaration file:
// bare interfaces and types, declared enums, no consts.
func (o *Options) UsesTypeInterface() bool {
	return o.Ambient || strings.HasSuffix(o.Output, ".d.ts")
}

// Mode names the output mode for logs and reports.
func (o *Options) Mode() string {
	if o.UsesTypeInterface() {
		return "ambient"
	}
	return "module"
}

func cleanPaths(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, filepath.Clean(p))
		}
	}
	return out
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInput(paths ...string) Option {
	return func(o *Options) { o.Inputs = append(o.Inputs, paths...) }
}
func WithOutput(p string) Option   { return func(o *Options) { o.Output = p } }
func WithDebug() Option            { return func(o *Options) { o.Debug = true } }
func WithEnableConstEnums() Option { return func(o *Options) { o.EnableConstEnums = true } }
func WithReport(p string) Option   { return func(o *Options) { o.Report = p } }
func WithAmbient() Option          { return func(o *Options) { o.Ambient = true } }
func WithFormat(f string) Option   { return func(o *Options) { o.Format = f } }
func WithExclude(patterns ...string) Option {
	return func(o *Options) { o.Exclude = append(o.Exclude, patterns...) }
}
