package generator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cmmoran/tsync/internal/model"
)

// Marker is the first line of every generated file. An existing output file
// is only overwritten when it starts with this line.
const Marker = "/* This file is generated and managed by tsync */"

// ErrUnsupported marks a declaration or variant that has no TypeScript
// rendering.
var ErrUnsupported = errors.New("unsupported construct")

// Config controls rendering. UsesTypeInterface selects ambient output
// (.d.ts): no export keywords, declare enums and no consts.
type Config struct {
	Debug             bool
	UsesTypeInterface bool
	EnableConstEnums  bool
}

// Skip records something that was left out of the output.
type Skip struct {
	File        string `json:"file" yaml:"file"`
	Declaration string `json:"declaration" yaml:"declaration"`
	Reason      string `json:"reason" yaml:"reason"`
}

// State is everything one run produces.
type State struct {
	Types       strings.Builder
	Unprocessed []string
	Emitted     []string
	Skipped     []Skip
}

// Generator drains parsed files into a single TypeScript buffer.
type Generator struct {
	cfg   Config
	log   *zap.Logger
	state *State
}

// New returns a Generator whose buffer already holds the marker line.
func New(cfg Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Generator{cfg: cfg, log: log, state: &State{}}
	g.state.Types.WriteString(Marker)
	g.state.Types.WriteString("\n")
	return g
}

// State returns the accumulated run state.
func (g *Generator) State() *State { return g.state }

// Output returns the generated file content.
func (g *Generator) Output() string { return g.state.Types.String() }

// MarkUnprocessed records an input that could not be read or parsed.
func (g *Generator) MarkUnprocessed(path string, err error) {
	g.log.Debug("unprocessed input", zap.String("file", path), zap.Error(err))
	g.state.Unprocessed = append(g.state.Unprocessed, path)
}

// ProcessFile emits every #[tsync] declaration of f in source order.
func (g *Generator) ProcessFile(f *model.File) {
	if g.cfg.Debug {
		g.log.Debug("processing rust file", zap.String("file", f.Path))
	}
	for _, d := range f.Declarations {
		g.processDeclaration(f.Path, d)
	}
}

func (g *Generator) processDeclaration(file string, d model.Declaration) {
	name := stripRaw(d.Ident())
	if !HasMarker(d.Attributes()) {
		if g.cfg.Debug {
			g.log.Debug("encountered non-tsync "+d.Kind().String(), zap.String("declaration", name))
		}
		return
	}
	if g.cfg.Debug {
		g.log.Debug("encountered #[tsync] "+d.Kind().String(), zap.String("declaration", name))
	}

	e := &emitter{
		cfg: g.cfg,
		out: &g.state.Types,
		skipVariant: func(variant, reason string) {
			g.skip(zapcore.WarnLevel, file, name+"::"+variant, reason)
		},
	}

	var err error
	switch d := d.(type) {
	case *model.Struct:
		err = e.writeStruct(d)
	case *model.Enum:
		err = e.writeEnum(d)
	case *model.TypeAlias:
		err = e.writeTypeAlias(d)
	case *model.Const:
		if g.cfg.UsesTypeInterface {
			g.log.Debug("const skipped in ambient output", zap.String("declaration", name))
			return
		}
		if err = e.writeConst(d); err != nil {
			g.skip(zapcore.DebugLevel, file, name, err.Error())
			return
		}
	}
	if err != nil {
		g.skip(zapcore.WarnLevel, file, name, err.Error())
		return
	}
	g.state.Emitted = append(g.state.Emitted, name)
}

func (g *Generator) skip(level zapcore.Level, file, declaration, reason string) {
	g.log.Log(level, "#[tsync] skipped",
		zap.String("file", file),
		zap.String("declaration", declaration),
		zap.String("reason", reason),
	)
	g.state.Skipped = append(g.state.Skipped, Skip{File: file, Declaration: declaration, Reason: reason})
}

// emitter writes one declaration. It is built per declaration and never
// outlives the call.
type emitter struct {
	cfg         Config
	out         *strings.Builder
	skipVariant func(variant, reason string)
}

func (e *emitter) export() string {
	if e.cfg.UsesTypeInterface {
		return ""
	}
	return "export "
}

func (e *emitter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

// writeComments renders doc comments as a JSDoc block at the given indent.
func (e *emitter) writeComments(comments []string, indent int) {
	pad := strings.Repeat(" ", indent)
	switch len(comments) {
	case 0:
	case 1:
		e.printf("%s/** %s */\n", pad, comments[0])
	default:
		e.printf("%s/**\n", pad)
		for _, c := range comments {
			e.printf("%s * %s\n", pad, c)
		}
		e.printf("%s */\n", pad)
	}
}

func unsupported(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnsupported)
}

func renderGenerics(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}
