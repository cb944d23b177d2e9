package generator

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/tools/txtar"

	"github.com/cmmoran/tsync/internal/parser"
)

func TestGolden(ttt *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	require.NoError(ttt, err)
	require.NotEmpty(ttt, archives)

	for _, path := range archives {
		ar, err := txtar.ParseFile(path)
		require.NoError(ttt, err)

		files := map[string]string{}
		for _, f := range ar.Files {
			files[f.Name] = string(f.Data)
		}
		src, ok := files["rust.rs"]
		require.Truef(ttt, ok, "%s has no rust.rs", path)
		flags := strings.Fields(string(ar.Comment))

		for _, out := range []string{"typescript.d.ts", "typescript.ts"} {
			want, ok := files[out]
			if !ok {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(path), ".txtar") + "/" + out
			ttt.Run(name, func(t *testing.T) {
				cfg := Config{
					UsesTypeInterface: strings.HasSuffix(out, ".d.ts"),
					EnableConstEnums:  contains(flags, "enable-const-enums"),
				}
				got := generate(t, cfg, src)
				diff := cmp.Diff(want, got)
				require.EqualValuesf(t, want, got, "generate() diff = %s", diff)
			})
		}
	}
}

func generate(t *testing.T, cfg Config, src string) string {
	t.Helper()
	f, err := parser.Parse("rust.rs", src)
	require.NoError(t, err)
	g := New(cfg, zap.NewNop())
	g.ProcessFile(f)
	return g.Output()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestGenerateIsIdempotent(t *testing.T) {
	ar, err := txtar.ParseFile("testdata/enum.txtar")
	require.NoError(t, err)
	src := string(ar.Files[0].Data)

	for _, cfg := range []Config{{UsesTypeInterface: true}, {}} {
		first := generate(t, cfg, src)
		second := generate(t, cfg, src)
		require.Equal(t, first, second)
	}
}

func TestSkippedDeclarationsAreReported(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ar, err := txtar.ParseFile("testdata/skipped.txtar")
	require.NoError(t, err)

	f, err := parser.Parse("skipped.rs", string(ar.Files[0].Data))
	require.NoError(t, err)
	g := New(Config{UsesTypeInterface: true}, zap.New(core))
	g.ProcessFile(f)

	state := g.State()
	require.Equal(t, []string{"Partial", "StillHere"}, state.Emitted)
	require.Len(t, state.Skipped, 2)
	require.Equal(t, "Partial::Pair", state.Skipped[0].Declaration)
	require.Equal(t, "skipped.rs", state.Skipped[0].File)
	require.Equal(t, "FlattenedTuple", state.Skipped[1].Declaration)

	warnings := logs.FilterMessage("#[tsync] skipped").FilterLevelExact(zapcore.WarnLevel)
	require.Equal(t, 2, warnings.Len())
	require.Equal(t, "Partial::Pair", warnings.All()[0].ContextMap()["declaration"])
}

func TestConstSkips(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f, err := parser.Parse("c.rs", "#[tsync]\nconst A: u8 = 1 + 1;\n#[tsync]\nconst B: u8 = 1;\n")
	require.NoError(t, err)

	g := New(Config{}, zap.New(core))
	g.ProcessFile(f)
	require.Equal(t, []string{"B"}, g.State().Emitted)
	require.Len(t, g.State().Skipped, 1)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).FilterMessage("#[tsync] skipped").Len())

	ambient := New(Config{UsesTypeInterface: true}, zap.NewNop())
	ambient.ProcessFile(f)
	require.Empty(t, ambient.State().Emitted)
	require.Empty(t, ambient.State().Skipped)
	require.Equal(t, Marker+"\n", ambient.Output())
}

func TestDebugLogsEncounteredDeclarations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f, err := parser.Parse("d.rs", "#[tsync]\nstruct A;\nstruct B;\n")
	require.NoError(t, err)

	g := New(Config{Debug: true}, zap.New(core))
	g.ProcessFile(f)
	require.Equal(t, 1, logs.FilterMessage("encountered #[tsync] struct").Len())
	require.Equal(t, 1, logs.FilterMessage("encountered non-tsync struct").Len())
}

func TestMarkUnprocessed(t *testing.T) {
	g := New(Config{}, nil)
	g.MarkUnprocessed("missing.rs", nil)
	require.Equal(t, []string{"missing.rs"}, g.State().Unprocessed)
	require.Equal(t, Marker+"\n", g.Output())
}

func TestTraitObjectFieldsDoNotHideNeighbours(t *testing.T) {
	src := `
struct Hooks {
    cb: Box<dyn Fn(u8) -> u8 + Send>,
}

#[tsync]
struct Book { name: String }
`
	got := generate(t, Config{UsesTypeInterface: true}, src)
	require.Equal(t, Marker+"\n\ninterface Book {\n  name: string;\n}\n", got)
}

func TestNestedCommentsDoNotHideDeclarations(t *testing.T) {
	src := "/* outer /* nested */ still */\n#[tsync]\nstruct After { a: u8 }\n"
	got := generate(t, Config{UsesTypeInterface: true}, src)
	require.Equal(t, Marker+"\n\ninterface After {\n  a: number;\n}\n", got)
}
