package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := &Report{
		Output:      "web/types.d.ts",
		Mode:        "ambient",
		Inputs:      []string{"src"},
		Files:       []string{"src/lib.rs"},
		Emitted:     []string{"Book", "Shape"},
		Skipped:     []Skipped{{File: "src/lib.rs", Declaration: "Pair", Reason: "tuple struct with flattened fields"}},
		Unprocessed: []string{"src/broken.rs"},
	}
	require.NoError(t, r.Save(fs, "out/report/tsync.yaml"))

	data, err := afero.ReadFile(fs, "out/report/tsync.yaml")
	require.NoError(t, err)
	require.Contains(t, string(data), "mode: ambient\n")
	require.Contains(t, string(data), "declaration: Pair\n")

	got, err := Load(fs, "out/report/tsync.yaml")
	require.NoError(t, err)
	diff := cmp.Diff(r, got)
	require.Emptyf(t, diff, "Load() diff = %s", diff)
	require.False(t, got.Clean())
}

func TestLoadMissing(t *testing.T) {
	got, err := Load(afero.NewMemMapFs(), "nope.yaml")
	require.NoError(t, err)
	require.Equal(t, &Report{}, got)
	require.True(t, got.Clean())
}

func TestLoadInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("emitted: {"), 0o644))
	_, err := Load(fs, "bad.yaml")
	require.Error(t, err)
}
