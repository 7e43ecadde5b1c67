package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Default(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "z3", cfg.SolverPath)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, BackendScript, cfg.EquationBackend)
	assert.NoError(t, cfg.Validate())
}

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gverify.yaml")
	content := "solver: cvc5\nsolver_args: [--lang, smt2]\ntimeout: 5s\nequation_backend: YICES\nconcise_proofs: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cvc5", cfg.SolverPath)
	assert.Equal(t, []string{"--lang", "smt2"}, cfg.SolverArgs)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, BackendYices, cfg.EquationBackend)
	assert.True(t, cfg.ConciseProofs)
	assert.Equal(t, Default().Workers, cfg.Workers)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "z3", cfg.SolverPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func Test_Validate(t *testing.T) {
	cfg := Default()
	cfg.EquationBackend = "lp"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Workers = -2
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Workers)
}

func Test_FlagsOverride(t *testing.T) {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	var f Flags
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{"--timeout", "2s", "--fail-fast"}))

	cfg := Default()
	cfg.SolverPath = "cvc5"
	require.NoError(t, f.Apply(cfg))
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, "cvc5", cfg.SolverPath)
}
