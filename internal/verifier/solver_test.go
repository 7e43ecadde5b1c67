package verifier

import (
	"context"
	"gverify/internal/config"
	"gverify/internal/deduct"
	"gverify/internal/syntax"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countingLoop = `
main:
  vars: [{name: i, type: Int}, {name: n, type: Int}]
  requires: "(<= i n)"
  ensures: "(= i n)"
  body:
    - while: {cond: "(< i n)", invariant: "(<= i n)", body: [{assign: [i, "(+ i 1)"]}]}
`

const strongLoop = `
main:
  vars: [{name: i, type: Int}, {name: n, type: Int}]
  requires: "(< i n)"
  ensures: "(= i n)"
  body:
    - while: {cond: "(< i n)", invariant: "(< i n)", body: [{assign: [i, "(+ i 1)"]}]}
`

// z3Verifier runs the real discharger against z3 on the PATH.
func z3Verifier(t *testing.T) *Verifier {
	path, err := exec.LookPath("z3")
	if err != nil {
		t.Skip("z3 not installed")
	}
	cfg := config.Default()
	cfg.SolverPath = path
	cfg.Timeout = 10 * time.Second
	cfg.TmpDir = t.TempDir()
	cfg.Workers = 2
	require.NoError(t, cfg.Validate())
	return New(cfg, deduct.PostInv)
}

func Test_Z3StraightLine(t *testing.T) {
	v := z3Verifier(t)
	results, err := v.Run(context.Background(), parse(t, straightLine), "main")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Closed(), results[0].Failures)
	assert.Equal(t, "closed", results[0].Status())
}

func Test_Z3CountingLoop(t *testing.T) {
	v := z3Verifier(t)
	results, err := v.Run(context.Background(), parse(t, countingLoop))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Closed(), results[0].Failures)
}

func Test_Z3TooStrongInvariantStaysOpen(t *testing.T) {
	v := z3Verifier(t)
	results, err := v.Run(context.Background(), parse(t, strongLoop))
	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.False(t, r.Closed())
	assert.Equal(t, "open", r.Status())
	require.Len(t, r.Failures, 1)
	assert.True(t, strings.Contains(r.Failures[0].Obligation, "wc_"), r.Failures[0].Obligation)
}

func Test_Z3PrunesContradictoryBranch(t *testing.T) {
	v := z3Verifier(t)
	d := v.discharge(parse(t, countingLoop))
	var (
		i   = syntax.ProgVar{Name: "i", Type: syntax.IntType}
		n   = syntax.ProgVar{Name: "n", Type: syntax.IntType}
		yes = syntax.Predicate{Name: "<", Params: []syntax.Term{i, n}}
	)
	infeasible, err := d.Prove(context.Background(), syntax.Conj(yes, syntax.Neg(yes)), syntax.False{})
	require.NoError(t, err)
	assert.True(t, infeasible)

	infeasible, err = d.Prove(context.Background(), yes, syntax.False{})
	require.NoError(t, err)
	assert.False(t, infeasible)
}
