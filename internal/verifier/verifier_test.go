package verifier

import (
	"context"
	"gverify/internal/config"
	"gverify/internal/deduct"
	"gverify/internal/frontend"
	"gverify/internal/model"
	"gverify/internal/prob"
	"gverify/internal/smt"
	"gverify/internal/syntax"
	"gverify/internal/tree"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDischarger proves the formulas whose SMT text it was given, or
// everything when all is set.
type fakeDischarger struct {
	all   bool
	valid map[string]bool

	mu    sync.Mutex
	calls int
}

func (d *fakeDischarger) Prove(_ context.Context, ante, succ syntax.Formula) (bool, error) {
	if _, ok := succ.(syntax.False); ok {
		return d.valid[ante.ToSMT()], nil
	}
	return d.valid[succ.ToSMT()], nil
}

func (d *fakeDischarger) Discharge(_ context.Context, _, succ syntax.Formula) (smt.Verdict, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.all || d.valid[succ.ToSMT()] {
		return smt.Proved, nil
	}
	return smt.NotProved, nil
}

type fakeEquations struct {
	eqs     []string
	goal    string
	verdict smt.Verdict
}

func (f *fakeEquations) Solve(_ context.Context, eqs []tree.Equation, goal prob.Goal) (smt.Verdict, error) {
	for _, eq := range eqs {
		f.eqs = append(f.eqs, eq.Formula().ToSMT())
	}
	f.goal = goal.Formula().ToSMT()
	return f.verdict, nil
}

const straightLine = `
classes:
  - name: Counter
    fields: [{name: n, type: Int}]
    invariant: "(>= n 0)"
    init: [{assign: [n, "0"]}]
    methods:
      - name: inc
        ensures: "(>= n 1)"
        body: [{assign: [n, "(+ n 1)"]}]
main:
  vars: [{name: x, type: Int}, {name: y, type: Int}]
  ensures: "(= y 2)"
  body:
    - assign: [x, "1"]
    - assign: [y, "(+ x 1)"]
`

const bernoulli = `
main:
  vars: [{name: x, type: Int}]
  ensures: "(= x 1)"
  prob: "0.5"
  bound: "="
  body:
    - assign: [x, "0"]
    - prob: {weight: "0.5", then: [{assign: [x, "1"]}], else: [{assign: [x, "0"]}]}
`

func newVerifier(t *testing.T, variant deduct.Variant, d *fakeDischarger) *Verifier {
	cfg := config.Default()
	cfg.Workers = 2
	v := New(cfg, variant)
	v.discharge = func(*model.Repository) Discharger { return d }
	return v
}

func parse(t *testing.T, text string) *model.Repository {
	repo, err := frontend.Parse("unit", []byte(text))
	require.NoError(t, err)
	return repo
}

func Test_Units(t *testing.T) {
	repo := parse(t, straightLine)
	names := make([]string, 0)
	for _, u := range Units(repo.Model()) {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Counter.<init>", "Counter.inc", "main"}, names)
	assert.Len(t, selected(Units(repo.Model()), []string{"main"}), 1)
}

func Test_RunClosesValidUnits(t *testing.T) {
	d := &fakeDischarger{all: true}
	results, err := newVerifier(t, deduct.PostInv, d).Run(context.Background(), parse(t, straightLine))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Closed(), r.Unit)
		assert.Equal(t, r.Obligations, r.Proved)
		assert.Equal(t, "postinv", r.Variant)
	}
	total := 0
	for _, r := range results {
		total += r.Obligations
	}
	assert.Equal(t, total, d.calls)
}

func Test_RunReportsFailures(t *testing.T) {
	d := &fakeDischarger{}
	results, err := newVerifier(t, deduct.PostInv, d).Run(context.Background(), parse(t, straightLine), "main")
	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "main", r.Unit)
	assert.False(t, r.Closed())
	assert.Equal(t, "open", r.Status())
	assert.Len(t, r.Failures, r.Obligations)
	assert.NotZero(t, r.Obligations)
}

func Test_FailFastStopsAtFirstOpenUnit(t *testing.T) {
	v := newVerifier(t, deduct.PostInv, &fakeDischarger{})
	v.cfg.FailFast = true
	results, err := v.Run(context.Background(), parse(t, straightLine))
	assert.Error(t, err)
	assert.Len(t, results, 1)
}

func Test_RunUnknownUnit(t *testing.T) {
	_, err := newVerifier(t, deduct.PostInv, &fakeDischarger{}).Run(context.Background(), parse(t, straightLine), "nope")
	assert.Error(t, err)
}

func Test_ProbabilisticRun(t *testing.T) {
	d := &fakeDischarger{valid: map[string]bool{"(= 1 1)": true, "(not (= 0 1))": true}}
	v := newVerifier(t, deduct.PDL, d)
	eqs := &fakeEquations{verdict: smt.Proved}
	v.equations = eqs

	results, err := v.Run(context.Background(), parse(t, bernoulli))
	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "(= p_0 0.5)", eqs.goal)
	assert.Equal(t, []string{
		"(= p_0 (+ (* 0.5 p_1) (* (- 1.0 0.5) p_2)))",
		"(= p_1 1.0)",
		"(= p_2 0.0)",
	}, eqs.eqs)
	assert.Equal(t, "p_0 = 0.5", r.Goal)
	assert.Len(t, r.Equations, 3)
	assert.True(t, r.Closed())
}

func Test_ProbabilisticRunRejectsClasses(t *testing.T) {
	v := newVerifier(t, deduct.PDL, &fakeDischarger{})
	v.equations = &fakeEquations{}
	results, err := v.Run(context.Background(), parse(t, straightLine), "Counter.<init>")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, syntax.IsUnsupported(results[0].Err))
	assert.Equal(t, "error", results[0].Status())
}
