package issue

import (
	"gverify/internal/smt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_ResultStatus(t *testing.T) {
	r := NewResult("C.m", "PostInv")
	r.Obligations, r.Proved = 2, 2
	assert.True(t, r.Closed())
	assert.Equal(t, "closed", r.Status())

	r.AddFailure("LoopPreserves", "(<= i n) ==> (< i n)", smt.NotProved)
	assert.False(t, r.Closed())
	assert.Equal(t, "open", r.Status())
	assert.True(t, strings.Contains(r.String(), "(<= i n) ==> (< i n)"))

	r.Unresolved = append(r.Unresolved, "[x := y!]")
	assert.Equal(t, "unfinished", r.Status())
}

func Test_ProbabilisticResult(t *testing.T) {
	r := NewResult("main", "PDL")
	r.Goal = "(>= p_0 0.5)"
	r.Equations = []string{"p_0 = 1.0"}
	assert.False(t, r.Closed())
	r.GoalHolds = smt.Proved
	assert.True(t, r.Closed())
	assert.True(t, strings.Contains(r.String(), "p_0 = 1.0"))
}

func Test_Summary(t *testing.T) {
	ok := NewResult("main", "PostInv")
	bad := NewResult("C.<init>", "PostInv")
	bad.AddFailure("Invariant", "true ==> false", smt.Undetermined)
	assert.Equal(t, Colour(31, "1/2 units closed\n"), Summary([]*Result{ok, bad}))
	assert.Equal(t, Colour(32, "1/1 units closed\n"), Summary([]*Result{ok}))
}

func Test_ErrorResult(t *testing.T) {
	r := NewResult("C.<init>", "PDL")
	r.Err = errors.New("unsupported construct: probabilistic proof of a class")
	assert.Equal(t, "error", r.Status())
	assert.True(t, strings.Contains(r.String(), "probabilistic proof of a class"))
}
