// Package issue 验证结果: 每个证明单元的结论与失败的分支
package issue

import (
	"fmt"
	"gverify/internal/smt"
	"strings"
	"time"
)

// Failure is one leaf that did not discharge to Proved.
type Failure struct {
	Info       string
	Obligation string
	Verdict    smt.Verdict
}

// Result is the outcome of one proof unit: a class initializer, a method
// or the main block.
type Result struct {
	Unit    string
	Variant string

	Obligations int
	Proved      int
	Failures    []Failure
	// Unresolved lists the modalities no rule applied to.
	Unresolved []string
	// Equations and Goal are set for probabilistic proofs.
	Equations []string
	Goal      string
	GoalHolds smt.Verdict
	// Err is an unsupported construct or malformed contract that stopped
	// the unit before any obligation was checked.
	Err error

	Duration time.Duration
}

func NewResult(unit, variant string) *Result {
	return &Result{
		Unit:       unit,
		Variant:    variant,
		Failures:   make([]Failure, 0),
		Unresolved: make([]string, 0),
	}
}

func (r *Result) AddFailure(info, obligation string, verdict smt.Verdict) {
	r.Failures = append(r.Failures, Failure{Info: info, Obligation: obligation, Verdict: verdict})
}

func (r *Result) Finished() bool {
	return r.Err == nil && len(r.Unresolved) == 0
}

// Closed reports whether the proof succeeded.
func (r *Result) Closed() bool {
	if !r.Finished() || len(r.Failures) > 0 {
		return false
	}
	if r.Goal != "" {
		return r.GoalHolds == smt.Proved
	}
	return true
}

func (r *Result) Status() string {
	switch {
	case r.Closed():
		return "closed"
	case r.Err != nil:
		return "error"
	case !r.Finished():
		return "unfinished"
	default:
		return "open"
	}
}

func (r *Result) String() string {
	var sb strings.Builder
	header := fmt.Sprintf("Unit: %s [%s]\nStatus: %s\nObligations: %d/%d proved\n",
		r.Unit, r.Variant, r.Status(), r.Proved, r.Obligations)
	if r.Closed() {
		header = Colour(32, header)
	} else {
		header = Colour(31, header)
	}
	sb.WriteString(header)
	if r.Err != nil {
		sb.WriteString(Colour(31, r.Err.Error()+"\n"))
	}

	if r.Goal != "" {
		eqs := fmt.Sprintf("Goal: %s (%s)\n", r.Goal, r.GoalHolds)
		for _, eq := range r.Equations {
			eqs += "  " + eq + "\n"
		}
		sb.WriteString(Colour(36, eqs))
	}
	for _, f := range r.Failures {
		sb.WriteString(Colour(33, fmt.Sprintf("%s: %s\n  %s\n", f.Verdict, f.Info, f.Obligation)))
	}
	for _, u := range r.Unresolved {
		sb.WriteString(Colour(35, "no rule applies:\n  "+strings.ReplaceAll(u, "\n", "\n  ")+"\n"))
	}
	fmt.Fprintf(&sb, "time used: %.3fs\n", r.Duration.Seconds())
	return sb.String()
}

// Summary counts closed units.
func Summary(results []*Result) string {
	closed := 0
	for _, r := range results {
		if r.Closed() {
			closed++
		}
	}
	line := fmt.Sprintf("%d/%d units closed\n", closed, len(results))
	if closed == len(results) {
		return Colour(32, line)
	}
	return Colour(31, line)
}

func Colour(color int, str string) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, str)
}
