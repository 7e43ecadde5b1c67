package smt

import (
	"context"
	"gverify/internal/syntax"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Discharger proves closed obligations with an external solver. It also
// serves as the prover rules use to prune infeasible branches.
type Discharger struct {
	encoder *Encoder
	runner  *Runner
}

func NewDischarger(encoder *Encoder, runner *Runner) *Discharger {
	return &Discharger{
		encoder: encoder,
		runner:  runner,
	}
}

// Discharge checks ante => succ.
func (d *Discharger) Discharge(ctx context.Context, ante, succ syntax.Formula) (Verdict, error) {
	script, err := d.encoder.Generate(ante, succ)
	if err != nil {
		return NotProved, errors.Wrap(err, "generate script")
	}
	log.Debugf("solver script:\n%s", script)
	verdict, output, err := d.runner.Run(ctx, script)
	if err != nil {
		return verdict, err
	}
	log.Debugf("solver answered %q: %s", output, verdict)
	return verdict, nil
}

func (d *Discharger) Prove(ctx context.Context, ante, succ syntax.Formula) (bool, error) {
	verdict, err := d.Discharge(ctx, ante, succ)
	if err != nil {
		return false, err
	}
	return verdict == Proved, nil
}
