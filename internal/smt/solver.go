package smt

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// Solver is an in-process yices2 context. Nonlinear real arithmetic needs
// the QF_NRA configuration, which selects the MCSAT solver.
type Solver struct {
	cfg yices2.ConfigT
	ctx yices2.ContextT
}

func NewSolver(logic string) (*Solver, error) {
	s := &Solver{
		cfg: yices2.ConfigT{},
		ctx: yices2.ContextT{},
	}
	yices2.InitConfig(&s.cfg)
	if logic != "" {
		if errcode := yices2.DefaultConfigForLogic(s.cfg, logic); errcode < 0 {
			yices2.CloseConfig(&s.cfg)
			return nil, fmt.Errorf("configure %s: %s", logic, yices2.ErrorString())
		}
	}
	yices2.InitContext(s.cfg, &s.ctx)
	return s, nil
}

func (s *Solver) Close() {
	yices2.CloseContext(&s.ctx)
	yices2.CloseConfig(&s.cfg)
}

func (s *Solver) Check(terms ...yices2.TermT) (yices2.SmtStatusT, *yices2.ModelT, error) {
	errorcode := yices2.AssertFormulas(s.ctx, terms)
	if errorcode < 0 {
		return yices2.StatusError, nil, fmt.Errorf("%s", yices2.ErrorString())
	}
	status := yices2.CheckContext(s.ctx, yices2.ParamT{})
	switch status {
	case yices2.StatusSat:
		return status, yices2.GetModel(s.ctx, 1), nil
	case yices2.StatusUnsat:
		fallthrough
	case yices2.StatusIdle:
		fallthrough
	case yices2.StatusSearching:
		fallthrough
	case yices2.StatusInterrupted:
		fallthrough
	case yices2.StatusError:
		return status, nil, nil
	}
	return yices2.StatusError, nil, nil
}

func (s *Solver) GetFloat64Value(model *yices2.ModelT, term yices2.TermT) (float64, error) {
	var val float64
	errcode := yices2.GetFloat64Value(*model, term, &val)
	if errcode != 0 {
		return 0, fmt.Errorf(yices2.ErrorString())
	}
	return val, nil
}
