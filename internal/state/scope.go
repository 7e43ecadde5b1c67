package state

import (
	"fmt"
	"gverify/internal/syntax"
)

// ExceptionScope is an open try block: where a throw continues, what
// runs after the catch, and the obligation that was open at the try. A
// throw out of a loop body leaves the invariant obligation of the body
// behind and resumes with Target.
type ExceptionScope struct {
	Catch  syntax.Stmt
	Cont   syntax.Stmt
	Target DeductType
}

// ScopeStack is persistent: Push and Pop return new stacks and leave the
// receiver untouched, so sibling branches may share one.
type ScopeStack struct {
	stack []ExceptionScope
}

func NewScopeStack() *ScopeStack {
	return &ScopeStack{
		stack: make([]ExceptionScope, 0),
	}
}

func (ss *ScopeStack) Size() int {
	if ss == nil {
		return 0
	}
	return len(ss.stack)
}

func (ss *ScopeStack) Push(scope ExceptionScope) *ScopeStack {
	res := &ScopeStack{
		stack: make([]ExceptionScope, ss.Size(), ss.Size()+1),
	}
	if ss != nil {
		copy(res.stack, ss.stack)
	}
	res.stack = append(res.stack, scope)
	return res
}

func (ss *ScopeStack) Top() (ExceptionScope, error) {
	if ss.Size() == 0 {
		return ExceptionScope{}, fmt.Errorf("scope stack underflow")
	}
	return ss.stack[len(ss.stack)-1], nil
}

func (ss *ScopeStack) Pop() (ExceptionScope, *ScopeStack, error) {
	top, err := ss.Top()
	if err != nil {
		return ExceptionScope{}, ss, err
	}
	res := &ScopeStack{
		stack: make([]ExceptionScope, len(ss.stack)-1),
	}
	copy(res.stack, ss.stack)
	return top, res, nil
}
