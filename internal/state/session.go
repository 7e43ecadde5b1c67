package state

import (
	"gverify/internal/syntax"
	"strconv"
	"sync/atomic"
)

// Session hands out fresh names for one verification unit. Every kind of
// fresh symbol draws from the same counter, so names never collide, and it
// is safe to share between goroutines.
type Session struct {
	counter int64
}

func NewSession() *Session {
	return &Session{}
}

// Reset starts numbering from zero again. Call it at the start of a unit.
func (s *Session) Reset() {
	atomic.StoreInt64(&s.counter, 0)
}

func (s *Session) next() string {
	return strconv.FormatInt(atomic.AddInt64(&s.counter, 1)-1, 10)
}

func (s *Session) FreshWildcard(t syntax.Type) syntax.WildCardVar {
	return syntax.WildCardVar{Name: "wc_" + s.next(), Type: t}
}

// FreshProbVar returns a real-valued probability variable p_N.
func (s *Session) FreshProbVar() syntax.ProgVar {
	return syntax.ProgVar{Name: "p_" + s.next(), Type: syntax.RealType}
}

func (s *Session) FreshObject(class string, implements []syntax.Type) syntax.ObjectTerm {
	return syntax.ObjectTerm{Name: "NEW_" + s.next(), Class: class, Implements: implements}
}

// FreshFuture names the future produced by an asynchronous call.
func (s *Session) FreshFuture() syntax.WildCardVar {
	return syntax.WildCardVar{Name: "fut_" + s.next(), Type: syntax.IntType}
}
