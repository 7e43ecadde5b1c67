package syntax

import "fmt"

type Stmt interface {
	Anything
	isStmt()
}

type SkipStmt struct{}

func (SkipStmt) isStmt()              {}
func (SkipStmt) PrettyPrint() string  { return "skip" }
func (SkipStmt) Children() []Anything { return nil }

// SeqStmt is right-associated after Normalize.
type SeqStmt struct {
	First, Second Stmt
}

func (SeqStmt) isStmt()                {}
func (s SeqStmt) PrettyPrint() string  { return s.First.PrettyPrint() + ";\n" + s.Second.PrettyPrint() }
func (s SeqStmt) Children() []Anything { return []Anything{s.First, s.Second} }

// Seq chains stmts right-associatively; an empty list is skip.
func Seq(stmts ...Stmt) Stmt {
	if len(stmts) == 0 {
		return SkipStmt{}
	}
	res := stmts[len(stmts)-1]
	for i := len(stmts) - 2; i >= 0; i-- {
		res = SeqStmt{First: stmts[i], Second: res}
	}
	return res
}

// ScopeMarker closes the scope of a branch body.
type ScopeMarker struct{}

func (ScopeMarker) isStmt()              {}
func (ScopeMarker) PrettyPrint() string  { return "}" }
func (ScopeMarker) Children() []Anything { return nil }

type AssignStmt struct {
	Lhs   Location
	Value Expr
}

func (AssignStmt) isStmt()                {}
func (s AssignStmt) PrettyPrint() string  { return s.Lhs.PrettyPrint() + " = " + s.Value.PrettyPrint() }
func (s AssignStmt) Children() []Anything { return []Anything{s.Lhs, s.Value} }

// AllocateStmt assigns a fresh object; Value is a NewExpr.
type AllocateStmt struct {
	Lhs   Location
	Value Expr
}

func (AllocateStmt) isStmt()                {}
func (s AllocateStmt) PrettyPrint() string  { return s.Lhs.PrettyPrint() + " = " + s.Value.PrettyPrint() }
func (s AllocateStmt) Children() []Anything { return []Anything{s.Lhs, s.Value} }

// CallStmt stores the future of an asynchronous call; Call is a CallExpr.
type CallStmt struct {
	Lhs  Location
	Call Expr
}

func (CallStmt) isStmt()                {}
func (s CallStmt) PrettyPrint() string  { return s.Lhs.PrettyPrint() + " = " + s.Call.PrettyPrint() }
func (s CallStmt) Children() []Anything { return []Anything{s.Lhs, s.Call} }

// SyncCallStmt assigns the result of a SyncCallExpr.
type SyncCallStmt struct {
	Lhs  Location
	Call Expr
}

func (SyncCallStmt) isStmt()                {}
func (s SyncCallStmt) PrettyPrint() string  { return s.Lhs.PrettyPrint() + " = " + s.Call.PrettyPrint() }
func (s SyncCallStmt) Children() []Anything { return []Anything{s.Lhs, s.Call} }

// GetStmt reads the value of a resolved future.
type GetStmt struct {
	Lhs    Location
	Future Expr
}

func (GetStmt) isStmt()                {}
func (s GetStmt) PrettyPrint() string  { return s.Lhs.PrettyPrint() + " = " + s.Future.PrettyPrint() + ".get" }
func (s GetStmt) Children() []Anything { return []Anything{s.Lhs, s.Future} }

type ReturnStmt struct {
	Value Expr
}

func (ReturnStmt) isStmt()                {}
func (s ReturnStmt) PrettyPrint() string  { return "return " + s.Value.PrettyPrint() }
func (s ReturnStmt) Children() []Anything { return []Anything{s.Value} }

type IfStmt struct {
	Guard      Expr
	Then, Else Stmt
}

func (IfStmt) isStmt() {}
func (s IfStmt) PrettyPrint() string {
	return "if( " + s.Guard.PrettyPrint() + " ){ " + s.Then.PrettyPrint() + " } else { " + s.Else.PrettyPrint() + " }"
}
func (s IfStmt) Children() []Anything { return []Anything{s.Guard, s.Then, s.Else} }

// DemonicIfStmt leaves the choice of branch to an adversary.
type DemonicIfStmt struct {
	Then, Else Stmt
}

func (DemonicIfStmt) isStmt() {}
func (s DemonicIfStmt) PrettyPrint() string {
	return "demonic{ " + s.Then.PrettyPrint() + " } or { " + s.Else.PrettyPrint() + " }"
}
func (s DemonicIfStmt) Children() []Anything { return []Anything{s.Then, s.Else} }

// ProbIfStmt takes Then with probability Weight and Else otherwise.
type ProbIfStmt struct {
	Weight     Expr
	Then, Else Stmt
}

func (ProbIfStmt) isStmt() {}
func (s ProbIfStmt) PrettyPrint() string {
	return s.Weight.PrettyPrint() + " ? { " + s.Then.PrettyPrint() + " } : { " + s.Else.PrettyPrint() + " }"
}
func (s ProbIfStmt) Children() []Anything { return []Anything{s.Weight, s.Then, s.Else} }

// ProgramPoint tags a loop so its proof obligations can be told apart.
type ProgramPoint interface {
	Anything
	isPP()
}

type PP struct {
	ID int
}

func (PP) isPP()                  {}
func (p PP) PrettyPrint() string  { return fmt.Sprintf("pp:%d", p.ID) }
func (p PP) Children() []Anything { return nil }

// WhileStmt is summarized by its invariant, never unrolled.
type WhileStmt struct {
	Guard     Expr
	Body      Stmt
	ID        ProgramPoint
	Invariant Formula
}

func (WhileStmt) isStmt() {}
func (s WhileStmt) PrettyPrint() string {
	inv := "true"
	if s.Invariant != nil {
		inv = s.Invariant.PrettyPrint()
	}
	return fmt.Sprintf("while( %s ){ %s }@%s inv: %s", s.Guard.PrettyPrint(), s.Body.PrettyPrint(), s.ID.PrettyPrint(), inv)
}
func (s WhileStmt) Children() []Anything {
	return []Anything{s.Guard, s.Body, s.ID, s.Invariant}
}

// TryStmt opens an exception scope around Body.
type TryStmt struct {
	Body, Catch Stmt
}

func (TryStmt) isStmt() {}
func (s TryStmt) PrettyPrint() string {
	return "try{ " + s.Body.PrettyPrint() + " } catch { " + s.Catch.PrettyPrint() + " }"
}
func (s TryStmt) Children() []Anything { return []Anything{s.Body, s.Catch} }

// TryPopStmt leaves the innermost exception scope.
type TryPopStmt struct{}

func (TryPopStmt) isStmt()              {}
func (TryPopStmt) PrettyPrint() string  { return "tryPop" }
func (TryPopStmt) Children() []Anything { return nil }

type ThrowStmt struct {
	Value Expr
}

func (ThrowStmt) isStmt()                {}
func (s ThrowStmt) PrettyPrint() string  { return "throw " + s.Value.PrettyPrint() }
func (s ThrowStmt) Children() []Anything { return []Anything{s.Value} }
