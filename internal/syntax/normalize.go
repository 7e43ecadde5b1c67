package syntax

// Normalize right-associates every sequence in s, so (a;b);c becomes
// a;(b;c) and rules only ever look at a single leading statement.
func Normalize(s Stmt) Stmt {
	switch v := s.(type) {
	case SeqStmt:
		if inner, ok := v.First.(SeqStmt); ok {
			return Normalize(SeqStmt{
				First:  inner.First,
				Second: SeqStmt{First: inner.Second, Second: v.Second},
			})
		}
		return SeqStmt{First: Normalize(v.First), Second: Normalize(v.Second)}
	case IfStmt:
		return IfStmt{Guard: v.Guard, Then: Normalize(v.Then), Else: Normalize(v.Else)}
	case DemonicIfStmt:
		return DemonicIfStmt{Then: Normalize(v.Then), Else: Normalize(v.Else)}
	case ProbIfStmt:
		return ProbIfStmt{Weight: v.Weight, Then: Normalize(v.Then), Else: Normalize(v.Else)}
	case WhileStmt:
		return WhileStmt{Guard: v.Guard, Body: Normalize(v.Body), ID: v.ID, Invariant: v.Invariant}
	case TryStmt:
		return TryStmt{Body: Normalize(v.Body), Catch: Normalize(v.Catch)}
	}
	return s
}

// AppendStmt runs tail after s, keeping the result normalized when s is.
func AppendStmt(s, tail Stmt) Stmt {
	if seq, ok := s.(SeqStmt); ok {
		return SeqStmt{First: seq.First, Second: AppendStmt(seq.Second, tail)}
	}
	return SeqStmt{First: s, Second: tail}
}

// Head splits s into its leading statement and the rest, which is nil
// when s is a single statement.
func Head(s Stmt) (Stmt, Stmt) {
	if seq, ok := s.(SeqStmt); ok {
		return seq.First, seq.Second
	}
	return s, nil
}
