package tree

import (
	"fmt"
	"gverify/internal/syntax"
)

type InfoKind int

const (
	NoInfo InfoKind = iota
	InfoInvariant
	InfoMethodPrecondition
	InfoLoopInitial
	InfoLoopPreserves
	InfoLoopUse
	InfoIfThen
	InfoIfElse
	InfoLocAssign
	InfoGetAssign
	InfoCallAssign
	InfoSyncCallAssign
	InfoObjAlloc
	InfoReturn
	InfoSkip
	InfoSkipEnd
	InfoScopeClose
	InfoProbSplit
	InfoDemonic
	InfoDivByZero
	InfoTry
	InfoThrow
)

var infoNames = map[InfoKind]string{
	NoInfo:                 "NoInfo",
	InfoInvariant:          "Invariant",
	InfoMethodPrecondition: "MethodPrecondition",
	InfoLoopInitial:        "LoopInitial",
	InfoLoopPreserves:      "LoopPreserves",
	InfoLoopUse:            "LoopUse",
	InfoIfThen:             "IfThen",
	InfoIfElse:             "IfElse",
	InfoLocAssign:          "LocAssign",
	InfoGetAssign:          "GetAssign",
	InfoCallAssign:         "CallAssign",
	InfoSyncCallAssign:     "SyncCallAssign",
	InfoObjAlloc:           "ObjAlloc",
	InfoReturn:             "Return",
	InfoSkip:               "Skip",
	InfoSkipEnd:            "SkipEnd",
	InfoScopeClose:         "ScopeClose",
	InfoProbSplit:          "ProbSplit",
	InfoDemonic:            "Demonic",
	InfoDivByZero:          "DivByZero",
	InfoTry:                "Try",
	InfoThrow:              "Throw",
}

func (k InfoKind) String() string {
	if name, ok := infoNames[k]; ok {
		return name
	}
	return fmt.Sprintf("InfoKind(%d)", int(k))
}

// Obligation names one formula a leaf has to establish.
type Obligation struct {
	Name    string
	Formula syntax.Formula
}

// NodeInfo describes a rule application for diagnostics only; it never
// influences the proof.
type NodeInfo struct {
	Kind        InfoKind
	Text        string
	Obligations []Obligation
	// Significant marks branches proving something other than the main
	// postcondition, such as loop invariants or absence of faults.
	Significant bool
	// Anon marks branches whose state was anonymized.
	Anon bool
}

func Info(kind InfoKind, text string, obligations ...Obligation) NodeInfo {
	info := NodeInfo{Kind: kind, Text: text, Obligations: obligations}
	switch kind {
	case InfoInvariant, InfoMethodPrecondition, InfoLoopInitial, InfoLoopPreserves, InfoDivByZero:
		info.Significant = true
	}
	switch kind {
	case InfoLoopPreserves, InfoLoopUse, InfoSyncCallAssign:
		info.Anon = true
	}
	return info
}

func (info NodeInfo) String() string {
	if info.Text == "" {
		return info.Kind.String()
	}
	return info.Kind.String() + ": " + info.Text
}
