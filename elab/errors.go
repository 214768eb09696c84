package elab

import (
	"fmt"
	"strings"

	"github.com/panyam/svlog/decl"
)

type ErrorKind int

const (
	KindMismatch ErrorKind = iota + 1
	UnresolvedParam
	ForwardReference
	UnknownName
	CyclicInstantiation
	UnknownModule
	TooManyParams
	NoSuchParam
	DuplicateParam
	PortMapping
	ConstEval
	InvalidType
	InvalidOverride
)

var kindNames = map[ErrorKind]string{
	KindMismatch:        "kind mismatch",
	UnresolvedParam:     "unresolved parameter",
	ForwardReference:    "forward reference",
	UnknownName:         "unknown name",
	CyclicInstantiation: "cyclic instantiation",
	UnknownModule:       "unknown module",
	TooManyParams:       "too many parameters",
	NoSuchParam:         "no such parameter",
	DuplicateParam:      "duplicate parameter",
	PortMapping:         "port mapping",
	ConstEval:           "constant evaluation",
	InvalidType:         "invalid type",
	InvalidOverride:     "invalid override",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a structural elaboration error. Module, Param and Index locate
// the failure where they apply; Index is -1 when there is no position.
type Error struct {
	Kind   ErrorKind
	Module string
	Param  string
	Index  int
	Pos    decl.Location
	Msg    string
	Notes  []string
}

func Errorf(kind ErrorKind, pos decl.Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Index: -1, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) inModule(name string) *Error {
	e.Module = name
	return e
}

func (e *Error) forParam(name string, index int) *Error {
	e.Param = name
	e.Index = index
	return e
}

func (e *Error) withNote(format string, args ...any) *Error {
	e.Notes = append(e.Notes, fmt.Sprintf(format, args...))
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Pos.IsValid() {
		sb.WriteString(e.Pos.LineColStr())
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	for _, n := range e.Notes {
		sb.WriteString("\n  note: ")
		sb.WriteString(n)
	}
	return sb.String()
}
