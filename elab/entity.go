package elab

import (
	"strconv"

	"github.com/panyam/svlog/decl"
)

// PortClass splits ports into the two lists an entity signature has.
type PortClass int

const (
	ClassInput PortClass = iota
	ClassOutput
)

func (c PortClass) String() string {
	if c == ClassOutput {
		return "output"
	}
	return "input"
}

// classOf maps a port direction onto the entity signature. Ports with no
// known direction count as inputs.
func classOf(dir decl.Direction) PortClass {
	switch dir {
	case decl.DirOutput, decl.DirInout:
		return ClassOutput
	}
	return ClassInput
}

type EntityPort struct {
	Name  string // empty for unnamed ports such as {a, b}
	Index int
	Type  *decl.Type
	Dir   decl.Direction
	Class PortClass
}

// DisplayName is the name used in the design graph; unnamed ports use
// their position.
func (p *EntityPort) DisplayName() string {
	if p.Name == "" {
		return strconv.Itoa(p.Index)
	}
	return p.Name
}

// InstStmt is one instance inside an entity. Conns is aligned with the
// callee's ports; a nil entry is an unconnected port.
type InstStmt struct {
	Name   string
	Pos    decl.Location
	Callee *Entity
	Conns  []decl.Expr
}

// Entity is one module specialized against one parameter key.
type Entity struct {
	Name   string
	Module string
	Key    Key
	Ports  []*EntityPort
	Insts  []*InstStmt

	// index is the discovery order within one elaboration run.
	index int
}

func (e *Entity) Inputs() []*EntityPort  { return e.portsOf(ClassInput) }
func (e *Entity) Outputs() []*EntityPort { return e.portsOf(ClassOutput) }

func (e *Entity) portsOf(class PortClass) (out []*EntityPort) {
	for _, p := range e.Ports {
		if p.Class == class {
			out = append(out, p)
		}
	}
	return
}

func (e *Entity) Port(name string) *EntityPort {
	for _, p := range e.Ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Callees lists the distinct entities this one instantiates, in first
// instance order.
func (e *Entity) Callees() (out []*Entity) {
	seen := map[*Entity]bool{}
	for _, inst := range e.Insts {
		if !seen[inst.Callee] {
			seen[inst.Callee] = true
			out = append(out, inst.Callee)
		}
	}
	return
}

func (e *Entity) String() string { return "@" + e.Name }
