package elab

import (
	"container/heap"
)

// Design is the root entity and every entity reachable from it, in
// discovery order.
type Design struct {
	Root     *Entity
	Entities []*Entity
}

func (d *Design) Entity(name string) *Entity {
	for _, e := range d.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Ordered returns the entities with every callee ahead of its callers.
// Among entities that are ready at the same time, the one discovered first
// goes first.
func (d *Design) Ordered() []*Entity {
	waiting := make(map[*Entity]int, len(d.Entities))
	callers := make(map[*Entity][]*Entity, len(d.Entities))
	ready := &discoveryQueue{}
	for _, e := range d.Entities {
		callees := e.Callees()
		waiting[e] = len(callees)
		for _, c := range callees {
			callers[c] = append(callers[c], e)
		}
		if len(callees) == 0 {
			heap.Push(ready, e)
		}
	}

	out := make([]*Entity, 0, len(d.Entities))
	for ready.Len() > 0 {
		e := heap.Pop(ready).(*Entity)
		out = append(out, e)
		for _, caller := range callers[e] {
			waiting[caller]--
			if waiting[caller] == 0 {
				heap.Push(ready, caller)
			}
		}
	}
	return out
}

// discoveryQueue is a min-heap of entities by discovery index.
type discoveryQueue []*Entity

func (q discoveryQueue) Len() int           { return len(q) }
func (q discoveryQueue) Less(i, j int) bool { return q[i].index < q[j].index }
func (q discoveryQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *discoveryQueue) Push(x any) { *q = append(*q, x.(*Entity)) }

func (q *discoveryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
