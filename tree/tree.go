package tree

import (
	"fmt"
	"strings"
)

// A Tree is a prefix tree with a visit count per node, used to aggregate
// recorded command sequences. Each node counts how many sequences passed
// through it.
type Tree[T any] struct {
	payload  T
	parent   *Tree[T]
	children []*Tree[T]
	depth    int
	visits   int
	eq       func(a, b T) bool
}

func New[T any](payload T, eq func(a, b T) bool) Tree[T] {
	return Tree[T]{
		payload:  payload,
		parent:   nil,
		children: []*Tree[T]{},
		depth:    0,
		eq:       eq,
	}
}

// Returns the total number of nodes in the tree
func (t *Tree[T]) Len() int {
	n := 1
	for _, child := range t.children {
		n += child.Len()
	}
	return n
}

// Adds a new child with the provided payload as a child of the current node.
// Returns the child when done
func (t *Tree[T]) AddChild(payload T) *Tree[T] {
	treeNode := &Tree[T]{
		payload:  payload,
		parent:   t,
		children: []*Tree[T]{},
		depth:    t.depth + 1,
		eq:       t.eq,
	}
	t.children = append(t.children, treeNode)
	return treeNode
}

// Records a visit to the node itself
func (t *Tree[T]) Visit() {
	t.visits++
}

// Returns the child with the provided payload, creating it if it does not
// exist yet, and records a visit to it. This is the insertion step when
// recording a sequence into the tree
func (t *Tree[T]) VisitChild(payload T) *Tree[T] {
	child := t.GetChild(payload)
	if child == nil {
		child = t.AddChild(payload)
	}
	child.visits++
	return child
}

// Returns the first child node with the provided payload.
// If no such child node exists returns nil
func (t *Tree[T]) GetChild(payload T) *Tree[T] {
	for _, node := range t.Children() {
		if t.eq(payload, node.Payload()) {
			return node
		}
	}
	return nil
}

// String representation of a node and its descendants, one node per line
// with the visit count
func (t *Tree[T]) String() string {
	out := strings.Builder{}
	for i := 0; i < t.Depth(); i++ {
		out.WriteString("-")
	}
	out.WriteString(fmt.Sprintf("%v (%v)\n", t.Payload(), t.Visits()))
	for _, child := range t.Children() {
		out.WriteString(fmt.Sprintf("%v", child))
	}
	return out.String()
}

func (t *Tree[T]) IsRoot() bool {
	return t.Parent() == nil
}

func (t *Tree[T]) IsLeafNode() bool {
	return len(t.Children()) == 0
}

// Returns a slice of all leaf nodes that are a descendant of this tree node
func (t *Tree[T]) GetAllLeafNodes() []*Tree[T] {
	leafNodes := []*Tree[T]{}
	if t.IsLeafNode() {
		leafNodes = append(leafNodes, t)
		return leafNodes
	}
	for _, child := range t.Children() {
		leafNodes = append(leafNodes, child.GetAllLeafNodes()...)
	}
	return leafNodes
}

// Returns true if the search function is true for some node
// Performs a DFS to find the node
func (t *Tree[T]) DepthFirstSearch(search func(T) bool) bool {
	if search(t.Payload()) {
		return true
	}
	for _, child := range t.Children() {
		if child.DepthFirstSearch(search) {
			return true
		}
	}
	return false
}

func (t *Tree[T]) Payload() T {
	return t.payload
}

func (t *Tree[T]) Parent() *Tree[T] {
	return t.parent
}

func (t *Tree[T]) Depth() int {
	return t.depth
}

func (t *Tree[T]) Visits() int {
	return t.visits
}

func (t *Tree[T]) Children() []*Tree[T] {
	return t.children
}

// Newick representation of the tree with visit counts as branch lengths
func (t *Tree[T]) Newick() string {
	out := strings.Builder{}
	if len(t.Children()) > 0 {
		out.WriteString("(")
		for i, child := range t.Children() {
			if i > 0 {
				out.WriteString(",")
			}
			out.WriteString(child.Newick())
		}
		out.WriteString(")")
	}
	out.WriteString(fmt.Sprintf("\"%v\":%v", t.Payload(), t.Visits()))
	if t.IsRoot() {
		out.WriteString(";")
	}
	return out.String()
}
