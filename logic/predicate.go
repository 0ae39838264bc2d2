package logic

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Op identifies the comparison family of a Predicate.
type Op string

const (
	OpEqual          Op = "=="
	OpNotEqual       Op = "!="
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
	OpMember         Op = "in"
	OpNotMember      Op = "not in"
)

// Returns the comparison family of the negated predicate.
// Dualling is involutive: o.dual().dual() == o.
func (o Op) dual() Op {
	switch o {
	case OpEqual:
		return OpNotEqual
	case OpNotEqual:
		return OpEqual
	case OpLess:
		return OpGreaterOrEqual
	case OpLessOrEqual:
		return OpGreater
	case OpGreater:
		return OpLessOrEqual
	case OpGreaterOrEqual:
		return OpLess
	case OpMember:
		return OpNotMember
	case OpNotMember:
		return OpMember
	default:
		return o
	}
}

// A Predicate is an atomic comparison between concrete values.
//
// The operand type is erased at construction. Both the comparison and its
// complement are captured as closures, so taking the dual never needs to
// recover the erased type and stays type safe.
//
// A predicate is identified by its comparison family alone: key and
// compare predicates by Op(), under which two OpEqual predicates over
// different operands are the same predicate. This is intended for
// tabulating predicates by family, not for semantic comparison.
type Predicate struct {
	op         Op
	holds      func() bool
	complement func() bool
	operands   func() (string, string)
}

// Op returns the comparison family of the predicate.
func (p Predicate) Op() Op {
	return p.op
}

// Dual returns the negated predicate within the same comparison family
// (Equal and NotEqual, Less and GreaterOrEqual, Member and NotMember, and
// so on). The dual of the dual behaves exactly as the original predicate.
func (p Predicate) Dual() Predicate {
	return Predicate{
		op:         p.op.dual(),
		holds:      p.complement,
		complement: p.holds,
		operands:   p.operands,
	}
}

// Holds reports whether the concrete comparison is true.
func (p Predicate) Holds() bool {
	return p.holds()
}

func (p Predicate) String() string {
	left, right := p.operands()
	return fmt.Sprintf("%v %v %v", left, p.op, right)
}

func (Predicate) logicNode() {}

func comparison[T any](op Op, x, y T, holds, complement func() bool) Predicate {
	return Predicate{
		op:         op,
		holds:      holds,
		complement: complement,
		operands: func() (string, string) {
			return fmt.Sprint(x), fmt.Sprint(y)
		},
	}
}

// Equals is the predicate that x and y are equal.
func Equals[T comparable](x, y T) Predicate {
	return comparison(OpEqual, x, y,
		func() bool { return x == y },
		func() bool { return x != y },
	)
}

// NotEquals is the predicate that x and y are not equal.
func NotEquals[T comparable](x, y T) Predicate {
	return Equals(x, y).Dual()
}

// LessThan is the predicate that x is strictly less than y.
func LessThan[T constraints.Ordered](x, y T) Predicate {
	return comparison(OpLess, x, y,
		func() bool { return x < y },
		func() bool { return x >= y },
	)
}

// LessOrEqual is the predicate that x is at most y.
func LessOrEqual[T constraints.Ordered](x, y T) Predicate {
	return comparison(OpLessOrEqual, x, y,
		func() bool { return x <= y },
		func() bool { return x > y },
	)
}

// GreaterThan is the predicate that x is strictly greater than y.
func GreaterThan[T constraints.Ordered](x, y T) Predicate {
	return LessOrEqual(x, y).Dual()
}

// GreaterOrEqual is the predicate that x is at least y.
func GreaterOrEqual[T constraints.Ordered](x, y T) Predicate {
	return LessThan(x, y).Dual()
}

// MemberOf is the predicate that x occurs in xs.
func MemberOf[T comparable](x T, xs []T) Predicate {
	member := func() bool {
		for _, e := range xs {
			if e == x {
				return true
			}
		}
		return false
	}
	return Predicate{
		op:         OpMember,
		holds:      member,
		complement: func() bool { return !member() },
		operands: func() (string, string) {
			return fmt.Sprint(x), fmt.Sprint(xs)
		},
	}
}

// NotMemberOf is the predicate that x does not occur in xs.
func NotMemberOf[T comparable](x T, xs []T) Predicate {
	return MemberOf(x, xs).Dual()
}
