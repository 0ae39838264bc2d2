// Package logic provides a small propositional logic for writing test
// postconditions.
//
// Formulas are built from comparison predicates and the usual connectives
// and evaluated to a Value. A false Value carries a structured
// counterexample locating the exact leaf that failed, which turns "the
// postcondition failed" into "expected x == y".
package logic

import "fmt"

// Logic is a propositional formula over predicates.
//
// The variants are Bot, Top, And, Or, Implies, Not, Bool, Annotate and
// Predicate. The set is closed: Evaluate handles exactly these.
type Logic interface {
	fmt.Stringer

	logicNode()
}

// Bot is the formula that always fails.
type Bot struct{}

// Top is the formula that always holds.
type Top struct{}

// And holds when both conjuncts hold.
type And struct {
	L Logic
	R Logic
}

// Or holds when at least one disjunct holds.
type Or struct {
	L Logic
	R Logic
}

// Implies holds when the antecedent fails or the consequent holds.
type Implies struct {
	L Logic
	R Logic
}

// Not holds when the negated formula fails.
type Not struct {
	F Logic
}

// Bool embeds a plain boolean as a formula.
type Bool struct {
	B bool
}

// Annotate attaches a label to a formula. The label is carried into the
// counterexample when the formula fails.
type Annotate struct {
	Label string
	F     Logic
}

func (Bot) logicNode()      {}
func (Top) logicNode()      {}
func (And) logicNode()      {}
func (Or) logicNode()       {}
func (Implies) logicNode()  {}
func (Not) logicNode()      {}
func (Bool) logicNode()     {}
func (Annotate) logicNode() {}

func (Bot) String() string {
	return "Bot"
}

func (Top) String() string {
	return "Top"
}

func (f And) String() string {
	return fmt.Sprintf("(%v && %v)", f.L, f.R)
}

func (f Or) String() string {
	return fmt.Sprintf("(%v || %v)", f.L, f.R)
}

func (f Implies) String() string {
	return fmt.Sprintf("(%v => %v)", f.L, f.R)
}

func (f Not) String() string {
	return fmt.Sprintf("!(%v)", f.F)
}

func (f Bool) String() string {
	return fmt.Sprintf("%v", f.B)
}

func (f Annotate) String() string {
	return fmt.Sprintf("%v: %v", f.Label, f.F)
}
