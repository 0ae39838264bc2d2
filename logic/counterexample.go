package logic

import "fmt"

// A Counterexample explains why a formula evaluated to false. Its shape
// mirrors the shape of the failed formula, so the leaf that caused the
// failure can be located exactly.
//
// The variants are BotWitness, Fst, Snd, Either, Consequent, Negated,
// PredicateWitness, BoolWitness and Annotated.
type Counterexample interface {
	fmt.Stringer

	counterexample()
}

// BotWitness is the counterexample of Bot.
type BotWitness struct{}

// Fst wraps the counterexample of a failed left conjunct.
type Fst struct {
	CE Counterexample
}

// Snd wraps the counterexample of a failed right conjunct. The left
// conjunct held.
type Snd struct {
	CE Counterexample
}

// Either pairs the counterexamples of a disjunction whose disjuncts both
// failed.
type Either struct {
	L Counterexample
	R Counterexample
}

// Consequent wraps the counterexample of a failed consequent. The
// antecedent held.
type Consequent struct {
	CE Counterexample
}

// Negated wraps the counterexample of a failed negation: the negated
// formula held, and CE explains why its strong negation fails.
type Negated struct {
	CE Counterexample
}

// PredicateWitness carries the dual of a failed predicate, the comparison
// that holds instead of the one that was asserted.
type PredicateWitness struct {
	P Predicate
}

// BoolWitness is the counterexample of an embedded false boolean.
type BoolWitness struct{}

// Annotated carries the label of a failed annotated formula.
type Annotated struct {
	Label string
	CE    Counterexample
}

func (BotWitness) counterexample()       {}
func (Fst) counterexample()              {}
func (Snd) counterexample()              {}
func (Either) counterexample()           {}
func (Consequent) counterexample()       {}
func (Negated) counterexample()          {}
func (PredicateWitness) counterexample() {}
func (BoolWitness) counterexample()      {}
func (Annotated) counterexample()        {}

func (BotWitness) String() string {
	return "Bot"
}

func (c Fst) String() string {
	return fmt.Sprintf("Fst(%v)", c.CE)
}

func (c Snd) String() string {
	return fmt.Sprintf("Snd(%v)", c.CE)
}

func (c Either) String() string {
	return fmt.Sprintf("Either(%v, %v)", c.L, c.R)
}

func (c Consequent) String() string {
	return fmt.Sprintf("Consequent(%v)", c.CE)
}

func (c Negated) String() string {
	return fmt.Sprintf("Negated(%v)", c.CE)
}

func (c PredicateWitness) String() string {
	return c.P.String()
}

func (BoolWitness) String() string {
	return "false"
}

func (c Annotated) String() string {
	return fmt.Sprintf("%v: %v", c.Label, c.CE)
}
