package logic

// A Value is the result of evaluating a formula. A false Value carries the
// counterexample explaining the failure.
type Value struct {
	OK             bool
	Counterexample Counterexample
}

// True is the result of a formula that holds.
var True = Value{OK: true}

// False is the result of a formula that fails with counterexample ce.
func False(ce Counterexample) Value {
	return Value{Counterexample: ce}
}

// StrongNegate returns the negation of a formula with Not pushed down to
// the leaves. Connectives flip by De Morgan's laws, predicates flip to
// their dual, and an implication negates to its antecedent conjoined with
// the negated consequent. Annotations stay in place.
//
// Evaluating the strong negation yields false exactly when evaluating the
// formula yields true.
func StrongNegate(f Logic) Logic {
	switch f := f.(type) {
	case Bot:
		return Top{}
	case Top:
		return Bot{}
	case And:
		return Or{L: StrongNegate(f.L), R: StrongNegate(f.R)}
	case Or:
		return And{L: StrongNegate(f.L), R: StrongNegate(f.R)}
	case Implies:
		return And{L: f.L, R: StrongNegate(f.R)}
	case Not:
		return f.F
	case Bool:
		return Bool{B: !f.B}
	case Predicate:
		return f.Dual()
	case Annotate:
		return Annotate{Label: f.Label, F: StrongNegate(f.F)}
	default:
		return Bot{}
	}
}

// Evaluate reduces a formula to a Value.
//
// Evaluation short-circuits: the right conjunct of a failed And and the
// consequent of a vacuous Implies are never evaluated. A failed Or retains
// the counterexamples of both disjuncts. Not evaluates the strong negation
// of its operand, so counterexamples never contain an unevaluated
// negation.
func Evaluate(f Logic) Value {
	switch f := f.(type) {
	case Bot:
		return False(BotWitness{})
	case Top:
		return True
	case And:
		if l := Evaluate(f.L); !l.OK {
			return False(Fst{CE: l.Counterexample})
		}
		if r := Evaluate(f.R); !r.OK {
			return False(Snd{CE: r.Counterexample})
		}
		return True
	case Or:
		l := Evaluate(f.L)
		if l.OK {
			return True
		}
		r := Evaluate(f.R)
		if r.OK {
			return True
		}
		return False(Either{L: l.Counterexample, R: r.Counterexample})
	case Implies:
		if l := Evaluate(f.L); !l.OK {
			return True
		}
		if r := Evaluate(f.R); !r.OK {
			return False(Consequent{CE: r.Counterexample})
		}
		return True
	case Not:
		v := Evaluate(StrongNegate(f.F))
		if v.OK {
			return True
		}
		return False(Negated{CE: v.Counterexample})
	case Bool:
		if f.B {
			return True
		}
		return False(BoolWitness{})
	case Predicate:
		if f.Holds() {
			return True
		}
		return False(PredicateWitness{P: f.Dual()})
	case Annotate:
		v := Evaluate(f.F)
		if v.OK {
			return True
		}
		return False(Annotated{Label: f.Label, CE: v.Counterexample})
	default:
		return False(BotWitness{})
	}
}

// Boolean reports whether a formula holds, discarding the counterexample.
func Boolean(f Logic) bool {
	return Evaluate(f).OK
}
