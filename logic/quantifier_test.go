package logic

import "testing"

func TestForAllEmpty(t *testing.T) {
	f := func(int) Logic { panic("applied to an element of an empty sequence") }
	if !Boolean(ForAll(nil, f)) {
		t.Errorf("Expected quantifying over the empty sequence to hold")
	}
}

func TestExistsEmpty(t *testing.T) {
	f := func(int) Logic { panic("applied to an element of an empty sequence") }
	if Boolean(Exists(nil, f)) {
		t.Errorf("Expected no witness in the empty sequence")
	}
}

func TestForAll(t *testing.T) {
	below := func(x int) Logic { return LessThan(x, 3) }
	if !Boolean(ForAll([]int{0, 1, 2}, below)) {
		t.Errorf("Expected all elements to satisfy the predicate")
	}

	v := Evaluate(ForAll([]int{1, 5, 2}, below))
	if v.OK {
		t.Fatalf("Expected the quantification to fail on the second element")
	}
	// The counterexample points at the failing element
	if got := v.Counterexample.String(); got != "Snd(Fst(5 >= 3))" {
		t.Errorf("Unexpected counterexample. Expected Snd(Fst(5 >= 3)). Got: %v", got)
	}
}

func TestExists(t *testing.T) {
	isTwo := func(x int) Logic { return Equals(x, 2) }
	if !Boolean(Exists([]int{1, 2, 3}, isTwo)) {
		t.Errorf("Expected to find a witness")
	}

	v := Evaluate(Exists([]int{1, 3}, isTwo))
	if v.OK {
		t.Fatalf("Expected no witness among the elements")
	}
	// Both failed disjuncts are retained
	if got := v.Counterexample.String(); got != "Either(1 != 2, 3 != 2)" {
		t.Errorf("Unexpected counterexample. Expected Either(1 != 2, 3 != 2). Got: %v", got)
	}
}

func TestForAllOrder(t *testing.T) {
	// Elements are visited in sequence order when the formula is built
	applied := []int{}
	f := func(x int) Logic {
		applied = append(applied, x)
		return Top{}
	}
	ForAll([]int{3, 1, 2}, f)
	if len(applied) != 3 || applied[0] != 3 || applied[1] != 1 || applied[2] != 2 {
		t.Errorf("Expected elements to be visited in order. Got: %v", applied)
	}
}

func TestAllAny(t *testing.T) {
	if !Boolean(All()) {
		t.Errorf("Expected the empty conjunction to hold")
	}
	if Boolean(Any()) {
		t.Errorf("Expected the empty disjunction to fail")
	}
	if Boolean(All(Top{}, Bot{}, Top{})) {
		t.Errorf("Expected a conjunction with a false conjunct to fail")
	}
	if !Boolean(Any(Bot{}, Top{})) {
		t.Errorf("Expected a disjunction with a true disjunct to hold")
	}
}
