package logic

import "testing"

func TestPredicateHolds(t *testing.T) {
	for i, test := range predicateTest {
		if got := test.p.Holds(); got != test.holds {
			t.Errorf("Test %v: Expected Holds() to be %v. Got: %v", i, test.holds, got)
		}
		if got := test.p.String(); got != test.rendered {
			t.Errorf("Test %v: Unexpected rendering of the predicate. Expected %v. Got: %v", i, test.rendered, got)
		}
	}
}

func TestPredicateDual(t *testing.T) {
	for i, test := range dualTest {
		if got := test.p.Op(); got != test.op {
			t.Errorf("Test %v: Unexpected comparison family. Expected %v. Got: %v", i, test.op, got)
		}
		d := test.p.Dual()
		if got := d.Op(); got != test.dual {
			t.Errorf("Test %v: Unexpected dual family. Expected %v. Got: %v", i, test.dual, got)
		}
		if d.Holds() == test.p.Holds() {
			t.Errorf("Test %v: Expected the dual to hold exactly when the predicate does not", i)
		}

		// Dualling twice must give back the original predicate
		dd := d.Dual()
		if got := dd.Op(); got != test.op {
			t.Errorf("Test %v: Expected the double dual to be in the original family. Got: %v", i, got)
		}
		if dd.Holds() != test.p.Holds() {
			t.Errorf("Test %v: Expected the double dual to hold exactly when the predicate does", i)
		}
	}
}

func TestPredicateFamilyIdentity(t *testing.T) {
	// Predicates are identified by comparison family alone, regardless of operands
	if Equals(1, 2).Op() != Equals("a", "a").Op() {
		t.Errorf("Expected two Equals predicates to share a family. Got: %v and %v", Equals(1, 2).Op(), Equals("a", "a").Op())
	}
	if Equals(1, 1).Op() == NotEquals(1, 1).Op() {
		t.Errorf("Expected Equals and NotEquals to be different families")
	}
}

var predicateTest = []struct {
	p        Predicate
	holds    bool
	rendered string
}{
	{Equals(1, 1), true, "1 == 1"},
	{Equals("a", "b"), false, "a == b"},
	{NotEquals(1, 2), true, "1 != 2"},
	{NotEquals(1, 1), false, "1 != 1"},
	{LessThan(1, 2), true, "1 < 2"},
	{LessThan(2, 2), false, "2 < 2"},
	{LessOrEqual(2, 2), true, "2 <= 2"},
	{LessOrEqual(3, 2), false, "3 <= 2"},
	{GreaterThan(3, 2), true, "3 > 2"},
	{GreaterThan(2, 2), false, "2 > 2"},
	{GreaterOrEqual(2, 2), true, "2 >= 2"},
	{GreaterOrEqual(1, 2), false, "1 >= 2"},
	{MemberOf(2, []int{1, 2, 3}), true, "2 in [1 2 3]"},
	{MemberOf(4, []int{1, 2, 3}), false, "4 in [1 2 3]"},
	{NotMemberOf(4, []int{1, 2, 3}), true, "4 not in [1 2 3]"},
	{NotMemberOf(2, []int{1, 2, 3}), false, "2 not in [1 2 3]"},
	{MemberOf(1, []int{}), false, "1 in []"},
}

var dualTest = []struct {
	p    Predicate
	op   Op
	dual Op
}{
	{Equals(1, 1), OpEqual, OpNotEqual},
	{NotEquals(1, 1), OpNotEqual, OpEqual},
	{LessThan(1, 2), OpLess, OpGreaterOrEqual},
	{LessOrEqual(1, 2), OpLessOrEqual, OpGreater},
	{GreaterThan(1, 2), OpGreater, OpLessOrEqual},
	{GreaterOrEqual(1, 2), OpGreaterOrEqual, OpLess},
	{MemberOf(1, []int{1, 2}), OpMember, OpNotMember},
	{NotMemberOf(3, []int{1, 2}), OpNotMember, OpMember},
}
