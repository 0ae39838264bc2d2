package logic

// All is the conjunction of the given formulas, associated to the right.
// The conjunction of no formulas is Top.
func All(fs ...Logic) Logic {
	switch len(fs) {
	case 0:
		return Top{}
	case 1:
		return fs[0]
	default:
		return And{L: fs[0], R: All(fs[1:]...)}
	}
}

// Any is the disjunction of the given formulas, associated to the right.
// The disjunction of no formulas is Bot.
func Any(fs ...Logic) Logic {
	switch len(fs) {
	case 0:
		return Bot{}
	case 1:
		return fs[0]
	default:
		return Or{L: fs[0], R: Any(fs[1:]...)}
	}
}

// ForAll is the conjunction of f over the elements of xs. The empty
// sequence quantifies to Top. f is applied to every element when the
// formula is built; evaluation still stops at the first element that
// fails.
func ForAll[T any](xs []T, f func(T) Logic) Logic {
	fs := make([]Logic, len(xs))
	for i, x := range xs {
		fs[i] = f(x)
	}
	return All(fs...)
}

// Exists is the disjunction of f over the elements of xs. The empty
// sequence quantifies to Bot.
func Exists[T any](xs []T, f func(T) Logic) Logic {
	fs := make([]Logic, len(xs))
	for i, x := range xs {
		fs[i] = f(x)
	}
	return Any(fs...)
}
